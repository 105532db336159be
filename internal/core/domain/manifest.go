package domain

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"slices"
	"strings"
)

// DefaultManifestPath is the conventional dependency manifest location inside the build context.
const DefaultManifestPath = "requirements.txt"

// Operator is a version comparison operator.
type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpCompatible   Operator = "~="
	OpArbitrary    Operator = "==="
)

// Specifier is a single version constraint such as ">=4.2" or "==3.*".
type Specifier struct {
	Op       Operator
	Version  string
	Wildcard bool
}

func (s Specifier) String() string {
	if s.Wildcard {
		return string(s.Op) + s.Version + ".*"
	}
	return string(s.Op) + s.Version
}

var specifierPattern = regexp.MustCompile(`^(===|==|!=|>=|<=|~=|>|<)\s*([^\s,;]+)$`)

// ParseSpecifier parses one specifier clause.
func ParseSpecifier(s string) (Specifier, error) {
	m := specifierPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Specifier{}, Tag(ErrInvalidSpecifier, "specifier", s)
	}
	spec := Specifier{Op: Operator(m[1]), Version: m[2]}
	if spec.Op == OpArbitrary {
		return spec, nil
	}

	if strings.HasSuffix(spec.Version, ".*") {
		if spec.Op != OpEqual && spec.Op != OpNotEqual {
			return Specifier{}, Tag(ErrInvalidSpecifier, "specifier", s)
		}
		spec.Wildcard = true
		spec.Version = strings.TrimSuffix(spec.Version, ".*")
	}

	v, err := ParseVersion(spec.Version)
	if err != nil {
		return Specifier{}, Tag(err, "specifier", s)
	}
	if spec.Op == OpCompatible && len(v.Release) < 2 {
		return Specifier{}, Tag(ErrInvalidSpecifier, "specifier", s)
	}
	return spec, nil
}

// Allows reports whether the version satisfies the specifier.
func (s Specifier) Allows(v Version) bool {
	if s.Op == OpArbitrary {
		return strings.EqualFold(v.Raw, s.Version)
	}
	target, err := ParseVersion(s.Version)
	if err != nil {
		return false
	}

	switch s.Op {
	case OpEqual:
		if s.Wildcard {
			return hasReleasePrefix(v, target)
		}
		return equalVersion(v, target)
	case OpNotEqual:
		if s.Wildcard {
			return !hasReleasePrefix(v, target)
		}
		return !equalVersion(v, target)
	case OpGreaterEqual:
		return v.Compare(target) >= 0
	case OpLessEqual:
		return v.Compare(target) <= 0
	case OpGreater:
		if v.Compare(target) <= 0 {
			return false
		}
		// >V excludes post releases of V unless V is itself a post release.
		return target.Post >= 0 || !samePublicRelease(v, target)
	case OpLess:
		if v.Compare(target) >= 0 {
			return false
		}
		// <V excludes pre-releases of V unless V is itself a pre-release.
		return target.IsPrerelease() || !v.IsPrerelease() || !samePublicRelease(v, target)
	case OpCompatible:
		prefix := target
		prefix.Release = target.Release[:len(target.Release)-1]
		return v.Compare(target) >= 0 && hasReleasePrefix(v, prefix)
	default:
		return false
	}
}

// equalVersion compares ignoring the local label when the specifier has none.
func equalVersion(v, target Version) bool {
	if target.Local == "" {
		v.Local = ""
	}
	return v.Equal(target)
}

func samePublicRelease(v, target Version) bool {
	if v.Epoch != target.Epoch {
		return false
	}
	for i := range max(len(v.Release), len(target.Release)) {
		if segment(v.Release, i) != segment(target.Release, i) {
			return false
		}
	}
	return true
}

func hasReleasePrefix(v, prefix Version) bool {
	if v.Epoch != prefix.Epoch {
		return false
	}
	for i, n := range prefix.Release {
		if segment(v.Release, i) != n {
			return false
		}
	}
	return true
}

// Requirement is one declared dependency.
type Requirement struct {
	Name       string
	Extras     []string
	Specifiers []Specifier
}

// AllowsPrereleases reports whether the requirement explicitly names a pre-release.
func (r Requirement) AllowsPrereleases() bool {
	for _, s := range r.Specifiers {
		if s.Op == OpArbitrary {
			return true
		}
		if v, err := ParseVersion(s.Version); err == nil && v.IsPrerelease() {
			return true
		}
	}
	return false
}

// Allows reports whether the version satisfies every specifier.
func (r Requirement) Allows(v Version) bool {
	for _, s := range r.Specifiers {
		if !s.Allows(v) {
			return false
		}
	}
	return true
}

func (r Requirement) String() string {
	name := r.Name
	if len(r.Extras) > 0 {
		name += "[" + strings.Join(r.Extras, ",") + "]"
	}
	specs := make([]string, len(r.Specifiers))
	for i, s := range r.Specifiers {
		specs[i] = s.String()
	}
	return name + strings.Join(specs, ",")
}

// Manifest is an ordered set of requirements. Names are unique after normalization.
type Manifest struct {
	Requirements []Requirement
}

var (
	namePattern       = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[([^\]]*)\])?\s*(.*)$`)
	nameSeparatorsRun = regexp.MustCompile(`[-_.]+`)
)

// NormalizeName lower-cases a package name and collapses runs of separators into "-".
func NormalizeName(name string) string {
	return nameSeparatorsRun.ReplaceAllString(strings.ToLower(name), "-")
}

// ParseManifest parses a requirements file. Comments, blank lines and environment
// markers are dropped; installer options, editable installs and direct URL references
// are rejected. Repeated names merge their specifiers.
func ParseManifest(r io.Reader) (*Manifest, error) {
	scanner := bufio.NewScanner(r)
	m := &Manifest{}
	index := make(map[string]int)

	var pending string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := pending + scanner.Text()
		pending = ""
		if strings.HasSuffix(line, `\`) {
			pending = strings.TrimSuffix(line, `\`)
			continue
		}

		req, ok, err := parseRequirementLine(line)
		if err != nil {
			return nil, Tag(err, "line", lineNo)
		}
		if !ok {
			continue
		}

		key := NormalizeName(req.Name)
		if i, seen := index[key]; seen {
			m.Requirements[i].Specifiers = append(m.Requirements[i].Specifiers, req.Specifiers...)
			for _, e := range req.Extras {
				if !slices.Contains(m.Requirements[i].Extras, e) {
					m.Requirements[i].Extras = append(m.Requirements[i].Extras, e)
				}
			}
			continue
		}
		index[key] = len(m.Requirements)
		m.Requirements = append(m.Requirements, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Join(ErrInvalidManifest, err)
	}
	if pending != "" {
		return nil, Tag(ErrInvalidManifest, "line", lineNo)
	}
	return m, nil
}

func parseRequirementLine(line string) (Requirement, bool, error) {
	if i := strings.Index(line, "#"); i >= 0 && (i == 0 || line[i-1] == ' ' || line[i-1] == '\t') {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Requirement{}, false, nil
	}
	if strings.HasPrefix(line, "-") {
		return Requirement{}, false, Tag(ErrInvalidManifest, "option", strings.Fields(line)[0])
	}
	if marker := strings.Index(line, ";"); marker >= 0 {
		line = strings.TrimSpace(line[:marker])
	}

	m := namePattern.FindStringSubmatch(line)
	if m == nil {
		return Requirement{}, false, Tag(ErrInvalidManifest, "requirement", line)
	}
	req := Requirement{Name: m[1]}
	for _, e := range strings.Split(m[2], ",") {
		if e = strings.TrimSpace(e); e != "" {
			req.Extras = append(req.Extras, e)
		}
	}

	rest := strings.TrimSpace(m[3])
	if strings.HasPrefix(rest, "@") {
		return Requirement{}, false, Tag(ErrInvalidManifest, "requirement", line)
	}
	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")")
	if rest == "" {
		return req, true, nil
	}
	for _, clause := range strings.Split(rest, ",") {
		spec, err := ParseSpecifier(clause)
		if err != nil {
			return Requirement{}, false, Tag(err, "requirement", req.Name)
		}
		req.Specifiers = append(req.Specifiers, spec)
	}
	return req, true, nil
}

// Pin is a resolved requirement.
type Pin struct {
	Name    string   `json:"name"`
	Extras  []string `json:"extras,omitempty"`
	Version string   `json:"version"`
}

func (p Pin) String() string {
	name := p.Name
	if len(p.Extras) > 0 {
		name += "[" + strings.Join(p.Extras, ",") + "]"
	}
	return name + "==" + p.Version
}

// Lock is the deterministic result of resolving a manifest.
type Lock struct {
	Pins []Pin
}

// NewLock sorts pins by normalized name.
func NewLock(pins []Pin) Lock {
	sorted := slices.Clone(pins)
	slices.SortFunc(sorted, func(a, b Pin) int {
		return strings.Compare(NormalizeName(a.Name), NormalizeName(b.Name))
	})
	return Lock{Pins: sorted}
}

// Render writes the lock in requirements syntax, one exact pin per line.
func (l Lock) Render() string {
	var b strings.Builder
	for _, p := range l.Pins {
		b.WriteString(p.String())
		b.WriteByte('\n')
	}
	return b.String()
}
