package domain

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

var versionPattern = regexp.MustCompile(`^v?(?:(\d+)!)?(\d+(?:\.\d+)*)` +
	`(?:[-_.]?(a|alpha|b|beta|c|rc|pre|preview)[-_.]?(\d*))?` +
	`(?:-(\d+)|[-_.]?(post|rev|r)[-_.]?(\d*))?` +
	`(?:[-_.]?(dev)[-_.]?(\d*))?` +
	`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`)

// Version is a parsed package version.
type Version struct {
	Raw     string
	Epoch   int
	Release []int
	// PreKind is "a", "b" or "rc"; empty for final releases.
	PreKind string
	PreNum  int
	// Post and Dev are -1 when absent.
	Post  int
	Dev   int
	Local string
}

// ParseVersion parses a package version in the Python packaging format.
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	m := versionPattern.FindStringSubmatch(strings.ToLower(raw))
	if m == nil {
		return Version{}, Tag(ErrInvalidSpecifier, "version", s)
	}

	v := Version{Raw: raw, Post: -1, Dev: -1, Local: m[10]}
	if m[1] != "" {
		v.Epoch, _ = strconv.Atoi(m[1])
	}
	for _, part := range strings.Split(m[2], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, Tag(ErrInvalidSpecifier, "version", s)
		}
		v.Release = append(v.Release, n)
	}

	switch m[3] {
	case "":
	case "a", "alpha":
		v.PreKind = "a"
	case "b", "beta":
		v.PreKind = "b"
	default:
		v.PreKind = "rc"
	}
	if v.PreKind != "" {
		v.PreNum = atoiOrZero(m[4])
	}

	switch {
	case m[5] != "":
		v.Post = atoiOrZero(m[5])
	case m[6] != "":
		v.Post = atoiOrZero(m[7])
	}
	if m[8] != "" {
		v.Dev = atoiOrZero(m[9])
	}
	return v, nil
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// IsPrerelease reports whether the version is a pre-release or a development release.
func (v Version) IsPrerelease() bool {
	return v.PreKind != "" || v.Dev >= 0
}

// String returns the normalized form of the version.
func (v Version) String() string {
	var b strings.Builder
	if v.Epoch != 0 {
		b.WriteString(strconv.Itoa(v.Epoch) + "!")
	}
	for i, n := range v.Release {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(n))
	}
	if v.PreKind != "" {
		b.WriteString(v.PreKind + strconv.Itoa(v.PreNum))
	}
	if v.Post >= 0 {
		b.WriteString(".post" + strconv.Itoa(v.Post))
	}
	if v.Dev >= 0 {
		b.WriteString(".dev" + strconv.Itoa(v.Dev))
	}
	if v.Local != "" {
		b.WriteString("+" + v.Local)
	}
	return b.String()
}

// Semver maps the epoch, the first three release segments and the pre-release tag onto a
// semantic version. Development releases sort below alpha releases.
func (v Version) Semver() string {
	seg := func(i int) int {
		if i < len(v.Release) {
			return v.Release[i]
		}
		return 0
	}
	s := "v" + strconv.Itoa(seg(0)) + "." + strconv.Itoa(seg(1)) + "." + strconv.Itoa(seg(2))
	switch {
	case v.PreKind != "":
		s += "-" + v.PreKind + "." + strconv.Itoa(v.PreNum)
	case v.Dev >= 0 && v.Post < 0:
		s += "-0." + strconv.Itoa(v.Dev)
	}
	return s
}

// Compare orders two versions. Ties on the semantic version are broken by the epoch,
// the remaining release segments, then post and development releases.
func (v Version) Compare(o Version) int {
	if v.Epoch != o.Epoch {
		return cmpInt(v.Epoch, o.Epoch)
	}
	if c := semver.Compare(v.Semver(), o.Semver()); c != 0 {
		return c
	}
	for i := 3; i < max(len(v.Release), len(o.Release)); i++ {
		if c := cmpInt(segment(v.Release, i), segment(o.Release, i)); c != 0 {
			return c
		}
	}
	if c := cmpInt(v.Post, o.Post); c != 0 {
		return c
	}
	if v.Post >= 0 || v.PreKind != "" {
		// A dev release of a post or pre release sorts below it.
		return cmpInt(devRank(v.Dev), devRank(o.Dev))
	}
	return 0
}

// Equal reports whether two versions are equal, ignoring trailing zero release segments.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0 && v.Local == o.Local
}

func devRank(dev int) int {
	if dev < 0 {
		return int(^uint(0) >> 1)
	}
	return dev
}

func segment(release []int, i int) int {
	if i < len(release) {
		return release[i]
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
