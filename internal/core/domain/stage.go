package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// ActionKind identifies what an action does.
type ActionKind string

const (
	// ActionPackages installs system packages. Requires superuser privilege.
	ActionPackages ActionKind = "packages"
	// ActionPrune removes paths from the staging tree before the layer is cut.
	ActionPrune ActionKind = "prune"
	// ActionIdentity provisions the execution identity.
	ActionIdentity ActionKind = "identity"
	// ActionManifest resolves and installs the dependency manifest.
	ActionManifest ActionKind = "manifest"
	// ActionCopy copies files from the build context.
	ActionCopy ActionKind = "copy"
	// ActionMkdir creates directories.
	ActionMkdir ActionKind = "mkdir"
	// ActionRun runs an arbitrary command.
	ActionRun ActionKind = "run"
	// ActionUser drops privileges to the execution identity for later stages.
	ActionUser ActionKind = "user"
)

// CopySpec describes a copy from the build context into the staging tree.
type CopySpec struct {
	// From is a path or glob relative to the build context.
	From []string
	// To is an absolute destination inside the image.
	To string
	// Owner is either empty, "root" or the identity name.
	Owner string
	// Ignore lists base-name patterns skipped while copying directories.
	Ignore []string
}

// MkdirSpec describes directories to create inside the staging tree.
type MkdirSpec struct {
	Paths []string
	Owner string
	Mode  uint32
}

// Action is a single side-effecting step of a stage. Exactly one field is set.
type Action struct {
	Packages []string
	Prune    []string
	Identity bool
	Manifest string
	Copy     *CopySpec
	Mkdir    *MkdirSpec
	Run      []string
	User     string
}

// Kind returns the action kind, or an error when zero or several kinds are set.
func (a Action) Kind() (ActionKind, error) {
	var kinds []ActionKind
	if len(a.Packages) > 0 {
		kinds = append(kinds, ActionPackages)
	}
	if len(a.Prune) > 0 {
		kinds = append(kinds, ActionPrune)
	}
	if a.Identity {
		kinds = append(kinds, ActionIdentity)
	}
	if a.Manifest != "" {
		kinds = append(kinds, ActionManifest)
	}
	if a.Copy != nil {
		kinds = append(kinds, ActionCopy)
	}
	if a.Mkdir != nil {
		kinds = append(kinds, ActionMkdir)
	}
	if len(a.Run) > 0 {
		kinds = append(kinds, ActionRun)
	}
	if a.User != "" {
		kinds = append(kinds, ActionUser)
	}
	if len(kinds) != 1 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		return "", Tag(ErrInvalidAction, "kinds", strings.Join(names, ","))
	}
	return kinds[0], nil
}

// Stage is one ordered, cacheable step of the image build.
type Stage struct {
	Name    string
	Actions []Action
}

var stageNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks the stage name and every action.
func (s Stage) Validate() error {
	if !stageNamePattern.MatchString(s.Name) {
		return Tag(ErrInvalidStageName, "stage", s.Name)
	}
	for i, a := range s.Actions {
		if _, err := a.Kind(); err != nil {
			return zerr.With(Tag(err, "stage", s.Name), "action", i)
		}
	}
	return nil
}

// HasKind reports whether any action of the stage is of the given kind.
func (s Stage) HasKind(kind ActionKind) bool {
	for _, a := range s.Actions {
		if k, err := a.Kind(); err == nil && k == kind {
			return true
		}
	}
	return false
}
