package domain

import (
	"maps"
	"slices"
	"strconv"

	"github.com/opencontainers/go-digest"
)

// DefaultEnv returns the build-time behavioral flags every build starts with.
func DefaultEnv() map[string]string {
	return map[string]string{
		"DEBIAN_FRONTEND":         "noninteractive",
		"PYTHONDONTWRITEBYTECODE": "1",
		"PYTHONUNBUFFERED":        "1",
		"PIP_NO_CACHE_DIR":        "1",
	}
}

// Installers holds the command templates actions expand.
//
// Placeholders: {root} is the staging tree, {packages} expands to the package list
// and {lock} to the resolved lock file.
type Installers struct {
	System []string
	Python []string
	// Index is the package index URL, or a path to a static YAML index.
	Index string
}

// DefaultInstallers returns installer templates for a Debian based Python image.
func DefaultInstallers() Installers {
	return Installers{
		System: []string{"apt-get", "install", "-y", "--no-install-recommends", "{packages}"},
		Python: []string{"pip", "install", "--no-cache-dir", "--root", "{root}", "-r", "{lock}"},
		Index:  "https://pypi.org",
	}
}

// ImageSpec is a complete image descriptor.
type ImageSpec struct {
	Name string
	Base BaseSpec
	// Env is the build environment, also recorded in the image config.
	Env map[string]string
	// Shell prefixes every command an action runs.
	Shell      []string
	Installers Installers
	Identity   Identity
	Stages     []Stage
	// Manifest is the dependency manifest path relative to the build context.
	Manifest    string
	RuntimeDirs RuntimeDirs
	// Probe is nil when the image declares no health check.
	Probe      *ProbeConfig
	Supervisor SupervisorConfig
	// Cmd overrides the default command of the image.
	Cmd        []string
	StopSignal string
	Labels     map[string]string
	// AllowRoot lets the final process run as the superuser. It is logged as a warning.
	AllowRoot bool
}

// Validate checks the descriptor as a whole.
func (s *ImageSpec) Validate() error {
	if len(s.Stages) == 0 {
		return ErrNoStages
	}
	seen := make(map[string]bool, len(s.Stages))
	for _, st := range s.Stages {
		if err := st.Validate(); err != nil {
			return err
		}
		if seen[st.Name] {
			return Tag(ErrDuplicateStage, "stage", st.Name)
		}
		seen[st.Name] = true
	}
	if err := s.Identity.Validate(); err != nil {
		return err
	}
	if err := s.RuntimeDirs.Validate(); err != nil {
		return err
	}
	if s.Probe != nil {
		if err := s.Probe.Validate(); err != nil {
			return err
		}
	}
	return s.Supervisor.Validate()
}

// EnvList renders Env as sorted KEY=VALUE entries.
func (s *ImageSpec) EnvList() []string {
	keys := slices.Sorted(maps.Keys(s.Env))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+s.Env[k])
	}
	return out
}

// DefaultCmd returns Cmd, or the supervisor's foreground server command.
func (s *ImageSpec) DefaultCmd() []string {
	if len(s.Cmd) > 0 {
		return s.Cmd
	}
	return s.Supervisor.DefaultCommand()
}

// ExposedPort returns the port in image config notation.
func (s *ImageSpec) ExposedPort() string {
	return strconv.Itoa(s.Supervisor.Port) + "/tcp"
}

// BuildOptions controls one build.
type BuildOptions struct {
	// ContextDir is the build context copy sources and the manifest are read from.
	ContextDir string
	// StateDir holds the layer store and staging trees.
	StateDir string
	// OutputDir receives the OCI image layout.
	OutputDir string
	// NoCache skips layer lookups. Layers are still recorded.
	NoCache bool
}

// BuildResult summarizes a finished build.
type BuildResult struct {
	Manifest  digest.Digest
	OutputDir string
	BaseKey   digest.Digest
	User      string
	Stages    []StageResult
}

// CachedStages returns the number of stages served from the layer store.
func (r *BuildResult) CachedStages() int {
	n := 0
	for _, s := range r.Stages {
		if s.Status == StageCached {
			n++
		}
	}
	return n
}
