package config

import (
	"errors"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/shell"
)

// Descriptor represents the structure of the stevedore.yaml image descriptor.
type Descriptor struct {
	Version     string            `yaml:"version"`
	Name        string            `yaml:"name"`
	Base        BaseDTO           `yaml:"base"`
	Env         map[string]string `yaml:"env"`
	Shell       CommandDTO        `yaml:"shell"`
	Installers  InstallersDTO     `yaml:"installers"`
	Identity    *IdentityDTO      `yaml:"identity"`
	Manifest    string            `yaml:"manifest"`
	Stages      []StageDTO        `yaml:"stages"`
	RuntimeDirs *RuntimeDirsDTO   `yaml:"runtime_dirs"`
	Health      *HealthDTO        `yaml:"health"`
	Supervisor  SupervisorDTO     `yaml:"supervisor"`
	Cmd         CommandDTO        `yaml:"cmd"`
	StopSignal  string            `yaml:"stop_signal"`
	Labels      map[string]string `yaml:"labels"`
	Privilege   PrivilegeDTO      `yaml:"privilege"`
}

// BaseDTO is the base environment section.
type BaseDTO struct {
	Reference string `yaml:"reference"`
	Archive   string `yaml:"archive"`
}

// InstallersDTO overrides the installer command templates.
type InstallersDTO struct {
	System CommandDTO `yaml:"system"`
	Python CommandDTO `yaml:"python"`
	Index  string     `yaml:"index"`
}

// IdentityDTO is the execution identity section.
type IdentityDTO struct {
	Name string `yaml:"name"`
	UID  int    `yaml:"uid"`
	GID  int    `yaml:"gid"`
	Home string `yaml:"home"`
}

// StageDTO represents one build stage.
type StageDTO struct {
	Name    string      `yaml:"name"`
	Actions []ActionDTO `yaml:"actions"`
}

// ActionDTO represents one action. Exactly one field must be set.
type ActionDTO struct {
	Packages []string   `yaml:"packages"`
	Prune    []string   `yaml:"prune"`
	Identity bool       `yaml:"identity"`
	Manifest string     `yaml:"manifest"`
	Copy     *CopyDTO   `yaml:"copy"`
	Mkdir    *MkdirDTO  `yaml:"mkdir"`
	Run      CommandDTO `yaml:"run"`
	User     string     `yaml:"user"`
}

// CopyDTO copies build context paths into the image.
type CopyDTO struct {
	From   []string `yaml:"from"`
	To     string   `yaml:"to"`
	Owner  string   `yaml:"owner"`
	Ignore []string `yaml:"ignore"`
}

// MkdirDTO creates directories in the image.
type MkdirDTO struct {
	Paths []string `yaml:"paths"`
	Owner string   `yaml:"owner"`
	Mode  string   `yaml:"mode"`
}

// RuntimeDirsDTO lists the writable directories prepared before the entrypoint runs.
type RuntimeDirsDTO struct {
	Paths []string `yaml:"paths"`
	Mode  string   `yaml:"mode"`
}

// HealthDTO configures the health probe.
type HealthDTO struct {
	Interval    string     `yaml:"interval"`
	Timeout     string     `yaml:"timeout"`
	StartPeriod string     `yaml:"start_period"`
	Retries     int        `yaml:"retries"`
	URL         string     `yaml:"url"`
	Command     CommandDTO `yaml:"command"`
}

// SupervisorDTO configures the process supervisor.
type SupervisorDTO struct {
	Bind          string     `yaml:"bind"`
	Port          int        `yaml:"port"`
	Workers       int        `yaml:"workers"`
	Entrypoint    string     `yaml:"entrypoint"`
	WorkerCommand CommandDTO `yaml:"worker_command"`
	StopGrace     string     `yaml:"stop_grace"`
}

// PrivilegeDTO holds privilege policy switches.
type PrivilegeDTO struct {
	AllowRoot bool `yaml:"allow_root"`
}

// CommandDTO is a command given either as a list of arguments or as a single
// shell-style string.
type CommandDTO struct {
	Raw  string
	Args []string
}

// UnmarshalYAML accepts a scalar or a sequence.
func (c *CommandDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&c.Raw)
	case yaml.SequenceNode:
		return node.Decode(&c.Args)
	default:
		return zerr.With(zerr.New("command must be a string or a list"), "line", node.Line)
	}
}

// IsZero reports whether no command was given.
func (c CommandDTO) IsZero() bool {
	return c.Raw == "" && len(c.Args) == 0
}

const defaultIFS = " \t\n"

// Fields returns the command arguments. String commands are split with shell quoting
// rules. Variables resolve against env and are kept verbatim otherwise.
func (c CommandDTO) Fields(env map[string]string) ([]string, error) {
	if len(c.Args) > 0 || c.Raw == "" {
		return c.Args, nil
	}
	fields, err := shell.Fields(c.Raw, func(name string) string {
		if v, ok := env[name]; ok {
			return v
		}
		if name == "IFS" {
			return defaultIFS
		}
		return "$" + name
	})
	if err != nil {
		return nil, errors.Join(domain.Tag(domain.ErrConfigParseFailed, "command", c.Raw), err)
	}
	return fields, nil
}
