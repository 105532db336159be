// Package config provides the image descriptor loader and the tool settings.
package config

import (
	"bytes"
	"errors"
	"maps"
	"os"
	"strconv"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only descriptor version understood by the loader.
const SupportedVersion = "1"

// Default execution identity.
const (
	DefaultIdentityName = "appuser"
	DefaultIdentityID   = 1000
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the descriptor at path and converts it into a validated image spec.
// Stage ordering problems are logged as warnings.
func (l *Loader) Load(path string) (*domain.ImageSpec, error) {
	var desc Descriptor
	if err := readAndUnmarshalYAML(path, &desc); err != nil {
		return nil, err
	}

	spec, err := convert(&desc)
	if err != nil {
		return nil, domain.Tag(err, "descriptor", path)
	}

	if err := spec.Validate(); err != nil {
		return nil, domain.Tag(err, "descriptor", path)
	}

	for _, w := range domain.LintOrdering(spec.Stages) {
		l.Logger.Warn(w.String())
	}

	return spec, nil
}

func readAndUnmarshalYAML(path string, out any) error {
	//nolint:gosec // descriptor path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", path)
	}
	return nil
}

func convert(desc *Descriptor) (*domain.ImageSpec, error) {
	if desc.Version != "" && desc.Version != SupportedVersion {
		return nil, domain.Tag(domain.ErrUnsupportedVersion, "version", desc.Version)
	}

	spec := &domain.ImageSpec{
		Name:       desc.Name,
		Base:       domain.BaseSpec{Reference: desc.Base.Reference, Archive: desc.Base.Archive},
		Env:        domain.DefaultEnv(),
		Installers: domain.DefaultInstallers(),
		Manifest:   desc.Manifest,
		StopSignal: desc.StopSignal,
		Labels:     desc.Labels,
		AllowRoot:  desc.Privilege.AllowRoot,
	}
	if spec.Base.Reference == "" {
		spec.Base.Reference = domain.DefaultBaseReference
	}
	if spec.Manifest == "" {
		spec.Manifest = domain.DefaultManifestPath
	}
	if spec.StopSignal == "" {
		spec.StopSignal = "SIGTERM"
	}
	maps.Copy(spec.Env, desc.Env)

	var err error
	if spec.Shell, err = desc.Shell.Fields(spec.Env); err != nil {
		return nil, err
	}
	if spec.Cmd, err = desc.Cmd.Fields(spec.Env); err != nil {
		return nil, err
	}
	if err := convertInstallers(&spec.Installers, desc.Installers, spec.Env); err != nil {
		return nil, err
	}

	spec.Identity = convertIdentity(desc.Identity)

	for _, st := range desc.Stages {
		stage, err := convertStage(st, spec.Env)
		if err != nil {
			return nil, err
		}
		spec.Stages = append(spec.Stages, stage)
	}

	if spec.RuntimeDirs, err = convertRuntimeDirs(desc.RuntimeDirs, spec.Identity); err != nil {
		return nil, err
	}

	if desc.Health != nil {
		probe, err := convertHealth(desc.Health, spec.Env)
		if err != nil {
			return nil, err
		}
		spec.Probe = &probe
	}

	if spec.Supervisor, err = convertSupervisor(desc.Supervisor, spec.Env); err != nil {
		return nil, err
	}
	spec.Supervisor.Dir = spec.Identity.Home

	return spec, nil
}

func convertInstallers(into *domain.Installers, dto InstallersDTO, env map[string]string) error {
	if !dto.System.IsZero() {
		system, err := dto.System.Fields(env)
		if err != nil {
			return err
		}
		into.System = system
	}
	if !dto.Python.IsZero() {
		python, err := dto.Python.Fields(env)
		if err != nil {
			return err
		}
		into.Python = python
	}
	if dto.Index != "" {
		into.Index = dto.Index
	}
	return nil
}

func convertIdentity(dto *IdentityDTO) domain.Identity {
	id := domain.Identity{
		Name: DefaultIdentityName,
		UID:  DefaultIdentityID,
		GID:  DefaultIdentityID,
		Home: domain.DefaultWorkDir,
	}
	if dto == nil {
		return id
	}
	if dto.Name != "" {
		id.Name = dto.Name
	}
	if dto.UID != 0 {
		id.UID = dto.UID
	}
	if dto.GID != 0 {
		id.GID = dto.GID
	} else if dto.UID != 0 {
		id.GID = dto.UID
	}
	if dto.Home != "" {
		id.Home = dto.Home
	}
	return id
}

func convertStage(dto StageDTO, env map[string]string) (domain.Stage, error) {
	stage := domain.Stage{Name: dto.Name}
	for i, a := range dto.Actions {
		action := domain.Action{
			Packages: a.Packages,
			Prune:    a.Prune,
			Identity: a.Identity,
			Manifest: a.Manifest,
			User:     a.User,
		}
		if a.Copy != nil {
			action.Copy = &domain.CopySpec{From: a.Copy.From, To: a.Copy.To, Owner: a.Copy.Owner, Ignore: a.Copy.Ignore}
		}
		if a.Mkdir != nil {
			mode, err := parseMode(a.Mkdir.Mode)
			if err != nil {
				return domain.Stage{}, zerr.With(domain.Tag(err, "stage", dto.Name), "action", i)
			}
			action.Mkdir = &domain.MkdirSpec{Paths: a.Mkdir.Paths, Owner: a.Mkdir.Owner, Mode: mode}
		}
		run, err := a.Run.Fields(env)
		if err != nil {
			return domain.Stage{}, zerr.With(domain.Tag(err, "stage", dto.Name), "action", i)
		}
		action.Run = run
		stage.Actions = append(stage.Actions, action)
	}
	return stage, nil
}

func convertRuntimeDirs(dto *RuntimeDirsDTO, id domain.Identity) (domain.RuntimeDirs, error) {
	dirs := domain.DefaultRuntimeDirs(id)
	if dto == nil {
		return dirs, nil
	}
	if len(dto.Paths) > 0 {
		dirs.Paths = dto.Paths
	}
	if dto.Mode != "" {
		mode, err := parseMode(dto.Mode)
		if err != nil {
			return domain.RuntimeDirs{}, err
		}
		dirs.Mode = mode
	}
	return dirs, nil
}

func convertHealth(dto *HealthDTO, env map[string]string) (domain.ProbeConfig, error) {
	cfg := domain.DefaultProbeConfig()

	for _, d := range []struct {
		raw  string
		into *time.Duration
		key  string
	}{
		{dto.Interval, &cfg.Interval, "interval"},
		{dto.Timeout, &cfg.Timeout, "timeout"},
		{dto.StartPeriod, &cfg.StartPeriod, "start_period"},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := parseDuration(d.raw, d.key)
		if err != nil {
			return domain.ProbeConfig{}, err
		}
		*d.into = parsed
	}

	if dto.Retries != 0 {
		cfg.Retries = dto.Retries
	}

	command, err := dto.Command.Fields(env)
	if err != nil {
		return domain.ProbeConfig{}, err
	}
	if len(command) > 0 {
		cfg.Command = command
		cfg.URL = dto.URL
	} else if dto.URL != "" {
		cfg.URL = dto.URL
	}
	return cfg, nil
}

func convertSupervisor(dto SupervisorDTO, env map[string]string) (domain.SupervisorConfig, error) {
	cfg := domain.DefaultSupervisorConfig()
	if dto.Bind != "" {
		cfg.BindAddress = dto.Bind
	}
	if dto.Port != 0 {
		cfg.Port = dto.Port
	}
	if dto.Workers != 0 {
		cfg.Workers = dto.Workers
	}
	if dto.Entrypoint != "" {
		cfg.Entrypoint = dto.Entrypoint
	}
	if !dto.WorkerCommand.IsZero() {
		command, err := dto.WorkerCommand.Fields(env)
		if err != nil {
			return domain.SupervisorConfig{}, err
		}
		cfg.WorkerCommand = command
	}
	if dto.StopGrace != "" {
		grace, err := parseDuration(dto.StopGrace, "stop_grace")
		if err != nil {
			return domain.SupervisorConfig{}, err
		}
		cfg.StopGrace = grace
	}
	return cfg, nil
}

func parseDuration(raw, key string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, zerr.With(errors.Join(domain.Tag(domain.ErrInvalidDuration, key, raw), err), "field", key)
	}
	return d, nil
}

func parseMode(raw string) (uint32, error) {
	if raw == "" {
		return 0, nil
	}
	mode, err := strconv.ParseUint(raw, 8, 32)
	if err != nil || mode > 0o7777 {
		return 0, domain.Tag(domain.ErrConfigParseFailed, "mode", raw)
	}
	return uint32(mode), nil
}
