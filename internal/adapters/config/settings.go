package config

import (
	"path/filepath"
	"strings"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.trai.ch/zerr"
)

// EnvPrefix is prepended to every settings environment variable.
const EnvPrefix = "STEVEDORE"

// Setting keys. Flags bound with BindFlags must use the same names.
const (
	KeyDescriptor  = "file"
	KeyContext     = "context"
	KeyStateDir    = "state-dir"
	KeyOutputDir   = "output"
	KeyLogFormat   = "log-format"
	KeyMetricsAddr = "metrics-addr"
	KeyStatusFile  = "status-file"
	KeyNoCache     = "no-cache"
)

// Log formats.
const (
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

// Settings are the tool options resolved from flags, environment and defaults.
type Settings struct {
	Descriptor  string
	ContextDir  string
	StateDir    string
	OutputDir   string
	LogFormat   string
	MetricsAddr string
	StatusFile  string
	NoCache     bool
}

// NewViper returns a viper instance with the tool defaults and environment binding.
// Environment variables use the STEVEDORE_ prefix with dashes replaced by underscores.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyContext, ".")
	v.SetDefault(KeyLogFormat, LogFormatPretty)
	v.SetDefault(KeyStatusFile, domain.DefaultStatusFile)
	v.SetDefault(KeyNoCache, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag in fs that matches a setting key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if err := v.BindPFlags(fs); err != nil {
		return zerr.Wrap(err, "failed to bind flags")
	}
	return nil
}

// ResolveSettings reads the settings from v and fills in the derived paths.
func ResolveSettings(v *viper.Viper) (Settings, error) {
	s := Settings{
		Descriptor:  v.GetString(KeyDescriptor),
		ContextDir:  v.GetString(KeyContext),
		StateDir:    v.GetString(KeyStateDir),
		OutputDir:   v.GetString(KeyOutputDir),
		LogFormat:   v.GetString(KeyLogFormat),
		MetricsAddr: v.GetString(KeyMetricsAddr),
		StatusFile:  v.GetString(KeyStatusFile),
		NoCache:     v.GetBool(KeyNoCache),
	}

	switch s.LogFormat {
	case LogFormatPretty, LogFormatJSON:
	default:
		return Settings{}, domain.Tag(domain.ErrConfigParseFailed, KeyLogFormat, s.LogFormat)
	}

	ctxDir, err := filepath.Abs(s.ContextDir)
	if err != nil {
		return Settings{}, zerr.With(zerr.Wrap(err, "failed to resolve context directory"), "path", s.ContextDir)
	}
	s.ContextDir = ctxDir

	if s.Descriptor == "" {
		s.Descriptor = filepath.Join(s.ContextDir, domain.DescriptorFileName)
	}
	if s.StateDir == "" {
		s.StateDir = filepath.Join(s.ContextDir, domain.StateDirName)
	}
	if s.OutputDir == "" {
		s.OutputDir = filepath.Join(s.ContextDir, domain.DefaultOutputDirName)
	}
	return s, nil
}
