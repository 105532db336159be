package config_test

import (
	"path/filepath"
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/config"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSettings_Defaults(t *testing.T) {
	dir := t.TempDir()
	v := config.NewViper()
	v.Set(config.KeyContext, dir)

	s, err := config.ResolveSettings(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, domain.DescriptorFileName), s.Descriptor)
	assert.Equal(t, filepath.Join(dir, domain.StateDirName), s.StateDir)
	assert.Equal(t, filepath.Join(dir, domain.DefaultOutputDirName), s.OutputDir)
	assert.Equal(t, config.LogFormatPretty, s.LogFormat)
	assert.Equal(t, domain.DefaultStatusFile, s.StatusFile)
	assert.False(t, s.NoCache)
}

func TestResolveSettings_EnvAndFlags(t *testing.T) {
	t.Setenv("STEVEDORE_LOG_FORMAT", "json")
	t.Setenv("STEVEDORE_STATE_DIR", "/var/cache/stevedore")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool(config.KeyNoCache, false, "")
	fs.String(config.KeyStateDir, "", "")
	require.NoError(t, fs.Parse([]string{"--no-cache"}))

	v := config.NewViper()
	require.NoError(t, config.BindFlags(v, fs))

	s, err := config.ResolveSettings(v)
	require.NoError(t, err)

	assert.Equal(t, config.LogFormatJSON, s.LogFormat)
	assert.Equal(t, "/var/cache/stevedore", s.StateDir, "environment wins over an unset flag")
	assert.True(t, s.NoCache)
}

func TestResolveSettings_InvalidLogFormat(t *testing.T) {
	v := config.NewViper()
	v.Set(config.KeyLogFormat, "xml")

	_, err := config.ResolveSettings(v)
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}
