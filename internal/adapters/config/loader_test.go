package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/config"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const fullDescriptor = `
version: "1"
name: lyvio
base:
  reference: python:3.11-slim
env:
  DJANGO_SETTINGS_MODULE: lyvio.settings
shell: chroot {root}
installers:
  index: https://mirror.example.com/pypi
identity:
  name: appuser
  uid: 1001
stages:
  - name: system
    actions:
      - packages: [libpq-dev, gcc]
      - prune: [/var/lib/apt/lists]
  - name: identity
    actions:
      - identity: true
  - name: deps
    actions:
      - manifest: requirements.txt
  - name: payload
    actions:
      - copy:
          from: [.]
          to: /app
          owner: appuser
          ignore: [node_modules]
      - mkdir:
          paths: [/app/logs]
          owner: appuser
          mode: "0750"
      - run: python manage.py collectstatic --noinput --settings=$DJANGO_SETTINGS_MODULE
      - user: appuser
health:
  interval: 15s
  retries: 5
  command: [curl, -fsS, http://localhost:8000/health]
supervisor:
  port: 9000
  workers: 4
  stop_grace: 20s
labels:
  org.opencontainers.image.title: lyvio
`

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.DescriptorFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	return config.NewLoader(logger), logger
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	path := writeDescriptor(t, fullDescriptor)

	loader, _ := newLoader(t)
	spec, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "lyvio", spec.Name)
	assert.Equal(t, "python:3.11-slim", spec.Base.Reference)
	assert.Equal(t, "lyvio.settings", spec.Env["DJANGO_SETTINGS_MODULE"])
	assert.Equal(t, "1", spec.Env["PYTHONUNBUFFERED"], "defaults are kept")
	assert.Equal(t, []string{"chroot", "{root}"}, spec.Shell)
	assert.Equal(t, "https://mirror.example.com/pypi", spec.Installers.Index)
	assert.Equal(t, domain.DefaultInstallers().Python, spec.Installers.Python)

	assert.Equal(t, domain.Identity{Name: "appuser", UID: 1001, GID: 1001, Home: "/app"}, spec.Identity)
	assert.Equal(t, domain.Owner{UID: 1001, GID: 1001}, spec.RuntimeDirs.Owner)

	require.Len(t, spec.Stages, 4)
	payload := spec.Stages[3]
	require.Len(t, payload.Actions, 4)
	assert.Equal(t, &domain.CopySpec{From: []string{"."}, To: "/app", Owner: "appuser", Ignore: []string{"node_modules"}},
		payload.Actions[0].Copy)
	assert.Equal(t, uint32(0o750), payload.Actions[1].Mkdir.Mode)
	assert.Equal(t, []string{
		"python", "manage.py", "collectstatic", "--noinput", "--settings=lyvio.settings",
	}, payload.Actions[2].Run)
	assert.Equal(t, "appuser", payload.Actions[3].User)

	require.NotNil(t, spec.Probe)
	assert.Equal(t, 15*time.Second, spec.Probe.Interval)
	assert.Equal(t, domain.DefaultProbeTimeout, spec.Probe.Timeout)
	assert.Equal(t, 5, spec.Probe.Retries)
	assert.Empty(t, spec.Probe.URL)
	assert.Equal(t, []string{"curl", "-fsS", "http://localhost:8000/health"}, spec.Probe.Command)

	assert.Equal(t, 9000, spec.Supervisor.Port)
	assert.Equal(t, 4, spec.Supervisor.Workers)
	assert.Equal(t, 20*time.Second, spec.Supervisor.StopGrace)
	assert.Equal(t, "/app", spec.Supervisor.Dir)
	assert.Equal(t, "SIGTERM", spec.StopSignal)
}

func TestLoader_Load_Defaults(t *testing.T) {
	t.Parallel()

	path := writeDescriptor(t, `
stages:
  - name: only
    actions:
      - run: [echo, hi]
`)
	loader, _ := newLoader(t)
	spec, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultBaseReference, spec.Base.Reference)
	assert.Equal(t, domain.DefaultManifestPath, spec.Manifest)
	assert.Equal(t, "appuser", spec.Identity.Name)
	assert.Nil(t, spec.Probe)
	assert.Equal(t, domain.DefaultSupervisorConfig().WorkerCommand, spec.Supervisor.WorkerCommand)
	assert.Equal(t, []string{domain.DefaultStaticDir, domain.DefaultMediaDir, domain.DefaultLogsDir}, spec.RuntimeDirs.Paths)
}

func TestLoader_Load_HealthURLDefault(t *testing.T) {
	t.Parallel()

	path := writeDescriptor(t, `
health:
  timeout: 2s
stages:
  - name: only
    actions:
      - run: [echo, hi]
`)
	loader, _ := newLoader(t)
	spec, err := loader.Load(path)
	require.NoError(t, err)

	require.NotNil(t, spec.Probe)
	assert.Equal(t, domain.DefaultProbeURL, spec.Probe.URL)
	assert.Equal(t, 2*time.Second, spec.Probe.Timeout)
}

func TestLoader_Load_LintWarnings(t *testing.T) {
	t.Parallel()

	path := writeDescriptor(t, `
stages:
  - name: payload
    actions:
      - copy: {from: [.], to: /app}
  - name: deps
    actions:
      - manifest: requirements.txt
`)
	loader, logger := newLoader(t)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := loader.Load(path)
	require.NoError(t, err)
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{
			name:    "unsupported version",
			content: "version: \"2\"\nstages: [{name: a, actions: [{run: [x]}]}]\n",
			want:    domain.ErrUnsupportedVersion,
		},
		{
			name:    "unknown key",
			content: "stagez: []\n",
			want:    domain.ErrConfigParseFailed,
		},
		{
			name:    "no stages",
			content: "name: empty\n",
			want:    domain.ErrNoStages,
		},
		{
			name:    "bad duration",
			content: "health: {interval: soon}\nstages: [{name: a, actions: [{run: [x]}]}]\n",
			want:    domain.ErrInvalidDuration,
		},
		{
			name:    "bad mode",
			content: "stages: [{name: a, actions: [{mkdir: {paths: [/x], mode: \"999\"}}]}]\n",
			want:    domain.ErrConfigParseFailed,
		},
		{
			name:    "two action kinds",
			content: "stages: [{name: a, actions: [{run: [x], user: appuser}]}]\n",
			want:    domain.ErrInvalidAction,
		},
		{
			name:    "url and command",
			content: "health: {url: http://x/, command: [true]}\nstages: [{name: a, actions: [{run: [x]}]}]\n",
			want:    domain.ErrInvalidProbeConfig,
		},
		{
			name:    "unterminated quote",
			content: "stages: [{name: a, actions: [{run: \"echo 'oops\"}]}]\n",
			want:    domain.ErrConfigParseFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeDescriptor(t, tt.content)
			loader, _ := newLoader(t)

			_, err := loader.Load(path)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	t.Parallel()

	loader, _ := newLoader(t)
	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, domain.ErrConfigReadFailed)
	require.ErrorIs(t, err, os.ErrNotExist)
}
