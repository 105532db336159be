package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/cmd/stevedore/commands"
	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/probe"
	"github.com/javila-dev/lyvio-plaftorm/internal/app"
	"github.com/javila-dev/lyvio-plaftorm/internal/build"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports/mocks"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/health"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/pipeline"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/prepare"
	"github.com/javila-dev/lyvio-plaftorm/internal/engine/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader *mocks.MockConfigLoader
	fs     *mocks.MockRuntimeFS
	logger *mocks.MockLogger
	cli    *commands.CLI
	out    *bytes.Buffer
}

type noMetricsServer struct{}

func (noMetricsServer) Serve(ctx context.Context, _ string) error {
	<-ctx.Done()
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		loader: mocks.NewMockConfigLoader(ctrl),
		fs:     mocks.NewMockRuntimeFS(ctrl),
		logger: mocks.NewMockLogger(ctrl),
		out:    &bytes.Buffer{},
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	executor := mocks.NewMockExecutor(ctrl)
	metrics := mocks.NewMockMetrics(ctrl)
	checkers := probe.NewFactory(executor, nil)

	a := app.New(
		f.loader,
		pipeline.New(pipeline.Deps{}),
		prepare.New(f.fs, f.logger),
		health.NewFactory(checkers, metrics, f.logger),
		supervisor.New(executor, metrics, f.logger),
		checkers,
		noMetricsServer{},
		mocks.NewMockTracer(ctrl),
		f.logger,
	)
	f.cli = commands.New(a, f.logger)
	f.cli.SetOutput(f.out)
	return f
}

func TestVersion(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cli.SetArgs([]string{"version"})
	require.NoError(t, f.cli.Execute(context.Background()))
	assert.Equal(t, "stevedore version "+build.Version+"\n", f.out.String())
}

func TestRoot_Help(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cli.SetArgs([]string{"--help"})
	require.NoError(t, f.cli.Execute(context.Background()))
	for _, name := range []string{"build", "plan", "serve", "exec", "prepare", "probe", "status", "clean"} {
		assert.Contains(t, f.out.String(), name)
	}
}

func TestSettingsFromFlags(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctxDir := t.TempDir()
	f.loader.EXPECT().Load(filepath.Join(ctxDir, domain.DescriptorFileName)).Return(nil, domain.ErrConfigParseFailed)

	f.cli.SetArgs([]string{"build", "-C", ctxDir, "--no-cache", "-o", "/tmp/out"})
	require.ErrorIs(t, f.cli.Execute(context.Background()), domain.ErrConfigParseFailed)

	s := f.cli.Settings()
	assert.Equal(t, ctxDir, s.ContextDir)
	assert.Equal(t, filepath.Join(ctxDir, domain.StateDirName), s.StateDir)
	assert.Equal(t, "/tmp/out", s.OutputDir)
	assert.True(t, s.NoCache)
}

func TestSettingsFromEnvironment(t *testing.T) {
	f := newFixture(t)
	statusFile := filepath.Join(t.TempDir(), "health.json")
	t.Setenv("STEVEDORE_STATUS_FILE", statusFile)
	require.NoError(t, probe.NewStatusFile(statusFile).Report(context.Background(),
		domain.HealthStatus{State: domain.HealthUnhealthy, FailingStreak: 3, Checks: 7}))

	f.cli.SetArgs([]string{"status"})
	require.NoError(t, f.cli.Execute(context.Background()))

	var got domain.HealthStatus
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	assert.Equal(t, domain.HealthUnhealthy, got.State)
	assert.Equal(t, 3, got.FailingStreak)
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"exec without command": {"exec"},
		"unknown flag":         {"plan", "--frobnicate"},
		"extra argument":       {"build", "web"},
		"log format":           {"plan", "--log-format", "xml"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			f.cli.SetArgs(args)
			require.ErrorIs(t, f.cli.Execute(context.Background()), commands.ErrUsage)
		})
	}
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := domain.Owner{UID: 1000, GID: 1000}
	f.loader.EXPECT().Load(gomock.Any()).Return(&domain.ImageSpec{
		RuntimeDirs: domain.RuntimeDirs{Paths: []string{"/app/logs"}, Owner: owner},
	}, nil)
	f.fs.EXPECT().Owner("/app/logs").Return(owner, nil)

	f.cli.SetArgs([]string{"prepare"})
	require.NoError(t, f.cli.Execute(context.Background()))
	assert.Equal(t, "unchanged /app/logs\n", f.out.String())
}
