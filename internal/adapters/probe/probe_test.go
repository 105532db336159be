package probe_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/adapters/probe"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHTTPChecker(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.WriteHeader(http.StatusOK)
		case "/login":
			http.Redirect(w, r, "/accounts/login/", http.StatusFound)
		case "/slow":
			<-r.Context().Done()
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "ok", path: "/"},
		{name: "redirect counts as up", path: "/login"},
		{name: "server error", path: "/broken", wantErr: true},
		{name: "timeout", path: "/slow", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			err := probe.NewHTTPChecker(srv.URL+tt.path, srv.Client()).Check(ctx)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrCheckFailed)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestHTTPChecker_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := probe.NewHTTPChecker(url, nil).Check(context.Background())
	require.ErrorIs(t, err, domain.ErrCheckFailed)
}

func TestCommandChecker(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	cmd := domain.Command{Args: []string{"python", "manage.py", "check"}}

	executor.EXPECT().Execute(gomock.Any(), cmd, gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().Execute(gomock.Any(), cmd, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Command, stdout, _ io.Writer) error {
			_, _ = io.WriteString(stdout, "database unreachable\n")
			return domain.ErrCommandFailed
		})

	checker := probe.NewCommandChecker(cmd, executor)
	require.NoError(t, checker.Check(context.Background()))

	err := checker.Check(context.Background())
	require.ErrorIs(t, err, domain.ErrCheckFailed)
	require.ErrorIs(t, err, domain.ErrCommandFailed)
}

func TestFactory_Checker(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	factory := probe.NewFactory(executor, http.DefaultClient)

	cfg := domain.DefaultProbeConfig()
	assert.IsType(t, &probe.HTTPChecker{}, factory.Checker(cfg, nil, ""))

	cfg.URL = ""
	cfg.Command = []string{"true"}
	executor.EXPECT().Execute(gomock.Any(), domain.Command{
		Args: []string{"true"}, Env: []string{"A=1"}, Dir: "/app",
	}, gomock.Any(), gomock.Any()).Return(nil)

	checker := factory.Checker(cfg, []string{"A=1"}, "/app")
	require.IsType(t, &probe.CommandChecker{}, checker)
	require.NoError(t, checker.Check(context.Background()))
}

func TestStatusFile(t *testing.T) {
	t.Parallel()

	file := probe.NewStatusFile(filepath.Join(t.TempDir(), "health.json"))

	_, err := file.Read()
	require.ErrorIs(t, err, domain.ErrStatusUnavailable)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	status := domain.HealthStatus{
		State: domain.HealthUnhealthy, FailingStreak: 3, LastError: "refused", Checks: 5, LastCheck: at, Since: at,
	}
	require.NoError(t, file.Report(context.Background(), status))

	got, err := file.Read()
	require.NoError(t, err)
	assert.Equal(t, status, got)
}

func TestLogReporter(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info("service is healthy")
	logger.EXPECT().Warn("service is unhealthy after 3 consecutive failures: refused")

	r := probe.NewLogReporter(logger)
	require.NoError(t, r.Report(context.Background(), domain.HealthStatus{State: domain.HealthHealthy}))
	require.NoError(t, r.Report(context.Background(), domain.HealthStatus{
		State: domain.HealthUnhealthy, FailingStreak: 3, LastError: "refused",
	}))
}

func TestMetricsReporter(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetrics(ctrl)
	metrics.EXPECT().SetHealthState(domain.HealthHealthy)

	err := probe.NewMetricsReporter(metrics).Report(context.Background(), domain.HealthStatus{State: domain.HealthHealthy})
	require.NoError(t, err)
}
