// Package supervisor binds the service port once and runs a fixed set of worker
// processes sharing the listener. Workers that exit are not restarted.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"syscall"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

// Supervisor runs the worker processes of the service.
type Supervisor struct {
	executor ports.Executor
	metrics  ports.Metrics
	logger   ports.Logger
	stdout   io.Writer
	stderr   io.Writer

	// superuser is whether credentials can be switched to the execution identity.
	superuser bool

	mu      sync.Mutex
	running map[string]bool
}

// New creates a Supervisor. Worker output goes to the process stdout and stderr.
func New(executor ports.Executor, metrics ports.Metrics, logger ports.Logger) *Supervisor {
	return &Supervisor{
		executor:  executor,
		metrics:   metrics,
		logger:    logger,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		superuser: os.Geteuid() == 0,
		running:   make(map[string]bool),
	}
}

// Run binds the configured address and runs cfg.Workers workers until ctx is done or
// every worker has exited. The listener is passed to each worker as descriptor 3.
// When the supervisor runs as the superuser, workers run as user.
//
// Cancellation sends SIGTERM to the workers and kills those still running after the
// stop grace period; it is not an error. Workers exiting on their own are reported
// with ErrAllWorkersExited once the last one is gone.
func (s *Supervisor) Run(ctx context.Context, cfg domain.SupervisorConfig, user *domain.Owner) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	addr := cfg.Address()
	release, err := s.claim(addr)
	if err != nil {
		return err
	}
	defer release()

	listener, err := listen(ctx, addr)
	if err != nil {
		return err
	}
	defer listener.Close() //nolint:errcheck // closed on shutdown
	file, err := listener.File()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to share listener"), "addr", addr)
	}
	defer file.Close() //nolint:errcheck // closed on shutdown

	s.logger.Info(fmt.Sprintf("listening on %s with %d workers", listener.Addr(), cfg.Workers))

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		live   = cfg.Workers
		errs   []error
		failed bool
	)
	s.metrics.SetLiveWorkers(live)

	for i := range cfg.Workers {
		cmd := s.workerCommand(cfg, i, file, user)
		wg.Go(func() {
			err := s.executor.Execute(ctx, cmd, s.stdout, s.stderr)

			mu.Lock()
			defer mu.Unlock()
			live--
			s.metrics.SetLiveWorkers(live)
			switch {
			case errors.Is(err, domain.ErrCommandNotStarted):
				failed = true
				errs = append(errs, zerr.With(errors.Join(domain.ErrWorkerStartFailed, err), "worker", i))
				cancel()
			case ctx.Err() != nil:
			case err != nil:
				s.logger.Warn(fmt.Sprintf("worker %d exited: %v", i, err))
				errs = append(errs, domain.Tag(err, "worker", i))
			default:
				s.logger.Warn(fmt.Sprintf("worker %d exited", i))
			}
		})
	}
	wg.Wait()

	if failed {
		return errors.Join(errs...)
	}
	if parent.Err() != nil {
		s.logger.Info("all workers stopped")
		return nil
	}
	return errors.Join(append([]error{domain.Tag(domain.ErrAllWorkersExited, "addr", addr)}, errs...)...)
}

func (s *Supervisor) workerCommand(cfg domain.SupervisorConfig, worker int, listener *os.File, user *domain.Owner) domain.Command {
	cmd := domain.Command{
		Args:        cfg.WorkerArgs(worker),
		Dir:         cfg.Dir,
		Env:         append(append([]string(nil), cfg.Env...), "LISTEN_FDS=1"),
		InheritEnv:  true,
		ExtraFiles:  []*os.File{listener},
		StopGrace:   cfg.StopGrace,
		Passthrough: true,
	}
	if s.superuser && user != nil {
		cmd.Credential = user
	}
	return cmd
}

// Exec runs a one-off command in the foreground with the worker environment and
// identity. No port is bound.
func (s *Supervisor) Exec(ctx context.Context, cfg domain.SupervisorConfig, args []string, user *domain.Owner) error {
	if len(args) == 0 {
		return domain.ErrNoCommand
	}
	cmd := domain.Command{
		Args:        args,
		Dir:         cfg.Dir,
		Env:         cfg.Env,
		InheritEnv:  true,
		StopGrace:   cfg.StopGrace,
		Passthrough: true,
	}
	if s.superuser && user != nil {
		cmd.Credential = user
	}
	return s.executor.Execute(ctx, cmd, s.stdout, s.stderr)
}

// claim refuses a second supervisor for the same address in this process.
func (s *Supervisor) claim(addr string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[addr] {
		return nil, domain.Tag(domain.ErrSupervisorRunning, "addr", addr)
	}
	s.running[addr] = true
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.running, addr)
	}, nil
}

func listen(ctx context.Context, addr string) (*net.TCPListener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if errors.Is(err, syscall.EADDRINUSE) {
		return nil, errors.Join(domain.Tag(domain.ErrPortInUse, "addr", addr), err)
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to bind"), "addr", addr)
	}
	return ln.(*net.TCPListener), nil //nolint:forcetypeassert // tcp network
}
