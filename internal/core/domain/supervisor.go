package domain

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Supervisor defaults.
const (
	DefaultBindAddress = "0.0.0.0"
	DefaultPort        = 8000
	DefaultWorkers     = 3
	DefaultEntrypoint  = "lyvio.wsgi:application"
	DefaultStopGrace   = 10 * time.Second
	// ListenFD is the descriptor number the shared listener is passed to workers on.
	ListenFD = 3
)

// DefaultWorkerCommand runs one single-process application server on the inherited socket.
func DefaultWorkerCommand() []string {
	return []string{"gunicorn", "--bind", "fd://{fd}", "--workers", "1", "{app}"}
}

// SupervisorConfig configures the process supervisor.
type SupervisorConfig struct {
	BindAddress string
	Port        int
	Workers     int
	// Entrypoint is the application target passed to each worker.
	Entrypoint string
	// WorkerCommand is the command template for one worker. Placeholders:
	// {fd}, {app}, {addr}, {port}, {worker}.
	WorkerCommand []string
	StopGrace     time.Duration
	// Env is appended to the environment of every worker.
	Env []string
	// Dir is the working directory of every worker.
	Dir string
}

// DefaultSupervisorConfig returns the settings the service ships with.
func DefaultSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		BindAddress:   DefaultBindAddress,
		Port:          DefaultPort,
		Workers:       DefaultWorkers,
		Entrypoint:    DefaultEntrypoint,
		WorkerCommand: DefaultWorkerCommand(),
		StopGrace:     DefaultStopGrace,
	}
}

// Validate checks the supervisor configuration.
func (c SupervisorConfig) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return Tag(ErrInvalidSupervisorConfig, "port", c.Port)
	case c.Workers < 1:
		return Tag(ErrInvalidSupervisorConfig, "workers", c.Workers)
	case len(c.WorkerCommand) == 0:
		return Tag(ErrInvalidSupervisorConfig, "worker_command", "empty")
	case c.StopGrace < 0:
		return Tag(ErrInvalidSupervisorConfig, "stop_grace", c.StopGrace.String())
	}
	return nil
}

// Address returns the host:port the supervisor binds.
func (c SupervisorConfig) Address() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

// WorkerArgs expands the worker command template for one worker.
func (c SupervisorConfig) WorkerArgs(worker int) []string {
	r := strings.NewReplacer(
		"{fd}", strconv.Itoa(ListenFD),
		"{app}", c.Entrypoint,
		"{addr}", c.BindAddress,
		"{port}", strconv.Itoa(c.Port),
		"{worker}", strconv.Itoa(worker),
	)
	args := make([]string, len(c.WorkerCommand))
	for i, a := range c.WorkerCommand {
		args[i] = r.Replace(a)
	}
	return args
}

// DefaultCommand renders the image's default command as a single foreground server.
func (c SupervisorConfig) DefaultCommand() []string {
	return []string{
		"gunicorn",
		"--bind", c.Address(),
		"--workers", strconv.Itoa(c.Workers),
		c.Entrypoint,
	}
}
