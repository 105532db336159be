// Package shell provides an os/exec based executor for build actions.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

// killDelay bounds how long a cancelled command may ignore SIGTERM.
const killDelay = 5 * time.Second

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor. Command output is mirrored to logger line by line.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs the command and waits for it to complete.
func (e *Executor) Execute(ctx context.Context, command domain.Command, stdout, stderr io.Writer) error {
	if len(command.Args) == 0 {
		return domain.ErrNoCommand
	}

	stdoutLog := &logWriter{logger: e.logger, level: "info"}
	stderrLog := &logWriter{logger: e.logger, level: "warn"}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	name := command.Args[0]
	var env []string
	if command.InheritEnv {
		env = overlayEnvironment(os.Environ(), command.Env)
	} else {
		env = resolveEnvironment(os.Environ(), command.Env)
	}

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, command.Args[1:]...) //nolint:gosec // descriptor provided command
	cmd.Args[0] = name
	cmd.Dir = command.Dir
	cmd.Env = env
	if command.Passthrough {
		cmd.Stdout, cmd.Stderr = stdout, stderr
	} else {
		cmd.Stdout = io.MultiWriter(stdoutLog, stdout)
		cmd.Stderr = io.MultiWriter(stderrLog, stderr)
	}
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = killDelay
	if command.StopGrace > 0 {
		cmd.WaitDelay = command.StopGrace
	}
	cmd.ExtraFiles = command.ExtraFiles

	if command.Credential != nil {
		setCredential(cmd, *command.Credential)
	}

	if err := cmd.Start(); err != nil {
		return errors.Join(domain.Tag(domain.ErrCommandFailed, "command", name), domain.ErrCommandNotStarted, err)
	}
	if err := cmd.Wait(); err != nil {
		failure := zerr.With(domain.Tag(domain.ErrCommandFailed, "command", name), "exit_code", ExitCode(err))
		return errors.Join(failure, err)
	}

	return nil
}

// ExitCode extracts the exit status of a failed command, or -1 when it has none.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" || w.logger == nil {
		return
	}

	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Warn(msg)
	}
}

// allowListedEnvVars are the host environment variables inherited by build commands.
// Everything else comes from the descriptor so builds stay reproducible.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"TERM": {},
	"USER": {},
	"PATH": {},
}

// resolveEnvironment layers the command environment over the allow-listed host environment.
func resolveEnvironment(sysEnv, cmdEnv []string) []string {
	envMap := filterSystemEnv(sysEnv)
	keys := make([]string, 0, len(envMap)+len(cmdEnv))
	for _, entry := range sysEnv {
		k, _, ok := strings.Cut(entry, "=")
		if _, allowed := envMap[k]; ok && allowed {
			keys = appendUnique(keys, k)
		}
	}

	for _, entry := range cmdEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		envMap[k] = v
		keys = appendUnique(keys, k)
	}

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// overlayEnvironment layers the command environment over the full host environment.
func overlayEnvironment(sysEnv, cmdEnv []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(cmdEnv))
	var keys []string
	for _, entry := range slices.Concat(sysEnv, cmdEnv) {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		envMap[k] = v
		keys = appendUnique(keys, k)
	}

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

func appendUnique(keys []string, k string) []string {
	for _, existing := range keys {
		if existing == k {
			return keys
		}
	}
	return append(keys, k)
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	return envMap
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
