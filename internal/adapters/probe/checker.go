// Package probe implements health checks and the sinks health transitions are reported to.
package probe

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxCheckOutput bounds how much command output is kept for the failure message.
const maxCheckOutput = 4 << 10

var (
	_ ports.HealthChecker = (*HTTPChecker)(nil)
	_ ports.HealthChecker = (*CommandChecker)(nil)
)

// HTTPChecker passes when a GET of the URL answers with a status below 400.
type HTTPChecker struct {
	url    string
	client *http.Client
}

// NewHTTPChecker creates an HTTPChecker. Redirects are not followed.
func NewHTTPChecker(url string, client *http.Client) *HTTPChecker {
	if client == nil {
		client = &http.Client{}
	}
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return &HTTPChecker{url: url, client: &c}
}

// Check performs one request.
func (c *HTTPChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return errors.Join(domain.Tag(domain.ErrCheckFailed, "url", c.url), err)
	}
	req.Header.Set("User-Agent", "stevedore-probe")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Join(domain.Tag(domain.ErrCheckFailed, "url", c.url), err)
	}
	defer resp.Body.Close() //nolint:errcheck // body is drained only
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxCheckOutput))

	if resp.StatusCode >= http.StatusBadRequest {
		return zerr.With(domain.Tag(domain.ErrCheckFailed, "url", c.url), "status", resp.StatusCode)
	}
	return nil
}

// CommandChecker passes when the command exits zero.
type CommandChecker struct {
	command  domain.Command
	executor ports.Executor
}

// NewCommandChecker creates a CommandChecker.
func NewCommandChecker(command domain.Command, executor ports.Executor) *CommandChecker {
	return &CommandChecker{command: command, executor: executor}
}

// Check runs the command once.
func (c *CommandChecker) Check(ctx context.Context) error {
	var out limitedBuffer
	if err := c.executor.Execute(ctx, c.command, &out, &out); err != nil {
		failure := domain.Tag(domain.ErrCheckFailed, "command", c.command.Args)
		if s := bytes.TrimSpace(out.Bytes()); len(s) > 0 {
			failure = zerr.With(failure, "output", string(s))
		}
		return errors.Join(failure, err)
	}
	return nil
}

// Factory builds the checker a probe configuration describes.
type Factory struct {
	executor ports.Executor
	client   *http.Client
}

// NewFactory creates a Factory. URL checks share client; per-check timeouts come from
// the context.
func NewFactory(executor ports.Executor, client *http.Client) *Factory {
	return &Factory{executor: executor, client: client}
}

// Checker returns a command checker when cfg names a command, else a URL checker.
// Commands run with env in the working directory dir.
func (f *Factory) Checker(cfg domain.ProbeConfig, env []string, dir string) ports.HealthChecker {
	if len(cfg.Command) > 0 {
		return NewCommandChecker(domain.Command{Args: cfg.Command, Env: env, Dir: dir}, f.executor)
	}
	return NewHTTPChecker(cfg.URL, f.client)
}

type limitedBuffer struct {
	bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := maxCheckOutput - b.Len(); room > 0 {
		b.Buffer.Write(p[:min(len(p), room)])
	}
	return len(p), nil
}
