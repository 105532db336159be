// Package telemetry records build progress on a progrock tape.
package telemetry

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
)

var (
	_ ports.Tracer = (*Tracer)(nil)
	_ ports.Span   = (*Span)(nil)
)

// Tracer implements ports.Tracer with one progrock vertex per span.
type Tracer struct {
	w    progrock.Writer
	rec  *progrock.Recorder
	echo io.Writer
}

// New creates a Tracer recording to a fresh tape.
func New() *Tracer {
	return NewTracer(progrock.NewTape(), nil)
}

// NewTracer creates a Tracer recording to w. When echo is set, span output is also
// written there, prefixed with the span name.
func NewTracer(w progrock.Writer, echo io.Writer) *Tracer {
	return &Tracer{w: w, rec: progrock.NewRecorder(w), echo: echo}
}

// Start creates a vertex named after the span.
func (t *Tracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	v := t.rec.Vertex(digest.FromString(name), name)
	return ctx, &Span{vertex: v, out: t.output(name, v.Stdout())}
}

// EmitPlan records the planned stages on a dedicated vertex.
func (t *Tracer) EmitPlan(_ context.Context, stageNames []string) {
	v := t.rec.Vertex(digest.FromString("plan:"+strings.Join(stageNames, ",")), "plan")
	_, _ = io.WriteString(v.Stdout(), strings.Join(stageNames, "\n")+"\n")
	v.Done(nil)
}

// Close flushes the tape.
func (t *Tracer) Close() error {
	return t.w.Close()
}

func (t *Tracer) output(name string, vertex io.Writer) io.Writer {
	if t.echo == nil {
		return vertex
	}
	return io.MultiWriter(vertex, &prefixWriter{w: t.echo, prefix: "[" + name + "] "})
}

// Span implements ports.Span on a progrock vertex.
type Span struct {
	vertex *progrock.VertexRecorder
	out    io.Writer
	err    error
	once   sync.Once
}

// Write records p as vertex output.
func (s *Span) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// RecordError records the error the vertex completes with.
func (s *Span) RecordError(err error) {
	s.err = err
}

// MarkCached marks the vertex as served from the layer store.
func (s *Span) MarkCached() {
	s.vertex.Cached()
}

// End completes the vertex. Later calls are ignored.
func (s *Span) End() {
	s.once.Do(func() { s.vertex.Done(s.err) })
}

// prefixWriter writes complete lines to w, each starting with prefix.
type prefixWriter struct {
	w       io.Writer
	prefix  string
	pending []byte
	mu      sync.Mutex
}

func (p *prefixWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append(p.pending, b...)
	for {
		i := bytes.IndexByte(p.pending, '\n')
		if i < 0 {
			return len(b), nil
		}
		line := p.pending[:i+1]
		if _, err := io.WriteString(p.w, p.prefix+string(line)); err != nil {
			return len(b), err
		}
		p.pending = p.pending[i+1:]
	}
}
