// Package pipeline runs the ordered, cacheable build stages of an image.
package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"github.com/opencontainers/go-digest"
)

// Deps are the collaborators a Pipeline runs stages with.
type Deps struct {
	Executor ports.Executor
	Store    ports.LayerStore
	Hasher   ports.Hasher
	Resolver ports.InputResolver
	Area     ports.StagingArea
	Base     ports.BaseProvider
	Exporter ports.Exporter
	Packages ports.DependencyResolver
	Indexes  ports.IndexOpener
	Tracer   ports.Tracer
	Logger   ports.Logger
	Metrics  ports.Metrics
}

// Pipeline builds images stage by stage. Stages run strictly in order.
type Pipeline struct {
	Deps

	// superuser is whether build commands run with the privileges to switch credentials.
	superuser bool

	mu     sync.RWMutex
	status map[string]domain.StageStatus
}

// New creates a Pipeline.
func New(deps Deps) *Pipeline {
	return &Pipeline{
		Deps:      deps,
		superuser: os.Geteuid() == 0,
		status:    make(map[string]domain.StageStatus),
	}
}

// Status returns the last known status of a stage.
func (p *Pipeline) Status(stage string) domain.StageStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.status[stage]; ok {
		return s
	}
	return domain.StageUnknown
}

func (p *Pipeline) updateStatus(stage string, status domain.StageStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status[stage] = status
}

// Build runs every stage and exports the image. A failing stage aborts the build:
// nothing is committed for it and no image is written.
func (p *Pipeline) Build(ctx context.Context, spec *domain.ImageSpec, opts domain.BuildOptions) (*domain.BuildResult, error) {
	start := time.Now()
	res, err := p.build(ctx, spec, opts)
	p.Metrics.RecordBuild(err, time.Since(start))
	return res, err
}

func (p *Pipeline) build(ctx context.Context, spec *domain.ImageSpec, opts domain.BuildOptions) (*domain.BuildResult, error) {
	if _, err := domain.CheckPrivileges(spec); err != nil {
		return nil, err
	}

	base, err := p.Base.Resolve(ctx, spec.Base)
	if err != nil {
		return nil, err
	}
	baseKey := domain.BaseKey(base.Ref, spec.Env, spec.Shell, spec.Identity)

	tree, err := p.Area.Create(opts.StateDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := tree.Discard(); err != nil {
			p.Logger.Error(err)
		}
	}()

	if err := p.applyBase(ctx, tree, spec.Base, base); err != nil {
		return nil, err
	}
	if err := tree.Snapshot(); err != nil {
		return nil, err
	}

	names := make([]string, len(spec.Stages))
	for i, st := range spec.Stages {
		names[i] = st.Name
		p.updateStatus(st.Name, domain.StageUnknown)
	}
	p.Tracer.EmitPlan(ctx, names)

	b := &build{
		p:     p,
		spec:  spec,
		opts:  opts,
		tree:  tree,
		priv:  domain.NewPrivilege(spec.Identity),
		reuse: !opts.NoCache,
	}

	res := &domain.BuildResult{OutputDir: opts.OutputDir, BaseKey: baseKey}
	var layers []domain.LayerRecord
	parent := baseKey
	for _, st := range spec.Stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sr, err := b.runStage(ctx, st, parent)
		res.Stages = append(res.Stages, sr)
		if err != nil {
			return nil, err
		}
		parent = sr.Key
		layers = append(layers, *sr.Layer)
	}

	user, err := b.priv.RuntimeUser(spec.AllowRoot)
	if err != nil {
		return nil, err
	}
	if user == domain.SuperuserName {
		p.Logger.Warn("image runs as the superuser because privilege.allow_root is set")
	}
	res.User = user

	res.Manifest, err = p.Exporter.Export(ctx, ports.ExportRequest{
		Spec:      spec,
		BaseSpec:  spec.Base,
		Base:      base,
		Layers:    layers,
		User:      user,
		StateDir:  opts.StateDir,
		OutputDir: opts.OutputDir,
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Plan computes every stage key and reports which stages the layer store would serve.
// Nothing is executed. Stages after the first miss are reported as misses.
func (p *Pipeline) Plan(ctx context.Context, spec *domain.ImageSpec, opts domain.BuildOptions) (*domain.BuildResult, error) {
	plan, err := domain.CheckPrivileges(spec)
	if err != nil {
		return nil, err
	}
	base, err := p.Base.Resolve(ctx, spec.Base)
	if err != nil {
		return nil, err
	}

	res := &domain.BuildResult{
		OutputDir: opts.OutputDir,
		BaseKey:   domain.BaseKey(base.Ref, spec.Env, spec.Shell, spec.Identity),
		User:      plan.RuntimeUser,
	}
	parent := res.BaseKey
	hit := !opts.NoCache
	for _, st := range spec.Stages {
		inputs, err := p.stageInputs(st, spec, opts)
		if err != nil {
			return nil, domain.Tag(err, "stage", st.Name)
		}
		sr := domain.StageResult{Name: st.Name, Key: domain.StageKey(parent, st, inputs), Status: domain.StageMiss}
		if hit {
			rec, err := p.Store.Get(opts.StateDir, sr.Key)
			if err != nil {
				p.Logger.Warn("layer record unreadable for stage " + st.Name + ": " + err.Error())
			}
			if rec != nil {
				sr.Status, sr.Layer = domain.StageCached, rec
			} else {
				hit = false
			}
		}
		res.Stages = append(res.Stages, sr)
		parent = sr.Key
	}
	return res, nil
}

func (p *Pipeline) applyBase(ctx context.Context, tree ports.Tree, spec domain.BaseSpec, base *domain.BaseImage) error {
	for _, l := range base.Layers {
		if err := ctx.Err(); err != nil {
			return err
		}
		rc, err := p.Base.OpenLayer(ctx, spec, l)
		if err != nil {
			return err
		}
		err = tree.Apply(rc)
		if cerr := rc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return domain.Tag(err, "base_layer", l.Digest.String())
		}
	}
	return nil
}

// commitLayer streams the tree diff into the layer store.
func (p *Pipeline) commitLayer(tree ports.Tree, stateDir string, owners ports.OwnerFunc) (digest.Digest, int64, domain.LayerStats, error) {
	pr, pw := io.Pipe()
	var stats domain.LayerStats
	done := make(chan error, 1)
	go func() {
		var err error
		stats, err = tree.Commit(pw, owners)
		_ = pw.CloseWithError(err)
		done <- err
	}()

	diffID, size, err := p.Store.WriteBlob(stateDir, pr)
	_ = pr.CloseWithError(errors.New("layer store stopped reading"))
	cerr := <-done
	if err != nil {
		return "", 0, domain.LayerStats{}, err
	}
	if cerr != nil {
		return "", 0, domain.LayerStats{}, cerr
	}
	return diffID, size, stats, nil
}
