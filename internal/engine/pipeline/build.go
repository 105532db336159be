package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"
)

// lockPath is where the resolved lock is written for the installer. It is removed
// before the layer is cut.
const lockPath = "/.stevedore-requirements.lock"

// build is the state of one Build call.
type build struct {
	p     *Pipeline
	spec  *domain.ImageSpec
	opts  domain.BuildOptions
	tree  ports.Tree
	priv  *domain.Privilege
	reuse bool

	// cmdState is the privilege state the last command of the current stage ran under.
	cmdState domain.PrivilegeState
}

func (b *build) runStage(ctx context.Context, st domain.Stage, parent digest.Digest) (domain.StageResult, error) {
	start := time.Now()
	ctx, span := b.p.Tracer.Start(ctx, st.Name)
	defer span.End()

	res := domain.StageResult{Name: st.Name, Status: domain.StageFailed}
	fail := func(err error) (domain.StageResult, error) {
		err = zerr.With(errors.Join(domain.ErrStageFailed, err), "stage", st.Name)
		span.RecordError(err)
		res.Duration = time.Since(start)
		b.p.updateStatus(st.Name, domain.StageFailed)
		b.p.Metrics.RecordStage(domain.StageFailed, res.Duration)
		return res, err
	}

	inputs, err := b.p.stageInputs(st, b.spec, b.opts)
	if err != nil {
		return fail(err)
	}
	res.Key = domain.StageKey(parent, st, inputs)
	b.cmdState = b.priv.State()

	if b.reuse {
		rec, err := b.p.Store.Get(b.opts.StateDir, res.Key)
		if err != nil {
			b.p.Logger.Warn("layer record unreadable for stage " + st.Name + ", rebuilding: " + err.Error())
		}
		if rec != nil {
			if err := b.applyCached(rec); err != nil {
				return fail(err)
			}
			span.MarkCached()
			res.Status, res.Layer, res.Duration = domain.StageCached, rec, time.Since(start)
			b.p.updateStatus(st.Name, domain.StageCached)
			b.p.Metrics.RecordStage(domain.StageCached, res.Duration)
			return res, nil
		}
	}
	b.reuse = false

	for i, a := range st.Actions {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if err := b.runAction(ctx, a, span); err != nil {
			return fail(domain.Tag(err, "action", i))
		}
	}

	diffID, size, stats, err := b.p.commitLayer(b.tree, b.opts.StateDir, b.owners())
	if err != nil {
		return fail(err)
	}
	rec := domain.LayerRecord{
		Stage:     st.Name,
		Key:       res.Key,
		DiffID:    diffID,
		Size:      size,
		Entries:   stats.Entries(),
		Privilege: b.priv.State(),
		Timestamp: time.Now().UTC(),
	}
	if err := b.p.Store.Put(b.opts.StateDir, rec); err != nil {
		return fail(err)
	}
	_, _ = fmt.Fprintf(span, "layer %s: %d added, %d modified, %d removed\n",
		diffID.Encoded()[:12], stats.Added, stats.Modified, stats.Removed)

	res.Status, res.Layer, res.Duration = domain.StageBuilt, &rec, time.Since(start)
	b.p.updateStatus(st.Name, domain.StageBuilt)
	b.p.Metrics.RecordStage(domain.StageBuilt, res.Duration)
	return res, nil
}

// applyCached replays a stored layer and restores the privilege state it recorded.
func (b *build) applyCached(rec *domain.LayerRecord) error {
	blob, err := b.p.Store.OpenBlob(b.opts.StateDir, rec.DiffID)
	if err != nil {
		return err
	}
	err = b.tree.Apply(blob)
	if cerr := blob.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err := b.tree.Snapshot(); err != nil {
		return err
	}
	b.priv = domain.RestorePrivilege(b.spec.Identity, rec.Privilege)
	return nil
}

// owners assigns paths commands created: the identity when the last command of the
// stage ran after privileges were dropped, the superuser otherwise. Once the identity
// exists, new paths below its home directory always belong to it.
func (b *build) owners() ports.OwnerFunc {
	owner := b.spec.Identity.Owner()
	if b.cmdState == domain.PrivilegeScoped {
		return func(string) domain.Owner { return owner }
	}
	if b.priv.State() == domain.PrivilegeSuperuser {
		return func(string) domain.Owner { return domain.Owner{} }
	}
	home := path.Clean("/" + b.spec.Identity.Home)
	return func(imagePath string) domain.Owner {
		if home != "/" && (imagePath == home || strings.HasPrefix(imagePath, home+"/")) {
			return owner
		}
		return domain.Owner{}
	}
}

func (b *build) runAction(ctx context.Context, a domain.Action, span ports.Span) error {
	if err := domain.ApplyPrivilege(b.priv, a); err != nil {
		return err
	}
	kind, _ := a.Kind()
	switch kind {
	case domain.ActionPackages:
		return b.exec(ctx, span, b.spec.Installers.System, map[string][]string{"{packages}": a.Packages})
	case domain.ActionPrune:
		return b.prune(a.Prune)
	case domain.ActionIdentity:
		return b.provision()
	case domain.ActionManifest:
		return b.installManifest(ctx, a.Manifest, span)
	case domain.ActionCopy:
		return b.copy(a.Copy, span)
	case domain.ActionMkdir:
		return b.mkdir(a.Mkdir)
	case domain.ActionRun:
		return b.exec(ctx, span, a.Run, nil)
	case domain.ActionUser:
		_, _ = fmt.Fprintf(span, "later stages run as %s\n", b.spec.Identity.UserSpec())
	}
	return nil
}

// exec runs a command template behind the shell prefix.
func (b *build) exec(ctx context.Context, span ports.Span, template []string, lists map[string][]string) error {
	cmd := b.command(template, lists, nil)
	_, _ = fmt.Fprintf(span, "$ %s\n", strings.Join(cmd.Args, " "))
	b.cmdState = b.priv.State()
	return b.p.Executor.Execute(ctx, cmd, span, span)
}

// command expands a template. {root} is the host root of the tree. An argument equal to
// a key of lists expands to that list.
func (b *build) command(template []string, lists map[string][]string, vars map[string]string) domain.Command {
	root := b.tree.Root()
	replacements := []string{"{root}", root}
	for k, v := range vars {
		replacements = append(replacements, k, v)
	}
	r := strings.NewReplacer(replacements...)

	var args []string
	for _, arg := range append(append([]string(nil), b.spec.Shell...), template...) {
		if list, ok := lists[arg]; ok {
			args = append(args, list...)
			continue
		}
		args = append(args, r.Replace(arg))
	}

	dir := root
	if home, err := b.tree.HostPath(b.spec.Identity.Home); err == nil {
		if info, err := os.Stat(home); err == nil && info.IsDir() {
			dir = home
		}
	}

	cmd := domain.Command{
		Args: args,
		Dir:  dir,
		Env:  append(b.spec.EnvList(), "STEVEDORE_ROOT="+root),
	}
	if b.p.superuser && b.priv.State() == domain.PrivilegeScoped {
		owner := b.spec.Identity.Owner()
		cmd.Credential = &owner
	}
	return cmd
}

// prune removes paths from the tree. Patterns may use glob syntax in their last element.
func (b *build) prune(patterns []string) error {
	for _, pattern := range patterns {
		host, err := b.tree.HostPath(pattern)
		if err != nil {
			return err
		}
		matches, err := filepath.Glob(host)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid prune pattern"), "path", pattern)
		}
		for _, m := range matches {
			rel, err := filepath.Rel(b.tree.Root(), m)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", m)
			}
			if err := b.tree.Remove("/" + filepath.ToSlash(rel)); err != nil {
				return err
			}
		}
	}
	return nil
}

// provision writes the identity into the account files and hands it its home directory.
func (b *build) provision() error {
	id := b.spec.Identity
	for _, f := range []struct {
		path   string
		upsert func([]byte, domain.Identity) ([]byte, error)
	}{
		{domain.PasswdPath, domain.UpsertPasswd},
		{domain.GroupPath, domain.UpsertGroup},
	} {
		content, err := b.tree.ReadFile(f.path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		updated, err := f.upsert(content, id)
		if err != nil {
			return err
		}
		if err := b.tree.WriteFile(f.path, updated, domain.FilePerm); err != nil {
			return err
		}
	}

	if err := b.tree.Mkdir(id.Home, 0o755, id.Owner()); err != nil {
		return err
	}
	return b.tree.Chown(id.Home, id.Owner(), true)
}

func (b *build) installManifest(ctx context.Context, rel string, span ports.Span) error {
	host, err := contextPath(b.opts.ContextDir, rel)
	if err != nil {
		return err
	}
	//nolint:gosec // manifest path is confined to the build context
	f, err := os.Open(host)
	if err != nil {
		return errors.Join(domain.Tag(domain.ErrInputNotFound, "path", rel), err)
	}
	manifest, err := domain.ParseManifest(f)
	_ = f.Close()
	if err != nil {
		return domain.Tag(err, "manifest", rel)
	}

	index, err := b.p.Indexes.Open(indexLocation(b.spec.Installers.Index, b.opts.ContextDir))
	if err != nil {
		return err
	}
	lock, err := b.p.Packages.Resolve(ctx, manifest, index)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(span, "resolved %d requirements against %s\n%s", len(lock.Pins), index.Source(), lock.Render())

	if err := b.tree.WriteFile(lockPath, []byte(lock.Render()), domain.FilePerm); err != nil {
		return err
	}
	lockArg, err := b.tree.HostPath(lockPath)
	if err != nil {
		return err
	}
	if len(b.spec.Shell) > 0 {
		lockArg = lockPath
	}

	cmd := b.command(b.spec.Installers.Python, nil, map[string]string{"{lock}": lockArg})
	_, _ = fmt.Fprintf(span, "$ %s\n", strings.Join(cmd.Args, " "))
	b.cmdState = b.priv.State()
	runErr := b.p.Executor.Execute(ctx, cmd, span, span)
	if err := b.tree.Remove(lockPath); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// copy copies build context files below the destination directory. A directory source
// contributes its contents, a file source its base name.
func (b *build) copy(spec *domain.CopySpec, span ports.Span) error {
	owner, err := b.priv.ResolveOwner(spec.Owner)
	if err != nil {
		return err
	}
	if err := b.ensureDir(spec.To, owner); err != nil {
		return err
	}

	ignores := copyIgnores(spec, b.opts)
	count := 0
	for _, pattern := range spec.From {
		files, err := b.p.Resolver.ResolveInputs([]string{pattern}, b.opts.ContextDir, ignores)
		if err != nil {
			return err
		}
		for _, rel := range files {
			dest := path.Join(spec.To, filepath.ToSlash(copyTarget(pattern, rel)))
			if err := b.ensureDir(path.Dir(dest), owner); err != nil {
				return err
			}
			if err := b.tree.CopyIn(filepath.Join(b.opts.ContextDir, rel), dest, owner); err != nil {
				return err
			}
			count++
		}
	}
	_, _ = fmt.Fprintf(span, "copied %d files to %s\n", count, spec.To)
	return nil
}

func (b *build) mkdir(spec *domain.MkdirSpec) error {
	owner, err := b.priv.ResolveOwner(spec.Owner)
	if err != nil {
		return err
	}
	mode := fs.FileMode(spec.Mode)
	if mode == 0 {
		mode = domain.DefaultRuntimeMode
	}
	for _, p := range spec.Paths {
		if err := b.tree.Mkdir(p, mode, owner); err != nil {
			return err
		}
	}
	return nil
}

// ensureDir creates a missing directory with owner. Existing directories are left alone.
func (b *build) ensureDir(imagePath string, owner domain.Owner) error {
	host, err := b.tree.HostPath(imagePath)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(host); err == nil {
		return nil
	}
	return b.tree.Mkdir(imagePath, 0o755, owner)
}

// copyTarget maps a file matched by pattern to its path below the copy destination.
func copyTarget(pattern, rel string) string {
	pattern = filepath.Clean(pattern)
	if pattern == "." {
		return rel
	}
	for anchor := rel; anchor != "." && anchor != string(filepath.Separator); anchor = filepath.Dir(anchor) {
		ok, _ := filepath.Match(pattern, anchor)
		if !ok {
			continue
		}
		if anchor == rel {
			return filepath.Base(rel)
		}
		if sub, err := filepath.Rel(anchor, rel); err == nil {
			return sub
		}
	}
	return filepath.Base(rel)
}

// copyIgnores keeps the state and output directories out of the copied payload.
func copyIgnores(spec *domain.CopySpec, opts domain.BuildOptions) []string {
	ignores := append([]string{domain.StateDirName}, spec.Ignore...)
	if rel, err := filepath.Rel(opts.ContextDir, opts.OutputDir); err == nil && !strings.HasPrefix(rel, "..") {
		ignores = append(ignores, filepath.Base(opts.OutputDir))
	}
	return ignores
}

// contextPath resolves a path relative to the build context, rejecting escapes.
func contextPath(contextDir, rel string) (string, error) {
	clean := filepath.Clean(rel)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", domain.Tag(domain.ErrPathOutsideRoot, "path", rel)
	}
	return filepath.Join(contextDir, clean), nil
}

// indexLocation resolves relative static index paths against the build context.
func indexLocation(location, contextDir string) string {
	if strings.Contains(location, "://") || filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(contextDir, location)
}
