package domain

import "path"

// Default runtime paths.
const (
	DefaultWorkDir     = "/app"
	DefaultStaticDir   = "/app/staticfiles"
	DefaultMediaDir    = "/app/media"
	DefaultLogsDir     = "/app/logs"
	DefaultRuntimeMode = 0o755
)

// RuntimeDirs is the set of writable directories the payload needs before it starts.
type RuntimeDirs struct {
	Paths []string
	Owner Owner
	Mode  uint32
}

// DefaultRuntimeDirs returns the static, media and logs directories owned by the identity.
func DefaultRuntimeDirs(id Identity) RuntimeDirs {
	return RuntimeDirs{
		Paths: []string{DefaultStaticDir, DefaultMediaDir, DefaultLogsDir},
		Owner: id.Owner(),
		Mode:  DefaultRuntimeMode,
	}
}

// Validate rejects relative paths and superuser ownership.
func (d RuntimeDirs) Validate() error {
	for _, p := range d.Paths {
		if !path.IsAbs(p) {
			return Tag(ErrRuntimeDirPrepareFailed, "path", p)
		}
	}
	if d.Owner.IsSuperuser() {
		return Tag(ErrSuperuserOwnership, "paths", d.Paths)
	}
	return nil
}

// PrepareAction is what the preparer did to one path.
type PrepareAction string

const (
	PrepareCreated   PrepareAction = "created"
	PrepareChowned   PrepareAction = "chowned"
	PrepareUnchanged PrepareAction = "unchanged"
)

// PrepareResult reports the outcome for one runtime directory.
type PrepareResult struct {
	Path   string
	Action PrepareAction
}
