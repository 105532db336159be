// Package rootfs provides the staging root filesystem builds accumulate stage layers in.
//
// The tree runs unprivileged: ownership and permission bits that the host cannot
// represent are kept in a logical table and written into layers from there.
package rootfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	rootfsDirName = "rootfs"
	hostDirPerm   = 0o755
	permMask      = fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky
)

var _ ports.Tree = (*Tree)(nil)

// Tree is a staging tree backed by a host directory.
type Tree struct {
	dir    string
	root   string
	owners map[string]domain.Owner
	perms  map[string]fs.FileMode
	base   map[string]entry
}

func newTree(dir string) (*Tree, error) {
	root := filepath.Join(dir, rootfsDirName)
	if err := os.MkdirAll(root, hostDirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create staging tree"), "path", root)
	}
	return &Tree{
		dir:    dir,
		root:   root,
		owners: make(map[string]domain.Owner),
		perms:  make(map[string]fs.FileMode),
		base:   make(map[string]entry),
	}, nil
}

// Root returns the host directory backing the tree.
func (t *Tree) Root() string {
	return t.root
}

// HostPath maps an image path to the host. Symlinks in parent components are
// resolved inside the tree; the final component is never followed.
func (t *Tree) HostPath(imagePath string) (string, error) {
	if !path.IsAbs(imagePath) {
		return "", domain.Tag(domain.ErrPathOutsideRoot, "path", imagePath)
	}
	clean := path.Clean(imagePath)
	if clean == "/" {
		return t.root, nil
	}
	dir, err := securejoin.SecureJoin(t.root, path.Dir(clean))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve image path"), "path", imagePath)
	}
	return filepath.Join(dir, path.Base(clean)), nil
}

// key maps a host path below the root back to its image path.
func (t *Tree) key(host string) string {
	rel, err := filepath.Rel(t.root, host)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

// Mkdir creates a directory and any missing parents, all owned by owner.
func (t *Tree) Mkdir(imagePath string, mode fs.FileMode, owner domain.Owner) error {
	host, err := t.HostPath(imagePath)
	if err != nil {
		return err
	}

	var created []string
	for p := host; p != t.root; p = filepath.Dir(p) {
		if _, err := os.Lstat(p); err == nil {
			break
		} else if !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, "failed to stat directory"), "path", imagePath)
		}
		created = append(created, p)
	}

	if err := os.MkdirAll(host, hostDirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", imagePath)
	}
	for _, p := range created {
		t.owners[t.key(p)] = owner
	}
	t.owners[t.key(host)] = owner
	return t.setPerm(host, mode, true)
}

// CopyIn copies a host file, symlink or directory entry into the tree. Directories
// are created empty; callers copy their contents entry by entry.
func (t *Tree) CopyIn(hostSrc, imagePath string, owner domain.Owner) error {
	info, err := os.Lstat(hostSrc)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat copy source"), "path", hostSrc)
	}
	dst, err := t.HostPath(imagePath)
	if err != nil {
		return err
	}
	if err := t.ensureParent(dst); err != nil {
		return err
	}

	switch {
	case info.IsDir():
		if err := t.replaceNonDir(dst); err != nil {
			return err
		}
		if err := os.MkdirAll(dst, hostDirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", imagePath)
		}
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(hostSrc)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", hostSrc)
		}
		if err := t.replace(dst); err != nil {
			return err
		}
		if err := os.Symlink(target, dst); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", imagePath)
		}
		t.owners[t.key(dst)] = owner
		return nil
	case info.Mode().IsRegular():
		if err := t.replace(dst); err != nil {
			return err
		}
		if err := copyFile(hostSrc, dst); err != nil {
			return domain.Tag(err, "path", imagePath)
		}
	default:
		return zerr.With(zerr.New("unsupported file type"), "path", hostSrc)
	}

	t.owners[t.key(dst)] = owner
	return t.setPerm(dst, info.Mode(), info.IsDir())
}

// Chown records a new owner for a path, and for everything below it when recursive.
func (t *Tree) Chown(imagePath string, owner domain.Owner, recursive bool) error {
	host, err := t.HostPath(imagePath)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(host); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat path"), "path", imagePath)
	}
	if !recursive {
		t.owners[t.key(host)] = owner
		return nil
	}
	err = filepath.WalkDir(host, func(p string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		t.owners[t.key(p)] = owner
		return nil
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to change ownership"), "path", imagePath)
	}
	return nil
}

// Remove deletes a path and everything below it. Missing paths are not an error.
func (t *Tree) Remove(imagePath string) error {
	host, err := t.HostPath(imagePath)
	if err != nil {
		return err
	}
	if host == t.root {
		return domain.Tag(domain.ErrPathOutsideRoot, "path", imagePath)
	}
	if err := os.RemoveAll(host); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove path"), "path", imagePath)
	}
	t.forget(t.key(host))
	return nil
}

// ReadFile reads a file from the tree.
func (t *Tree) ReadFile(imagePath string) ([]byte, error) {
	host, err := t.HostPath(imagePath)
	if err != nil {
		return nil, err
	}
	//nolint:gosec // host is confined to the tree
	data, err := os.ReadFile(host)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", imagePath)
	}
	return data, nil
}

// WriteFile writes a file, keeping the recorded owner of an existing file.
func (t *Tree) WriteFile(imagePath string, data []byte, mode fs.FileMode) error {
	host, err := t.HostPath(imagePath)
	if err != nil {
		return err
	}
	if err := t.ensureParent(host); err != nil {
		return err
	}
	if err := os.WriteFile(host, data, mode.Perm()|0o600); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", imagePath)
	}
	return t.setPerm(host, mode, false)
}

// Discard removes the tree and its backing directory.
func (t *Tree) Discard() error {
	if err := os.RemoveAll(t.dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to discard staging tree"), "path", t.dir)
	}
	return nil
}

func (t *Tree) ensureParent(host string) error {
	if err := os.MkdirAll(filepath.Dir(host), hostDirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create parent directory"), "path", t.key(host))
	}
	return nil
}

// replace removes whatever is at host so a new entry can take its place.
func (t *Tree) replace(host string) error {
	if _, err := os.Lstat(host); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(host); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace path"), "path", t.key(host))
	}
	t.forget(t.key(host))
	return nil
}

// replaceNonDir removes host unless it already is a directory.
func (t *Tree) replaceNonDir(host string) error {
	info, err := os.Lstat(host)
	if err != nil || info.IsDir() {
		return nil
	}
	return t.replace(host)
}

func (t *Tree) forget(key string) {
	prefix := strings.TrimSuffix(key, "/") + "/"
	for k := range t.owners {
		if k == key || strings.HasPrefix(k, prefix) {
			delete(t.owners, k)
		}
	}
	for k := range t.perms {
		if k == key || strings.HasPrefix(k, prefix) {
			delete(t.perms, k)
		}
	}
}

// setPerm applies mode on the host, keeping the entry writable for the build user,
// and records the logical mode when the host cannot carry it.
func (t *Tree) setPerm(host string, mode fs.FileMode, dir bool) error {
	want := mode & permMask
	hostMode := want | 0o600
	if dir {
		hostMode |= 0o100
	}
	if err := os.Chmod(host, hostMode); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set permissions"), "path", t.key(host))
	}
	key := t.key(host)
	if hostMode != want {
		t.perms[key] = want
	} else {
		delete(t.perms, key)
	}
	return nil
}

func copyFile(src, dst string) error {
	//nolint:gosec // source comes from the resolved build context
	in, err := os.Open(src)
	if err != nil {
		return zerr.Wrap(err, "failed to open copy source")
	}
	defer in.Close() //nolint:errcheck // read-only

	//nolint:gosec // dst is confined to the tree
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, domain.PrivateFilePerm)
	if err != nil {
		return zerr.Wrap(err, "failed to create file")
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.Wrap(err, "failed to copy file content")
	}
	return out.Close()
}
