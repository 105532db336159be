//go:build unix

package shell

import (
	"os/exec"
	"syscall"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

func setCredential(cmd *exec.Cmd, owner domain.Owner) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Credential: &syscall.Credential{
			Uid:         uint32(owner.UID), //nolint:gosec // ids are validated non-negative
			Gid:         uint32(owner.GID), //nolint:gosec // ids are validated non-negative
			NoSetGroups: true,
		},
	}
}
