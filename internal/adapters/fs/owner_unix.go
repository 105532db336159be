//go:build unix

package fs

import (
	iofs "io/fs"
	"syscall"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

func ownerOf(info iofs.FileInfo) domain.Owner {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return domain.Owner{UID: int(st.Uid), GID: int(st.Gid)}
	}
	return domain.Owner{}
}
