//go:build !unix

package fs

import (
	iofs "io/fs"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

func ownerOf(_ iofs.FileInfo) domain.Owner {
	return domain.Owner{}
}
