//go:build !unix

package shell

import (
	"os/exec"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
)

func setCredential(_ *exec.Cmd, _ domain.Owner) {}
