package domain

import (
	"os"
	"time"
)

// Command is an external process invocation.
type Command struct {
	Args []string
	Dir  string
	// Env holds KEY=VALUE entries layered over the allow-listed host environment.
	Env []string
	// InheritEnv layers Env over the whole host environment instead. Runtime
	// processes use it so the container environment reaches the payload.
	InheritEnv bool
	// Credential runs the process as this owner when set.
	Credential *Owner
	// ExtraFiles are inherited by the process starting at descriptor 3.
	ExtraFiles []*os.File
	// StopGrace is how long a cancelled process may take to exit after SIGTERM
	// before it is killed. Zero uses the executor default.
	StopGrace time.Duration
	// Passthrough sends output only to the given writers without mirroring it into
	// the logger.
	Passthrough bool
}
