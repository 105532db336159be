package domain

import "go.trai.ch/zerr"

// Build-fatal errors.
var (
	// ErrStageFailed is returned when an action inside a build stage fails. The build is aborted.
	ErrStageFailed = zerr.New("build stage failed")

	// ErrNoStages is returned when a descriptor declares no build stages.
	ErrNoStages = zerr.New("no build stages declared")

	// ErrDuplicateStage is returned when two stages share the same name.
	ErrDuplicateStage = zerr.New("duplicate stage name")

	// ErrInvalidStageName is returned when a stage name contains invalid characters.
	ErrInvalidStageName = zerr.New("stage name can only contain alphanumeric characters, hyphens and underscores")

	// ErrInvalidAction is returned when an action declares zero or more than one kind.
	ErrInvalidAction = zerr.New("action must declare exactly one kind")

	// ErrInputNotFound is returned when a declared copy source or manifest is not found.
	ErrInputNotFound = zerr.New("input not found")

	// ErrPathOutsideRoot is returned when a path escapes the staging tree or build context.
	ErrPathOutsideRoot = zerr.New("path is outside root")

	// ErrInvalidManifest is returned when a dependency manifest cannot be parsed.
	ErrInvalidManifest = zerr.New("invalid dependency manifest")

	// ErrInvalidSpecifier is returned when a version specifier cannot be parsed.
	ErrInvalidSpecifier = zerr.New("invalid version specifier")

	// ErrUnsatisfiableConstraint is returned when no published version satisfies a requirement.
	ErrUnsatisfiableConstraint = zerr.New("unsatisfiable version constraint")

	// ErrPackageNotFound is returned when a package index does not know a package.
	ErrPackageNotFound = zerr.New("package not found in index")

	// ErrIndexUnavailable is returned when a package index cannot be queried.
	ErrIndexUnavailable = zerr.New("package index unavailable")

	// ErrCommandFailed is returned when an external command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCommandNotStarted is returned when an external command cannot be started at all.
	ErrCommandNotStarted = zerr.New("command could not be started")

	// ErrBaseImageInvalid is returned when the base image archive cannot be read.
	ErrBaseImageInvalid = zerr.New("invalid base image archive")

	// ErrExportFailed is returned when the final image cannot be written.
	ErrExportFailed = zerr.New("failed to export image")

	// ErrLayerCorrupt is returned when a cached layer does not match its recorded digest.
	ErrLayerCorrupt = zerr.New("cached layer is corrupt")
)

// Privilege errors.
var (
	// ErrPrivilegeViolation is returned when an action runs in a privilege state it is not allowed in.
	ErrPrivilegeViolation = zerr.New("privilege violation")

	// ErrRequiresSuperuser is returned when a superuser-only action runs after privileges were dropped.
	ErrRequiresSuperuser = zerr.New("action requires superuser privilege")

	// ErrIdentityNotProvisioned is returned when an action references the execution identity before it exists.
	ErrIdentityNotProvisioned = zerr.New("execution identity not provisioned")

	// ErrIdentityConflict is returned when the identity clashes with an existing passwd or group entry.
	ErrIdentityConflict = zerr.New("execution identity conflicts with existing entry")

	// ErrInvalidIdentity is returned when the identity is missing a name or uses the superuser id.
	ErrInvalidIdentity = zerr.New("invalid execution identity")

	// ErrSuperuserOwnership is returned when a runtime-facing path would be owned by the superuser.
	ErrSuperuserOwnership = zerr.New("runtime path must not be owned by the superuser")

	// ErrRunsAsSuperuser is returned when the final process would run as the superuser without an opt-out.
	ErrRunsAsSuperuser = zerr.New("runtime process would run as superuser")
)

// Store errors.
var (
	// ErrStoreCreateFailed is returned when the layer store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create layer store directory")

	// ErrStoreReadFailed is returned when a layer record cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read layer record")

	// ErrStoreUnmarshalFailed is returned when a layer record cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal layer record")

	// ErrStoreMarshalFailed is returned when a layer record cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal layer record")

	// ErrStoreWriteFailed is returned when a layer record or blob cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write layer store")

	// ErrBlobNotFound is returned when a layer blob is missing from the store.
	ErrBlobNotFound = zerr.New("layer blob not found")
)

// Configuration errors.
var (
	// ErrConfigReadFailed is returned when the descriptor cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read descriptor")

	// ErrConfigParseFailed is returned when the descriptor cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse descriptor")

	// ErrInvalidDuration is returned when a duration field cannot be parsed.
	ErrInvalidDuration = zerr.New("invalid duration")

	// ErrInvalidProbeConfig is returned when health probe settings are out of range.
	ErrInvalidProbeConfig = zerr.New("invalid health probe configuration")

	// ErrInvalidSupervisorConfig is returned when supervisor settings are out of range.
	ErrInvalidSupervisorConfig = zerr.New("invalid supervisor configuration")

	// ErrUnsupportedVersion is returned when the descriptor version is not supported.
	ErrUnsupportedVersion = zerr.New("unsupported descriptor version")
)

// Runtime-startup errors.
var (
	// ErrPortInUse is returned when the supervisor cannot bind its port.
	ErrPortInUse = zerr.New("port already bound")

	// ErrSupervisorRunning is returned when a second supervisor is started for the same port.
	ErrSupervisorRunning = zerr.New("supervisor already running for port")

	// ErrWorkerStartFailed is returned when a worker process cannot be spawned.
	ErrWorkerStartFailed = zerr.New("failed to start worker")

	// ErrAllWorkersExited is returned when every worker process has exited.
	ErrAllWorkersExited = zerr.New("all workers exited")

	// ErrNoCommand is returned when there is no command to execute.
	ErrNoCommand = zerr.New("no command to execute")

	// ErrRuntimeDirPrepareFailed is returned when a runtime directory cannot be created or chowned.
	ErrRuntimeDirPrepareFailed = zerr.New("failed to prepare runtime directory")
)

// Health errors.
var (
	// ErrCheckFailed is returned when a health check does not pass.
	ErrCheckFailed = zerr.New("health check failed")

	// ErrCheckTimeout is returned when a health check does not finish within its timeout.
	ErrCheckTimeout = zerr.New("health check timed out")

	// ErrStatusUnavailable is returned when no health status has been reported yet.
	ErrStatusUnavailable = zerr.New("health status unavailable")
)

// Tag attaches a key-value pair to a sentinel error. The sentinel stays matchable
// with errors.Is.
func Tag(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}
