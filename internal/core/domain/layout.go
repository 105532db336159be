package domain

const (
	// StateDirName is the name of the internal state directory inside the build context.
	StateDirName = ".stevedore"

	// StoreDirName is the name of the layer record directory.
	StoreDirName = "store"

	// BlobDirName is the name of the layer blob directory.
	BlobDirName = "blobs"

	// StagingDirName is the name of the directory holding staging trees.
	StagingDirName = "staging"

	// DescriptorFileName is the default name of the image descriptor.
	DescriptorFileName = "stevedore.yaml"

	// DefaultOutputDirName is the default directory the OCI layout is written to.
	DefaultOutputDirName = "image"

	// DefaultStatusFile is the default location of the health status file.
	DefaultStatusFile = "/tmp/stevedore-health.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)
