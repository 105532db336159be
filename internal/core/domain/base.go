package domain

import "github.com/opencontainers/go-digest"

// DefaultBaseReference is the base environment used when the descriptor names none.
const DefaultBaseReference = "python:3.11-slim"

// BaseSpec is the declared base environment.
type BaseSpec struct {
	// Reference is an opaque image reference such as "python:3.11-slim".
	Reference string
	// Archive optionally points to an OCI image archive whose layers seed the staging tree.
	Archive string
}

// BaseRef identifies a resolved base environment.
type BaseRef struct {
	Reference string
	// Digest is the manifest digest for archives, or the digest of the reference otherwise.
	Digest digest.Digest
}

// BaseLayer is a layer inherited from the base environment.
type BaseLayer struct {
	MediaType string
	Digest    digest.Digest
	DiffID    digest.Digest
	Size      int64
}

// BaseImage is a resolved base environment.
type BaseImage struct {
	Ref    BaseRef
	Layers []BaseLayer
	// Env is the environment inherited from the base image config.
	Env          []string
	Architecture string
	OS           string
}
