package domain

import (
	"time"

	"github.com/opencontainers/go-digest"
)

// LayerRecord describes a committed stage layer. It is stored under its cache key.
type LayerRecord struct {
	Stage string        `json:"stage"`
	Key   digest.Digest `json:"key"`
	// DiffID is the digest of the uncompressed layer tar. The blob is stored under it.
	DiffID    digest.Digest  `json:"diff_id"`
	Size      int64          `json:"size"`
	Entries   int            `json:"entries"`
	Privilege PrivilegeState `json:"privilege"`
	// Timestamp is informational and never part of a key.
	Timestamp time.Time `json:"timestamp"`
}

// LayerStats summarizes a layer diff.
type LayerStats struct {
	Added    int
	Modified int
	Removed  int
}

// Entries returns the number of entries written to the layer.
func (s LayerStats) Entries() int {
	return s.Added + s.Modified + s.Removed
}

// StageStatus is the outcome of one stage in a build or plan.
type StageStatus string

const (
	StageCached  StageStatus = "cached"
	StageBuilt   StageStatus = "built"
	StageMiss    StageStatus = "miss"
	StageFailed  StageStatus = "failed"
	StageUnknown StageStatus = "unknown"
)

// StageResult reports one stage.
type StageResult struct {
	Name     string
	Key      digest.Digest
	Status   StageStatus
	Layer    *LayerRecord
	Duration time.Duration
}
