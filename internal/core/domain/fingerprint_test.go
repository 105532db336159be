package domain_test

import (
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
)

func testStages() []domain.Stage {
	return []domain.Stage{
		{Name: "system", Actions: []domain.Action{
			{Packages: []string{"libpq-dev", "gcc"}},
			{Prune: []string{"/var/lib/apt/lists"}},
		}},
		{Name: "identity", Actions: []domain.Action{{Identity: true}}},
		{Name: "deps", Actions: []domain.Action{{Manifest: "requirements.txt"}}},
		{Name: "payload", Actions: []domain.Action{
			{Copy: &domain.CopySpec{From: []string{"."}, To: "/app"}},
		}},
	}
}

func chainKeys(base digest.Digest, stages []domain.Stage, inputs map[string]digest.Digest) []digest.Digest {
	keys := make([]digest.Digest, 0, len(stages))
	parent := base
	for _, st := range stages {
		parent = domain.StageKey(parent, st, inputs[st.Name])
		keys = append(keys, parent)
	}
	return keys
}

func TestStageKey_Deterministic(t *testing.T) {
	id := domain.Identity{Name: "appuser", UID: 1000, GID: 1000, Home: "/app"}
	base := domain.BaseKey(domain.BaseRef{Reference: "python:3.11-slim"}, domain.DefaultEnv(), nil, id)
	inputs := map[string]digest.Digest{
		"deps":    digest.FromString("requirements"),
		"payload": digest.FromString("source-v1"),
	}

	first := chainKeys(base, testStages(), inputs)
	second := chainKeys(base, testStages(), inputs)

	assert.Equal(t, first, second)
}

func TestStageKey_SourceChangeKeepsDependencyLayer(t *testing.T) {
	id := domain.Identity{Name: "appuser", UID: 1000, GID: 1000, Home: "/app"}
	base := domain.BaseKey(domain.BaseRef{Reference: "python:3.11-slim"}, domain.DefaultEnv(), nil, id)

	before := chainKeys(base, testStages(), map[string]digest.Digest{
		"deps":    digest.FromString("requirements"),
		"payload": digest.FromString("source-v1"),
	})
	after := chainKeys(base, testStages(), map[string]digest.Digest{
		"deps":    digest.FromString("requirements"),
		"payload": digest.FromString("source-v2"),
	})

	assert.Equal(t, before[:3], after[:3])
	assert.NotEqual(t, before[3], after[3])
}

func TestStageKey_ManifestChangeInvalidatesLaterStages(t *testing.T) {
	id := domain.Identity{Name: "appuser", UID: 1000, GID: 1000, Home: "/app"}
	base := domain.BaseKey(domain.BaseRef{Reference: "python:3.11-slim"}, domain.DefaultEnv(), nil, id)

	before := chainKeys(base, testStages(), map[string]digest.Digest{
		"deps":    digest.FromString("django==4.2"),
		"payload": digest.FromString("source"),
	})
	after := chainKeys(base, testStages(), map[string]digest.Digest{
		"deps":    digest.FromString("django==5.0"),
		"payload": digest.FromString("source"),
	})

	assert.Equal(t, before[:2], after[:2])
	assert.NotEqual(t, before[2], after[2])
	assert.NotEqual(t, before[3], after[3], "keys chain through their parents")
}

func TestBaseKey_Inputs(t *testing.T) {
	id := domain.Identity{Name: "appuser", UID: 1000, GID: 1000, Home: "/app"}
	ref := domain.BaseRef{Reference: "python:3.11-slim"}
	key := domain.BaseKey(ref, domain.DefaultEnv(), nil, id)

	tests := []struct {
		name string
		got  digest.Digest
	}{
		{"reference", domain.BaseKey(domain.BaseRef{Reference: "python:3.12-slim"}, domain.DefaultEnv(), nil, id)},
		{"env", domain.BaseKey(ref, map[string]string{"A": "1"}, nil, id)},
		{"shell", domain.BaseKey(ref, domain.DefaultEnv(), []string{"chroot", "{root}"}, id)},
		{"identity", domain.BaseKey(ref, domain.DefaultEnv(), nil, domain.Identity{Name: "appuser", UID: 1001, GID: 1000, Home: "/app"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, key, tt.got)
		})
	}
}

func TestStageKey_ActionBoundaries(t *testing.T) {
	parent := digest.FromString("parent")
	a := domain.Stage{Name: "s", Actions: []domain.Action{{Run: []string{"echo", "ab"}}}}
	b := domain.Stage{Name: "s", Actions: []domain.Action{{Run: []string{"echo a", "b"}}}}

	assert.NotEqual(t, domain.StageKey(parent, a, ""), domain.StageKey(parent, b, ""))
}
