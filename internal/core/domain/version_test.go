package domain_test

import (
	"slices"
	"testing"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		raw        string
		normalized string
		semver     string
		pre        bool
	}{
		{"4.2", "4.2", "v4.2.0", false},
		{"21.2.0", "21.2.0", "v21.2.0", false},
		{"2.0rc1", "2.0rc1", "v2.0.0-rc.1", true},
		{"1.0.0-alpha.2", "1.0.0a2", "v1.0.0-a.2", true},
		{"1.0b", "1.0b0", "v1.0.0-b.0", true},
		{"1.0.post2", "1.0.post2", "v1.0.0", false},
		{"1.0-3", "1.0.post3", "v1.0.0", false},
		{"1.0.dev4", "1.0.dev4", "v1.0.0-0.4", true},
		{"1!2.0", "1!2.0", "v2.0.0", false},
		{"1.2.3.4", "1.2.3.4", "v1.2.3", false},
		{"1.0+local.1", "1.0+local.1", "v1.0.0", false},
		{"V1.0", "1.0", "v1.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := domain.ParseVersion(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.normalized, v.String())
			assert.Equal(t, tt.semver, v.Semver())
			assert.Equal(t, tt.pre, v.IsPrerelease())
		})
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	for _, raw := range []string{"", "latest", "1.x", "one.two"} {
		_, err := domain.ParseVersion(raw)
		require.ErrorIs(t, err, domain.ErrInvalidSpecifier, raw)
	}
}

func TestVersion_Ordering(t *testing.T) {
	ordered := []string{
		"1.0.dev1",
		"1.0a1.dev1",
		"1.0a1",
		"1.0b2",
		"1.0rc1",
		"1.0",
		"1.0.post1.dev1",
		"1.0.post1",
		"1.0.1",
		"1.0.1.1",
		"1.1",
		"2.0",
		"1!0.1",
	}

	shuffled := slices.Clone(ordered)
	slices.Reverse(shuffled)
	versions := make([]domain.Version, len(shuffled))
	for i, raw := range shuffled {
		v, err := domain.ParseVersion(raw)
		require.NoError(t, err)
		versions[i] = v
	}
	slices.SortFunc(versions, func(a, b domain.Version) int { return a.Compare(b) })

	got := make([]string, len(versions))
	for i, v := range versions {
		got[i] = v.Raw
	}
	assert.Equal(t, ordered, got)
}
