package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/javila-dev/lyvio-plaftorm/internal/app"
	_ "github.com/javila-dev/lyvio-plaftorm/internal/wiring"
	"github.com/stretchr/testify/require"
)

// TestGraphResolves builds the whole node graph the binary starts from.
func TestGraphResolves(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
