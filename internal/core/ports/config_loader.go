package ports

import "github.com/javila-dev/lyvio-plaftorm/internal/core/domain"

// ConfigLoader defines the interface for loading the image descriptor.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the descriptor at path and returns the validated image spec.
	Load(path string) (*domain.ImageSpec, error)
}
