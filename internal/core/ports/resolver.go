package ports

// InputResolver defines the interface for resolving input files.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs expands paths, directories and globs under root into a sorted list of
	// files relative to root. Base names matching an ignore pattern are skipped.
	ResolveInputs(patterns []string, root string, ignores []string) ([]string, error)
}
