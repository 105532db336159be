package ports

// Hasher defines the interface for computing content hashes.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFiles hashes the relative paths and contents of files under root.
	// The result does not depend on the order of files.
	HashFiles(root string, files []string) (string, error)
}
