// Package storage defines the file-system abstraction used for cover images
// and rendered charts.
package storage

// Provider is the interface for rooted file operations.
type Provider interface {
	// Root returns the absolute directory all paths are resolved against.
	Root() string
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
}
