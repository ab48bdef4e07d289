package ports

import (
	"io"
	"os"
)

// FileSystemPort is the subset of file system access the checksum services need.
type FileSystemPort interface {
	// Open opens path for reading. The caller owns the returned handle.
	Open(filePath string) (io.ReadCloser, error)

	ReadFile(filePath string) ([]byte, error)

	// WriteFileAtomic replaces filePath with contents so that readers never
	// observe a partially written file.
	WriteFileAtomic(filePath string, permission os.FileMode, contents []byte) error

	// WalkFiles calls fn for every regular file under root in lexical order.
	// relPath is slash separated and relative to root. root must resolve to
	// a directory.
	WalkFiles(root string, fn func(relPath string, size int64) error) error
}
