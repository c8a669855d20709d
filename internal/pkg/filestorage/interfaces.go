package filestorage

import (
	"errors"
	"mime/multipart"
)

// ErrUnsafeFilename is returned when a client filename sanitizes to nothing.
var ErrUnsafeFilename = errors.New("filename has no usable characters")

// FileStorage defines the interface for uploaded file storage
type FileStorage interface {
	// SaveFile stores the upload under a sanitized version of its client filename
	// and returns that stored name. An existing file with the same name is replaced.
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a stored file by name. Missing files are not an error.
	DeleteFile(filename string) error

	// GetFullPath returns the filesystem path for a stored filename
	GetFullPath(filename string) string

	// Exists reports whether a stored file with this name is present
	Exists(filename string) bool
}
