package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/yigit/learncircle/internal/pkg/logger"
)

const maxExtensionLength = 10

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
}

// NewLocalStorage creates a new LocalStorage rooted at basePath, creating the directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// BasePath returns the upload root
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// SanitizeFilename turns a client-supplied filename into a safe, flat name.
// Directory components are dropped, the stem is slugified and the extension
// is kept only if it is short and alphanumeric. Returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}

	ext := filepath.Ext(name)
	stem := slug.Make(strings.TrimSuffix(name, ext))
	if stem == "" {
		return ""
	}

	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" || len(ext) > maxExtensionLength || !isAlnum(ext) {
		return stem
	}
	return stem + "." + ext
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// SaveFile writes the upload to basePath/<sanitized name>, replacing any previous file.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil || fileHeader.Filename == "" {
		return "", ErrUnsafeFilename
	}

	filename := SanitizeFilename(fileHeader.Filename)
	if filename == "" {
		return "", ErrUnsafeFilename
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dstPath := filepath.Join(ls.basePath, filename)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", filename).Msg("File saved successfully")
	return filename, nil
}

// DeleteFile removes a stored file by name.
func (ls *LocalStorage) DeleteFile(filename string) error {
	physicalPath := ls.GetFullPath(filename)
	if physicalPath == "" {
		return fmt.Errorf("invalid file name: %q", filename)
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath returns the full filesystem path for a stored filename.
func (ls *LocalStorage) GetFullPath(filename string) string {
	base := filepath.Base(filename)
	if base == "" || base == "." || base == "/" || base == ".." {
		return ""
	}
	return filepath.Join(ls.basePath, base)
}

// Exists reports whether a regular file with this stored name is present.
func (ls *LocalStorage) Exists(filename string) bool {
	path := ls.GetFullPath(filename)
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
