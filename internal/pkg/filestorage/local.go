package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/burakc/scholarhub/internal/pkg/logger"
)

// MaxUploadSize is the largest file Save will accept (5 MiB)
const MaxUploadSize = 5 << 20

// ErrFileTooLarge is returned when an upload exceeds MaxUploadSize
var ErrFileTooLarge = fmt.Errorf("file exceeds the %d byte limit", MaxUploadSize)

// LocalStorage saves files to the local filesystem
type LocalStorage struct {
	basePath string // root directory for stored files
	baseURL  string // prepended to returned file paths, e.g. "/uploads"
}

// NewLocalStorage creates a LocalStorage rooted at basePath
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")
	return &LocalStorage{basePath: basePath, baseURL: baseURL}, nil
}

// Save stores the uploaded file under the category directory with a
// collision-free name and returns the URL it is reachable at.
func (ls *LocalStorage) Save(_ context.Context, fileHeader *multipart.FileHeader, category Category) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided")
	}
	if fileHeader.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(ls.basePath, string(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create category directory: %w", err)
	}

	filename := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	dstPath := filepath.Join(dir, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Debug().Str("file", dstPath).Int64("size", fileHeader.Size).Msg("File stored")
	return strings.TrimRight(ls.baseURL, "/") + "/" + string(category) + "/" + filename, nil
}

// Delete removes a stored file by its URL. Missing files are not an error;
// the caller only cares that the URL no longer resolves.
func (ls *LocalStorage) Delete(_ context.Context, fileURL string) error {
	rel := strings.TrimPrefix(fileURL, strings.TrimRight(ls.baseURL, "/")+"/")
	if rel == fileURL && ls.baseURL != "" {
		return fmt.Errorf("file URL %q is outside this storage", fileURL)
	}
	path := filepath.Join(ls.basePath, filepath.FromSlash(rel))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
