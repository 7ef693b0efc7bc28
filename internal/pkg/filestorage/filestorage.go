// Package filestorage stores uploaded files and hands back URLs for them.
package filestorage

import (
	"context"
	"mime/multipart"
)

// Category is the subdirectory a file is filed under
type Category string

const (
	CategoryProfilePhoto Category = "profile-photos"
	CategoryDocument     Category = "documents"
)

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores the uploaded file under the category and returns its URL
	Save(ctx context.Context, fileHeader *multipart.FileHeader, category Category) (string, error)

	// Delete removes a previously stored file by its URL
	Delete(ctx context.Context, fileURL string) error
}
