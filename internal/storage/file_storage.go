package storage

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"

	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
)

// FileLoader reads local sources
type FileLoader struct {
	maxBytes int64
}

func NewFileLoader(maxBytes int64) *FileLoader {
	return &FileLoader{maxBytes: maxBytes}
}

// Fetch reads path after checking it exists and fits the size limit
func (f *FileLoader) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("Source load cancelled", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("Source file not found", err).WithDetails(path)
		}
		return nil, apperrors.NewValidationError("Invalid file: unable to read source.", err)
	}
	if info.IsDir() {
		return nil, apperrors.NewValidationError("Invalid file: please select a valid image.", nil).WithDetails(path)
	}
	if info.Size() > f.maxBytes {
		return nil, tooLarge(f.maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid file: unable to read source.", err)
	}
	return data, nil
}
