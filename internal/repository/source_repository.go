package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/photo-compliance-go/internal/logger"
	"github.com/anime-shed/photo-compliance-go/internal/storage"
	"github.com/anime-shed/photo-compliance-go/pkg/validation"
)

// sourceRepository dispatches to a fetcher by source kind and decodes the result
type sourceRepository struct {
	validator *validation.SourceValidator
	fetchers  map[validation.SourceKind]storage.Fetcher
	maxBytes  int64
}

// NewSourceRepository creates a repository reading files through files and URLs through remote
func NewSourceRepository(validator *validation.SourceValidator, files, remote storage.Fetcher, maxBytes int64) SourceRepository {
	return &sourceRepository{
		validator: validator,
		fetchers: map[validation.SourceKind]storage.Fetcher{
			validation.SourceFile: files,
			validation.SourceURL:  remote,
		},
		maxBytes: maxBytes,
	}
}

func (r *sourceRepository) Load(ctx context.Context, location string) (*Source, error) {
	location = strings.TrimSpace(location)
	kind, err := r.validator.ValidateSource(location)
	if err != nil {
		return nil, err
	}
	fetcher, ok := r.fetchers[kind]
	if !ok || fetcher == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, kind)
	}

	data, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	decoded, err := storage.Decode(data, r.maxBytes)
	if err != nil {
		return nil, err
	}

	b := decoded.Image.Bounds()
	src := &Source{
		Location: location,
		Kind:     string(kind),
		MIMEType: decoded.MIMEType,
		Bytes:    decoded.Bytes,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Image:    decoded.Image,
	}
	logger.WithFields(logrus.Fields{
		"source": location,
		"kind":   kind,
		"mime":   src.MIMEType,
		"width":  src.Width,
		"height": src.Height,
	}).Debug("Source decoded")
	return src, nil
}
