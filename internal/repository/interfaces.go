package repository

import (
	"context"
	"image"
)

// SourceRepository resolves a source location to a decoded bitmap
type SourceRepository interface {
	// Load fetches and decodes a source given as a file path or http(s) URL
	Load(ctx context.Context, location string) (*Source, error)
}

// Source is a decoded source bitmap with metadata about where it came from
type Source struct {
	Location string      `json:"location"`
	Kind     string      `json:"kind"`
	MIMEType string      `json:"mime_type"`
	Bytes    int         `json:"bytes"`
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	Image    image.Image `json:"-"`
}
