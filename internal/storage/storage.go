// Package storage loads source images from files or remote URLs and decodes them.
package storage

import "context"

// Fetcher returns the raw bytes of a source
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}
