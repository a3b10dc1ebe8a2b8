package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/internal/logger"
	"github.com/sirupsen/logrus"
)

const fetchAttempts = 3

// HTTPFetcher downloads remote sources with a bounded body and retries on transient failures
type HTTPFetcher struct {
	client     *http.Client
	maxBytes   int64
	retryDelay time.Duration
}

// NewHTTPFetcher creates a fetcher for sources up to maxBytes
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	transport := &http.Transport{
		MaxIdleConns:           10,
		MaxIdleConnsPerHost:    2,
		IdleConnTimeout:        30 * time.Second,
		TLSHandshakeTimeout:    10 * time.Second,
		ResponseHeaderTimeout:  10 * time.Second,
		ExpectContinueTimeout:  1 * time.Second,
		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes:   maxBytes,
		retryDelay: time.Second,
	}
}

// Fetch downloads location. 4xx responses are not retried; 5xx and transport errors are,
// with a linearly growing delay.
func (h *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid URL format", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/bmp, image/tiff, image/gif, */*")
	req.Header.Set("User-Agent", "Photo-Compliance-Inspector/1.0")

	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		data, retry, err := h.attempt(req)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}

		logger.WithFields(logrus.Fields{
			"url":     location,
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Debug("Retrying source fetch")

		if attempt < fetchAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, apperrors.NewTimeoutError("Source fetch cancelled", ctx.Err())
			case <-time.After(time.Duration(attempt+1) * h.retryDelay):
			}
		}
	}

	if ctx.Err() != nil {
		return nil, apperrors.NewTimeoutError("Source fetch cancelled", ctx.Err())
	}
	if apperrors.IsType(lastErr, apperrors.ErrorTypeValidation) {
		return nil, lastErr
	}
	return nil, apperrors.NewNetworkError(fmt.Sprintf("failed to fetch image after %d attempts", fetchAttempts), lastErr)
}

// attempt performs one request and reports whether a failure is worth retrying
func (h *HTTPFetcher) attempt(req *http.Request) ([]byte, bool, error) {
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if resp.ContentLength > h.maxBytes {
		return nil, false, tooLarge(h.maxBytes)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, true, err
	}
	if int64(len(data)) > h.maxBytes {
		return nil, false, tooLarge(h.maxBytes)
	}
	return data, false, nil
}
