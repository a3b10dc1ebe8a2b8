package validation

import (
	"net/url"
	"slices"
	"strings"

	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
)

// SourceKind tells the loader where a source lives
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceURL  SourceKind = "url"
)

// SourceValidator classifies source locations and applies the remote-source policy
type SourceValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewSourceValidator allows http and https from any host
func NewSourceValidator() *SourceValidator {
	return &SourceValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{},
	}
}

// NewSourceValidatorWithOptions restricts remote sources. Empty hosts means any host.
func NewSourceValidatorWithOptions(schemes []string, hosts []string) *SourceValidator {
	return &SourceValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateSource returns the kind of a source. Anything with a "scheme://" prefix is
// treated as remote and must pass the scheme and host policy.
func (v *SourceValidator) ValidateSource(source string) (SourceKind, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", apperrors.NewValidationError("Source cannot be empty", nil)
	}
	if !strings.Contains(source, "://") {
		return SourceFile, nil
	}
	if err := v.ValidateImageURL(source); err != nil {
		return "", err
	}
	return SourceURL, nil
}

// ValidateImageURL checks a remote source against the policy
func (v *SourceValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}
	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}
	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}
	if !v.isHostAllowed(parsedURL.Hostname()) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}
	return nil
}

func (v *SourceValidator) isSchemeAllowed(scheme string) bool {
	return slices.Contains(v.allowedSchemes, strings.ToLower(scheme))
}

func (v *SourceValidator) isHostAllowed(host string) bool {
	return len(v.allowedHosts) == 0 || slices.Contains(v.allowedHosts, host)
}
