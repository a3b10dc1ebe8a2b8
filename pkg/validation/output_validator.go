package validation

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"

	"github.com/gabriel-vasile/mimetype"

	"github.com/anime-shed/photo-compliance-go/pkg/models"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

// OutputRules are the properties an exported file must have
type OutputRules struct {
	MIMEType string
	MinBytes int
	MaxBytes int
	Width    int
	Height   int
	// MinPx/MaxPx bound each dimension when set, instead of requiring Width x Height exactly
	MinPx int
	MaxPx int
}

// PhotoOutputRules derives the rules for the photo export
func PhotoOutputRules(p profile.PhotoProfile) OutputRules {
	return OutputRules{
		MIMEType: p.Output.MIMEType,
		MinBytes: p.FileSize.MinBytes,
		MaxBytes: p.FileSize.MaxBytes,
		Width:    p.Output.Width,
		Height:   p.Output.Height,
	}
}

// SignatureOutputRules derives the rules for the signature export
func SignatureOutputRules(p profile.SignatureProfile) OutputRules {
	return OutputRules{
		MIMEType: p.Output.MIMEType,
		MinBytes: p.FileSize.MinBytes,
		MaxBytes: p.FileSize.MaxBytes,
		MinPx:    p.Dimension.MinPx,
		MaxPx:    p.Dimension.MaxPx,
	}
}

// OutputIssue describes one property of the exported file that misses its rule
type OutputIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
	// Detected is the sniffed content type for format issues
	Detected string `json:"detected,omitempty"`
}

// OutputValidator inspects the encoded bytes rather than trusting the encoder's claims
type OutputValidator struct {
	rules OutputRules
}

func NewOutputValidator(rules OutputRules) *OutputValidator {
	return &OutputValidator{rules: rules}
}

// Validate sniffs the blob, checks the byte window and decodes the header for dimensions
func (v *OutputValidator) Validate(output *models.CompressionResult) []OutputIssue {
	if output == nil || len(output.Blob) == 0 {
		return []OutputIssue{{
			Type:     "missing_output",
			Message:  "No output has been generated.",
			Severity: "error",
		}}
	}

	var issues []OutputIssue
	detected := mimetype.Detect(output.Blob)
	if !detected.Is(v.rules.MIMEType) {
		issues = append(issues, OutputIssue{
			Type:     "format",
			Message:  fmt.Sprintf("Output is %s, expected %s.", detected.String(), v.rules.MIMEType),
			Severity: "error",
			Detected: detected.String(),
		})
	}

	size := len(output.Blob)
	if size > v.rules.MaxBytes {
		issues = append(issues, OutputIssue{
			Type:        "file_size",
			Message:     fmt.Sprintf("Output is larger than %dKB.", v.rules.MaxBytes/profile.KB),
			Severity:    "warning",
			ActualValue: float64(size),
			Threshold:   float64(v.rules.MaxBytes),
		})
	} else if size < v.rules.MinBytes {
		issues = append(issues, OutputIssue{
			Type:        "file_size",
			Message:     fmt.Sprintf("Output is smaller than %dKB.", v.rules.MinBytes/profile.KB),
			Severity:    "warning",
			ActualValue: float64(size),
			Threshold:   float64(v.rules.MinBytes),
		})
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(output.Blob))
	if err != nil {
		return append(issues, OutputIssue{
			Type:     "decode",
			Message:  "Output could not be decoded.",
			Severity: "error",
		})
	}
	issues = append(issues, v.checkDimensions(cfg.Width, cfg.Height)...)
	return issues
}

func (v *OutputValidator) checkDimensions(w, h int) []OutputIssue {
	if v.rules.MaxPx > 0 {
		var issues []OutputIssue
		for _, d := range []int{w, h} {
			if d < v.rules.MinPx || d > v.rules.MaxPx {
				issues = append(issues, OutputIssue{
					Type:        "dimensions",
					Message:     fmt.Sprintf("Dimensions %dx%d are outside %dpx to %dpx.", w, h, v.rules.MinPx, v.rules.MaxPx),
					Severity:    "warning",
					ActualValue: float64(d),
				})
				break
			}
		}
		return issues
	}
	if v.rules.Width > 0 && (w != v.rules.Width || h != v.rules.Height) {
		return []OutputIssue{{
			Type:     "dimensions",
			Message:  fmt.Sprintf("Dimensions %dx%d differ from %dx%d.", w, h, v.rules.Width, v.rules.Height),
			Severity: "warning",
		}}
	}
	return nil
}

// HasErrors reports whether any issue has error severity
func HasErrors(issues []OutputIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}
