package models

import "time"

// Mode selects which compliance profile applies
type Mode string

const (
	ModePhoto     Mode = "photo"
	ModeSignature Mode = "signature"
)

// EvaluationMetrics carries the numeric outputs of every analyzer that ran
type EvaluationMetrics struct {
	Background *BackgroundMetrics   `json:"background,omitempty"`
	Blur       *BlurResult          `json:"blur,omitempty"`
	Shadow     *ShadowMetrics       `json:"shadow,omitempty"`
	Glare      *GlareResult         `json:"glare,omitempty"`
	Structure  *StructureResult     `json:"structure,omitempty"`
	Face       *FaceDetectionResult `json:"face,omitempty"`
	DaysOld    *int                 `json:"days_old,omitempty"`
	Output     *CompressionSummary  `json:"output,omitempty"`
}

// CompressionSummary is the JSON-safe view of a CompressionResult
type CompressionSummary struct {
	Bytes    int     `json:"bytes"`
	Quality  float64 `json:"quality"`
	MIMEType string  `json:"mime_type"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Warning  string  `json:"warning,omitempty"`
}

// Summary strips the blob from a compression result
func (c *CompressionResult) Summary() *CompressionSummary {
	if c == nil {
		return nil
	}
	return &CompressionSummary{
		Bytes:    c.Bytes,
		Quality:  c.Quality,
		MIMEType: c.MIMEType,
		Width:    c.Width,
		Height:   c.Height,
		Warning:  c.Warning,
	}
}

// Evaluation is one full compliance pass over the current surface
type Evaluation struct {
	Mode      Mode              `json:"mode"`
	Checklist *Checklist        `json:"checklist"`
	Warnings  []string          `json:"warnings"`
	HardFails []string          `json:"hard_fails,omitempty"`
	Metrics   EvaluationMetrics `json:"metrics"`
}

// ExportBlocked reports whether any hard fail prevents export
func (e *Evaluation) ExportBlocked() bool {
	return e != nil && len(e.HardFails) > 0
}

// Report is what the command line tool prints for one session
type Report struct {
	ID                string      `json:"id"`
	Source            string      `json:"source"`
	Timestamp         time.Time   `json:"timestamp"`
	ProcessingTimeSec float64     `json:"processing_time_sec"`
	Evaluation        *Evaluation `json:"evaluation"`
	OCRResult         *OCRResult  `json:"ocr_result,omitempty"`
	OutputPath        string      `json:"output_path,omitempty"`
	Blocked           bool        `json:"blocked"`
	Errors            []string    `json:"errors,omitempty"`
}

// ErrorResponse is printed instead of a report when a session cannot run
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
