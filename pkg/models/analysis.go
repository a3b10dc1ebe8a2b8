package models

// Rect is an axis-aligned box in output-frame pixels
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Area() float64 { return r.Width * r.Height }

// Center returns the centroid of the box
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Point is a landmark position in output-frame pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FaceDetectionResult is the raw outcome of a face detector.
// Available=false means no detector exists; Detected=false with Available=true
// means detection ran and found nothing.
type FaceDetectionResult struct {
	Available bool   `json:"available"`
	Detected  bool   `json:"detected"`
	Box       *Rect  `json:"box,omitempty"`
	LeftEye   *Point `json:"left_eye,omitempty"`
	RightEye  *Point `json:"right_eye,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FaceChecks holds the verdicts derived from a face detection result
type FaceChecks struct {
	Coverage StatusRecord `json:"coverage"`
	Centered StatusRecord `json:"centered"`
	Frontal  StatusRecord `json:"frontal"`
	EyesOpen StatusRecord `json:"eyes_open"`
	Box      *Rect        `json:"box,omitempty"`
}

// BackgroundMetrics are the statistics of the sampled edge margin
type BackgroundMetrics struct {
	MeanLuminance  float64 `json:"mean_luminance"`
	MeanSaturation float64 `json:"mean_saturation"`
	Variance       float64 `json:"variance"`
	Samples        int     `json:"samples"`
}

// BackgroundResult is the outcome of the background analyzer
type BackgroundResult struct {
	Status  StatusRecord       `json:"status"`
	Metrics *BackgroundMetrics `json:"metrics,omitempty"`
}

// BlurResult is the outcome of the blur analyzer
type BlurResult struct {
	Status  StatusRecord `json:"status"`
	Score   float64      `json:"score"`
	Samples int          `json:"samples"`
}

// ShadowMetrics describes dark pixel share and left/right imbalance
type ShadowMetrics struct {
	DarkRatio float64 `json:"dark_ratio"`
	SideDiff  float64 `json:"side_diff"`
	LeftMean  float64 `json:"left_mean"`
	RightMean float64 `json:"right_mean"`
}

// ShadowResult is the outcome of the shadow analyzer
type ShadowResult struct {
	Status  StatusRecord   `json:"status"`
	Metrics *ShadowMetrics `json:"metrics,omitempty"`
}

// GlareResult is the outcome of the glare analyzer
type GlareResult struct {
	Status      StatusRecord `json:"status"`
	BrightRatio float64      `json:"bright_ratio"`
	Samples     int          `json:"samples"`
}

// Band is a contiguous run of high ink density along one axis
type Band struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Span  int     `json:"span"`
	Peak  float64 `json:"peak"`
}

// StructureResult summarises the ink bands of a signature sheet.
// SignatureCount always equals len(RowBands).
type StructureResult struct {
	SignatureCount     int       `json:"signature_count"`
	RowBands           []Band    `json:"row_bands"`
	ColBands           []Band    `json:"col_bands"`
	Gaps               []int     `json:"gaps"`
	MinGap             int       `json:"min_gap"`
	MinGapRequired     int       `json:"min_gap_required"`
	BandCenters        []float64 `json:"band_centers"`
	SpacingOK          bool      `json:"spacing_ok"`
	AlignmentOK        bool      `json:"alignment_ok"`
	MaxCenterDeviation float64   `json:"max_center_deviation"`
	RotatedLikely      bool      `json:"rotated_likely"`
	Contrast           float64   `json:"contrast"`
	InkRatio           float64   `json:"ink_ratio"`
}

// CompressionResult is the size-bounded encoding of the output surface
type CompressionResult struct {
	Blob     []byte  `json:"-"`
	Bytes    int     `json:"bytes"`
	Quality  float64 `json:"quality"`
	MIMEType string  `json:"mime_type"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Warning  string  `json:"warning,omitempty"`
}

// OCRResult represents the read-back of the printed annotation
type OCRResult struct {
	ExtractedText string  `json:"extracted_text"`
	ExpectedText  string  `json:"expected_text,omitempty"`
	WER           float64 `json:"word_error_rate"`
	CER           float64 `json:"character_error_rate"`
	OCRError      string  `json:"ocr_error,omitempty"`
}
