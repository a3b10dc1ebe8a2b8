// Package profile holds the two compliance profiles. Values are returned by
// value so callers cannot mutate the shared configuration.
package profile

import "github.com/anime-shed/photo-compliance-go/pkg/models"

const (
	KB = 1024
	MB = 1024 * KB

	// MaxInputBytes caps the size of any source file
	MaxInputBytes = 15 * MB
	// MaxInputPixels caps the decoded size of any source, whatever its file size
	MaxInputPixels = 100_000_000
)

// Output describes the exported file
type Output struct {
	Width    int
	Height   int
	MIMEType string
	Filename string
}

// FileSize is the accepted byte window of the exported file
type FileSize struct {
	MinBytes int
	MaxBytes int
}

// Face thresholds for the photo mode
type Face struct {
	MinCoverageRatio     float64
	MaxCoverageRatio     float64
	CenterToleranceRatio float64
	TiltTolerancePx      float64
}

// Background thresholds
type Background struct {
	EdgeSampleRatio float64
	MinBrightness   float64
	MaxSaturation   float64
	MaxVariance     float64
}

// Blur thresholds
type Blur struct {
	MinEdgeScore float64
}

// Shadow thresholds
type Shadow struct {
	MaxDarkPixelRatio float64
	MaxSideDifference float64
}

// Glare thresholds
type Glare struct {
	MaxBrightRatio float64
}

// Text configures the name/date annotation bar
type Text struct {
	BarHeightPx int
	FontSizePx  float64
	MinFontPx   float64
	Color       [3]uint8
	BarColor    [3]uint8
	BarAlpha    float64
	SidePadding int
}

// Detect thresholds for signature ink-band detection
type Detect struct {
	InkLuminanceThreshold      float64
	MaxInkSaturation           float64
	MinRowInkRatio             float64
	MinColInkRatio             float64
	MinBandHeightRatio         float64
	MaxBandGapPx               int
	MinGapRatio                float64
	MinContrast                float64
	SevereContrast             float64
	MinInkRatioHard            float64
	MaxAlignmentDeviationRatio float64
}

// Dimension bounds the exported pixel size
type Dimension struct {
	MinPx int
	MaxPx int
}

// PhotoProfile is the full threshold set for the photo mode
type PhotoProfile struct {
	Output        Output
	FileSize      FileSize
	MaxInputBytes int64
	Face          Face
	Background    Background
	Blur          Blur
	Shadow        Shadow
	Glare         Glare
	RecencyDays   int
	Text          Text
}

// SignatureProfile is the full threshold set for the signature mode
type SignatureProfile struct {
	Output        Output
	FileSize      FileSize
	Dimension     Dimension
	MaxInputBytes int64
	Background    Background
	Blur          Blur
	Shadow        Shadow
	Detect        Detect
}

// Photo returns the ID photo profile
func Photo() PhotoProfile {
	return PhotoProfile{
		Output: Output{
			Width:    600,
			Height:   800,
			MIMEType: "image/jpeg",
			Filename: "photo.jpg",
		},
		FileSize:      FileSize{MinBytes: 20 * KB, MaxBytes: 200 * KB},
		MaxInputBytes: MaxInputBytes,
		Face: Face{
			MinCoverageRatio:     0.75,
			MaxCoverageRatio:     0.95,
			CenterToleranceRatio: 0.12,
			TiltTolerancePx:      20,
		},
		Background: Background{
			EdgeSampleRatio: 0.1,
			MinBrightness:   224,
			MaxSaturation:   0.12,
			MaxVariance:     980,
		},
		Blur:        Blur{MinEdgeScore: 12},
		Shadow:      Shadow{MaxDarkPixelRatio: 0.06, MaxSideDifference: 24},
		Glare:       Glare{MaxBrightRatio: 0.028},
		RecencyDays: 10,
		Text: Text{
			BarHeightPx: 92,
			FontSizePx:  30,
			MinFontPx:   17,
			Color:       [3]uint8{0x0f, 0x2f, 0x36},
			BarColor:    [3]uint8{255, 255, 255},
			BarAlpha:    0.96,
			SidePadding: 24,
		},
	}
}

// Signature returns the signature sheet profile
func Signature() SignatureProfile {
	return SignatureProfile{
		Output: Output{
			Width:    400,
			Height:   500,
			MIMEType: "image/jpeg",
			Filename: "signature.jpg",
		},
		FileSize:      FileSize{MinBytes: 20 * KB, MaxBytes: 100 * KB},
		Dimension:     Dimension{MinPx: 350, MaxPx: 500},
		MaxInputBytes: MaxInputBytes,
		Background: Background{
			EdgeSampleRatio: 0.1,
			MinBrightness:   228,
			MaxSaturation:   0.08,
			MaxVariance:     820,
		},
		Blur:   Blur{MinEdgeScore: 9},
		Shadow: Shadow{MaxDarkPixelRatio: 0.09, MaxSideDifference: 30},
		Detect: Detect{
			InkLuminanceThreshold:      145,
			MaxInkSaturation:           0.5,
			MinRowInkRatio:             0.015,
			MinColInkRatio:             0.015,
			MinBandHeightRatio:         0.04,
			MaxBandGapPx:               3,
			MinGapRatio:                0.05,
			MinContrast:                65,
			SevereContrast:             42,
			MinInkRatioHard:            0.002,
			MaxAlignmentDeviationRatio: 0.18,
		},
	}
}

// PhotoLabels are the human readable checklist captions for the photo mode
var PhotoLabels = map[models.CheckKey]string{
	models.CheckFaceCoverage:         "Face coverage at least 75%",
	models.CheckHeadCentered:         "Head centered in frame",
	models.CheckFrontal:              "Frontal alignment",
	models.CheckEyesOpen:             "Eyes open and visible",
	models.CheckEarsVisible:          "Both ears visible",
	models.CheckPlainWhiteBackground: "Plain white background",
	models.CheckNoShadows:            "No major shadows",
	models.CheckSharpness:            "Photo is not blurry",
	models.CheckNaturalExpression:    "Natural expression",
	models.CheckHairClear:            "No hair over eyes",
	models.CheckNoGlare:              "No glare on glasses",
	models.CheckNoRestrictedItems:    "No restricted items or marks",
	models.CheckNameDatePrinted:      "Name and Date printed clearly",
	models.CheckRecency:              "Photo recency within 10 days",
	models.CheckFileFormat:           "JPG/JPEG format",
	models.CheckFileSize:             "File size 20KB to 200KB",
}

// SignatureLabels are the human readable checklist captions for the signature mode
var SignatureLabels = map[models.CheckKey]string{
	models.CheckFileFormat:           "Format is JPG/JPEG",
	models.CheckFileSize:             "File size is 20KB to 100KB",
	models.CheckDimensions:           "Dimensions are between 350 and 500 px",
	models.CheckThreeSignatures:      "Exactly 3 signatures present",
	models.CheckSharpness:            "Signature image is sharp and readable",
	models.CheckPlainWhiteBackground: "Plain white paper background",
	models.CheckNoShadows:            "No major shadows",
	models.CheckContrast:             "Ink contrast is acceptable",
	models.CheckSpacing:              "Signatures have enough spacing",
	models.CheckAlignment:            "Signatures are vertically aligned",
	models.CheckOrientation:          "Image is properly oriented (not tilted)",
}
