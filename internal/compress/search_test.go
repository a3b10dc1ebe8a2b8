package compress

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
)

// fakeEncoder returns blobs whose size is a function of quality
type fakeEncoder struct {
	size      func(q float64) int
	qualities []float64
}

func (f *fakeEncoder) MIMEType() string { return "image/jpeg" }

func (f *fakeEncoder) Encode(_ context.Context, _ image.Image, q float64) ([]byte, error) {
	f.qualities = append(f.qualities, q)
	return make([]byte, f.size(q)), nil
}

func testSurface() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 60, 80))
}

const (
	testMin = 20 * 1024
	testMax = 100 * 1024
)

func TestCompress_FitsUnderMax(t *testing.T) {
	enc := &fakeEncoder{size: func(q float64) int { return int(q * 200_000) }}
	result, err := NewSearcher(enc).Compress(context.Background(), testSurface(), Request{PreferredQuality: 0.92, MinBytes: testMin, MaxBytes: testMax})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Bytes > testMax {
		t.Errorf("Expected at most %d bytes, got %d", testMax, result.Bytes)
	}
	if result.Bytes < testMin {
		t.Errorf("Expected at least %d bytes, got %d", testMin, result.Bytes)
	}
	if result.Warning != "" {
		t.Errorf("Expected no warning, got %q", result.Warning)
	}
	// highest fitting quality is about 0.512; search should get close
	if result.Quality < 0.45 || result.Quality > 0.513 {
		t.Errorf("Expected quality near 0.51, got %f", result.Quality)
	}
	if len(enc.qualities) != maxIterations {
		t.Errorf("Expected %d encodes, got %d", maxIterations, len(enc.qualities))
	}
	if result.Width != 60 || result.Height != 80 || result.MIMEType != "image/jpeg" {
		t.Errorf("Unexpected output description %+v", result)
	}
}

func TestCompress_PropertyFitsWheneverAchievable(t *testing.T) {
	for _, scale := range []int{90_000, 150_000, 400_000, 1_000_000, 1_900_000} {
		enc := &fakeEncoder{size: func(q float64) int { return int(q * float64(scale)) }}
		result, err := NewSearcher(enc).Compress(context.Background(), testSurface(), Request{PreferredQuality: 1, MinBytes: 1, MaxBytes: testMax})
		if err != nil {
			t.Fatalf("scale %d: unexpected error %v", scale, err)
		}
		if result.Bytes > testMax {
			t.Errorf("scale %d: %d bytes exceeds max", scale, result.Bytes)
		}
	}
}

func TestCompress_NothingFits(t *testing.T) {
	enc := &fakeEncoder{size: func(float64) int { return 500_000 }}
	result, err := NewSearcher(enc).Compress(context.Background(), testSurface(), Request{PreferredQuality: 0.9, MinBytes: testMin, MaxBytes: testMax})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Bytes != 500_000 || len(result.Blob) != 500_000 {
		t.Errorf("Expected fallback blob of 500000 bytes, got %d", result.Bytes)
	}
	if result.Quality != MinQuality {
		t.Errorf("Expected fallback quality %f, got %f", MinQuality, result.Quality)
	}
	if result.Warning != "Could not reduce below 100KB. Retake with cleaner framing." {
		t.Errorf("Unexpected warning %q", result.Warning)
	}
	last := enc.qualities[len(enc.qualities)-1]
	if last != MinQuality {
		t.Errorf("Expected last encode at minimum quality, got %f", last)
	}
}

func TestCompress_BelowMinimum(t *testing.T) {
	tests := []struct {
		name        string
		size        func(q float64) int
		wantBytes   int
		wantQuality float64
		wantWarning string
	}{
		{
			name: "max quality lands inside window",
			size: func(q float64) int {
				if q == MaxQuality {
					return 50_000
				}
				return 1_000
			},
			wantBytes:   50_000,
			wantQuality: MaxQuality,
		},
		{
			name:        "still small at max quality",
			size:        func(float64) int { return 1_000 },
			wantBytes:   1_000,
			wantQuality: MaxQuality,
			wantWarning: "File is below 20KB even at max quality.",
		},
		{
			name: "max quality overshoots",
			size: func(q float64) int {
				if q == MaxQuality {
					return 500_000
				}
				return 1_000
			},
			wantBytes:   1_000,
			wantWarning: "File is below minimum size with current settings. Adjust crop and retry.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := &fakeEncoder{size: tt.size}
			result, err := NewSearcher(enc).Compress(context.Background(), testSurface(), Request{PreferredQuality: 0.9, MinBytes: testMin, MaxBytes: testMax})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.Bytes != tt.wantBytes {
				t.Errorf("Expected %d bytes, got %d", tt.wantBytes, result.Bytes)
			}
			if tt.wantQuality != 0 && result.Quality != tt.wantQuality {
				t.Errorf("Expected quality %f, got %f", tt.wantQuality, result.Quality)
			}
			if result.Warning != tt.wantWarning {
				t.Errorf("Expected warning %q, got %q", tt.wantWarning, result.Warning)
			}
		})
	}
}

func TestCompress_PreferredQualityClamp(t *testing.T) {
	enc := &fakeEncoder{size: func(float64) int { return 30_000 }}
	_, err := NewSearcher(enc).Compress(context.Background(), testSurface(), Request{PreferredQuality: 0.1, MinBytes: testMin, MaxBytes: testMax})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first := enc.qualities[0]; first != (MinQuality+0.4)/2 {
		t.Errorf("Expected first probe at %f, got %f", (MinQuality+0.4)/2, first)
	}
	// the nudge past a fitting probe can lift the midpoint at most 0.01 over the ceiling
	for _, q := range enc.qualities {
		if q > 0.41+1e-9 {
			t.Errorf("Probe %f exceeds clamped ceiling", q)
		}
	}
}

type emptyEncoder struct{}

func (emptyEncoder) MIMEType() string { return "image/jpeg" }
func (emptyEncoder) Encode(context.Context, image.Image, float64) ([]byte, error) {
	return nil, nil
}

func TestCompress_EncoderFailure(t *testing.T) {
	_, err := NewSearcher(emptyEncoder{}).Compress(context.Background(), testSurface(), Request{PreferredQuality: 0.9, MinBytes: testMin, MaxBytes: testMax})
	if err == nil {
		t.Fatal("Expected error for empty encoder output")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeEncoding) {
		t.Errorf("Expected encoding error, got %v", err)
	}
}

func TestCompress_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	enc := &fakeEncoder{size: func(float64) int { return 30_000 }}
	_, err := NewSearcher(enc).Compress(ctx, testSurface(), Request{PreferredQuality: 0.9, MinBytes: testMin, MaxBytes: testMax})
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
	if len(enc.qualities) != 0 {
		t.Errorf("Expected no encodes after cancellation, got %d", len(enc.qualities))
	}
}

func TestJPEGEncoder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 160))
	for y := 0; y < 160; y++ {
		for x := 0; x < 120; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 2), uint8(y), uint8((x + y) % 256), 255})
		}
	}
	enc := NewJPEGEncoder()
	low, err := enc.Encode(context.Background(), img, 0.1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	high, err := enc.Encode(context.Background(), img, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(low) == 0 || len(high) <= len(low) {
		t.Errorf("Expected higher quality to produce more bytes (%d vs %d)", len(high), len(low))
	}
	if !strings.HasPrefix(string(high[:2]), "\xff\xd8") {
		t.Error("Expected JPEG SOI marker")
	}

	result, err := NewSearcher(enc).Compress(context.Background(), img, Request{PreferredQuality: 0.92, MinBytes: 1, MaxBytes: len(high) - 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Bytes >= len(high) {
		t.Errorf("Expected search to fit under %d bytes, got %d", len(high)-1, result.Bytes)
	}
}

func TestJPEGQuality(t *testing.T) {
	tests := []struct {
		q    float64
		want int
	}{
		{0, 1},
		{0.05, 5},
		{0.505, 51},
		{1, 100},
		{1.7, 100},
		{-1, 1},
	}
	for _, tt := range tests {
		if got := jpegQuality(tt.q); got != tt.want {
			t.Errorf("jpegQuality(%f) = %d, want %d", tt.q, got, tt.want)
		}
	}
}
