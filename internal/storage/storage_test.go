package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/anime-shed/photo-compliance-go/internal/errors"
	"github.com/anime-shed/photo-compliance-go/pkg/profile"
)

// pngHeader returns a PNG signature and IHDR chunk declaring a w x h grayscale image
func pngHeader(w, h uint32) []byte {
	chunk := make([]byte, 0, 17)
	chunk = append(chunk, "IHDR"...)
	chunk = binary.BigEndian.AppendUint32(chunk, w)
	chunk = binary.BigEndian.AppendUint32(chunk, h)
	chunk = append(chunk, 8, 0, 0, 0, 0)

	out := []byte("\x89PNG\r\n\x1a\n")
	out = binary.BigEndian.AppendUint32(out, 13)
	out = append(out, chunk...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(chunk))
}

func TestDecode(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, image.NewRGBA(image.Rect(0, 0, 12, 9)), nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		data     []byte
		maxBytes int64
		mime     string
		message  string
	}{
		{name: "png", data: pngBytes(t, 5, 7), maxBytes: profile.MaxInputBytes, mime: "image/png"},
		{name: "jpeg", data: jpg.Bytes(), maxBytes: profile.MaxInputBytes, mime: "image/jpeg"},
		{name: "empty", data: nil, maxBytes: profile.MaxInputBytes, message: "please select a valid image"},
		{name: "text", data: []byte("hello, this is plain text"), maxBytes: profile.MaxInputBytes, message: "please select a valid image"},
		{name: "too large", data: pngBytes(t, 5, 7), maxBytes: 16, message: "larger than"},
		{name: "too many pixels", data: pngHeader(16000, 16000), maxBytes: profile.MaxInputBytes, message: "too large to process"},
		{name: "truncated", data: pngBytes(t, 40, 40)[:40], maxBytes: profile.MaxInputBytes, message: "unable to decode image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(tt.data, tt.maxBytes)
			if tt.message != "" {
				if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
					t.Fatalf("Expected validation error, got %v", err)
				}
				if !bytes.Contains([]byte(err.Error()), []byte(tt.message)) {
					t.Errorf("Expected %q in %q", tt.message, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error %v", err)
			}
			if decoded.MIMEType != tt.mime {
				t.Errorf("Expected %s, got %s", tt.mime, decoded.MIMEType)
			}
			if decoded.Bytes != len(tt.data) {
				t.Errorf("Expected %d bytes, got %d", len(tt.data), decoded.Bytes)
			}
		})
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	data := pngBytes(t, 3, 3)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := NewFileLoader(profile.MaxInputBytes).Fetch(context.Background(), path)
	if err != nil || !bytes.Equal(got, data) {
		t.Fatalf("Expected file contents, got %d bytes, err %v", len(got), err)
	}

	if _, err := NewFileLoader(profile.MaxInputBytes).Fetch(context.Background(), filepath.Join(dir, "missing.png")); !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
	if _, err := NewFileLoader(10).Fetch(context.Background(), path); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected size validation error, got %v", err)
	}
	if _, err := NewFileLoader(profile.MaxInputBytes).Fetch(context.Background(), dir); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected directory to be rejected, got %v", err)
	}
}
