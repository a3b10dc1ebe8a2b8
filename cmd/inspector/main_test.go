package main

import (
	"testing"

	"github.com/anime-shed/photo-compliance-go/pkg/models"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		mode   models.Mode
		out    string
		export bool
		want   string
	}{
		{"no export", models.ModePhoto, "", false, ""},
		{"photo default", models.ModePhoto, "", true, "photo.jpg"},
		{"signature default", models.ModeSignature, "", true, "signature.jpg"},
		{"explicit path", models.ModeSignature, "out/sig.jpg", true, "out/sig.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.mode, tt.out, tt.export); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
