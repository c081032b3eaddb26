package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMintName(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		original string
		want     string
	}{
		{"simple", "photo.jpg", "20240301_100000_photo.jpg"},
		{"spaces kept", "my photo.png", "20240301_100000_my photo.png"},
		{"no extension", "README", "20240301_100000_README"},
		{"dotted", "archive.tar.gz", "20240301_100000_archive.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MintName(tt.original, now))
		})
	}
}

func TestMintUniqueName(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	t.Run("free name is used as is", func(t *testing.T) {
		got := MintUniqueName("photo.jpg", now, func(string) bool { return false })
		assert.Equal(t, "20240301_100000_photo.jpg", got)
	})

	t.Run("counter goes before the extension", func(t *testing.T) {
		taken := map[string]bool{
			"20240301_100000_photo.jpg":   true,
			"20240301_100000_photo-1.jpg": true,
		}
		got := MintUniqueName("photo.jpg", now, func(n string) bool { return taken[n] })
		assert.Equal(t, "20240301_100000_photo-2.jpg", got)
	})

	t.Run("no extension", func(t *testing.T) {
		taken := map[string]bool{"20240301_100000_scan": true}
		got := MintUniqueName("scan", now, func(n string) bool { return taken[n] })
		assert.Equal(t, "20240301_100000_scan-1", got)
	})
}

func TestOriginalName(t *testing.T) {
	// "e" + combining acute accent folds to the precomposed form
	decomposed := "/tmp/cafe\u0301.jpg"
	assert.Equal(t, "caf\u00e9.jpg", OriginalName(decomposed))
	assert.Equal(t, "photo.jpg", OriginalName("/some/dir/photo.jpg"))
}
