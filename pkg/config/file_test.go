package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFile(t *testing.T) {
	modTime := time.Now().Add(-36 * time.Hour)
	path := filepath.Join("/library", "Photos", "IMG_0042.JPG")

	f := NewFile(path, 123456, modTime)

	assert.Equal(t, path, f.Path)
	assert.Equal(t, filepath.Join("/library", "Photos"), f.Dir)
	assert.Equal(t, "IMG_0042.JPG", f.Name)
	assert.Equal(t, ".jpg", f.Ext)
	assert.Equal(t, int64(123456), f.Size)
	assert.Equal(t, modTime, f.ModTime)

	assert.InDelta(t, 36*3600, f.AgeSeconds, 5)
	assert.InDelta(t, 36, f.AgeHours, 0.1)
	assert.InDelta(t, 1.5, f.AgeDays, 0.1)
}

func TestNewFile_NoExtension(t *testing.T) {
	f := NewFile("/library/README", 64, time.Now())

	assert.Equal(t, "README", f.Name)
	assert.Empty(t, f.Ext)
}

func TestFileRegexMatch(t *testing.T) {
	f := NewFile("/library/shows/Episode.S01E02.mkv", 1024, time.Now())

	tests := []struct {
		name     string
		pattern  string
		expected bool
	}{
		{
			name:     "matching_pattern",
			pattern:  `s[0-9]+e[0-9]+`,
			expected: true,
		},
		{
			name:     "case_insensitive",
			pattern:  `EPISODE`,
			expected: true,
		},
		{
			name:     "non_matching_pattern",
			pattern:  `^sample`,
			expected: false,
		},
		{
			name:     "invalid_pattern",
			pattern:  `[`,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.RegexMatch(tt.pattern))
		})
	}
}

func TestFileRegexMatchAnyAll(t *testing.T) {
	f := NewFile("/library/shows/Episode.S01E02.mkv", 1024, time.Now())

	assert.True(t, f.RegexMatchAny(`^sample, s[0-9]+e[0-9]+`))
	assert.False(t, f.RegexMatchAny(`^sample, ^backup`))

	assert.True(t, f.RegexMatchAll(`episode, mkv$`))
	assert.False(t, f.RegexMatchAll(`episode, ^sample`))
}
