package config

import (
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/regex"
)

// File is a regular file discovered during enumeration. Its exported fields
// and methods form the environment ignore expressions are evaluated against.
type File struct {
	Path    string    `json:"Path"`
	Dir     string    `json:"Dir"`
	Name    string    `json:"Name"`
	Ext     string    `json:"Ext"`
	Size    int64     `json:"Size"`
	ModTime time.Time `json:"ModTime"`

	AgeSeconds int64   `json:"AgeSeconds"`
	AgeHours   float32 `json:"AgeHours"`
	AgeDays    float32 `json:"AgeDays"`

	regexPattern *regex.Pattern
}

// NewFile derives the expression environment fields from a path and its
// file info. The extension keeps its leading dot and is lowercased.
func NewFile(path string, size int64, modTime time.Time) File {
	age := time.Since(modTime)

	return File{
		Path:    path,
		Dir:     filepath.Dir(path),
		Name:    filepath.Base(path),
		Ext:     strings.ToLower(filepath.Ext(path)),
		Size:    size,
		ModTime: modTime,

		AgeSeconds: int64(age.Seconds()),
		AgeHours:   float32(age.Hours()),
		AgeDays:    float32(age.Hours() / 24),
	}
}

func (f *File) Log(n float64) float64 {
	return math.Log(n)
}

// RegexMatch reports whether the file name matches pattern. The last compiled
// pattern is cached on the file, expressions tend to probe one pattern per
// file many times.
func (f *File) RegexMatch(pattern string) bool {
	if f.regexPattern == nil || f.regexPattern.Expression.String() != pattern {
		compiled, err := regex.Compile(pattern)
		if err != nil {
			return false
		}
		f.regexPattern = compiled
	}

	match, err := regex.Check(f.Name, f.regexPattern)
	return err == nil && match
}

// RegexMatchAny reports whether the file name matches at least one pattern in
// the comma-separated list. Patterns that fail to compile are dropped.
func (f *File) RegexMatchAny(patternsStr string) bool {
	var compiled []*regex.Pattern
	for _, p := range strings.Split(patternsStr, ",") {
		c, err := regex.Compile(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		compiled = append(compiled, c)
	}

	match, err := regex.CheckAny(f.Name, compiled)
	return err == nil && match
}

// RegexMatchAll reports whether the file name matches every pattern in the
// comma-separated list. A pattern that fails to compile fails the whole check.
func (f *File) RegexMatchAll(patternsStr string) bool {
	var compiled []*regex.Pattern
	for _, p := range strings.Split(patternsStr, ",") {
		c, err := regex.Compile(strings.TrimSpace(p))
		if err != nil {
			return false
		}
		compiled = append(compiled, c)
	}

	match, err := regex.CheckAll(f.Name, compiled)
	return err == nil && match
}
