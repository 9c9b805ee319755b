package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/config"
)

func writeSized(t *testing.T, dir, name string, size int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func scannedPaths(files []config.File) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return paths
}

func TestScan_MinimumSizeThreshold(t *testing.T) {
	dir := t.TempDir()

	small := writeSized(t, dir, "small.bin", 16000)
	exact := writeSized(t, dir, "exact.bin", 16384)
	large := writeSized(t, dir, "large.bin", 20000)

	s := New(config.ScannerConfig{MinFileSize: 16384})

	files, err := s.Scan(dir)
	require.NoError(t, err)

	paths := scannedPaths(files)
	assert.NotContains(t, paths, small)
	assert.Contains(t, paths, exact)
	assert.Contains(t, paths, large)
}

func TestScan_ExtensionFilter(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
	}{
		{"with leading dot", []string{".txt"}},
		{"without leading dot", []string{"txt"}},
		{"mixed case", []string{".TXT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			matching := writeSized(t, dir, "notes.txt", 64)
			upper := writeSized(t, dir, "NOTES2.TXT", 64)
			other := writeSized(t, dir, "data.bin", 64)
			bare := writeSized(t, dir, "noextension", 64)

			s := New(config.ScannerConfig{MinFileSize: 1}, tt.extensions...)

			files, err := s.Scan(dir)
			require.NoError(t, err)

			paths := scannedPaths(files)
			assert.Contains(t, paths, matching)
			assert.Contains(t, paths, upper)
			assert.NotContains(t, paths, other)
			assert.NotContains(t, paths, bare)
		})
	}
}

func TestScan_NoFilterAdmitsEveryExtension(t *testing.T) {
	dir := t.TempDir()

	txt := writeSized(t, dir, "notes.txt", 64)
	bin := writeSized(t, dir, "data.bin", 64)
	bare := writeSized(t, dir, "noextension", 64)

	s := New(config.ScannerConfig{MinFileSize: 1})

	files, err := s.Scan(dir)
	require.NoError(t, err)

	paths := scannedPaths(files)
	assert.Contains(t, paths, txt)
	assert.Contains(t, paths, bin)
	assert.Contains(t, paths, bare)
}

func TestScan_NestedDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b", "c"), 0o755))

	top := writeSized(t, dir, "top.bin", 64)
	deep := writeSized(t, filepath.Join(dir, "a", "b", "c"), "deep.bin", 64)

	s := New(config.ScannerConfig{MinFileSize: 1})

	files, err := s.Scan(dir)
	require.NoError(t, err)

	paths := scannedPaths(files)
	assert.Contains(t, paths, top)
	assert.Contains(t, paths, deep)
}

func TestScan_SymlinksNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on windows")
	}

	dir := t.TempDir()
	outside := t.TempDir()

	target := writeSized(t, outside, "target.bin", 64)
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link.bin")))
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "linkdir")))

	real := writeSized(t, dir, "real.bin", 64)

	s := New(config.ScannerConfig{MinFileSize: 1})

	files, err := s.Scan(dir)
	require.NoError(t, err)

	// neither the file symlink nor anything behind the dir symlink shows up
	assert.Equal(t, []string{real}, scannedPaths(files))
}

func TestScan_FileMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeSized(t, dir, "Report.PDF", 128)

	s := New(config.ScannerConfig{MinFileSize: 1})

	files, err := s.Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, path, f.Path)
	assert.Equal(t, "Report.PDF", f.Name)
	assert.Equal(t, ".pdf", f.Ext)
	assert.Equal(t, dir, f.Dir)
	assert.Equal(t, int64(128), f.Size)
}

func TestScan_InvalidRoot(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing folder", func(t *testing.T) {
		_, err := New(config.ScannerConfig{}).Scan(filepath.Join(dir, "missing"))
		assert.Error(t, err)
	})

	t.Run("root is a file", func(t *testing.T) {
		path := writeSized(t, dir, "file.bin", 64)
		_, err := New(config.ScannerConfig{}).Scan(path)
		assert.Error(t, err)
	})
}
