package sizefilemap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/config"
)

func testFile(path string, size int64) config.File {
	return config.NewFile(path, size, time.Now())
}

func TestCandidateSets_RequireSharedSize(t *testing.T) {
	sfm := New([]config.File{
		testFile("/data/a.bin", 100),
		testFile("/data/b.bin", 100),
		testFile("/data/odd.bin", 250),
	})

	sets := sfm.CandidateSets()

	// the unique size can have no duplicates and is dropped
	require.Len(t, sets, 1)
	assert.Equal(t, int64(100), sets[0].Size)
	require.Len(t, sets[0].Files, 2)
}

func TestCandidateSets_OrderedBySizeThenPath(t *testing.T) {
	sfm := New([]config.File{
		testFile("/data/z.bin", 500),
		testFile("/data/a.bin", 500),
		testFile("/data/m.bin", 500),
		testFile("/data/two.bin", 100),
		testFile("/data/one.bin", 100),
	})

	sets := sfm.CandidateSets()
	require.Len(t, sets, 2)

	assert.Equal(t, int64(100), sets[0].Size)
	assert.Equal(t, int64(500), sets[1].Size)

	assert.Equal(t, "/data/one.bin", sets[0].Files[0].Path)
	assert.Equal(t, "/data/two.bin", sets[0].Files[1].Path)

	assert.Equal(t, "/data/a.bin", sets[1].Files[0].Path)
	assert.Equal(t, "/data/m.bin", sets[1].Files[1].Path)
	assert.Equal(t, "/data/z.bin", sets[1].Files[2].Path)
}

func TestCandidateSets_Empty(t *testing.T) {
	assert.Empty(t, New(nil).CandidateSets())

	// all sizes unique
	sfm := New([]config.File{
		testFile("/data/a.bin", 1),
		testFile("/data/b.bin", 2),
		testFile("/data/c.bin", 3),
	})
	assert.Empty(t, sfm.CandidateSets())
}

func TestLengthAndFiles(t *testing.T) {
	sfm := New([]config.File{
		testFile("/data/a.bin", 100),
		testFile("/data/b.bin", 100),
		testFile("/data/c.bin", 300),
	})

	assert.Equal(t, 2, sfm.Length())
	assert.Equal(t, 3, sfm.Files())

	sfm.Add(testFile("/data/d.bin", 400))
	assert.Equal(t, 3, sfm.Length())
	assert.Equal(t, 4, sfm.Files())
}
