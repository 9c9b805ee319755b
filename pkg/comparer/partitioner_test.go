package comparer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_SplitsByDivergence(t *testing.T) {
	dir := t.TempDir()
	base := patternBytes(64)

	// f1 and f2 are identical, f3 and f4 share a divergence from f1 at
	// offset 10, f5 diverges at the same offset with a different byte
	alt := append([]byte{}, base...)
	alt[10] = 'Q'

	lone := append([]byte{}, base...)
	lone[10] = 'R'

	f1 := writeFile(t, dir, "f1.bin", base)
	f2 := writeFile(t, dir, "f2.bin", base)
	f3 := writeFile(t, dir, "f3.bin", alt)
	f4 := writeFile(t, dir, "f4.bin", alt)
	f5 := writeFile(t, dir, "f5.bin", lone)

	p := NewPartitioner(newTestComparer(16, 8))

	groups := p.Partition([]string{f1, f2, f3, f4, f5}, 64)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{f1, f2}, groups[0].Files)
	assert.Equal(t, []string{f3, f4}, groups[1].Files)
	assert.Equal(t, int64(64), groups[0].Size)
	assert.Equal(t, int64(64), groups[1].Size)
}

func TestPartition_ResumesAtDeeperDivergences(t *testing.T) {
	dir := t.TempDir()
	base := patternBytes(64)

	// g2 splits from g1 at offset 5, g3 and g4 split from g2 at offset 20
	lvl1 := append([]byte{}, base...)
	lvl1[5] = 'x'

	lvl2 := append([]byte{}, lvl1...)
	lvl2[20] = 'y'

	g1 := writeFile(t, dir, "g1.bin", base)
	g2 := writeFile(t, dir, "g2.bin", lvl1)
	g3 := writeFile(t, dir, "g3.bin", lvl2)
	g4 := writeFile(t, dir, "g4.bin", lvl2)

	p := NewPartitioner(newTestComparer(8, 8))

	groups := p.Partition([]string{g1, g2, g3, g4}, 64)

	// only the deepest pair is identical
	require.Len(t, groups, 1)
	assert.Equal(t, []string{g3, g4}, groups[0].Files)
}

func TestPartition_BatchesBeyondHandleBudget(t *testing.T) {
	dir := t.TempDir()
	base := patternBytes(48)

	alt := append([]byte{}, base...)
	alt[3] = 'Z'

	// three handles means a batch width of two, so five candidates span
	// three sequential batches against the same pivot
	f1 := writeFile(t, dir, "f1.bin", base)
	f2 := writeFile(t, dir, "f2.bin", base)
	f3 := writeFile(t, dir, "f3.bin", base)
	f4 := writeFile(t, dir, "f4.bin", alt)
	f5 := writeFile(t, dir, "f5.bin", alt)
	f6 := writeFile(t, dir, "f6.bin", alt)

	p := NewPartitioner(newTestComparer(8, 3))

	groups := p.Partition([]string{f1, f2, f3, f4, f5, f6}, 48)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{f1, f2, f3}, groups[0].Files)
	assert.Equal(t, []string{f4, f5, f6}, groups[1].Files)
}

func TestPartition_Deterministic(t *testing.T) {
	dir := t.TempDir()
	base := patternBytes(64)

	altA := append([]byte{}, base...)
	altA[7] = 'A'

	altB := append([]byte{}, base...)
	altB[30] = 'B'

	files := []string{
		writeFile(t, dir, "f1.bin", base),
		writeFile(t, dir, "f2.bin", altA),
		writeFile(t, dir, "f3.bin", base),
		writeFile(t, dir, "f4.bin", altB),
		writeFile(t, dir, "f5.bin", altA),
		writeFile(t, dir, "f6.bin", altB),
	}

	p := NewPartitioner(newTestComparer(16, 4))

	first := p.Partition(files, 64)
	second := p.Partition(files, 64)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)

	// sibling buckets resolve in ascending offset order after the root group
	assert.Equal(t, []string{files[0], files[2]}, first[0].Files)
	assert.Equal(t, []string{files[1], files[4]}, first[1].Files)
	assert.Equal(t, []string{files[3], files[5]}, first[2].Files)
}

func TestPartition_MissingPivotDropsBatch(t *testing.T) {
	dir := t.TempDir()
	data := patternBytes(32)

	missing := filepath.Join(dir, "missing.bin")
	f1 := writeFile(t, dir, "f1.bin", data)
	f2 := writeFile(t, dir, "f2.bin", data)

	p := NewPartitioner(newTestComparer(8, 4))

	// the first file acts as pivot and cannot be opened, its candidates
	// are dropped rather than misgrouped
	groups := p.Partition([]string{missing, f1, f2}, 32)
	assert.Empty(t, groups)
}

func TestPartition_SmallSets(t *testing.T) {
	dir := t.TempDir()
	f1 := writeFile(t, dir, "f1.bin", patternBytes(32))

	p := NewPartitioner(newTestComparer(8, 4))

	assert.Empty(t, p.Partition(nil, 32))
	assert.Empty(t, p.Partition([]string{f1}, 32))
}
