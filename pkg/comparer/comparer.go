package comparer

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// candidate is one still-active stream within a comparison session.
type candidate struct {
	path string
	file *os.File
}

// Compare streams the pivot against candidates in lock-step chunks starting
// at resumeOffset and returns the paths confirmed byte-identical with the
// pivot through end of file. A candidate that diverges is recorded in buckets
// under the offset and byte value of its first difference and drops out of
// the session immediately, releasing its handle. A candidate that cannot be
// opened is logged and excluded entirely. Only a pivot failure aborts the
// call.
//
// Callers must keep len(candidatePaths) within BatchWidth so the session
// cannot exhaust the handle budget.
func (c *Comparer) Compare(pivotPath string, candidatePaths []string, resumeOffset int64, buckets map[PartitionKey][]string) ([]string, error) {
	pivot, err := c.open(pivotPath, resumeOffset)
	if err != nil {
		return nil, fmt.Errorf("open pivot %q: %w", pivotPath, err)
	}
	defer c.close(pivot)

	active := make([]*candidate, 0, len(candidatePaths))
	defer func() {
		for _, cand := range active {
			c.close(cand.file)
		}
	}()

	for _, path := range candidatePaths {
		f, err := c.open(path, resumeOffset)
		if err != nil {
			c.log.WithError(err).Warnf("Failed opening candidate, excluding from comparison: %q", path)
			continue
		}
		active = append(active, &candidate{path: path, file: f})
	}

	pivotBuf := make([]byte, c.chunkSize)
	candBuf := make([]byte, c.chunkSize)
	offset := resumeOffset

	for len(active) > 0 {
		c.throttle.Take()

		n, err := pivot.Read(pivotBuf)
		if n > 0 {
			chunk := pivotBuf[:n]

			remaining := active[:0]
			for _, cand := range active {
				read, readErr := io.ReadFull(cand.file, candBuf[:n])
				if read < n {
					// candidates are the same size as the pivot, so a short
					// read means the file changed or the medium is failing
					c.log.WithError(readErr).Warnf("Short read at offset %d, excluding candidate: %q",
						offset+int64(read), cand.path)
					c.close(cand.file)
					continue
				}

				if i := mismatchIndex(chunk, candBuf[:n]); i >= 0 {
					key := PartitionKey{Offset: offset + int64(i), Byte: candBuf[i]}
					buckets[key] = append(buckets[key], cand.path)
					c.close(cand.file)
					continue
				}

				remaining = append(remaining, cand)
			}
			active = remaining

			offset += int64(n)
		}

		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read pivot %q at offset %d: %w", pivotPath, offset, err)
		}
	}

	// pivot exhausted, confirm every survivor is exhausted too
	matched := make([]string, 0, len(active))
	for _, cand := range active {
		if !atEOF(cand.file) {
			c.log.Warnf("Candidate has data past the pivot end, excluding: %q", cand.path)
			continue
		}
		matched = append(matched, cand.path)
	}

	return matched, nil
}

// mismatchIndex returns the first index where a and b differ, or -1 when
// they are equal. The equality check runs first so the byte scan only
// happens on diverging chunks.
func mismatchIndex(a, b []byte) int {
	if bytes.Equal(a, b) {
		return -1
	}

	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}

	return -1
}

// atEOF reports whether no bytes remain in f. The stream is discarded right
// after, so the probe read does not need undoing.
func atEOF(f *os.File) bool {
	var b [1]byte
	n, err := f.Read(b[:])
	return n == 0 && err == io.EOF
}
