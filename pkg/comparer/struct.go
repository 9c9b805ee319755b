package comparer

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/config"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/logger"
)

// PartitionKey identifies the first point of divergence from a pivot: the
// absolute byte offset and the candidate's byte value found there. Candidates
// sharing a key are known to agree with the pivot before Offset and to carry
// the same byte at Offset, so they are re-compared among themselves starting
// from that offset rather than from zero.
type PartitionKey struct {
	Offset int64
	Byte   byte
}

// Group is a set of files confirmed byte-identical. Files[0] acts as the
// master during deduplication.
type Group struct {
	Size  int64
	Files []string
}

// Comparer streams one pivot file against many candidates in lock-step
// chunks. The handle semaphore bounds how many streams are open at once,
// pivot included, and the limiter paces comparison steps when an I/O
// throttle is configured.
type Comparer struct {
	log       *logrus.Entry
	chunkSize int
	handles   chan struct{}
	throttle  ratelimit.Limiter
}

func New(cfg config.ComparerConfig) *Comparer {
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}

	// need at least the pivot plus one candidate
	maxOpenFiles := cfg.MaxOpenFiles
	if maxOpenFiles < 2 {
		maxOpenFiles = config.DefaultMaxOpenFiles
	}

	throttle := ratelimit.NewUnlimited()
	if cfg.IOThrottle > 0 {
		throttle = ratelimit.New(cfg.IOThrottle)
	}

	return &Comparer{
		log:       logger.GetLogger("comparer"),
		chunkSize: chunkSize,
		handles:   make(chan struct{}, maxOpenFiles),
		throttle:  throttle,
	}
}

// BatchWidth reports how many candidate streams one comparison may hold open
// alongside the pivot.
func (c *Comparer) BatchWidth() int {
	return cap(c.handles) - 1
}

// open acquires a handle slot, opens the file and positions it at offset.
// The slot is released again on failure.
func (c *Comparer) open(path string, offset int64) (*os.File, error) {
	c.handles <- struct{}{}

	f, err := os.Open(path)
	if err != nil {
		<-c.handles
		return nil, err
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		c.close(f)
		return nil, err
	}

	return f, nil
}

func (c *Comparer) close(f *os.File) {
	f.Close()
	<-c.handles
}
