package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
	"github.com/scylladb/go-set/strset"
	"github.com/sirupsen/logrus"

	"github.com/aliakseis/HandleDuplicateFiles/pkg/config"
	"github.com/aliakseis/HandleDuplicateFiles/pkg/logger"
)

// Scanner enumerates regular files under a root folder, applying the
// minimum size threshold and the optional extension allow list. Symlinks
// and other non-regular entries are never followed or reported.
type Scanner struct {
	log         *logrus.Entry
	minFileSize int64
	extensions  *strset.Set
	workers     int
}

// New builds a scanner from configuration plus any extra extensions given on
// the command line. Extensions are matched case-insensitively and may be
// written with or without the leading dot.
func New(cfg config.ScannerConfig, extraExtensions ...string) *Scanner {
	s := &Scanner{
		log:         logger.GetLogger("scanner"),
		minFileSize: cfg.MinFileSize,
		workers:     cfg.Workers,
	}

	if s.minFileSize < 0 {
		s.minFileSize = 0
	}

	extensions := make([]string, 0, len(cfg.Extensions)+len(extraExtensions))
	for _, ext := range append(append([]string{}, cfg.Extensions...), extraExtensions...) {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions = append(extensions, ext)
	}

	if len(extensions) > 0 {
		s.extensions = strset.New(extensions...)
	}

	return s
}

// Scan walks rootFolder and returns every regular file passing the size and
// extension checks. Unreadable paths are logged and skipped, they never abort
// the walk.
func (s *Scanner) Scan(rootFolder string) ([]config.File, error) {
	info, err := os.Stat(rootFolder)
	if err != nil {
		return nil, fmt.Errorf("stat root folder: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("root folder is not a directory: %q", rootFolder)
	}

	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: s.workers,
	}

	var (
		mu    sync.Mutex
		files []config.File
		seen  atomic.Uint64
	)

	err = fastwalk.Walk(&conf, rootFolder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.WithError(err).Warnf("Failed accessing path, skipping: %q", path)
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		seen.Add(1)

		if s.extensions != nil && !s.extensions.Has(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.log.WithError(err).Warnf("Failed reading file info, skipping: %q", path)
			return nil
		}

		if info.Size() < s.minFileSize {
			return nil
		}

		f := config.NewFile(path, info.Size(), info.ModTime())

		mu.Lock()
		files = append(files, f)
		mu.Unlock()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk folder: %w", err)
	}

	s.log.Debugf("Walked %d regular file(s) under %q, %d passed size and extension checks",
		seen.Load(), rootFolder, len(files))

	return files, nil
}
