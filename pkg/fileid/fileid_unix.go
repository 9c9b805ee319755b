//go:build !windows

package fileid

import (
	"fmt"
	"syscall"
)

func getFileID(path string) (FileID, uint64, error) {
	var stat syscall.Stat_t
	if err := syscall.Stat(path, &stat); err != nil {
		return FileID{}, 0, fmt.Errorf("stat file: %w", err)
	}

	// Stat_t field widths differ between unixes, normalize to uint64
	return FileID{
		Device: uint64(stat.Dev),
		Inode:  uint64(stat.Ino),
	}, uint64(stat.Nlink), nil
}
