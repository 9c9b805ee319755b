package fileid

import (
	"fmt"
	"os"
	"syscall"
)

// getFileID resolves the volume serial number and file index for path, the
// Windows equivalent of (device, inode), along with the hard link count.
func getFileID(path string) (FileID, uint64, error) {
	pathp, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return FileID{}, 0, fmt.Errorf("convert path to UTF16: %w", err)
	}

	fi, err := os.Lstat(path)
	if err != nil {
		return FileID{}, 0, fmt.Errorf("lstat file: %w", err)
	}

	// FILE_FLAG_BACKUP_SEMANTICS also permits opening directories. Symlinks
	// and mount points must be opened as themselves, without the flag
	// CreateFile resolves them to their target and reports its identity.
	attrs := uint32(syscall.FILE_FLAG_BACKUP_SEMANTICS)
	if fi.Mode()&os.ModeSymlink != 0 {
		attrs |= syscall.FILE_FLAG_OPEN_REPARSE_POINT
	}

	h, err := syscall.CreateFile(pathp, 0, 0, nil, syscall.OPEN_EXISTING, attrs, 0)
	if err != nil {
		return FileID{}, 0, fmt.Errorf("open file: %w", err)
	}
	defer syscall.CloseHandle(h)

	var info syscall.ByHandleFileInformation
	if err := syscall.GetFileInformationByHandle(h, &info); err != nil {
		return FileID{}, 0, fmt.Errorf("get file info: %w", err)
	}

	id := FileID{
		Device: uint64(info.VolumeSerialNumber),
		Inode:  (uint64(info.FileIndexHigh) << 32) | uint64(info.FileIndexLow),
	}

	return id, uint64(info.NumberOfLinks), nil
}
