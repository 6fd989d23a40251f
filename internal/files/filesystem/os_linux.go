//go:build linux

package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/vvka-141/recls/pkg/recls"
)

func statPath(path string, follow bool) (FileInfo, error) {
	flags := unix.AT_STATX_SYNC_AS_STAT
	if !follow {
		flags |= unix.AT_SYMLINK_NOFOLLOW
	}

	var stx unix.Statx_t
	err := ignoringEINTR(func() error {
		return unix.Statx(unix.AT_FDCWD, path, flags, unix.STATX_BASIC_STATS|unix.STATX_BTIME, &stx)
	})
	if errors.Is(err, unix.ENOSYS) {
		return statPathCompat(path, follow)
	}
	if err != nil {
		return nil, &fs.PathError{Op: "statx", Path: path, Err: err}
	}

	st := recls.NativeStat{
		Mode:       fileMode(uint32(stx.Mode)),
		Size:       int64(stx.Size),
		ModTime:    statxTime(stx.Mtime),
		AccessTime: statxTime(stx.Atime),
		ChangeTime: statxTime(stx.Ctime),
		Links:      uint64(stx.Nlink),
		Inode:      stx.Ino,
		Device:     unix.Mkdev(stx.Dev_major, stx.Dev_minor),
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		st.BirthTime = statxTime(stx.Btime)
	}

	return &nativeFileInfo{name: filepath.Base(path), st: st}, nil
}

// statPathCompat serves kernels without statx.
func statPathCompat(path string, follow bool) (FileInfo, error) {
	var st unix.Stat_t
	err := ignoringEINTR(func() error {
		if follow {
			return unix.Stat(path, &st)
		}
		return unix.Lstat(path, &st)
	})
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: err}
	}

	return &nativeFileInfo{
		name: filepath.Base(path),
		st: recls.NativeStat{
			Mode:       fileMode(uint32(st.Mode)),
			Size:       st.Size,
			ModTime:    time.Unix(st.Mtim.Unix()),
			AccessTime: time.Unix(st.Atim.Unix()),
			ChangeTime: time.Unix(st.Ctim.Unix()),
			Links:      uint64(st.Nlink),
			Inode:      st.Ino,
			Device:     uint64(st.Dev),
		},
	}, nil
}

func statxTime(ts unix.StatxTimestamp) time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec))
}
