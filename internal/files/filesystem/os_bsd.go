//go:build darwin || freebsd || openbsd || netbsd || dragonfly

package filesystem

import (
	"io/fs"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/vvka-141/recls/pkg/recls"
)

func statPath(path string, follow bool) (FileInfo, error) {
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
			BirthTime:  birthTime(&st),
			Links:      uint64(st.Nlink),
			Inode:      uint64(st.Ino),
			Device:     uint64(st.Dev),
		},
	}, nil
}
