//go:build !linux && !darwin && !freebsd && !openbsd && !netbsd && !dragonfly

package filesystem

import (
	"os"
)

func statPath(path string, follow bool) (FileInfo, error) {
	var (
		info os.FileInfo
		err  error
	)
	if follow {
		info, err = os.Stat(path)
	} else {
		info, err = os.Lstat(path)
	}
	if err != nil {
		return nil, err
	}
	return &nativeFileInfo{name: info.Name(), st: *NativeStatOf(info)}, nil
}
