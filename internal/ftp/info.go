package ftp

import (
	"io/fs"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/vvka-141/recls/pkg/recls"
)

// entryInfo adapts an *ftp.Entry to fs.FileInfo. Servers report only a
// modification time; the remaining times are left zero.
type entryInfo struct {
	name string
	st   recls.NativeStat
}

func newEntryInfo(name string, e *ftp.Entry) *entryInfo {
	st := recls.NativeStat{ModTime: e.Time}
	switch e.Type {
	case ftp.EntryTypeFolder:
		st.Mode = fs.ModeDir | 0o755
	case ftp.EntryTypeLink:
		st.Mode = fs.ModeSymlink | 0o777
	default:
		st.Mode = 0o644
		st.Size = int64(e.Size)
	}
	return &entryInfo{name: name, st: st}
}

func (i *entryInfo) Name() string       { return i.name }
func (i *entryInfo) Size() int64        { return i.st.Size }
func (i *entryInfo) Mode() fs.FileMode  { return i.st.Mode }
func (i *entryInfo) ModTime() time.Time { return i.st.ModTime }
func (i *entryInfo) IsDir() bool        { return i.st.Mode.IsDir() }
func (i *entryInfo) Sys() any           { return &i.st }
