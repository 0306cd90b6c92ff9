package scanner

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime returns the inode change time, the closest Linux offers
func creationTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	}
	return info.ModTime()
}
