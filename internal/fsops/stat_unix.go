//go:build linux || darwin

package fsops

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

type sysStat struct {
	links  uint64
	uid    uint32
	gid    uint32
	blocks int64
	real   bool
}

// statOf extracts inode metadata. Filesystems without it (in-memory ones)
// report a single link owned by the current process.
func statOf(info os.FileInfo) sysStat {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return sysStat{
			links:  uint64(st.Nlink),
			uid:    st.Uid,
			gid:    st.Gid,
			blocks: st.Blocks,
			real:   true,
		}
	}
	return sysStat{
		links:  1,
		uid:    uint32(os.Getuid()),
		gid:    uint32(os.Getgid()),
		blocks: (info.Size() + 511) / 512,
	}
}

func hasXattr(path string) bool {
	size, err := unix.Llistxattr(path, nil)
	return err == nil && size > 0
}
