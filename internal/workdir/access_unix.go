//go:build linux || darwin

package workdir

import "golang.org/x/sys/unix"

// searchable checks the directory can be entered by this process
func searchable(dir string) error {
	return unix.Access(dir, unix.X_OK)
}
