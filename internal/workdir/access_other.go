//go:build !linux && !darwin

package workdir

func searchable(string) error {
	return nil
}
