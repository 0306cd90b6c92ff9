//go:build !windows

package scanner

func extendedPath(path string) string {
	return path
}
