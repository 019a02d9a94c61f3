//go:build linux

package host

// Default returns a new POSIX host.
func Default() *POSIX {
	return new(POSIX)
}
