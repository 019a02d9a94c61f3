//go:build !linux

package host

// Default returns the native host, as no POSIX binding exists for this
// platform.
func Default() *Native {
	return new(Native)
}
