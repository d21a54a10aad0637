//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package term

import "os"

// GetWinSize is not supported on this platform.
func GetWinSize(f *os.File) (WinSize, error) {
	return WinSize{}, errUnsupported
}

func makeRaw(fd int) (func() error, error) {
	return nil, errUnsupported
}
