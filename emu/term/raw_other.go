//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package term

import (
	"errors"
	"os"
)

type rawMode struct{}

func enterRawMode(*os.File) (*rawMode, error) {
	return nil, errors.New("terminal frontend is not supported on this platform")
}

func (*rawMode) restore() error {
	return nil
}
