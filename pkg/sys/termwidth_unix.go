//go:build unix

package sys

import (
	"os"

	"golang.org/x/sys/unix"
)

func termWidth(file *os.File) (int, error) {
	ws, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, err
	}
	return int(ws.Col), nil
}
