package sys

import (
	"os"

	"golang.org/x/sys/windows"
)

func termWidth(file *os.File) (int, error) {
	var info windows.ConsoleScreenBufferInfo
	err := windows.GetConsoleScreenBufferInfo(windows.Handle(file.Fd()), &info)
	if err != nil {
		return 0, err
	}
	// Window coordinates are inclusive.
	return int(info.Window.Right-info.Window.Left) + 1, nil
}
