//go:build linux

package main

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// prepareStdin tunes f for streaming. Regular files get a sequential-access
// hint and are returned as is. For pipes and sockets the descriptor is
// duplicated, switched to non-blocking mode and wrapped in a new *os.File
// owned by the runtime poller, so Close interrupts a blocked Read without
// closing f. The duplicate shares f's open file description, so f must not be
// read once the returned reader is in use.
func prepareStdin(f *os.File, logger *slog.Logger) io.Reader {
	fi, err := f.Stat()
	if err != nil {
		return f
	}
	rc, err := f.SyscallConn()
	if err != nil {
		return f
	}

	switch mode := fi.Mode(); {
	case mode.IsRegular():
		var adviseErr error
		if err := rc.Control(func(fd uintptr) {
			adviseErr = unix.Fadvise(int(fd), 0, 0, unix.FADV_SEQUENTIAL)
		}); err == nil && adviseErr != nil {
			logger.Debug("stdin: fadvise failed", "err", adviseErr)
		}
		return f

	case mode&(os.ModeNamedPipe|os.ModeSocket) != 0:
		var (
			dup    int
			dupErr error
		)
		if err := rc.Control(func(fd uintptr) {
			dup, dupErr = unix.Dup(int(fd))
		}); err != nil || dupErr != nil {
			return f
		}
		if err := unix.SetNonblock(dup, true); err != nil {
			logger.Debug("stdin: set non-blocking failed", "err", err)
			_ = unix.Close(dup)
			return f
		}
		unix.CloseOnExec(dup)
		return os.NewFile(uintptr(dup), f.Name())
	}
	return f
}
