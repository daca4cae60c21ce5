//go:build !linux

package main

import (
	"io"
	"log/slog"
	"os"
)

func prepareStdin(f *os.File, _ *slog.Logger) io.Reader { return f }
