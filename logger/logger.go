package logger

import (
	"io"
	"log"
	"os"
)

// message sink shared by the training loops
var std = log.New(os.Stderr, "", log.LstdFlags)

// SetOutput redirects all subsequent messages
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Log records a single message
func Log(msg string) {
	std.Print(msg)
}

// Logf records a formatted message
func Logf(format string, args ...interface{}) {
	std.Printf(format, args...)
}
