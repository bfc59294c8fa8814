//go:build !linux && !windows

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	// Registered hotkeys on macOS must be driven from the main thread.
	mainthread.Init(run)
}
