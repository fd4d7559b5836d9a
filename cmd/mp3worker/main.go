// mp3worker is the tag/audio worker invoked by the editor backend. It
// speaks the read/write/waveform/process protocol: positional arguments,
// an optional JSON request on stdin, one JSON response on stdout.
package main

import (
	"os"

	"mp3editor-backend/config"
	"mp3editor-backend/worker"
)

func main() {
	os.Exit(worker.Run(config.FromEnv(), os.Args[1:], os.Stdin, os.Stdout))
}
