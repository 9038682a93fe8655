package ffmpeg

import "os/exec"

// Probe reports whether the ffmpeg binary at path can be invoked. It runs
// a single short-lived `ffmpeg -version` and inspects the exit status; any
// failure (missing binary, spawn error, non-zero exit) yields false.
func Probe(path string) bool {
	return exec.Command(path, "-version").Run() == nil
}
