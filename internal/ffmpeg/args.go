// Package ffmpeg builds ffmpeg argument lists for the camera pipelines and
// parses ffmpeg diagnostic output.
package ffmpeg

import (
	"path/filepath"
	"strings"
)

// HLS output tuning. One-second GOP at the assumed 30 fps source rate keeps
// segment boundaries aligned with keyframes; six retained two-second
// segments give the player a ~12 s window while stale segments are deleted.
const (
	hlsSegmentSeconds = "2"
	hlsListSize       = "6"
	gopFrames         = "30"
)

// PlaylistName is the HLS playlist file created in each streaming directory.
const PlaylistName = "index.m3u8"

// StreamArgs returns the argument list for the live-preview HLS transcode
// of sourceURL into outDir, plus the playlist path it will produce.
func StreamArgs(sourceURL, outDir string) ([]string, string) {
	playlist := filepath.Join(outDir, PlaylistName)

	args := []string{"-hide_banner", "-loglevel", "level+info"}
	args = append(args, transportArgs(sourceURL)...)
	args = append(args,
		"-i", sourceURL,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-tune", "zerolatency",
		"-g", gopFrames,
		"-sc_threshold", "0",
		"-c:a", "aac",
		"-b:a", "128k",
		"-f", "hls",
		"-hls_time", hlsSegmentSeconds,
		"-hls_list_size", hlsListSize,
		"-hls_flags", "delete_segments",
		"-hls_segment_filename", filepath.Join(outDir, "segment_%03d.ts"),
		playlist,
	)
	return args, playlist
}

// RecordArgs returns the argument list for the archival copy of sourceURL
// into outFile. Streams are copied verbatim; +faststart relocates the moov
// atom so the file plays before it is fully downloaded, and decode errors
// in the source are tolerated rather than fatal.
func RecordArgs(sourceURL, outFile string) []string {
	args := []string{"-hide_banner", "-loglevel", "level+info"}
	args = append(args, transportArgs(sourceURL)...)
	args = append(args,
		"-err_detect", "ignore_err",
		"-fflags", "+genpts",
		"-i", sourceURL,
		"-c", "copy",
		"-movflags", "+faststart",
		outFile,
	)
	return args
}

// transportArgs forces TCP interleaving for RTSP sources. The option
// belongs to the RTSP demuxer and would be rejected for other inputs.
func transportArgs(sourceURL string) []string {
	if strings.HasPrefix(sourceURL, "rtsp://") || strings.HasPrefix(sourceURL, "rtsps://") {
		return []string{"-rtsp_transport", "tcp"}
	}
	return nil
}
