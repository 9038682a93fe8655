// Package cmd holds auxiliary CLI subcommands attached to the daemon root.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/camkeep/camkeep/internal/cameras"
	"github.com/camkeep/camkeep/internal/ffmpeg"
)

// CreateCheckCmd builds the preflight check command. It verifies the host
// can actually run pipelines: ffmpeg is invocable, the media directory is
// writable, and the cameras file parses.
func CreateCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Verify ffmpeg, media directory, and camera configuration",
		Long:  `Runs the preflight checks the daemon performs lazily at pipeline start: ffmpeg availability, media directory writability, and cameras file syntax. Exits non-zero when any check fails.`,
		Run: func(cmd *cobra.Command, args []string) {
			ffmpegPath, _ := cmd.Flags().GetString("ffmpeg-path")
			mediaDir, _ := cmd.Flags().GetString("media-dir")
			camerasFile, _ := cmd.Flags().GetString("cameras-file")

			failed := false

			if ffmpeg.Probe(ffmpegPath) {
				fmt.Printf("ok   ffmpeg: %s is invocable\n", ffmpegPath)
			} else {
				fmt.Printf("FAIL ffmpeg: cannot run %q -version (install ffmpeg or pass --ffmpeg-path)\n", ffmpegPath)
				failed = true
			}

			if err := checkWritable(mediaDir); err == nil {
				fmt.Printf("ok   media dir: %s is writable\n", mediaDir)
			} else {
				fmt.Printf("FAIL media dir: %s is not writable (%v); pipelines will fall back to %s\n",
					mediaDir, err, filepath.Join(os.TempDir(), "camkeep"))
				failed = true
			}

			store := cameras.NewTOML(camerasFile)
			if err := store.Load(); err == nil {
				fmt.Printf("ok   cameras: %s parsed, %d camera(s)\n", camerasFile, len(store.List()))
			} else {
				fmt.Printf("FAIL cameras: %v\n", err)
				failed = true
			}

			if failed {
				os.Exit(1)
			}
		},
	}

	checkCmd.Flags().String("ffmpeg-path", "ffmpeg", "ffmpeg binary to probe")
	checkCmd.Flags().String("media-dir", "media", "Pipeline output base directory")
	checkCmd.Flags().String("cameras-file", "cameras.toml", "Camera definitions file")
	return checkCmd
}

// checkWritable creates the directory if needed and writes a probe file.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".camkeep-check")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
