// Package pipeline supervises the ffmpeg subprocesses bound to cameras.
//
// Each camera owns up to two process slots, one per Kind:
//
//   - Streaming: live HLS preview (transcode to H.264/AAC, segmented
//     playlist with a bounded retention window)
//   - Recording: archival MP4 capture (stream copy, no re-encode)
//
// The Controller is the only entry point. It keeps a registry keyed by
// (camera, kind) with at most one live process per key; start operations
// are idempotent, stop operations send a graceful signal and escalate to
// SIGKILL after a timeout. Streaming stops use SIGTERM; recording stops
// use SIGINT because ffmpeg only finalizes MP4 trailing metadata when
// interrupted. StopAll tears everything down on daemon shutdown.
//
// Start and stop for the same key are serialized through per-key locks so
// the idempotency check and registration cannot interleave. Queries
// (IsStreaming, ListActive, ...) read a consistent snapshot at any time.
package pipeline
