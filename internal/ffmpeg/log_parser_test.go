package ffmpeg

import "testing"

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		line      string
		wantLevel string
		wantMsg   string
	}{
		{"[info] Input #0, rtsp", "info", "Input #0, rtsp"},
		{"[error] Connection refused", "error", "Connection refused"},
		{"[warning] late packet", "warning", "late packet"},
		{"[hls @ 0x5634] [warning] dropping segment", "warning", "[hls @ 0x5634] dropping segment"},
		{"[hls @ 0x5634] Opening segment", "info", "[hls @ 0x5634] Opening segment"},
		{"plain text line", "info", "plain text line"},
		{"", "info", ""},
		{"[unterminated", "info", "[unterminated"},
	}

	for _, tt := range tests {
		level, msg := ParseLogLevel(tt.line)
		if level != tt.wantLevel || msg != tt.wantMsg {
			t.Errorf("ParseLogLevel(%q) = (%q, %q), want (%q, %q)",
				tt.line, level, msg, tt.wantLevel, tt.wantMsg)
		}
	}
}

func TestProbeMissingBinary(t *testing.T) {
	if Probe("/nonexistent/ffmpeg") {
		t.Error("Probe should fail for a missing binary")
	}
}

func TestProbeWorkingBinary(t *testing.T) {
	// `true` exits 0 with any arguments, standing in for ffmpeg -version.
	if !Probe("true") {
		t.Error("Probe should succeed for an invocable binary")
	}
}
