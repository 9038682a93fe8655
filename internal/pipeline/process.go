package pipeline

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/camkeep/camkeep/internal/ffmpeg"
)

// process wraps a single spawned ffmpeg subprocess. It owns the exec.Cmd,
// streams diagnostic output to the logger, and exposes exit observation
// through Done(). Signalling and killing never block; waiting does.
type process struct {
	cmd       *exec.Cmd
	logger    *slog.Logger
	outLogger *slog.Logger

	waitDone chan struct{}
	waitErr  error
}

func newProcess(binary string, args []string, logger, outLogger *slog.Logger) *process {
	cmd := exec.Command(binary, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return &process{
		cmd:       cmd,
		logger:    logger,
		outLogger: outLogger,
		waitDone:  make(chan struct{}),
	}
}

// start spawns the subprocess. On success the process PID is valid and
// Done() will eventually be closed. ffmpeg writes its diagnostics to
// stderr, so only that stream is scanned.
func (p *process) start() error {
	stderr, err := p.cmd.StderrPipe()
	if err != nil {
		p.logger.Error("Failed to create stderr pipe", "error", err)
		return err
	}

	if err := p.cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			p.logger.Error("Executable not found", "binary", p.cmd.Path, "error", err)
		} else {
			p.logger.Error("Failed to spawn process", "binary", p.cmd.Path, "error", err)
		}
		return err
	}

	go p.streamOutput(stderr)
	go func() {
		p.waitErr = p.cmd.Wait()
		close(p.waitDone)
	}()

	return nil
}

// pid returns the OS process id. Valid only after a successful start.
func (p *process) pid() int {
	return p.cmd.Process.Pid
}

// done is closed once the process has exited and been reaped.
func (p *process) done() <-chan struct{} {
	return p.waitDone
}

// exitCode reports the process exit code. Valid once done() is closed.
// Returns 0 for clean exit, the code for exec.ExitError, 1 otherwise.
func (p *process) exitCode() int {
	if p.waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(p.waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

// signal delivers sig to the subprocess without waiting.
func (p *process) signal(sig os.Signal) error {
	return p.cmd.Process.Signal(sig)
}

// kill terminates the subprocess unconditionally. A process that exited
// between the timeout and the kill is not an error.
func (p *process) kill() {
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		p.logger.Error("Failed to kill process", "pid", p.pid(), "error", err)
	}
}

// streamOutput routes subprocess stderr lines through the output logger
// at the level ffmpeg tagged them with. Used for diagnostics only, never
// for control flow.
func (p *process) streamOutput(reader io.Reader) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		level, msg := ffmpeg.ParseLogLevel(scanner.Text())
		switch level {
		case "fatal", "error", "panic":
			p.outLogger.Error(msg)
		case "warning":
			p.outLogger.Warn(msg)
		case "verbose", "debug", "trace":
			p.outLogger.Debug(msg)
		default:
			p.outLogger.Info(msg)
		}
	}
	if err := scanner.Err(); err != nil {
		p.logger.Warn("Error reading process output", "error", err)
	}
}
