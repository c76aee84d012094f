package adb

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// DefaultGrace is how long a logcat child gets to exit after SIGTERM before
// it is killed.
const DefaultGrace = 5 * time.Second

// Source is a stream of raw logcat lines.
type Source interface {
	io.ReadCloser
	// Wait blocks until the producer has finished and reports how it ended.
	Wait() error
}

// Process is a running `adb logcat` child.
type Process struct {
	cmd    *exec.Cmd
	stdout *io.PipeReader
	stderr *RingBuffer
	grace  time.Duration

	done chan struct{}
	err  error

	closeOnce sync.Once
}

// StartLogcat spawns the streaming logcat command. Canceling ctx terminates
// the child the same way Close does.
func (c *Client) StartLogcat(ctx context.Context, regex string) (*Process, error) {
	cmd := c.cmd(ctx, c.LogcatArgs(regex)...)

	// The pipe makes Wait return only after stdout has been consumed, so the
	// last lines before adb exits are never lost.
	pr, pw := io.Pipe()
	stderr := NewRingBuffer(defaultRingCapacity)
	cmd.Stdout = pw
	cmd.Stderr = stderr
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = DefaultGrace

	if err := cmd.Start(); err != nil {
		pw.Close()
		return nil, fmt.Errorf("starting adb logcat: %w", err)
	}

	p := &Process{
		cmd:    cmd,
		stdout: pr,
		stderr: stderr,
		grace:  DefaultGrace,
		done:   make(chan struct{}),
	}
	go func() {
		p.err = cmd.Wait()
		pw.Close()
		close(p.done)
	}()
	return p, nil
}

func (p *Process) Read(b []byte) (int, error) { return p.stdout.Read(b) }

// PID of the adb child.
func (p *Process) PID() int { return p.cmd.Process.Pid }

// Stderr returns what adb has written to stderr so far, most recent last.
func (p *Process) Stderr() []string { return p.stderr.Lines() }

// Done is closed once the child has been reaped.
func (p *Process) Done() <-chan struct{} { return p.done }

func (p *Process) Wait() error {
	<-p.done
	return p.err
}

// ExitStatus describes how the child ended, e.g. "exit status 1".
func (p *Process) ExitStatus() string {
	<-p.done
	if p.cmd.ProcessState == nil {
		return "unknown"
	}
	return p.cmd.ProcessState.String()
}

// Close stops reading, sends SIGTERM, escalates to SIGKILL after the grace
// period, and reaps the child. It is safe to call more than once.
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		p.stdout.Close()

		select {
		case <-p.done:
			return
		default:
		}

		_ = p.cmd.Process.Signal(syscall.SIGTERM)
		timer := time.NewTimer(p.grace)
		defer timer.Stop()
		select {
		case <-p.done:
		case <-timer.C:
			_ = p.cmd.Process.Kill()
			<-p.done
		}
	})
	return nil
}

// Stdin reads logcat output piped into droidcat.
type Stdin struct {
	r io.ReadCloser
}

func NewStdin(r io.ReadCloser) *Stdin { return &Stdin{r: r} }

func (s *Stdin) Read(b []byte) (int, error) { return s.r.Read(b) }
func (s *Stdin) Close() error { return s.r.Close() }
func (s *Stdin) Wait() error { return nil }
