// Package adb runs the Android Debug Bridge: device discovery, process
// snapshots, and the logcat stream the session reads from.
package adb

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/justinpbarnett/droidcat/internal/logcat"
)

// DefaultPath is looked up on PATH when no explicit adb binary is given.
const DefaultPath = "adb"

// Target picks which attached device adb talks to.
type Target int

const (
	TargetAny Target = iota
	TargetDevice
	TargetEmulator
	TargetSerial
)

// Selector narrows adb to one device. Serial is only read for TargetSerial.
type Selector struct {
	Target Target
	Serial string
}

// Args are the adb global options for s.
func (s Selector) Args() []string {
	switch s.Target {
	case TargetDevice:
		return []string{"-d"}
	case TargetEmulator:
		return []string{"-e"}
	case TargetSerial:
		if s.Serial != "" {
			return []string{"-s", s.Serial}
		}
	}
	return nil
}

// Client issues adb commands against the selected device.
type Client struct {
	Path     string
	Selector Selector

	// command builds every child process; tests swap it out.
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewClient resolves path (or "adb") on PATH.
func NewClient(path string, sel Selector) (*Client, error) {
	if path == "" {
		path = DefaultPath
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("adb binary %q not found: install the Android platform tools or pass --adb", path)
	}
	return &Client{Path: resolved, Selector: sel}, nil
}

// BuildArgs prefixes args with the selector options.
func (c *Client) BuildArgs(args ...string) []string {
	return append(c.Selector.Args(), args...)
}

// LogcatArgs are the arguments of the streaming logcat command.
func (c *Client) LogcatArgs(regex string) []string {
	args := c.BuildArgs("logcat", "-v", "brief")
	if regex != "" {
		args = append(args, "-e", regex)
	}
	return args
}

func (c *Client) cmd(ctx context.Context, args ...string) *exec.Cmd {
	if c.command != nil {
		return c.command(ctx, c.Path, args...)
	}
	return exec.CommandContext(ctx, c.Path, args...)
}

// output runs a one-shot adb command and returns its stdout.
func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	cmd := c.cmd(ctx, c.BuildArgs(args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(out), fmt.Errorf("adb %s: %w: %s", strings.Join(args, " "), err, msg)
		}
		return string(out), fmt.Errorf("adb %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// Devices lists attached devices.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	out, err := c.output(ctx, "devices")
	if err != nil {
		return nil, err
	}
	return ParseDevices(out), nil
}

// Processes snapshots the device process table, keeping rows whose name
// satisfies accept.
func (c *Client) Processes(ctx context.Context, reg *logcat.Registry, accept func(name string) bool) (map[string]string, error) {
	out, err := c.output(ctx, "shell", "ps")
	if err != nil {
		return nil, err
	}
	return reg.ParseProcessTable(out, accept), nil
}

// VisiblePackages returns the packages of the activities currently on screen.
func (c *Client) VisiblePackages(ctx context.Context, reg *logcat.Registry) ([]string, error) {
	out, err := c.output(ctx, "shell", "dumpsys", "activity", "activities")
	if err != nil {
		return nil, err
	}
	return reg.VisiblePackages(out), nil
}

// ClearLog empties the device log buffers.
func (c *Client) ClearLog(ctx context.Context) error {
	_, err := c.output(ctx, "logcat", "-c")
	return err
}
