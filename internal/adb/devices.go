package adb

import (
	"fmt"
	"strings"
)

// State is the connection state adb reports for a device.
type State string

const (
	StateDevice        State = "device"
	StateEmulator      State = "emulator"
	StateOffline       State = "offline"
	StateUnauthorized  State = "unauthorized"
	StateRecovery      State = "recovery"
	StateSideload      State = "sideload"
	StateNoPermissions State = "no permissions"
	StateNoDevice      State = "no device"
	StateUnknown       State = "unknown"
)

var knownStates = []State{
	StateDevice, StateEmulator, StateOffline, StateUnauthorized,
	StateRecovery, StateSideload, StateNoPermissions, StateNoDevice,
}

func parseState(s string) State {
	for _, st := range knownStates {
		if s == string(st) || strings.HasPrefix(s, string(st)+" ") {
			return st
		}
	}
	return StateUnknown
}

type Device struct {
	ID    string
	State State
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%s)", d.ID, d.State)
}

const devicesBanner = "List of devices attached"

// ParseDevices reads `adb devices` output. Everything up to the banner line,
// or the first line when there is no banner, is skipped.
func ParseDevices(out string) []Device {
	lines := strings.Split(out, "\n")
	start := 1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), devicesBanner) {
			start = i + 1
			break
		}
	}
	if start > len(lines) {
		return nil
	}
	lines = lines[start:]
	var devices []Device
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		d := Device{ID: fields[0], State: StateUnknown}
		if len(fields) > 1 {
			d.State = parseState(strings.Join(fields[1:], " "))
		}
		devices = append(devices, d)
	}
	return devices
}
