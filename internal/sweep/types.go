// Package sweep provides the core scanning engine for adbsweep: configuration
// validation, lazy target generation, bounded concurrent probing with
// per-target timeouts, device classification, and thread-safe result
// aggregation with progress reporting.
package sweep

import (
	"fmt"
	"time"
)

// DeviceType classifies what answered on a probed port.
type DeviceType string

const (
	DeviceADB         DeviceType = "ADB"
	DeviceSSH         DeviceType = "SSH"
	DeviceTelnet      DeviceType = "Telnet"
	DeviceUnknown     DeviceType = "Unknown"
	DeviceUnreachable DeviceType = "Unreachable"
)

// Reachability is the outcome of the optional ping check.
type Reachability int

const (
	// ReachabilityUnknown means the ping check was skipped.
	ReachabilityUnknown Reachability = iota
	ReachabilityUp
	ReachabilityDown
)

func (r Reachability) String() string {
	switch r {
	case ReachabilityUp:
		return "up"
	case ReachabilityDown:
		return "down"
	default:
		return "unknown"
	}
}

// ScanConfig is the raw sweep configuration as supplied by a caller or
// settings store. It must pass Validate before a session can be started.
type ScanConfig struct {
	StartIP    string  `yaml:"start_ip" json:"start_ip"`
	EndIP      string  `yaml:"end_ip" json:"end_ip"`
	Ports      string  `yaml:"ports" json:"ports"`
	Threads    int     `yaml:"threads" json:"threads"`
	TimeoutSec float64 `yaml:"timeout_sec" json:"timeout_sec"`

	ScanADB    bool `yaml:"scan_adb" json:"scan_adb"`
	ScanSSH    bool `yaml:"scan_ssh" json:"scan_ssh"`
	ScanTelnet bool `yaml:"scan_telnet" json:"scan_telnet"`
	SkipPing   bool `yaml:"skip_ping" json:"skip_ping"`

	// Profile, when set, overrides Threads and TimeoutSec with the named
	// preset before validation.
	Profile string `yaml:"profile" json:"profile"`

	// MaxTargets caps the total number of generated targets as a safety
	// limit for very large ranges. 0 disables the cap.
	MaxTargets uint64 `yaml:"max_targets" json:"max_targets"`
}

// ValidatedConfig is a ScanConfig whose fields have all been checked and
// normalized. Downstream components never re-validate.
type ValidatedConfig struct {
	Start   uint32
	End     uint32
	Ports   []uint16
	Threads int
	Timeout time.Duration

	ScanADB    bool
	ScanSSH    bool
	ScanTelnet bool
	SkipPing   bool

	MaxTargets uint64
}

// TargetCount returns the total number of (ip, port) pairs the sweep will
// cover, after applying the MaxTargets cap.
func (c ValidatedConfig) TargetCount() uint64 {
	// Widen before the arithmetic: the full IPv4 range has 2^32 addresses,
	// which overflows a uint32 span.
	total := (uint64(c.End) - uint64(c.Start) + 1) * uint64(len(c.Ports))
	if c.MaxTargets > 0 && total > c.MaxTargets {
		return c.MaxTargets
	}
	return total
}

// Target is a single (IPv4 address, port) pair. Immutable; generated once,
// consumed once.
type Target struct {
	Addr uint32
	Port uint16
}

// IP returns the dotted-quad form of the target address.
func (t Target) IP() string {
	return formatIPv4(t.Addr)
}

// String returns the host:port form used in logs and errors.
func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.IP(), t.Port)
}

// ProbeResult is the outcome of probing one target. Produced exactly once
// per target; ownership transfers to the Aggregator on record.
type ProbeResult struct {
	Target    Target
	Reachable Reachability
	Open      bool
	Device    DeviceType
	Elapsed   time.Duration
	Banner    string
	Err       error
}

// Progress is a point-in-time view of a running sweep. All counters are
// monotonically non-decreasing over the life of one session.
type Progress struct {
	Scanned uint64
	Total   uint64
	Open    uint64
	Found   uint64
	Elapsed time.Duration
}

// Percent returns sweep completion in the range 0-100.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Scanned) / float64(p.Total) * 100
}
