package sweep

import (
	"fmt"
	"strings"
	"time"

	"github.com/adbsweep/adbsweep/internal/errors"
	"github.com/adbsweep/adbsweep/internal/logging"
	"github.com/adbsweep/adbsweep/internal/profiles"
)

// Validation bounds.
const (
	MinThreads = 1
	MaxThreads = 200

	MinTimeoutSec = 0.1
	MaxTimeoutSec = 10.0

	// Ranges above this many targets are worth a warning; they are not a
	// validation failure, bounding memory is the generator's job.
	largeRangeWarnThreshold = 1 << 20
)

// Validate checks every field of a ScanConfig against its documented bounds
// and returns a normalized ValidatedConfig. A named profile, if present, is
// resolved first and its thread/timeout values pass through the same bounds.
// The only side effect is a warning log when the thread count is clamped or
// the range is unusually large.
func Validate(cfg ScanConfig) (ValidatedConfig, error) {
	if cfg.Profile != "" {
		p, err := profiles.Resolve(cfg.Profile)
		if err != nil {
			return ValidatedConfig{}, err
		}
		cfg.Threads = p.Threads
		cfg.TimeoutSec = p.TimeoutSec
	}

	start, err := ParseIPv4(cfg.StartIP)
	if err != nil {
		return ValidatedConfig{}, errors.NewValidationError(
			errors.KindInvalidIP, "invalid start address", "start_ip", cfg.StartIP)
	}

	end, err := ParseIPv4(cfg.EndIP)
	if err != nil {
		return ValidatedConfig{}, errors.NewValidationError(
			errors.KindInvalidIP, "invalid end address", "end_ip", cfg.EndIP)
	}

	if start > end {
		return ValidatedConfig{}, errors.NewValidationError(
			errors.KindInvalidRange, "start address is greater than end address",
			"ip_range", fmt.Sprintf("%s-%s", cfg.StartIP, cfg.EndIP))
	}

	ports, err := ResolvePorts(cfg.Ports)
	if err != nil {
		return ValidatedConfig{}, err
	}

	threads := cfg.Threads
	if threads < MinThreads {
		return ValidatedConfig{}, errors.NewValidationError(
			errors.KindInvalidThreadCount, "thread count must be at least 1", "threads", cfg.Threads)
	}
	if threads > MaxThreads {
		logging.Warn("Thread count capped",
			"requested", threads,
			"cap", MaxThreads)
		threads = MaxThreads
	}

	if cfg.TimeoutSec < MinTimeoutSec || cfg.TimeoutSec > MaxTimeoutSec {
		return ValidatedConfig{}, errors.NewValidationError(
			errors.KindInvalidTimeout,
			fmt.Sprintf("timeout must be between %.1f and %.1f seconds", MinTimeoutSec, MaxTimeoutSec),
			"timeout_sec", cfg.TimeoutSec)
	}

	validated := ValidatedConfig{
		Start:      start,
		End:        end,
		Ports:      ports,
		Threads:    threads,
		Timeout:    time.Duration(cfg.TimeoutSec * float64(time.Second)),
		ScanADB:    cfg.ScanADB,
		ScanSSH:    cfg.ScanSSH,
		ScanTelnet: cfg.ScanTelnet,
		SkipPing:   cfg.SkipPing,
		MaxTargets: cfg.MaxTargets,
	}

	if total := (uint64(end) - uint64(start) + 1) * uint64(len(ports)); total > largeRangeWarnThreshold {
		logging.Warn("Very large sweep range",
			"targets", total,
			"max_targets", cfg.MaxTargets)
	}

	return validated, nil
}

// ParseIPv4 parses a strict dotted-quad address into its 32-bit numeric
// value. Hostnames, IPv6, and octets above 255 are rejected.
func ParseIPv4(s string) (uint32, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("expected four octets, got %d", len(parts))
	}

	var addr uint32
	for _, part := range parts {
		if len(part) == 0 || len(part) > 3 {
			return 0, fmt.Errorf("bad octet %q", part)
		}
		var octet int
		for _, c := range part {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("bad octet %q", part)
			}
			octet = octet*10 + int(c-'0')
		}
		if octet > 255 {
			return 0, fmt.Errorf("octet %d out of range", octet)
		}
		addr = addr<<8 | uint32(octet)
	}
	return addr, nil
}

// formatIPv4 renders a 32-bit address in dotted-quad form.
func formatIPv4(addr uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr))
}
