package sweep

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/adbsweep/adbsweep/internal/errors"
	"github.com/adbsweep/adbsweep/internal/logging"
	"github.com/adbsweep/adbsweep/internal/metrics"
)

const (
	// Maximum banner/handshake snippet retained on a result. Anything past
	// this is discarded, never stored or logged.
	maxBannerBytes = 256

	// ADB wire protocol constants for the CNXN classification handshake.
	adbCommandCNXN = 0x4e584e43 // "CNXN" little-endian
	adbVersion     = 0x01000000
	adbMaxData     = 0x00001000
	adbHeaderSize  = 24

	// Ceiling for the ping pre-check. The effective bound per probe is the
	// configured timeout; this only keeps very generous timeouts from
	// letting a ping subprocess linger.
	maxPingTimeout = 2 * time.Second
)

// ADB listens on 5037 (server) and 5555 (device TCP debugging).
var adbPorts = map[uint16]bool{5037: true, 5555: true}

// Prober performs the reachability check, connection attempt, and
// classification handshake for a single target. One Prober is shared by all
// workers of a session; it holds no per-target state.
type Prober struct {
	Timeout    time.Duration
	SkipPing   bool
	ScanADB    bool
	ScanSSH    bool
	ScanTelnet bool

	// ping is injectable for tests; defaults to an argument-list ping
	// subprocess. Never a shell-interpreted command string.
	ping func(ctx context.Context, ip string) bool

	// dial is injectable for tests; defaults to a net.Dialer connect.
	dial func(ctx context.Context, addr string) (net.Conn, error)
}

// NewProber creates a prober from a validated configuration.
func NewProber(cfg ValidatedConfig) *Prober {
	p := &Prober{
		Timeout:    cfg.Timeout,
		SkipPing:   cfg.SkipPing,
		ScanADB:    cfg.ScanADB,
		ScanSSH:    cfg.ScanSSH,
		ScanTelnet: cfg.ScanTelnet,
	}
	p.ping = pingHost
	p.dial = func(ctx context.Context, addr string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "tcp", addr)
	}
	return p
}

// pingBudget bounds the ping step by the configured probe timeout, capped
// so the step never outlives a single timeout interval.
func (p *Prober) pingBudget() time.Duration {
	if p.Timeout < maxPingTimeout {
		return p.Timeout
	}
	return maxPingTimeout
}

// Probe checks one target and always returns a result; probe failures are
// carried on the result, never as a separate error. Each step is bounded by
// the configured timeout so a probe can never block indefinitely.
func (p *Prober) Probe(ctx context.Context, t Target) ProbeResult {
	start := time.Now()
	result := ProbeResult{
		Target:    t,
		Reachable: ReachabilityUnknown,
		Device:    DeviceUnknown,
	}

	if !p.SkipPing {
		pingCtx, cancel := context.WithTimeout(ctx, p.pingBudget())
		up := p.ping(pingCtx, t.IP())
		cancel()
		if !up {
			// Short-circuit: skip the connect attempt and its full
			// timeout cycle.
			result.Reachable = ReachabilityDown
			result.Device = DeviceUnreachable
			result.Err = errors.ErrHostUnreachable(t.String())
			result.Elapsed = time.Since(start)
			return result
		}
		result.Reachable = ReachabilityUp
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	conn, err := p.dial(dialCtx, t.String())
	cancel()
	if err != nil {
		result.Elapsed = time.Since(start)
		result.Device = DeviceUnknown
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			result.Err = errors.ErrConnectionTimeout(t.String(), err)
		} else {
			result.Err = errors.ErrConnectionRefused(t.String(), err)
		}
		return result
	}

	result.Open = true

	// Classification runs under the remaining budget of a second timeout
	// window; the deadline guarantees the socket is abandoned on expiry.
	deadline := time.Now().Add(p.Timeout)
	_ = conn.SetDeadline(deadline)
	result.Device, result.Banner = p.classify(conn, t.Port)
	_ = conn.Close()

	// The port answered but the peer never completed a handshake within
	// the deadline. The port stays open; only the classification failed.
	if result.Device == DeviceUnknown && result.Banner == "" && !time.Now().Before(deadline) {
		result.Err = errors.NewProbeError(errors.KindHandshakeTimeout, t.String(), nil)
	}

	result.Elapsed = time.Since(start)
	metrics.RecordProbeDuration(string(result.Device), result.Elapsed)
	logging.DebugProbe("Probe completed", t.String(),
		"open", result.Open,
		"device_type", result.Device,
		"elapsed", result.Elapsed)
	return result
}

// classify runs the minimal protocol handshake appropriate to the port.
// The connection already carries a deadline; any read/write past it fails
// and the device stays Unknown with the port still reported open.
func (p *Prober) classify(conn net.Conn, port uint16) (DeviceType, string) {
	switch {
	case p.ScanADB && adbPorts[port]:
		if banner, ok := adbHandshake(conn); ok {
			return DeviceADB, banner
		}
		return DeviceUnknown, ""
	case p.ScanSSH && port == 22:
		banner := readBanner(conn)
		if strings.HasPrefix(banner, "SSH-") {
			return DeviceSSH, banner
		}
		return DeviceUnknown, banner
	case p.ScanTelnet && port == 23:
		banner := readBanner(conn)
		if looksLikeTelnet(banner) {
			return DeviceTelnet, banner
		}
		return DeviceUnknown, banner
	default:
		return classifyBanner(readBanner(conn))
	}
}

// adbHandshake sends a CNXN message and reports whether the peer answered
// with a valid CNXN header. The returned banner is the peer's connection
// payload ("device::..." on real devices), capped.
func adbHandshake(conn net.Conn) (string, bool) {
	payload := []byte("host::\x00")

	header := make([]byte, adbHeaderSize)
	binary.LittleEndian.PutUint32(header[0:], adbCommandCNXN)
	binary.LittleEndian.PutUint32(header[4:], adbVersion)
	binary.LittleEndian.PutUint32(header[8:], adbMaxData)
	binary.LittleEndian.PutUint32(header[12:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[16:], checksum(payload))
	binary.LittleEndian.PutUint32(header[20:], adbCommandCNXN^0xffffffff)

	if _, err := conn.Write(header); err != nil {
		return "", false
	}
	if _, err := conn.Write(payload); err != nil {
		return "", false
	}

	resp := make([]byte, adbHeaderSize)
	if _, err := io.ReadFull(conn, resp); err != nil {
		return "", false
	}
	if binary.LittleEndian.Uint32(resp[0:]) != adbCommandCNXN {
		return "", false
	}

	length := binary.LittleEndian.Uint32(resp[12:])
	if length == 0 {
		return "", true
	}
	if length > maxBannerBytes {
		length = maxBannerBytes
	}
	body := make([]byte, length)
	n, _ := conn.Read(body)
	return sanitizeBanner(string(body[:n])), true
}

// checksum is the ADB payload checksum: a plain byte sum.
func checksum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum
}

// readBanner reads whatever the peer volunteers first, up to the cap.
func readBanner(conn net.Conn) string {
	buf := make([]byte, maxBannerBytes)
	n, _ := conn.Read(buf)
	if n == 0 {
		return ""
	}
	return sanitizeBanner(string(buf[:n]))
}

// classifyBanner maps a raw banner to a device type for ports without a
// dedicated handshake.
func classifyBanner(banner string) (DeviceType, string) {
	switch {
	case strings.HasPrefix(banner, "SSH-"):
		return DeviceSSH, banner
	case looksLikeTelnet(banner):
		return DeviceTelnet, banner
	default:
		return DeviceUnknown, banner
	}
}

// looksLikeTelnet detects IAC option negotiation or a textual login prompt.
func looksLikeTelnet(banner string) bool {
	if banner == "" {
		return false
	}
	if banner[0] == 0xff {
		return true
	}
	lower := strings.ToLower(banner)
	return strings.Contains(lower, "login:") || strings.Contains(lower, "telnet")
}

// sanitizeBanner trims the snippet and strips control characters other than
// telnet IAC bytes so results are safe to display and export.
func sanitizeBanner(s string) string {
	if len(s) > maxBannerBytes {
		s = s[:maxBannerBytes]
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c < 0x7f || c == 0xff {
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}

// pingHost checks host reachability with a single ping, built as an
// argument list so the address is never shell-interpreted.
func pingHost(ctx context.Context, ip string) bool {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "ping", "-n", "1", "-w", "500", ip)
	} else {
		cmd = exec.CommandContext(ctx, "ping", "-c", "1", "-W", "1", ip)
	}
	return cmd.Run() == nil
}
