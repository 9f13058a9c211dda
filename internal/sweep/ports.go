package sweep

import (
	"strconv"
	"strings"

	"github.com/adbsweep/adbsweep/internal/errors"
)

const expectedRangeParts = 2

// ResolvePorts expands a port specification into the ordered set of ports a
// sweep covers. Three forms are accepted: a single port ("5555"), an
// inclusive range ("5555-5557"), and a comma list ("5037,5555,22"). Comma
// lists preserve the supplied order with duplicates removed; list elements
// may themselves be ranges.
func ResolvePorts(spec string) ([]uint16, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.NewValidationError(
			errors.KindInvalidPortSpec, "empty port specification", "ports", spec)
	}

	var ports []uint16
	seen := make(map[uint16]bool)
	appendPort := func(p uint16) {
		if !seen[p] {
			seen[p] = true
			ports = append(ports, p)
		}
	}

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if strings.Contains(part, "-") {
			lo, hi, err := parsePortRange(part)
			if err != nil {
				return nil, err
			}
			for p := int(lo); p <= int(hi); p++ {
				appendPort(uint16(p))
			}
			continue
		}

		p, err := parsePort(part)
		if err != nil {
			return nil, err
		}
		appendPort(p)
	}

	return ports, nil
}

// parsePortRange parses an "a-b" inclusive range.
func parsePortRange(part string) (lo, hi uint16, err error) {
	bounds := strings.Split(part, "-")
	if len(bounds) != expectedRangeParts {
		return 0, 0, errors.NewValidationError(
			errors.KindInvalidPortSpec, "invalid port range format", "ports", part)
	}

	lo, err = parsePort(strings.TrimSpace(bounds[0]))
	if err != nil {
		return 0, 0, err
	}
	hi, err = parsePort(strings.TrimSpace(bounds[1]))
	if err != nil {
		return 0, 0, err
	}
	if lo > hi {
		return 0, 0, errors.NewValidationError(
			errors.KindInvalidPortSpec, "range start is greater than range end", "ports", part)
	}
	return lo, hi, nil
}

// parsePort parses a single port and enforces the 1-65535 bound.
func parsePort(s string) (uint16, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewValidationError(
			errors.KindInvalidPortSpec, "port is not a number", "ports", s)
	}
	if n < 1 || n > 65535 {
		return 0, errors.NewValidationError(
			errors.KindInvalidPort, "port out of range 1-65535", "ports", s)
	}
	return uint16(n), nil
}
