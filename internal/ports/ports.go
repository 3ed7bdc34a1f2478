// Package ports finds free TCP ports for generated servers.
package ports

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrNoFreePort is returned when every port of a range is taken.
var ErrNoFreePort = errors.New("no free port in range")

// ErrInvalidRange is returned for ranges outside 1..65535 or with start > end.
var ErrInvalidRange = errors.New("invalid port range")

// FindFreePort returns the lowest port in [start, end] that can be bound on
// all interfaces. Ports are probed one at a time; each probe listener is closed
// before the next attempt.
func FindFreePort(start, end int) (int, error) {
	return FindFreePortOn("", start, end)
}

// FindFreePortOn is FindFreePort for a specific host; "" means all interfaces.
func FindFreePortOn(host string, start, end int) (int, error) {
	if start < 1 || end > 65535 || start > end {
		return 0, fmt.Errorf("%w: %d-%d", ErrInvalidRange, start, end)
	}
	for p := start; p <= end; p++ {
		l, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(p)))
		if err != nil {
			continue
		}
		_ = l.Close()
		return p, nil
	}
	return 0, fmt.Errorf("%w %d-%d", ErrNoFreePort, start, end)
}

// IsNoFreePort reports whether err indicates an exhausted range.
func IsNoFreePort(err error) bool { return errors.Is(err, ErrNoFreePort) }
