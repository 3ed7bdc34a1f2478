package ports

import (
	"errors"
	"net"
	"strconv"
	"testing"
)

func listenAny(t *testing.T) (net.Listener, int) {
	t.Helper()
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	return ln, ln.Addr().(*net.TCPAddr).Port
}

func TestFindFreePort_SinglePortFree(t *testing.T) {
	ln, p := listenAny(t)
	ln.Close()
	got, err := FindFreePort(p, p)
	if err != nil {
		t.Fatalf("FindFreePort: %v", err)
	}
	if got != p {
		t.Fatalf("expected %d, got %d", p, got)
	}
}

func TestFindFreePort_BusyPortExhaustsRange(t *testing.T) {
	ln, p := listenAny(t)
	defer ln.Close()
	_, err := FindFreePort(p, p)
	if err == nil {
		t.Fatalf("expected error for busy single-port range")
	}
	if !errors.Is(err, ErrNoFreePort) || !IsNoFreePort(err) {
		t.Fatalf("expected ErrNoFreePort, got %v", err)
	}
}

func TestFindFreePort_SkipsBusyReturnsLowestFree(t *testing.T) {
	l1, p1 := listenAny(t)
	l2, p2 := listenAny(t)
	busy, free := p1, p2
	busyL, freeL := l1, l2
	if p2 < p1 {
		busy, free = p2, p1
		busyL, freeL = l2, l1
	}
	defer busyL.Close()
	freeL.Close()
	// Only the two known ports are checked; ports strictly between them may be
	// free, so the result is the lowest free one above busy.
	got, err := FindFreePort(busy, free)
	if err != nil {
		t.Fatalf("FindFreePort: %v", err)
	}
	if got <= busy || got > free {
		t.Fatalf("expected port in (%d, %d], got %d", busy, free, got)
	}
}

func TestFindFreePort_ResultIsReleased(t *testing.T) {
	ln, p := listenAny(t)
	ln.Close()
	got, err := FindFreePort(p, p)
	if err != nil {
		t.Fatalf("FindFreePort: %v", err)
	}
	l, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(got)))
	if err != nil {
		t.Fatalf("returned port %d still held: %v", got, err)
	}
	l.Close()
}

func TestFindFreePort_InvalidRange(t *testing.T) {
	cases := []struct{ start, end int }{
		{0, 10},
		{10, 5},
		{1, 70000},
	}
	for _, c := range cases {
		if _, err := FindFreePort(c.start, c.end); !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("%d-%d: expected ErrInvalidRange, got %v", c.start, c.end, err)
		}
	}
}
