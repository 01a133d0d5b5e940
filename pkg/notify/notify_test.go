package notify

import (
	"context"
	stderrors "errors"
	"net"
	"testing"
	"time"

	"github.com/matzehuels/gslbridge/pkg/errors"
)

func listen(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func receive(t *testing.T, conn *net.UDPConn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 512)
	n, _, err := conn.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	m, err := Decode(buf[:n])
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	return m
}

func TestEncode(t *testing.T) {
	if got := string(Encode(StatusStarted)); got != `{"status":"started"}` {
		t.Errorf("Encode() = %s", got)
	}
	if got := string(Encode(StatusStopped)); got != `{"status":"stopped"}` {
		t.Errorf("Encode() = %s", got)
	}
}

func TestDecodeInvalid(t *testing.T) {
	if _, err := Decode([]byte("not json")); !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("Decode() error = %v, want TRANSPORT", err)
	}
}

func TestUDP(t *testing.T) {
	conn := listen(t)
	u := NewUDP(conn.LocalAddr().String())

	for _, status := range []Status{StatusStarted, StatusStopped} {
		if err := u.Notify(context.Background(), status); err != nil {
			t.Fatalf("Notify(%s) error: %v", status, err)
		}
		if m := receive(t, conn); m.Status != status {
			t.Errorf("received %q, want %q", m.Status, status)
		}
	}
}

func TestUDPNoReceiver(t *testing.T) {
	// Sending to a closed port is fire-and-forget: the write itself succeeds.
	conn := listen(t)
	addr := conn.LocalAddr().String()
	conn.Close()

	if err := NewUDP(addr).Notify(context.Background(), StatusStarted); err != nil {
		t.Errorf("Notify() error = %v", err)
	}
}

func TestUDPBadAddress(t *testing.T) {
	err := NewUDP("no-port").Notify(context.Background(), StatusStarted)
	if !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("Notify() error = %v, want TRANSPORT", err)
	}
}

type recorder struct {
	got []Status
	err error
}

func (r *recorder) Notify(_ context.Context, s Status) error {
	r.got = append(r.got, s)
	return r.err
}

func TestMulti(t *testing.T) {
	boom := stderrors.New("boom")
	a, b := &recorder{}, &recorder{err: boom}
	m := Multi{a, nil, b, Nop{}}

	err := m.Notify(context.Background(), StatusStopped)
	if !stderrors.Is(err, boom) {
		t.Errorf("Notify() error = %v, want boom", err)
	}
	if len(a.got) != 1 || len(b.got) != 1 {
		t.Errorf("deliveries = %v, %v", a.got, b.got)
	}
	if err := (Multi{a}).Notify(context.Background(), StatusStarted); err != nil {
		t.Errorf("Notify() error = %v", err)
	}
}

func TestRedisUnreachable(t *testing.T) {
	conn := listen(t)
	addr := conn.LocalAddr().String() // a UDP port: nothing speaks TCP there
	conn.Close()

	r := NewRedis(addr, "gslbridge:test")
	defer r.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.Notify(ctx, StatusStarted); !errors.Is(err, errors.ErrCodeTransport) {
		t.Errorf("Notify() error = %v, want TRANSPORT", err)
	}
}
