// Package notify announces listener state changes to interested processes.
//
// Every notification is a single JSON object:
//
//	{"status":"started"}
//
// Delivery is best effort. The primary channel is one UDP datagram to a
// fixed loopback port; a Redis channel can mirror the same payload.
package notify

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/gslbridge/pkg/errors"
)

// Status is the listener state carried by a notification.
type Status string

const (
	StatusStarted Status = "started"
	StatusStopped Status = "stopped"
)

// Message is the notification payload.
type Message struct {
	Status Status `json:"status"`
}

// Encode returns the wire form of a status notification.
func Encode(status Status) []byte {
	data, _ := json.Marshal(Message{Status: status})
	return data
}

// Decode parses a notification payload.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, errors.Wrap(errors.ErrCodeTransport, err, "decode notification")
	}
	return m, nil
}

// Notifier delivers status notifications.
type Notifier interface {
	Notify(ctx context.Context, status Status) error
}

// =============================================================================
// UDP
// =============================================================================

// UDP sends each notification as one datagram to Addr.
type UDP struct {
	Addr string
}

// NewUDP creates a UDP notifier for addr ("127.0.0.1:6020").
func NewUDP(addr string) *UDP {
	return &UDP{Addr: addr}
}

// Notify sends the datagram. It does not wait for a receiver.
func (u *UDP) Notify(ctx context.Context, status Status) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", u.Addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransport, err, "dial %s", u.Addr)
	}
	defer conn.Close()
	if _, err := conn.Write(Encode(status)); err != nil {
		return errors.Wrap(errors.ErrCodeTransport, err, "send to %s", u.Addr)
	}
	return nil
}

// =============================================================================
// Redis
// =============================================================================

// Redis publishes notifications on a pub/sub channel.
type Redis struct {
	client  *redis.Client
	channel string
}

// NewRedis creates a notifier publishing on channel at addr.
func NewRedis(addr, channel string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: time.Second,
		MaxRetries:  -1,
	})
	return &Redis{client: client, channel: channel}
}

// Notify publishes the payload. Having no subscribers is not an error.
func (r *Redis) Notify(ctx context.Context, status Status) error {
	if err := r.client.Publish(ctx, r.channel, Encode(status)).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeTransport, err, "publish to %s", r.channel)
	}
	return nil
}

// Close releases the client connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// =============================================================================
// Fan-out
// =============================================================================

// Multi sends to every notifier and joins their errors.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, status Status) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, status); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Nop discards notifications.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Status) error { return nil }
