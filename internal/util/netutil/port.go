// Package netutil provides TCP reachability checks.
package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// dialTimeout bounds a single connection attempt.
const dialTimeout = 2 * time.Second

// pollInterval is the delay between attempts.
var pollInterval = time.Second

// WaitForPort waits until a TCP connection to host:port succeeds or
// timeout elapses. It tries immediately, then once per poll interval.
func WaitForPort(ctx context.Context, host string, port int, timeout time.Duration) error {
	address := net.JoinHostPort(host, strconv.Itoa(port))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = dial(ctx, address); lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("timeout waiting for %s: %w", address, lastErr)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func dial(ctx context.Context, address string) error {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}
	return conn.Close()
}
