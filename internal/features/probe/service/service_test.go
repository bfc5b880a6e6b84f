package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakePinger returns scripted verdicts per host and records call order.
type fakePinger struct {
	verdicts map[string]bool
	errs     map[string]error
	calls    []string
}

func (f *fakePinger) Ping(ctx context.Context, host string, timeout time.Duration) (bool, error) {
	f.calls = append(f.calls, host)
	if err, ok := f.errs[host]; ok {
		return false, err
	}
	return f.verdicts[host], nil
}

// fakeResolver returns a scripted result for every lookup.
type fakeResolver struct {
	addrs []string
	err   error
	calls int
}

func (f *fakeResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	f.calls++
	return f.addrs, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPingReachableFirstSuccessShortCircuits(t *testing.T) {
	pinger := &fakePinger{verdicts: map[string]bool{
		"8.8.8.8": true,
		"1.1.1.1": true,
	}}
	svc := NewService(pinger, &fakeResolver{}, testLogger(), 0, nil)

	ok := svc.PingReachable(context.Background(), []string{"8.8.8.8", "1.1.1.1"})

	assert.True(t, ok)
	assert.Equal(t, []string{"8.8.8.8"}, pinger.calls, "first success should skip remaining hosts")
}

func TestPingReachableFallsThroughToLaterHost(t *testing.T) {
	pinger := &fakePinger{verdicts: map[string]bool{
		"8.8.8.8": false,
		"1.1.1.1": true,
	}}
	svc := NewService(pinger, &fakeResolver{}, testLogger(), 0, nil)

	ok := svc.PingReachable(context.Background(), []string{"8.8.8.8", "1.1.1.1"})

	assert.True(t, ok)
	assert.Equal(t, []string{"8.8.8.8", "1.1.1.1"}, pinger.calls)
}

func TestPingReachableAllHostsDown(t *testing.T) {
	pinger := &fakePinger{verdicts: map[string]bool{}}
	svc := NewService(pinger, &fakeResolver{}, testLogger(), 0, nil)

	ok := svc.PingReachable(context.Background(), []string{"8.8.8.8", "1.1.1.1"})

	assert.False(t, ok)
	assert.Len(t, pinger.calls, 2)
}

func TestPingReachableExecutionErrorTreatedAsNonResponse(t *testing.T) {
	pinger := &fakePinger{
		verdicts: map[string]bool{"1.1.1.1": true},
		errs:     map[string]error{"8.8.8.8": errors.New("socket: operation not permitted")},
	}
	svc := NewService(pinger, &fakeResolver{}, testLogger(), 0, nil)

	ok := svc.PingReachable(context.Background(), []string{"8.8.8.8", "1.1.1.1"})

	assert.True(t, ok, "execution error on one host must not mask later success")
}

func TestPingReachableCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pinger := &fakePinger{verdicts: map[string]bool{"8.8.8.8": true}}
	svc := NewService(pinger, &fakeResolver{}, testLogger(), 0, nil)

	ok := svc.PingReachable(ctx, []string{"8.8.8.8"})

	assert.False(t, ok)
	assert.Empty(t, pinger.calls, "no probe should run after cancellation")
}

func TestDNSResolvable(t *testing.T) {
	resolver := &fakeResolver{addrs: []string{"142.250.74.46"}}
	svc := NewService(&fakePinger{}, resolver, testLogger(), 0, nil)

	assert.True(t, svc.DNSResolvable(context.Background(), "google.com"))
}

func TestDNSResolvableResolutionFailure(t *testing.T) {
	resolver := &fakeResolver{err: &net.DNSError{Err: "no such host", Name: "google.com", IsNotFound: true}}
	svc := NewService(&fakePinger{}, resolver, testLogger(), 0, nil)

	assert.False(t, svc.DNSResolvable(context.Background(), "google.com"))
}

func TestDNSResolvableUnexpectedError(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("resolver misconfigured")}
	svc := NewService(&fakePinger{}, resolver, testLogger(), 0, nil)

	assert.False(t, svc.DNSResolvable(context.Background(), "google.com"))
}

func TestDNSResolvableEmptyAnswer(t *testing.T) {
	resolver := &fakeResolver{addrs: nil}
	svc := NewService(&fakePinger{}, resolver, testLogger(), 0, nil)

	assert.False(t, svc.DNSResolvable(context.Background(), "google.com"))
}
