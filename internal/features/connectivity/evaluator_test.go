package connectivity

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeProber struct {
	pingResult bool
	dnsResult  bool
	pingCalls  int
	dnsCalls   int
}

func (f *fakeProber) PingReachable(ctx context.Context, hosts []string) bool {
	f.pingCalls++
	return f.pingResult
}

func (f *fakeProber) DNSResolvable(ctx context.Context, hostname string) bool {
	f.dnsCalls++
	return f.dnsResult
}

func newTestEvaluator(p *fakeProber) *Evaluator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEvaluator(p, []string{"8.8.8.8"}, "google.com", logger)
}

func TestHasInternetBothProbesAgree(t *testing.T) {
	prober := &fakeProber{pingResult: true, dnsResult: true}

	assert.True(t, newTestEvaluator(prober).HasInternet(context.Background()))
	assert.Equal(t, 1, prober.pingCalls)
	assert.Equal(t, 1, prober.dnsCalls)
}

func TestHasInternetPingFailureSkipsDNS(t *testing.T) {
	prober := &fakeProber{pingResult: false, dnsResult: true}

	assert.False(t, newTestEvaluator(prober).HasInternet(context.Background()))
	assert.Equal(t, 1, prober.pingCalls)
	assert.Equal(t, 0, prober.dnsCalls, "dns probe must be skipped when ping fails")
}

func TestHasInternetDNSFailure(t *testing.T) {
	prober := &fakeProber{pingResult: true, dnsResult: false}

	assert.False(t, newTestEvaluator(prober).HasInternet(context.Background()))
	assert.Equal(t, 1, prober.dnsCalls)
}
