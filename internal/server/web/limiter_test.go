package web

import (
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_Window(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("login:ivan", 3, time.Minute), "attempt %d", i+1)
	}
	assert.False(t, l.Allow("login:ivan", 3, time.Minute))
	assert.True(t, l.Allow("login:olena", 3, time.Minute), "keys are independent")

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("login:ivan", 3, time.Minute), "new window")
	assert.Len(t, l.buckets, 1, "expired buckets are swept")
}

func TestMemoryLimiter_Disabled(t *testing.T) {
	l := NewMemoryLimiter()
	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("k", 0, time.Minute))
		assert.True(t, l.Allow("k", 1, 0))
	}
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	var nilLimiter *RedisLimiter
	assert.True(t, nilLimiter.Allow("k", 1, time.Minute))
	assert.Nil(t, NewRedisLimiter(nil))

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	l := NewRedisLimiter(client)
	assert.True(t, l.Allow("k", 1, time.Minute))
	assert.True(t, l.Allow("k", 1, time.Minute))
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.1", "172.16.0.0/12"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   []*net.IPNet
		want      string
	}{
		{name: "peer only", remote: "198.51.100.4:51000", want: "198.51.100.4"},
		{name: "header from untrusted peer is ignored", remote: "198.51.100.4:51000", forwarded: "203.0.113.9", trusted: trusted, want: "198.51.100.4"},
		{name: "header ignored without proxies", remote: "10.0.0.1:51000", forwarded: "203.0.113.9", want: "10.0.0.1"},
		{name: "trusted proxy", remote: "10.0.0.1:51000", forwarded: "203.0.113.9", trusted: trusted, want: "203.0.113.9"},
		{name: "spoofed prefix is skipped", remote: "10.0.0.1:51000", forwarded: "1.2.3.4, 203.0.113.9, 172.16.5.5", trusted: trusted, want: "203.0.113.9"},
		{name: "all hops trusted", remote: "10.0.0.1:51000", forwarded: "172.16.0.9", trusted: trusted, want: "172.16.0.9"},
		{name: "unparsable remote", remote: "pipe", want: "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(r, tt.trusted))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	nets, err := ParseTrustedProxies([]string{" 10.0.0.1 ", "", "fd00::/8", "::1"})
	require.NoError(t, err)
	require.Len(t, nets, 3)
	assert.True(t, nets[0].Contains(net.ParseIP("10.0.0.1")))
	assert.False(t, nets[0].Contains(net.ParseIP("10.0.0.2")))

	_, err = ParseTrustedProxies([]string{"proxy.local"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}
