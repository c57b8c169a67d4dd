package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewClient(ctx, "redis://"+s.Addr()+"/2", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.Equal(t, 2, client.Options().DB)
	require.Equal(t, time.Second, client.Options().DialTimeout)
	require.NoError(t, client.Ping(ctx).Err())
}

func TestNewClientErrors(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url", 0)
	require.ErrorContains(t, err, "parse redis URL")

	s := miniredis.RunT(t)
	url := "redis://" + s.Addr()
	s.Close()

	_, err = NewClient(context.Background(), url, 100*time.Millisecond)
	require.ErrorContains(t, err, "ping redis")
}
