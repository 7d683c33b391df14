package noderpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialIsLazy(t *testing.T) {
	// No node is listening here; grpc connects lazily, so Dial itself
	// must still succeed.
	conn, err := Dial(Config{Endpoint: "127.0.0.1:1", Plaintext: true})
	require.NoError(t, err)
	defer conn.Close()

	assert.Contains(t, conn.Target(), "127.0.0.1:1")
	assert.NotNil(t, conn.ClientConn())
}

func TestDialDefaultsEndpoint(t *testing.T) {
	conn, err := Dial(Config{})
	require.NoError(t, err)
	defer conn.Close()
	assert.Contains(t, conn.Target(), DefaultEndpoint)
}

func TestPingUnreachableNode(t *testing.T) {
	conn, err := Dial(Config{Endpoint: "127.0.0.1:1", Plaintext: true})
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.Error(t, conn.Ping(ctx))
}
