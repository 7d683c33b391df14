// Package noderpc manages the grpc connection to the ledger network's
// RPC endpoint. The wallet issues no other network calls: everything
// rides on this one configured URL.
package noderpc

import (
	"context"
	"crypto/tls"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/q3x-finance/miden-poc-ui/wallet"
)

// DefaultEndpoint is the public testnet RPC node.
const DefaultEndpoint = "rpc.testnet.miden.io:443"

// Config holds connection configuration.
type Config struct {
	Endpoint string
	// Plaintext disables TLS, for local devnet nodes.
	Plaintext bool
}

// Conn wraps the grpc client connection to the node.
type Conn struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

// Dial creates the node connection. grpc connects lazily, so this does
// no I/O; use Ping to verify the endpoint is actually reachable.
func Dial(cfg Config) (*Conn, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	if cfg.Plaintext {
		creds = insecure.NewCredentials()
	}

	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to dial ledger node %s: %w", endpoint, err)
	}

	return &Conn{
		conn:   conn,
		health: healthpb.NewHealthClient(conn),
	}, nil
}

// Ping checks that the node answers on the connection. Nodes that do
// not expose the standard health service still count as reachable.
func (c *Conn) Ping(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if status.Code(err) == codes.Unimplemented {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ledger node unreachable: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("ledger node not serving: %s", resp.GetStatus())
	}
	return nil
}

// Target returns the resolved dial target.
func (c *Conn) Target() string { return c.conn.Target() }

// ClientConn exposes the raw connection for the ledger-client library.
func (c *Conn) ClientConn() *grpc.ClientConn { return c.conn }

// Close tears the connection down.
func (c *Conn) Close() error { return c.conn.Close() }

// SessionDialer adapts a node connection plus a ledger-client factory
// into the Gateway's dial hook. The factory is where the external
// ledger-client library plugs in; it receives the live connection and
// returns the session the Gateway will cache.
func SessionDialer(cfg Config, factory func(*grpc.ClientConn) (wallet.LedgerClient, error)) wallet.DialFunc {
	return func(ctx context.Context) (wallet.LedgerClient, error) {
		conn, err := Dial(cfg)
		if err != nil {
			return nil, err
		}
		if err := conn.Ping(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		client, err := factory(conn.ClientConn())
		if err != nil {
			conn.Close()
			return nil, err
		}
		return client, nil
	}
}
