package eth

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"

	"github.com/devlongs/swapsync/internal/config"
)

// ChainReader is the subset of the node API the provider needs
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Client wraps the node connection with retry logic and tracks whether the
// provider is currently reachable.
type Client struct {
	node      ChainReader
	closer    func()
	cfg       config.RPCConfig
	chainID   atomic.Pointer[big.Int]
	available atomic.Bool
}

// NewClient dials the node and probes its chain id. An unreachable node is
// not an error: the client starts unavailable and Watch picks it up later.
func NewClient(cfg config.RPCConfig) (*Client, error) {
	client, err := ethclient.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum node: %w", err)
	}

	c := newClient(client, cfg)
	c.closer = client.Close
	return c, nil
}

func newClient(node ChainReader, cfg config.RPCConfig) *Client {
	c := &Client{node: node, cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	chainID, err := c.retry(ctx, "chain ID", node.ChainID)
	if err != nil {
		log.Warn().Err(err).Str("url", cfg.URL).Msg("Ethereum node unreachable")
		return c
	}
	c.chainID.Store(chainID)
	c.available.Store(true)

	log.Info().
		Str("url", cfg.URL).
		Str("chainID", chainID.String()).
		Msg("Connected to Ethereum node")
	return c
}

// Close closes the client connection
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// ChainID returns the chain ID, or nil until the node has answered once
func (c *Client) ChainID() *big.Int {
	return c.chainID.Load()
}

// Available reports the result of the last health check
func (c *Client) Available() bool {
	return c.available.Load()
}

// BlockNumber returns the latest block number with retry
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.retryUint(ctx, "block number", c.node.BlockNumber)
}

// Watch polls the node every interval and calls onChange whenever
// availability flips. It blocks until ctx is done.
func (c *Client) Watch(ctx context.Context, interval time.Duration, onChange func(available bool)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.check(ctx, onChange)
		}
	}
}

func (c *Client) check(ctx context.Context, onChange func(bool)) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	_, err := c.BlockNumber(reqCtx)
	if err == nil && c.ChainID() == nil {
		var chainID *big.Int
		if chainID, err = c.node.ChainID(reqCtx); err == nil {
			c.chainID.Store(chainID)
			log.Info().Str("chainID", chainID.String()).Msg("Connected to Ethereum node")
		}
	}

	now := err == nil
	if c.available.Swap(now) == now {
		return
	}

	if now {
		log.Info().Msg("Provider available")
	} else {
		log.Warn().Err(err).Msg("Provider unavailable")
	}
	onChange(now)
}

func (c *Client) retry(ctx context.Context, what string, call func(context.Context) (*big.Int, error)) (*big.Int, error) {
	var out *big.Int
	var err error

	for i := 0; i < c.cfg.RetryAttempts; i++ {
		out, err = call(ctx)
		if err == nil {
			return out, nil
		}
		log.Warn().Err(err).Int("attempt", i+1).Msgf("Failed to get %s, retrying...", what)
		time.Sleep(c.cfg.RetryDelay)
	}

	return nil, fmt.Errorf("failed to get %s after %d attempts: %w", what, c.cfg.RetryAttempts, err)
}

func (c *Client) retryUint(ctx context.Context, what string, call func(context.Context) (uint64, error)) (uint64, error) {
	var out uint64
	var err error

	for i := 0; i < c.cfg.RetryAttempts; i++ {
		out, err = call(ctx)
		if err == nil {
			return out, nil
		}
		log.Warn().Err(err).Int("attempt", i+1).Msgf("Failed to get %s, retrying...", what)
		time.Sleep(c.cfg.RetryDelay)
	}

	return 0, fmt.Errorf("failed to get %s after %d attempts: %w", what, c.cfg.RetryAttempts, err)
}
