package eth

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devlongs/swapsync/internal/config"
)

type fakeNode struct {
	mu            sync.Mutex
	chainFailures int
	blockFailures int
	blockErr      error
	blockCalls    int
}

func (f *fakeNode) ChainID(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.chainFailures > 0 {
		f.chainFailures--
		return nil, errors.New("connection refused")
	}
	return big.NewInt(1), nil
}

func (f *fakeNode) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blockCalls++
	if f.blockErr != nil {
		return 0, f.blockErr
	}
	if f.blockFailures > 0 {
		f.blockFailures--
		return 0, errors.New("timeout")
	}
	return 19_000_000, nil
}

func (f *fakeNode) setDown(err error, chainFailures int) {
	f.mu.Lock()
	f.blockErr = err
	f.chainFailures = chainFailures
	f.mu.Unlock()
}

func testConfig() config.RPCConfig {
	return config.RPCConfig{RetryAttempts: 3, RetryDelay: time.Millisecond, RequestTimeout: time.Second}
}

func TestNewClientRetriesChainID(t *testing.T) {
	c := newClient(&fakeNode{chainFailures: 2}, testConfig())
	require.Equal(t, int64(1), c.ChainID().Int64())
	require.True(t, c.Available())

	c = newClient(&fakeNode{chainFailures: 3}, testConfig())
	require.Nil(t, c.ChainID())
	require.False(t, c.Available())
}

func TestCheckReportsFlips(t *testing.T) {
	node := &fakeNode{}
	c := newClient(node, testConfig())

	var changes []bool
	record := func(v bool) { changes = append(changes, v) }

	c.check(context.Background(), record)
	require.Empty(t, changes)

	node.setDown(errors.New("timeout"), 0)
	c.check(context.Background(), record)
	c.check(context.Background(), record)
	require.Equal(t, []bool{false}, changes)
	require.False(t, c.Available())

	node.setDown(nil, 0)
	c.check(context.Background(), record)
	require.Equal(t, []bool{false, true}, changes)
}

func TestCheckRetriesBlockNumber(t *testing.T) {
	node := &fakeNode{}
	c := newClient(node, testConfig())

	var changes []bool
	node.mu.Lock()
	node.blockFailures = 2
	node.mu.Unlock()

	c.check(context.Background(), func(v bool) { changes = append(changes, v) })
	require.Empty(t, changes)
	require.True(t, c.Available())
	require.Equal(t, 3, node.blockCalls)
}

func TestWatchPicksUpNodeThatStartsDown(t *testing.T) {
	node := &fakeNode{chainFailures: 100, blockErr: errors.New("connection refused")}
	c := newClient(node, testConfig())
	require.False(t, c.Available())
	require.Nil(t, c.ChainID())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan bool, 4)
	go c.Watch(ctx, 5*time.Millisecond, func(v bool) { changes <- v })

	node.setDown(nil, 0)
	select {
	case v := <-changes:
		require.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("provider never reported available")
	}
	require.True(t, c.Available())
	require.Equal(t, int64(1), c.ChainID().Int64())
}
