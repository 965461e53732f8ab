package route

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/devlongs/swapsync/internal/dex/uniswapv2"
	"github.com/devlongs/swapsync/internal/dex/uniswapv3"
	"github.com/devlongs/swapsync/pkg/types"
)

var (
	ErrEmptyRoute     = errors.New("route has no pools")
	ErrChainMismatch  = errors.New("route pools span multiple chains")
	ErrInputNotFound  = errors.New("input token not in first pool")
	ErrOutputNotFound = errors.New("output token not reached by route")
	ErrDisconnected   = errors.New("route path is not connected")
)

// Pool is a single hop of a route: a V3 pool or a V2 pair
type Pool interface {
	Tokens() (types.Token, types.Token)
	InvolvesToken(t types.Token) bool
	ChainID() uint64
	Protocol() string
	Address() common.Address
}

// Route is an ordered, connected path of pools from Input to Output
type Route[P Pool] struct {
	Pools  []P
	Path   []types.Token
	Input  types.Currency
	Output types.Currency
}

// V3Route is a route made only of V3 pools
type V3Route = Route[*uniswapv3.Pool]

// V2Route is a route made only of V2 pairs
type V2Route = Route[*uniswapv2.Pair]

// MixedRoute is a route mixing pool versions
type MixedRoute = Route[Pool]

// New validates the pools form a connected path between input and output
func New[P Pool](pools []P, input, output types.Currency) (*Route[P], error) {
	if len(pools) == 0 {
		return nil, ErrEmptyRoute
	}

	chainID := pools[0].ChainID()
	for _, p := range pools[1:] {
		if p.ChainID() != chainID {
			return nil, ErrChainMismatch
		}
	}

	wrappedIn, err := input.Wrapped()
	if err != nil {
		return nil, fmt.Errorf("wrap input: %w", err)
	}
	wrappedOut, err := output.Wrapped()
	if err != nil {
		return nil, fmt.Errorf("wrap output: %w", err)
	}

	if !pools[0].InvolvesToken(wrappedIn) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, wrappedIn.Address.Hex())
	}

	// Walk the path: the output of hop N must feed hop N+1
	path := make([]types.Token, 0, len(pools)+1)
	path = append(path, wrappedIn)
	current := wrappedIn
	for i, p := range pools {
		t0, t1 := p.Tokens()
		switch {
		case current.Equals(t0):
			current = t1
		case current.Equals(t1):
			current = t0
		default:
			return nil, fmt.Errorf("%w at hop %d", ErrDisconnected, i)
		}
		path = append(path, current)
	}

	if !current.Equals(wrappedOut) {
		return nil, fmt.Errorf("%w: %s", ErrOutputNotFound, wrappedOut.Address.Hex())
	}

	return &Route[P]{
		Pools:  pools,
		Path:   path,
		Input:  input,
		Output: output,
	}, nil
}

// ChainID returns the chain the route executes on
func (r *Route[P]) ChainID() uint64 {
	return r.Pools[0].ChainID()
}

// Protocols lists the protocol of each hop
func (r *Route[P]) Protocols() []string {
	out := make([]string, len(r.Pools))
	for i, p := range r.Pools {
		out[i] = p.Protocol()
	}
	return out
}

// String renders the token path, e.g. "USDC -> WETH -> DAI"
func (r *Route[P]) String() string {
	symbols := make([]string, len(r.Path))
	for i, t := range r.Path {
		symbols[i] = t.Symbol
		if symbols[i] == "" {
			symbols[i] = t.Address.Hex()[:10]
		}
	}
	return strings.Join(symbols, " -> ")
}
