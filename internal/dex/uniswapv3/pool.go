package uniswapv3

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/devlongs/swapsync/pkg/types"
)

// Protocol tags a V3 pool in logs and route descriptions
const Protocol = "uniswap_v3"

// Common Uniswap V3 factory address
var UniswapV3Factory = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")

// PoolInitCodeHash is the keccak of the V3 pool creation code
var PoolInitCodeHash = common.HexToHash("0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54")

// factories lists chains where the canonical V3 factory is deployed
var factories = map[uint64]common.Address{
	types.ChainMainnet:  UniswapV3Factory,
	types.ChainGoerli:   UniswapV3Factory,
	types.ChainOptimism: UniswapV3Factory,
	types.ChainArbitrum: UniswapV3Factory,
	types.ChainPolygon:  UniswapV3Factory,
}

// Tick bounds of a V3 pool
const (
	MinTick = -887272
	MaxTick = 887272
)

// FeeAmount is a V3 fee tier in hundredths of a bip
type FeeAmount uint32

const (
	FeeLowest FeeAmount = 100
	FeeLow    FeeAmount = 500
	FeeMedium FeeAmount = 3000
	FeeHigh   FeeAmount = 10000
)

// TickSpacing returns the tick spacing of a fee tier
func (f FeeAmount) TickSpacing() int {
	switch f {
	case FeeLowest:
		return 1
	case FeeLow:
		return 10
	case FeeMedium:
		return 60
	case FeeHigh:
		return 200
	}
	return 0
}

var (
	ErrInvalidFee  = errors.New("invalid fee tier")
	ErrInvalidTick = errors.New("tick out of range")
	ErrNilState    = errors.New("pool state missing")
)

// Pool holds the state of a V3 pool as reported by the routing service
type Pool struct {
	Token0       types.Token
	Token1       types.Token
	Fee          FeeAmount
	SqrtRatioX96 *uint256.Int
	Liquidity    *uint256.Int
	TickCurrent  int
}

// NewPool creates a pool from two tokens in any order
func NewPool(tokenA, tokenB types.Token, fee FeeAmount, sqrtRatioX96, liquidity *uint256.Int, tickCurrent int) (*Pool, error) {
	if fee.TickSpacing() == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFee, fee)
	}
	if sqrtRatioX96 == nil || liquidity == nil {
		return nil, ErrNilState
	}
	if tickCurrent < MinTick || tickCurrent > MaxTick {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTick, tickCurrent)
	}

	before, err := tokenA.SortsBefore(tokenB)
	if err != nil {
		return nil, err
	}
	if !before {
		tokenA, tokenB = tokenB, tokenA
	}

	return &Pool{
		Token0:       tokenA,
		Token1:       tokenB,
		Fee:          fee,
		SqrtRatioX96: sqrtRatioX96,
		Liquidity:    liquidity,
		TickCurrent:  tickCurrent,
	}, nil
}

// ChainID returns the chain of the pool tokens
func (p *Pool) ChainID() uint64 {
	return p.Token0.ChainID
}

// Tokens returns token0 and token1
func (p *Pool) Tokens() (types.Token, types.Token) {
	return p.Token0, p.Token1
}

// InvolvesToken reports whether the token is one of the pool's pair
func (p *Pool) InvolvesToken(t types.Token) bool {
	return p.Token0.Equals(t) || p.Token1.Equals(t)
}

// Protocol implements the route pool interface
func (p *Pool) Protocol() string {
	return Protocol
}

// Address computes the pool address from the factory deployed on its chain.
// Returns the zero address on chains without a known factory.
func (p *Pool) Address() common.Address {
	factory, ok := factories[p.ChainID()]
	if !ok {
		return common.Address{}
	}
	addr, err := ComputePoolAddress(factory, p.Token0, p.Token1, p.Fee)
	if err != nil {
		return common.Address{}
	}
	return addr
}

var poolKeyArgs abi.Arguments

func init() {
	addressType, _ := abi.NewType("address", "", nil)
	feeType, _ := abi.NewType("uint24", "", nil)
	poolKeyArgs = abi.Arguments{{Type: addressType}, {Type: addressType}, {Type: feeType}}
}

// ComputePoolAddress derives the CREATE2 address of a V3 pool
func ComputePoolAddress(factory common.Address, token0, token1 types.Token, fee FeeAmount) (common.Address, error) {
	packed, err := poolKeyArgs.Pack(token0.Address, token1.Address, big.NewInt(int64(fee)))
	if err != nil {
		return common.Address{}, fmt.Errorf("pack pool key: %w", err)
	}

	var salt [32]byte
	copy(salt[:], crypto.Keccak256(packed))

	return crypto.CreateAddress2(factory, salt, PoolInitCodeHash.Bytes()), nil
}
