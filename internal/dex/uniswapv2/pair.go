package uniswapv2

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/devlongs/swapsync/pkg/types"
)

// Protocol tags a V2 pair in logs and route descriptions
const Protocol = "uniswap_v2"

// Common Uniswap V2 factory addresses
var (
	UniswapV2Factory = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	SushiswapFactory = common.HexToAddress("0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac")
)

// PairInitCodeHash is the keccak of the V2 pair creation code
var PairInitCodeHash = common.HexToHash("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")

var factories = map[uint64]common.Address{
	types.ChainMainnet: UniswapV2Factory,
	types.ChainGoerli:  UniswapV2Factory,
}

var ErrNilReserve = errors.New("pair reserve missing")

// Pair holds the reserves of a V2 pair, sorted by token address
type Pair struct {
	Reserve0 types.CurrencyAmount
	Reserve1 types.CurrencyAmount
}

// NewPair creates a pair from two token reserves in any order
func NewPair(amountA, amountB types.CurrencyAmount) (*Pair, error) {
	if amountA.Quotient == nil || amountB.Quotient == nil {
		return nil, ErrNilReserve
	}
	before, err := amountA.Currency.Token.SortsBefore(amountB.Currency.Token)
	if err != nil {
		return nil, err
	}
	if !before {
		amountA, amountB = amountB, amountA
	}
	return &Pair{Reserve0: amountA, Reserve1: amountB}, nil
}

// Token0 returns the lower-sorted token of the pair
func (p *Pair) Token0() types.Token {
	return p.Reserve0.Currency.Token
}

// Token1 returns the higher-sorted token of the pair
func (p *Pair) Token1() types.Token {
	return p.Reserve1.Currency.Token
}

// ChainID returns the chain of the pair tokens
func (p *Pair) ChainID() uint64 {
	return p.Token0().ChainID
}

// Tokens returns token0 and token1
func (p *Pair) Tokens() (types.Token, types.Token) {
	return p.Token0(), p.Token1()
}

// InvolvesToken reports whether the token is one of the pair
func (p *Pair) InvolvesToken(t types.Token) bool {
	return p.Token0().Equals(t) || p.Token1().Equals(t)
}

// Protocol implements the route pool interface
func (p *Pair) Protocol() string {
	return Protocol
}

// ReserveOf returns the reserve held for a token of the pair
func (p *Pair) ReserveOf(t types.Token) (types.CurrencyAmount, bool) {
	switch {
	case p.Token0().Equals(t):
		return p.Reserve0, true
	case p.Token1().Equals(t):
		return p.Reserve1, true
	}
	return types.CurrencyAmount{}, false
}

// Address computes the pair address from the factory deployed on its chain.
// Returns the zero address on chains without a known factory.
func (p *Pair) Address() common.Address {
	factory, ok := factories[p.ChainID()]
	if !ok {
		return common.Address{}
	}
	return ComputePairAddress(factory, p.Token0(), p.Token1())
}

// ComputePairAddress derives the CREATE2 address of a V2 pair.
// token0 must sort before token1.
func ComputePairAddress(factory common.Address, token0, token1 types.Token) common.Address {
	var salt [32]byte
	copy(salt[:], crypto.Keccak256(token0.Address.Bytes(), token1.Address.Bytes()))
	return crypto.CreateAddress2(factory, salt, PairInitCodeHash.Bytes())
}
