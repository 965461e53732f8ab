package types

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Supported chain IDs
const (
	ChainMainnet   uint64 = 1
	ChainGoerli    uint64 = 5
	ChainOptimism  uint64 = 10
	ChainBNB       uint64 = 56
	ChainPolygon   uint64 = 137
	ChainBase      uint64 = 8453
	ChainArbitrum  uint64 = 42161
	ChainAvalanche uint64 = 43114
	ChainSepolia   uint64 = 11155111
)

var ErrUnsupportedChain = errors.New("unsupported chain")

// Native asset sentinels the routing service uses in place of an address
const (
	NativeSentinelETH   = "ETH"
	NativeSentinelMATIC = "MATIC"
	NativeSentinelBNB   = "BNB"
	NativeSentinelAVAX  = "AVAX"
)

type chainInfo struct {
	nativeSymbol string
	nativeName   string
	sentinel     string
	wrapped      Token
}

func wrapped(chainID uint64, address, symbol, name string) Token {
	return Token{ChainID: chainID, Address: common.HexToAddress(address), Decimals: 18, Symbol: symbol, Name: name}
}

var chains = map[uint64]chainInfo{
	ChainMainnet:   {"ETH", "Ether", NativeSentinelETH, wrapped(ChainMainnet, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "WETH", "Wrapped Ether")},
	ChainGoerli:    {"ETH", "Ether", NativeSentinelETH, wrapped(ChainGoerli, "0xB4FBF271143F4FBf7B91A5ded31805e42b2208d6", "WETH", "Wrapped Ether")},
	ChainSepolia:   {"ETH", "Ether", NativeSentinelETH, wrapped(ChainSepolia, "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14", "WETH", "Wrapped Ether")},
	ChainOptimism:  {"ETH", "Ether", NativeSentinelETH, wrapped(ChainOptimism, "0x4200000000000000000000000000000000000006", "WETH", "Wrapped Ether")},
	ChainBase:      {"ETH", "Ether", NativeSentinelETH, wrapped(ChainBase, "0x4200000000000000000000000000000000000006", "WETH", "Wrapped Ether")},
	ChainArbitrum:  {"ETH", "Ether", NativeSentinelETH, wrapped(ChainArbitrum, "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", "WETH", "Wrapped Ether")},
	ChainPolygon:   {"MATIC", "Polygon Matic", NativeSentinelMATIC, wrapped(ChainPolygon, "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", "WMATIC", "Wrapped MATIC")},
	ChainBNB:       {"BNB", "BNB", NativeSentinelBNB, wrapped(ChainBNB, "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", "WBNB", "Wrapped BNB")},
	ChainAvalanche: {"AVAX", "AVAX", NativeSentinelAVAX, wrapped(ChainAvalanche, "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", "WAVAX", "Wrapped AVAX")},
}

// NativeOnChain returns the native currency of a chain
func NativeOnChain(chainID uint64) (Currency, error) {
	info, ok := chains[chainID]
	if !ok {
		return Currency{}, fmt.Errorf("%w: %d", ErrUnsupportedChain, chainID)
	}
	return Currency{
		Token: Token{
			ChainID:  chainID,
			Decimals: 18,
			Symbol:   info.nativeSymbol,
			Name:     info.nativeName,
		},
		IsNative: true,
	}, nil
}

// WrappedNativeOnChain returns the ERC20 wrapper of a chain's native asset
func WrappedNativeOnChain(chainID uint64) (Token, error) {
	info, ok := chains[chainID]
	if !ok {
		return Token{}, fmt.Errorf("%w: %d", ErrUnsupportedChain, chainID)
	}
	return info.wrapped, nil
}

// NativeSentinel returns the address placeholder the routing service expects
// for a chain's native asset. Unknown chains fall back to ETH.
func NativeSentinel(chainID uint64) string {
	if info, ok := chains[chainID]; ok {
		return info.sentinel
	}
	return NativeSentinelETH
}

// IsNativeSentinel reports whether an address field holds a native asset sentinel
func IsNativeSentinel(address string) bool {
	switch address {
	case NativeSentinelETH, NativeSentinelMATIC, NativeSentinelBNB, NativeSentinelAVAX:
		return true
	}
	return false
}
