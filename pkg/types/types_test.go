package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const (
	daiAddr  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	usdcAddr = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
)

func TestNewTokenValidation(t *testing.T) {
	_, err := NewToken(ChainMainnet, "not-an-address", 18, "DAI", "Dai")
	require.ErrorIs(t, err, ErrInvalidAddress)

	_, err = NewToken(ChainMainnet, daiAddr, 300, "DAI", "Dai")
	require.ErrorIs(t, err, ErrInvalidDecimals)

	tok, err := NewToken(ChainMainnet, daiAddr, 18, "DAI", "Dai")
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(daiAddr), tok.Address)
}

func TestSortsBefore(t *testing.T) {
	dai, _ := NewToken(ChainMainnet, daiAddr, 18, "DAI", "")
	usdc, _ := NewToken(ChainMainnet, usdcAddr, 6, "USDC", "")

	before, err := dai.SortsBefore(usdc)
	require.NoError(t, err)
	require.True(t, before)

	_, err = dai.SortsBefore(dai)
	require.ErrorIs(t, err, ErrSameToken)

	other := usdc
	other.ChainID = ChainPolygon
	_, err = dai.SortsBefore(other)
	require.ErrorIs(t, err, ErrChainMismatch)
}

func TestNativeCurrencyWrapped(t *testing.T) {
	eth, err := NativeOnChain(ChainMainnet)
	require.NoError(t, err)
	require.True(t, eth.IsNative)

	weth, err := eth.Wrapped()
	require.NoError(t, err)
	require.Equal(t, "WETH", weth.Symbol)
	require.Equal(t, common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), weth.Address)

	_, err = NativeOnChain(999999)
	require.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestNativeSentinels(t *testing.T) {
	require.Equal(t, NativeSentinelMATIC, NativeSentinel(ChainPolygon))
	require.Equal(t, NativeSentinelETH, NativeSentinel(123456))
	require.True(t, IsNativeSentinel("BNB"))
	require.False(t, IsNativeSentinel(daiAddr))
}

func TestCurrencyAmountExact(t *testing.T) {
	usdc, _ := NewToken(ChainMainnet, usdcAddr, 6, "USDC", "")
	amt, err := FromRawAmount(CurrencyFromToken(usdc), "1500000")
	require.NoError(t, err)
	require.Equal(t, "1.5", amt.ToExact())
	require.Equal(t, "1500000", amt.Raw())

	_, err = FromRawAmount(CurrencyFromToken(usdc), "-1")
	require.Error(t, err)
}

func TestPercent(t *testing.T) {
	p := NewPercent(15, 10_000)
	require.Equal(t, "0.15%", p.String())
	require.Equal(t, "0.0015", p.Fraction().String())
}
