package quote

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/devlongs/swapsync/pkg/types"
)

const (
	usdcAddr = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	wethAddr = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	daiAddr  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
)

var (
	usdcHop = &TokenInRoute{Address: usdcAddr, ChainID: 1, Symbol: "USDC", Decimals: "6"}
	wethHop = &TokenInRoute{Address: wethAddr, ChainID: 1, Symbol: "WETH", Decimals: "18"}
	daiHop  = &TokenInRoute{Address: daiAddr, ChainID: 1, Symbol: "DAI", Decimals: "18"}
)

func v3Hop(in, out *TokenInRoute) PoolInRoute {
	return PoolInRoute{
		Type:         PoolTypeV3,
		TokenIn:      in,
		TokenOut:     out,
		Fee:          "500",
		SqrtRatioX96: "1829744519839346963278367750287042",
		Liquidity:    "24033838893024560024",
		TickCurrent:  "200796",
	}
}

func v2Hop(in, out *TokenInRoute) PoolInRoute {
	return PoolInRoute{
		Type:     PoolTypeV2,
		TokenIn:  in,
		TokenOut: out,
		Reserve0: &Reserve{Token: *in, Quotient: "1000000"},
		Reserve1: &Reserve{Token: *out, Quotient: "2000000"},
	}
}

func usdcToDaiArgs() Args {
	return Args{
		TokenInAddress:   usdcAddr,
		TokenInChainID:   1,
		TokenInDecimals:  6,
		TokenInSymbol:    "USDC",
		TokenOutAddress:  daiAddr,
		TokenOutChainID:  1,
		TokenOutDecimals: 18,
		TokenOutSymbol:   "DAI",
		Amount:           "100",
		WireTradeType:    WireExactIn,
	}
}

func currencies(t *testing.T) (types.Currency, types.Currency) {
	t.Helper()
	in, out, err := TradeCurrencies(usdcToDaiArgs(), false)
	require.NoError(t, err)
	return in, out
}

func TestComputeRoutesV3Only(t *testing.T) {
	in, out := currencies(t)
	hops := []PoolInRoute{v3Hop(usdcHop, wethHop), v3Hop(wethHop, daiHop)}
	hops[0].AmountIn = "100"
	hops[1].AmountOut = "95"

	routes, err := ComputeRoutes(in, out, [][]PoolInRoute{hops})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.NotNil(t, routes[0].RouteV3)
	require.Nil(t, routes[0].RouteV2)
	require.Nil(t, routes[0].MixedRoute)
	require.Equal(t, "100", routes[0].InputAmount.Raw())
	require.Equal(t, "95", routes[0].OutputAmount.Raw())

	path, protocols := routes[0].Describe()
	require.Equal(t, "USDC -> WETH -> DAI", path)
	require.Len(t, protocols, 2)
}

func TestComputeRoutesV2Only(t *testing.T) {
	in, out := currencies(t)
	hops := []PoolInRoute{v2Hop(usdcHop, wethHop), v2Hop(wethHop, daiHop)}
	hops[0].AmountIn = "100"
	hops[1].AmountOut = "95"

	routes, err := ComputeRoutes(in, out, [][]PoolInRoute{hops})
	require.NoError(t, err)
	require.NotNil(t, routes[0].RouteV2)
	require.Nil(t, routes[0].RouteV3)
	require.Nil(t, routes[0].MixedRoute)
}

func TestComputeRoutesMixed(t *testing.T) {
	in, out := currencies(t)
	hops := []PoolInRoute{v3Hop(usdcHop, wethHop), v2Hop(wethHop, daiHop)}
	hops[0].AmountIn = "100"
	hops[1].AmountOut = "95"

	routes, err := ComputeRoutes(in, out, [][]PoolInRoute{hops})
	require.NoError(t, err)
	require.NotNil(t, routes[0].MixedRoute)
	require.Nil(t, routes[0].RouteV3)
	require.Nil(t, routes[0].RouteV2)
}

func TestComputeRoutesErrors(t *testing.T) {
	in, out := currencies(t)

	routes, err := ComputeRoutes(in, out, nil)
	require.NoError(t, err)
	require.Empty(t, routes)

	_, err = ComputeRoutes(in, out, [][]PoolInRoute{{}})
	require.ErrorIs(t, err, ErrNoHops)

	missingToken := v3Hop(usdcHop, daiHop)
	missingToken.TokenIn = nil
	_, err = ComputeRoutes(in, out, [][]PoolInRoute{{missingToken}})
	require.ErrorIs(t, err, ErrMissingTokens)

	noAmounts := v3Hop(usdcHop, daiHop)
	_, err = ComputeRoutes(in, out, [][]PoolInRoute{{noAmounts}})
	require.ErrorIs(t, err, ErrMissingAmounts)

	badType := v3Hop(usdcHop, wethHop)
	badType.AmountIn = "1"
	other := v2Hop(wethHop, daiHop)
	other.Type = "v4-pool"
	other.AmountOut = "1"
	_, err = ComputeRoutes(in, out, [][]PoolInRoute{{badType, other}})
	require.ErrorIs(t, err, ErrUnknownPoolType)
}

func TestTradeCurrenciesWrapsNativeInput(t *testing.T) {
	args := usdcToDaiArgs()
	args.TokenInAddress = types.NativeSentinelETH
	args.TokenOutAddress = types.NativeSentinelETH
	args.TokenOutChainID = 1

	in, out, err := TradeCurrencies(args, false)
	require.NoError(t, err)
	require.True(t, in.IsNative)
	require.True(t, out.IsNative)

	in, out, err = TradeCurrencies(args, true)
	require.NoError(t, err)
	require.False(t, in.IsNative)
	require.Equal(t, common.HexToAddress(wethAddr), in.Address)
	require.True(t, out.IsNative)
}

func TestTransformQuickRouteToTrade(t *testing.T) {
	var data QuickRouteResponse
	data.TradeType = WireExactIn
	data.Quote.Amount = "95"

	trade, err := TransformQuickRouteToTrade(usdcToDaiArgs(), data)
	require.NoError(t, err)
	require.Equal(t, "100", trade.InputAmount().Raw())
	require.Equal(t, "95", trade.OutputAmount().Raw())
	require.Equal(t, common.HexToAddress(usdcAddr), trade.InputAmount().Currency.Address)
	require.Equal(t, common.HexToAddress(daiAddr), trade.OutputAmount().Currency.Address)
	require.True(t, IsPreviewTrade(trade))
	require.False(t, IsSubmittableTrade(trade))

	args := usdcToDaiArgs()
	args.WireTradeType = WireExactOut
	data.TradeType = WireExactOut
	trade, err = TransformQuickRouteToTrade(args, data)
	require.NoError(t, err)
	require.Equal(t, "95", trade.InputAmount().Raw())
	require.Equal(t, "100", trade.OutputAmount().Raw())
	require.Equal(t, types.ExactOutput, trade.Direction())
}

func TestSwapFee(t *testing.T) {
	require.Nil(t, SwapFee(PortionFields{PortionBips: 15, PortionAmount: "10"}))

	fee := SwapFee(PortionFields{PortionBips: 15, PortionAmount: "10", PortionRecipient: "0xabc"})
	require.NotNil(t, fee)
	require.Equal(t, "0.15%", fee.Percent.String())
	require.Equal(t, "10", fee.Amount)
	require.Equal(t, "0xabc", fee.Recipient)
}

func classicResponse(t *testing.T, route [][]PoolInRoute) URAQuoteResponse {
	t.Helper()
	body, err := json.Marshal(ClassicQuoteData{
		PortionFields:     PortionFields{PortionBips: 25, PortionAmount: "2", PortionRecipient: "0xfee"},
		RequestID:         "req-1",
		BlockNumber:       "18000000",
		Amount:            "100",
		Quote:             "95",
		GasUseEstimate:    "150000",
		GasUseEstimateUSD: "4.2",
		Route:             route,
	})
	require.NoError(t, err)
	return URAQuoteResponse{Routing: URAQuoteTypeClassic, Quote: body}
}

func TestTransformRoutesToTrade(t *testing.T) {
	hops := []PoolInRoute{v3Hop(usdcHop, wethHop), v3Hop(wethHop, daiHop)}
	hops[0].AmountIn = "100"
	hops[1].AmountOut = "95"

	result, err := TransformRoutesToTrade(usdcToDaiArgs(), classicResponse(t, [][]PoolInRoute{hops}), QuoteMethodRoutingAPI)
	require.NoError(t, err)
	require.Equal(t, QuoteStateSuccess, result.State)
	require.True(t, IsClassicTrade(result.Trade))
	require.True(t, IsSubmittableTrade(result.Trade))
	require.False(t, IsDutchOrderTrade(result.Trade))

	trade := result.Trade.(*ClassicTrade)
	require.Equal(t, "100", trade.InputAmount().Raw())
	require.Equal(t, "95", trade.OutputAmount().Raw())
	require.Equal(t, "18000000", trade.BlockNumber)
	require.NotNil(t, trade.GasUseEstimateUSD)
	require.InDelta(t, 4.2, *trade.GasUseEstimateUSD, 1e-9)
	require.NotNil(t, trade.SwapFee)
	require.Equal(t, "0.25%", trade.SwapFee.Percent.String())
}

func TestTransformRoutesToTradeSwallowsRouteErrors(t *testing.T) {
	result, err := TransformRoutesToTrade(usdcToDaiArgs(), classicResponse(t, [][]PoolInRoute{{}}), QuoteMethodRoutingAPI)
	require.NoError(t, err)
	require.Equal(t, QuoteStateNotFound, result.State)
	require.Nil(t, result.Trade)
}

func TestTransformRoutesToTradeWithoutQuoteAmount(t *testing.T) {
	hops := []PoolInRoute{v2Hop(usdcHop, daiHop)}
	hops[0].AmountIn = "100"
	hops[0].AmountOut = "95"

	body, err := json.Marshal(ClassicQuoteData{RequestID: "req-2", Amount: "100", Route: [][]PoolInRoute{hops}})
	require.NoError(t, err)

	result, err := TransformRoutesToTrade(usdcToDaiArgs(), URAQuoteResponse{Routing: URAQuoteTypeClassic, Quote: body}, QuoteMethodRoutingAPI)
	require.NoError(t, err)
	require.Equal(t, QuoteStateNotFound, result.State)
	require.Nil(t, result.Trade)
}

func TestTransformRoutesToTradeFallsBackToClassic(t *testing.T) {
	hops := []PoolInRoute{v2Hop(usdcHop, daiHop)}
	hops[0].AmountIn = "100"
	hops[0].AmountOut = "95"
	classic := classicResponse(t, [][]PoolInRoute{hops})

	order, err := json.Marshal(DutchOrderQuoteData{QuoteID: "q-1"})
	require.NoError(t, err)

	data := URAQuoteResponse{
		Routing: URAQuoteTypeDutchLimit,
		Quote:   order,
		AllQuotes: []URAQuote{
			{Routing: URAQuoteTypeDutchLimit, Quote: order},
			{Routing: URAQuoteTypeClassic, Quote: classic.Quote},
		},
	}
	result, err := TransformRoutesToTrade(usdcToDaiArgs(), data, QuoteMethodRoutingAPI)
	require.NoError(t, err)
	require.Equal(t, QuoteStateSuccess, result.State)
	require.True(t, IsClassicTrade(result.Trade))

	data.AllQuotes = data.AllQuotes[:1]
	result, err = TransformRoutesToTrade(usdcToDaiArgs(), data, QuoteMethodRoutingAPI)
	require.NoError(t, err)
	require.Equal(t, QuoteStateNotFound, result.State)
}

func TestClassificationPredicates(t *testing.T) {
	require.False(t, IsClassicTrade(nil))
	require.False(t, IsPreviewTrade(nil))

	dutch := &DutchOrderTrade{}
	require.False(t, IsSubmittableTrade(dutch))
	require.False(t, IsDutchOrderTrade(dutch))
	require.False(t, IsClassicTrade(dutch))
}

func TestCurrencyAddressForSwapQuote(t *testing.T) {
	matic, err := types.NativeOnChain(types.ChainPolygon)
	require.NoError(t, err)
	require.Equal(t, types.NativeSentinelMATIC, CurrencyAddressForSwapQuote(matic))

	in, _ := currencies(t)
	require.Equal(t, common.HexToAddress(usdcAddr).Hex(), CurrencyAddressForSwapQuote(in))
	require.True(t, IsExactInput(types.ExactInput))
	require.False(t, IsExactInput(types.ExactOutput))
}

func TestParseDutchOrderInfo(t *testing.T) {
	info, err := ParseDutchOrderInfo(DutchOrderInfoJSON{
		Nonce:                  "7",
		ExclusivityOverrideBps: "100",
		Input:                  DutchInputJSON{Token: wethAddr, StartAmount: "1000", EndAmount: "1000"},
		Outputs:                []DutchOutputJSON{{Token: daiAddr, StartAmount: "900", EndAmount: "850", Recipient: "0x0000000000000000000000000000000000000001"}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), info.Nonce.Int64())
	require.Equal(t, int64(850), info.Outputs[0].EndAmount.Int64())

	_, err = ParseDutchOrderInfo(DutchOrderInfoJSON{Nonce: "x"})
	require.Error(t, err)
}
