package quote

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"

	"github.com/devlongs/swapsync/internal/dex/uniswapv2"
	"github.com/devlongs/swapsync/internal/dex/uniswapv3"
	"github.com/devlongs/swapsync/internal/metrics"
	"github.com/devlongs/swapsync/internal/route"
	"github.com/devlongs/swapsync/pkg/types"
)

var (
	ErrUnknownTradeType = errors.New("unknown trade type")
	ErrUnknownPoolType  = errors.New("unknown pool type")
	ErrNoHops           = errors.New("expected route to have at least one pair or pool")
	ErrMissingTokens    = errors.New("expected both tokenIn and tokenOut to be present")
	ErrMissingAmounts   = errors.New("expected both amountIn and amountOut to be present")
	ErrMissingReserves  = errors.New("expected both reserves of a pair to be present")
)

// TradeCurrencies resolves the currencies used for the actual swap. For
// settlement that needs wrapped native input, a native input currency is
// replaced by its wrapped token; the output is left as given.
func TradeCurrencies(args Args, wrapNativeInput bool) (types.Currency, types.Currency, error) {
	currencyIn, err := resolveCurrency(args.TokenInAddress, args.TokenInChainID, args.TokenInDecimals, args.TokenInSymbol)
	if err != nil {
		return types.Currency{}, types.Currency{}, fmt.Errorf("resolve input currency: %w", err)
	}
	currencyOut, err := resolveCurrency(args.TokenOutAddress, args.TokenOutChainID, args.TokenOutDecimals, args.TokenOutSymbol)
	if err != nil {
		return types.Currency{}, types.Currency{}, fmt.Errorf("resolve output currency: %w", err)
	}

	if !wrapNativeInput || !currencyIn.IsNative {
		return currencyIn, currencyOut, nil
	}

	wrapped, err := currencyIn.Wrapped()
	if err != nil {
		return types.Currency{}, types.Currency{}, fmt.Errorf("wrap input currency: %w", err)
	}
	return types.CurrencyFromToken(wrapped), currencyOut, nil
}

func resolveCurrency(address string, chainID uint64, decimals int, symbol string) (types.Currency, error) {
	if types.IsNativeSentinel(address) {
		return types.NativeOnChain(chainID)
	}
	tok, err := types.NewToken(chainID, address, decimals, symbol, "")
	if err != nil {
		return types.Currency{}, err
	}
	return types.CurrencyFromToken(tok), nil
}

// assignAmounts puts the requested amount on the fixed side of the trade
func assignAmounts(tradeType types.TradeType, requested, quoted string) (rawIn, rawOut string) {
	if tradeType == types.ExactInput {
		return requested, quoted
	}
	return quoted, requested
}

// ComputeRoutes turns the routes of a classic quote into typed routes
func ComputeRoutes(currencyIn, currencyOut types.Currency, routes [][]PoolInRoute) ([]RouteResult, error) {
	if len(routes) == 0 {
		return []RouteResult{}, nil
	}
	for i, hops := range routes {
		if len(hops) == 0 {
			return nil, fmt.Errorf("route %d: %w", i, ErrNoHops)
		}
	}

	first := routes[0]
	if first[0].TokenIn == nil || first[len(first)-1].TokenOut == nil {
		return nil, ErrMissingTokens
	}

	results := make([]RouteResult, 0, len(routes))
	for i, hops := range routes {
		result, err := computeRoute(currencyIn, currencyOut, hops)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func computeRoute(currencyIn, currencyOut types.Currency, hops []PoolInRoute) (RouteResult, error) {
	rawAmountIn := hops[0].AmountIn
	rawAmountOut := hops[len(hops)-1].AmountOut
	if rawAmountIn == "" || rawAmountOut == "" {
		return RouteResult{}, ErrMissingAmounts
	}

	inputAmount, err := types.FromRawAmount(currencyIn, rawAmountIn)
	if err != nil {
		return RouteResult{}, err
	}
	outputAmount, err := types.FromRawAmount(currencyOut, rawAmountOut)
	if err != nil {
		return RouteResult{}, err
	}

	result := RouteResult{InputAmount: inputAmount, OutputAmount: outputAmount}

	switch {
	case isVersionedRoute(PoolTypeV3, hops):
		pools := make([]*uniswapv3.Pool, 0, len(hops))
		for _, h := range hops {
			p, err := parsePool(h)
			if err != nil {
				return RouteResult{}, err
			}
			pools = append(pools, p)
		}
		result.RouteV3, err = route.New(pools, currencyIn, currencyOut)

	case isVersionedRoute(PoolTypeV2, hops):
		pairs := make([]*uniswapv2.Pair, 0, len(hops))
		for _, h := range hops {
			p, err := parsePair(h)
			if err != nil {
				return RouteResult{}, err
			}
			pairs = append(pairs, p)
		}
		result.RouteV2, err = route.New(pairs, currencyIn, currencyOut)

	default:
		pools := make([]route.Pool, 0, len(hops))
		for _, h := range hops {
			p, err := parsePoolOrPair(h)
			if err != nil {
				return RouteResult{}, err
			}
			pools = append(pools, p)
		}
		result.MixedRoute, err = route.New(pools, currencyIn, currencyOut)
	}
	if err != nil {
		return RouteResult{}, err
	}
	return result, nil
}

func isVersionedRoute(t PoolType, hops []PoolInRoute) bool {
	for _, h := range hops {
		if h.Type != t {
			return false
		}
	}
	return true
}

func parsePoolOrPair(h PoolInRoute) (route.Pool, error) {
	switch h.Type {
	case PoolTypeV3:
		return parsePool(h)
	case PoolTypeV2:
		return parsePair(h)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPoolType, h.Type)
}

func parseToken(t TokenInRoute) (types.Token, error) {
	decimals, err := strconv.Atoi(t.Decimals)
	if err != nil {
		return types.Token{}, fmt.Errorf("parse decimals of %s: %w", t.Address, err)
	}
	return types.NewToken(t.ChainID, t.Address, decimals, t.Symbol, "")
}

func parsePool(h PoolInRoute) (*uniswapv3.Pool, error) {
	if h.TokenIn == nil || h.TokenOut == nil {
		return nil, ErrMissingTokens
	}
	tokenIn, err := parseToken(*h.TokenIn)
	if err != nil {
		return nil, err
	}
	tokenOut, err := parseToken(*h.TokenOut)
	if err != nil {
		return nil, err
	}
	fee, err := strconv.ParseUint(h.Fee, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("parse fee: %w", err)
	}
	sqrtRatioX96, err := uint256.FromDecimal(h.SqrtRatioX96)
	if err != nil {
		return nil, fmt.Errorf("parse sqrtRatioX96: %w", err)
	}
	liquidity, err := uint256.FromDecimal(h.Liquidity)
	if err != nil {
		return nil, fmt.Errorf("parse liquidity: %w", err)
	}
	tick, err := strconv.Atoi(h.TickCurrent)
	if err != nil {
		return nil, fmt.Errorf("parse tickCurrent: %w", err)
	}
	return uniswapv3.NewPool(tokenIn, tokenOut, uniswapv3.FeeAmount(fee), sqrtRatioX96, liquidity, tick)
}

func parsePair(h PoolInRoute) (*uniswapv2.Pair, error) {
	if h.Reserve0 == nil || h.Reserve1 == nil {
		return nil, ErrMissingReserves
	}
	reserve0, err := parseReserve(*h.Reserve0)
	if err != nil {
		return nil, err
	}
	reserve1, err := parseReserve(*h.Reserve1)
	if err != nil {
		return nil, err
	}
	return uniswapv2.NewPair(reserve0, reserve1)
}

func parseReserve(r Reserve) (types.CurrencyAmount, error) {
	tok, err := parseToken(r.Token)
	if err != nil {
		return types.CurrencyAmount{}, err
	}
	return types.FromRawAmount(types.CurrencyFromToken(tok), r.Quotient)
}

// SwapFee builds the portion fee, or nil when any portion field is missing
func SwapFee(p PortionFields) *SwapFeeInfo {
	if p.PortionAmount == "" || p.PortionBips == 0 || p.PortionRecipient == "" {
		return nil
	}
	return &SwapFeeInfo{
		Recipient: p.PortionRecipient,
		Percent:   types.NewPercent(int64(p.PortionBips), BipsBase),
		Amount:    p.PortionAmount,
	}
}

// TransformQuickRouteToTrade builds a preview trade from a quick-quote response
func TransformQuickRouteToTrade(args Args, data QuickRouteResponse) (*PreviewTrade, error) {
	if err := args.Normalize(); err != nil {
		return nil, err
	}
	currencyIn, currencyOut, err := TradeCurrencies(args, false)
	if err != nil {
		return nil, err
	}

	responseType := args.TradeType
	switch data.TradeType {
	case WireExactIn:
		responseType = types.ExactInput
	case WireExactOut:
		responseType = types.ExactOutput
	case "":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTradeType, data.TradeType)
	}

	rawIn, rawOut := assignAmounts(responseType, args.Amount, data.Quote.Amount)
	inputAmount, err := types.FromRawAmount(currencyIn, rawIn)
	if err != nil {
		return nil, fmt.Errorf("input amount: %w", err)
	}
	outputAmount, err := types.FromRawAmount(currencyOut, rawOut)
	if err != nil {
		return nil, fmt.Errorf("output amount: %w", err)
	}

	metrics.QuoteTransformsTotal.WithLabelValues(string(FillTypeNone), "success").Inc()

	return &PreviewTrade{
		Amounts:   Amounts{Input: inputAmount, Output: outputAmount, TradeType: args.TradeType},
		InputTax:  types.NewPercent(args.InputTaxBips, BipsBase),
		OutputTax: types.NewPercent(args.OutputTaxBips, BipsBase),
	}, nil
}

// classicQuote picks the classic quote of a response, looking through
// allQuotes when the preferred routing is an off-chain order.
func classicQuote(data URAQuoteResponse) (*ClassicQuoteData, error) {
	raw := data.Quote
	if data.Routing != URAQuoteTypeClassic {
		raw = nil
		for _, q := range data.AllQuotes {
			if q.Routing == URAQuoteTypeClassic {
				raw = q.Quote
				break
			}
		}
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var out ClassicQuoteData
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode classic quote: %w", err)
	}
	return &out, nil
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// TransformRoutesToTrade builds a classic trade from a routing API response.
// Route computation failures are logged and reported as QuoteStateNotFound.
func TransformRoutesToTrade(args Args, data URAQuoteResponse, method QuoteMethod) (TradeResult, error) {
	if err := args.Normalize(); err != nil {
		return TradeResult{}, err
	}

	if data.Routing == URAQuoteTypeDutchLimit {
		var order DutchOrderQuoteData
		if err := json.Unmarshal(data.Quote, &order); err == nil {
			if _, err := ParseDutchOrderInfo(order.OrderInfo); err != nil {
				log.Debug().Err(err).Msg("Malformed off-chain order in quote")
			}
		}
		log.Debug().Str("quoteId", order.QuoteID).Msg("Off-chain orders disabled, using classic quote")
	}

	currencyIn, currencyOut, err := TradeCurrencies(args, false)
	if err != nil {
		return TradeResult{}, err
	}

	q, err := classicQuote(data)
	if err != nil {
		return TradeResult{}, err
	}
	if q == nil {
		metrics.QuoteTransformsTotal.WithLabelValues(string(FillTypeClassic), "not_found").Inc()
		return TradeResult{State: QuoteStateNotFound}, nil
	}

	routes, err := ComputeRoutes(currencyIn, currencyOut, q.Route)
	if err != nil {
		log.Error().Err(err).Str("requestId", q.RequestID).Msg("Error computing routes")
		metrics.QuoteTransformsTotal.WithLabelValues(string(FillTypeClassic), "failure").Inc()
		return TradeResult{State: QuoteStateNotFound}, nil
	}
	if len(routes) == 0 || q.Quote == "" {
		metrics.QuoteTransformsTotal.WithLabelValues(string(FillTypeClassic), "not_found").Inc()
		return TradeResult{State: QuoteStateNotFound}, nil
	}

	rawIn, rawOut := assignAmounts(args.TradeType, args.Amount, q.Quote)
	inputAmount, err := types.FromRawAmount(currencyIn, rawIn)
	if err != nil {
		return TradeResult{}, fmt.Errorf("input amount: %w", err)
	}
	outputAmount, err := types.FromRawAmount(currencyOut, rawOut)
	if err != nil {
		return TradeResult{}, fmt.Errorf("output amount: %w", err)
	}

	trade := &ClassicTrade{
		Amounts:           Amounts{Input: inputAmount, Output: outputAmount, TradeType: args.TradeType},
		Routes:            routes,
		GasUseEstimate:    parseFloat(q.GasUseEstimate),
		GasUseEstimateUSD: parseFloat(q.GasUseEstimateUSD),
		BlockNumber:       q.BlockNumber,
		RequestID:         q.RequestID,
		QuoteMethod:       method,
		SwapFee:           SwapFee(q.PortionFields),
		InputTax:          types.NewPercent(args.InputTaxBips, BipsBase),
		OutputTax:         types.NewPercent(args.OutputTaxBips, BipsBase),
	}

	metrics.QuoteTransformsTotal.WithLabelValues(string(FillTypeClassic), "success").Inc()
	return TradeResult{State: QuoteStateSuccess, Trade: trade}, nil
}

// IsExactInput reports whether the input side of the trade is fixed
func IsExactInput(t types.TradeType) bool {
	return t == types.ExactInput
}

// CurrencyAddressForSwapQuote returns the address the routing service expects
// for a currency: a native sentinel or the token address.
func CurrencyAddressForSwapQuote(c types.Currency) string {
	if c.IsNative {
		return types.NativeSentinel(c.ChainID)
	}
	return c.Address.Hex()
}
