package quote

import (
	"github.com/devlongs/swapsync/internal/route"
	"github.com/devlongs/swapsync/pkg/types"
)

// TradeFillType is the settlement mechanism of a trade
type TradeFillType string

const (
	FillTypeClassic    TradeFillType = "classic"
	FillTypeDutchOrder TradeFillType = "uniswap_x"
	FillTypeNone       TradeFillType = "none"
)

// Trade is implemented by ClassicTrade, PreviewTrade and DutchOrderTrade
type Trade interface {
	FillType() TradeFillType
	Direction() types.TradeType
	InputAmount() types.CurrencyAmount
	OutputAmount() types.CurrencyAmount
}

// Amounts is the part shared by every trade variant
type Amounts struct {
	Input     types.CurrencyAmount
	Output    types.CurrencyAmount
	TradeType types.TradeType
}

func (a Amounts) Direction() types.TradeType          { return a.TradeType }
func (a Amounts) InputAmount() types.CurrencyAmount  { return a.Input }
func (a Amounts) OutputAmount() types.CurrencyAmount { return a.Output }

// RouteResult is one computed route; exactly one of the route fields is set
type RouteResult struct {
	RouteV3      *route.V3Route
	RouteV2      *route.V2Route
	MixedRoute   *route.MixedRoute
	InputAmount  types.CurrencyAmount
	OutputAmount types.CurrencyAmount
}

// Describe returns the token path and hop protocols of whichever route is set
func (r RouteResult) Describe() (string, []string) {
	switch {
	case r.RouteV3 != nil:
		return r.RouteV3.String(), r.RouteV3.Protocols()
	case r.RouteV2 != nil:
		return r.RouteV2.String(), r.RouteV2.Protocols()
	case r.MixedRoute != nil:
		return r.MixedRoute.String(), r.MixedRoute.Protocols()
	}
	return "", nil
}

// ClassicTrade is routed through on-chain pools
type ClassicTrade struct {
	Amounts
	Routes            []RouteResult
	GasUseEstimate    *float64
	GasUseEstimateUSD *float64
	BlockNumber       string
	RequestID         string
	QuoteMethod       QuoteMethod
	SwapFee           *SwapFeeInfo
	InputTax          types.Percent
	OutputTax         types.Percent
}

func (t *ClassicTrade) FillType() TradeFillType { return FillTypeClassic }

// PreviewTrade is a quick-quote estimate without a route
type PreviewTrade struct {
	Amounts
	InputTax  types.Percent
	OutputTax types.Percent
}

func (t *PreviewTrade) FillType() TradeFillType { return FillTypeNone }

// DutchOrderTrade is an off-chain order fill. Never produced while off-chain
// orders are disabled.
type DutchOrderTrade struct {
	Amounts
	OrderInfo DutchOrderInfo
	QuoteID   string
	SwapFee   *SwapFeeInfo
}

func (t *DutchOrderTrade) FillType() TradeFillType { return FillTypeDutchOrder }

// TradeResult is what a transformation hands back to callers
type TradeResult struct {
	State QuoteState
	Trade Trade
}

// IsClassicTrade reports whether the trade is routed through on-chain pools
func IsClassicTrade(t Trade) bool {
	return fillType(t) == FillTypeClassic
}

// IsPreviewTrade reports whether the trade is a quick-quote estimate
func IsPreviewTrade(t Trade) bool {
	return fillType(t) == FillTypeNone
}

// IsSubmittableTrade reports whether the trade can be executed as is.
// Only classic trades qualify while off-chain orders are disabled.
func IsSubmittableTrade(t Trade) bool {
	switch fillType(t) {
	case FillTypeClassic:
		return true
	case FillTypeDutchOrder, FillTypeNone:
		return false
	}
	return false
}

// IsDutchOrderTrade is always false: off-chain order fills are disabled
func IsDutchOrderTrade(Trade) bool {
	return false
}

func fillType(t Trade) TradeFillType {
	if t == nil {
		return ""
	}
	return t.FillType()
}
