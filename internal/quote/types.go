package quote

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/devlongs/swapsync/pkg/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BipsBase is the denominator of basis-point fractions
const BipsBase = 10_000

// PoolType tags a hop of a routing API route
type PoolType string

const (
	PoolTypeV2 PoolType = "v2-pool"
	PoolTypeV3 PoolType = "v3-pool"
)

// URAQuoteType is the routing mechanism chosen by the routing API
type URAQuoteType string

const (
	URAQuoteTypeClassic    URAQuoteType = "CLASSIC"
	URAQuoteTypeDutchLimit URAQuoteType = "DUTCH_LIMIT"
)

// QuoteMethod records where a trade's quote came from
type QuoteMethod string

const (
	QuoteMethodRoutingAPI         QuoteMethod = "ROUTING_API"
	QuoteMethodQuickRoute         QuoteMethod = "QUICK_ROUTE"
	QuoteMethodClientSideFallback QuoteMethod = "CLIENT_SIDE_FALLBACK"
)

// QuoteState is the outcome of a transformation
type QuoteState string

const (
	QuoteStateSuccess  QuoteState = "Success"
	QuoteStateNotFound QuoteState = "Not found"
)

// Wire trade types used by the quoting service
const (
	WireExactIn  = "EXACT_IN"
	WireExactOut = "EXACT_OUT"
)

// TokenInRoute is a token as it appears in a routing API hop
type TokenInRoute struct {
	Address    string `json:"address"`
	ChainID    uint64 `json:"chainId"`
	Symbol     string `json:"symbol"`
	Decimals   string `json:"decimals"`
	BuyFeeBps  string `json:"buyFeeBps,omitempty"`
	SellFeeBps string `json:"sellFeeBps,omitempty"`
}

// Reserve is one side of a V2 pair
type Reserve struct {
	Token    TokenInRoute `json:"token"`
	Quotient string       `json:"quotient"`
}

// PoolInRoute is a single hop; V3 fields and V2 fields are set according to Type
type PoolInRoute struct {
	Type      PoolType      `json:"type"`
	Address   string        `json:"address,omitempty"`
	TokenIn   *TokenInRoute `json:"tokenIn"`
	TokenOut  *TokenInRoute `json:"tokenOut"`
	AmountIn  string        `json:"amountIn,omitempty"`
	AmountOut string        `json:"amountOut,omitempty"`

	// V3
	SqrtRatioX96 string `json:"sqrtRatioX96,omitempty"`
	Liquidity    string `json:"liquidity,omitempty"`
	TickCurrent  string `json:"tickCurrent,omitempty"`
	Fee          string `json:"fee,omitempty"`

	// V2
	Reserve0 *Reserve `json:"reserve0,omitempty"`
	Reserve1 *Reserve `json:"reserve1,omitempty"`
}

// PortionFields carry the optional interface fee taken from the output
type PortionFields struct {
	PortionBips      int    `json:"portionBips,omitempty"`
	PortionRecipient string `json:"portionRecipient,omitempty"`
	PortionAmount    string `json:"portionAmount,omitempty"`
}

// ClassicQuoteData is the quote body of a CLASSIC routing response
type ClassicQuoteData struct {
	PortionFields
	RequestID         string          `json:"requestId,omitempty"`
	QuoteID           string          `json:"quoteId,omitempty"`
	BlockNumber       string          `json:"blockNumber"`
	Amount            string          `json:"amount"`
	AmountDecimals    string          `json:"amountDecimals"`
	GasPriceWei       string          `json:"gasPriceWei,omitempty"`
	GasUseEstimate    string          `json:"gasUseEstimate,omitempty"`
	GasUseEstimateUSD string          `json:"gasUseEstimateUSD,omitempty"`
	Quote             string          `json:"quote"`
	QuoteDecimals     string          `json:"quoteDecimals"`
	QuoteGasAdjusted  string          `json:"quoteGasAdjusted,omitempty"`
	Route             [][]PoolInRoute `json:"route"`
	RouteString       string          `json:"routeString,omitempty"`
}

// DutchOrderQuoteData is the quote body of a DUTCH_LIMIT routing response
type DutchOrderQuoteData struct {
	PortionFields
	OrderInfo           DutchOrderInfoJSON `json:"orderInfo"`
	QuoteID             string             `json:"quoteId,omitempty"`
	RequestID           string             `json:"requestId,omitempty"`
	EncodedOrder        string             `json:"encodedOrder"`
	OrderHash           string             `json:"orderHash"`
	StartTimeBufferSecs int                `json:"startTimeBufferSecs"`
	AuctionPeriodSecs   int                `json:"auctionPeriodSecs"`
	DeadlineBufferSecs  int                `json:"deadlineBufferSecs"`
	SlippageTolerance   string             `json:"slippageTolerance"`
}

// URAQuote is one entry of allQuotes
type URAQuote struct {
	Routing URAQuoteType       `json:"routing"`
	Quote   jsoniter.RawMessage `json:"quote"`
}

// URAQuoteResponse is the routing API response; Quote is decoded according to Routing
type URAQuoteResponse struct {
	Routing   URAQuoteType        `json:"routing"`
	Quote     jsoniter.RawMessage `json:"quote"`
	AllQuotes []URAQuote          `json:"allQuotes"`
}

// QuickRouteResponse is the response of the quick-quote endpoint
type QuickRouteResponse struct {
	TradeType string `json:"tradeType"`
	Quote     struct {
		Amount string `json:"amount"`
		Path   string `json:"path,omitempty"`
	} `json:"quote"`
}

// Args describe the quote request a response belongs to
type Args struct {
	TokenInAddress   string          `json:"tokenInAddress"`
	TokenInChainID   uint64          `json:"tokenInChainId"`
	TokenInDecimals  int             `json:"tokenInDecimals"`
	TokenInSymbol    string          `json:"tokenInSymbol,omitempty"`
	TokenOutAddress  string          `json:"tokenOutAddress"`
	TokenOutChainID  uint64          `json:"tokenOutChainId"`
	TokenOutDecimals int             `json:"tokenOutDecimals"`
	TokenOutSymbol   string          `json:"tokenOutSymbol,omitempty"`
	Amount           string          `json:"amount"`
	TradeType        types.TradeType `json:"-"`
	WireTradeType    string          `json:"tradeType"`
	InputTaxBips     int64           `json:"inputTaxBips,omitempty"`
	OutputTaxBips    int64           `json:"outputTaxBips,omitempty"`
}

// Normalize resolves the wire trade type into TradeType
func (a *Args) Normalize() error {
	switch a.WireTradeType {
	case WireExactIn, "":
		a.TradeType = types.ExactInput
	case WireExactOut:
		a.TradeType = types.ExactOutput
	default:
		return ErrUnknownTradeType
	}
	return nil
}

// SwapFeeInfo describes the portion fee of a trade
type SwapFeeInfo struct {
	Recipient string        `json:"recipient"`
	Percent   types.Percent `json:"percent"`
	Amount    string        `json:"amount"`
}
