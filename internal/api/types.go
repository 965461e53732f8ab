package api

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/devlongs/swapsync/internal/lists"
	"github.com/devlongs/swapsync/internal/quote"
	"github.com/devlongs/swapsync/internal/tokenlist"
	"github.com/devlongs/swapsync/pkg/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type APIRespond struct {
	Result interface{}
	Error  *string
}

func buildGinErrorRespond(err error) *APIRespond {
	errStr := err.Error()
	return &APIRespond{Result: nil, Error: &errStr}
}

type HealthRespond struct {
	Rehydrated        bool `json:"rehydrated"`
	RefreshEnabled    bool `json:"refreshEnabled"`
	ProviderAvailable bool `json:"providerAvailable"`
	Lists             int  `json:"lists"`
	SafetyTokens      int  `json:"safetyTokens"`
}

type ListRespond struct {
	URL            string `json:"url"`
	Status         string `json:"status"`
	Active         bool   `json:"active"`
	Name           string `json:"name,omitempty"`
	CurrentVersion string `json:"currentVersion,omitempty"`
	PendingVersion string `json:"pendingVersion,omitempty"`
	PendingBump    string `json:"pendingBump,omitempty"`
	Tokens         int    `json:"tokens"`
	Error          string `json:"error,omitempty"`
}

func buildListRespond(url string, ls *lists.ListState, active bool) ListRespond {
	out := ListRespond{
		URL:    url,
		Status: string(ls.Status()),
		Active: active,
		Error:  ls.Error,
	}
	if ls.Current != nil {
		out.Name = ls.Current.Name
		out.CurrentVersion = ls.Current.Version.String()
		out.Tokens = len(ls.Current.Tokens)
	}
	if ls.PendingUpdate != nil {
		out.PendingVersion = ls.PendingUpdate.Version.String()
		if ls.Current != nil {
			out.PendingBump = tokenlist.GetVersionUpgrade(ls.Current.Version, ls.PendingUpdate.Version).String()
		}
	}
	return out
}

type AcceptRequest struct {
	URL string `json:"url" binding:"required"`
}

type VisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

type SafetyRespond struct {
	Address string `json:"address"`
	Safety  string `json:"safety"`
}

type QuickQuoteRequest struct {
	Args     quote.Args               `json:"args"`
	Response quote.QuickRouteResponse `json:"response"`
}

type ClassicQuoteRequest struct {
	Args     quote.Args             `json:"args"`
	Response quote.URAQuoteResponse `json:"response"`
	Method   quote.QuoteMethod      `json:"method"`
}

type RouteRespond struct {
	Path         string               `json:"path"`
	Protocols    []string             `json:"protocols"`
	InputAmount  types.CurrencyAmount `json:"inputAmount"`
	OutputAmount types.CurrencyAmount `json:"outputAmount"`
}

type TradeRespond struct {
	FillType          quote.TradeFillType  `json:"fillType"`
	TradeType         types.TradeType      `json:"tradeType"`
	Submittable       bool                 `json:"submittable"`
	InputAmount       types.CurrencyAmount `json:"inputAmount"`
	OutputAmount      types.CurrencyAmount `json:"outputAmount"`
	Routes            []RouteRespond       `json:"routes,omitempty"`
	GasUseEstimate    *float64             `json:"gasUseEstimate,omitempty"`
	GasUseEstimateUSD *float64             `json:"gasUseEstimateUSD,omitempty"`
	BlockNumber       string               `json:"blockNumber,omitempty"`
	RequestID         string               `json:"requestId,omitempty"`
	QuoteMethod       quote.QuoteMethod    `json:"quoteMethod,omitempty"`
	SwapFee           *quote.SwapFeeInfo   `json:"swapFee,omitempty"`
	InputTax          types.Percent        `json:"inputTax"`
	OutputTax         types.Percent        `json:"outputTax"`
}

type QuoteRespond struct {
	State quote.QuoteState `json:"state"`
	Trade *TradeRespond    `json:"trade,omitempty"`
}

func buildTradeRespond(t quote.Trade) *TradeRespond {
	out := &TradeRespond{
		FillType:     t.FillType(),
		TradeType:    t.Direction(),
		Submittable:  quote.IsSubmittableTrade(t),
		InputAmount:  t.InputAmount(),
		OutputAmount: t.OutputAmount(),
	}

	switch trade := t.(type) {
	case *quote.ClassicTrade:
		for _, r := range trade.Routes {
			path, protocols := r.Describe()
			out.Routes = append(out.Routes, RouteRespond{
				Path:         path,
				Protocols:    protocols,
				InputAmount:  r.InputAmount,
				OutputAmount: r.OutputAmount,
			})
		}
		out.GasUseEstimate = trade.GasUseEstimate
		out.GasUseEstimateUSD = trade.GasUseEstimateUSD
		out.BlockNumber = trade.BlockNumber
		out.RequestID = trade.RequestID
		out.QuoteMethod = trade.QuoteMethod
		out.SwapFee = trade.SwapFee
		out.InputTax = trade.InputTax
		out.OutputTax = trade.OutputTax
	case *quote.PreviewTrade:
		out.InputTax = trade.InputTax
		out.OutputTax = trade.OutputTax
	case *quote.DutchOrderTrade:
		out.SwapFee = trade.SwapFee
	}
	return out
}
