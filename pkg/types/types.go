package types

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrInvalidAddress  = errors.New("invalid token address")
	ErrInvalidDecimals = errors.New("invalid token decimals")
	ErrSameToken       = errors.New("tokens are identical")
	ErrChainMismatch   = errors.New("tokens are on different chains")
)

// Token represents an ERC20 token on a specific chain
type Token struct {
	ChainID  uint64         `json:"chainId"`
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
	Symbol   string         `json:"symbol,omitempty"`
	Name     string         `json:"name,omitempty"`
}

// NewToken validates the raw fields of a token and builds it
func NewToken(chainID uint64, address string, decimals int, symbol, name string) (Token, error) {
	if !common.IsHexAddress(address) {
		return Token{}, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if decimals < 0 || decimals > 255 {
		return Token{}, fmt.Errorf("%w: %d", ErrInvalidDecimals, decimals)
	}
	return Token{
		ChainID:  chainID,
		Address:  common.HexToAddress(address),
		Decimals: uint8(decimals),
		Symbol:   symbol,
		Name:     name,
	}, nil
}

// Equals reports whether both tokens share chain and address
func (t Token) Equals(other Token) bool {
	return t.ChainID == other.ChainID && t.Address == other.Address
}

// SortsBefore reports whether t is token0 of a pool formed with other
func (t Token) SortsBefore(other Token) (bool, error) {
	if t.ChainID != other.ChainID {
		return false, ErrChainMismatch
	}
	if t.Address == other.Address {
		return false, ErrSameToken
	}
	return bytes.Compare(t.Address.Bytes(), other.Address.Bytes()) < 0, nil
}

// Currency is either a chain's native asset or an ERC20 token.
// Address is the zero address for native currencies.
type Currency struct {
	Token
	IsNative bool `json:"isNative"`
}

// CurrencyFromToken wraps a token as a currency
func CurrencyFromToken(t Token) Currency {
	return Currency{Token: t}
}

// Wrapped returns the ERC20 form of the currency
func (c Currency) Wrapped() (Token, error) {
	if !c.IsNative {
		return c.Token, nil
	}
	return WrappedNativeOnChain(c.ChainID)
}

// Equals compares two currencies
func (c Currency) Equals(other Currency) bool {
	if c.IsNative || other.IsNative {
		return c.IsNative == other.IsNative && c.ChainID == other.ChainID
	}
	return c.Token.Equals(other.Token)
}

// CurrencyAmount is a raw on-chain quantity of a currency
type CurrencyAmount struct {
	Currency Currency
	Quotient *uint256.Int
}

// FromRawAmount parses a base-10 raw amount for the given currency
func FromRawAmount(currency Currency, raw string) (CurrencyAmount, error) {
	q, err := uint256.FromDecimal(raw)
	if err != nil {
		return CurrencyAmount{}, fmt.Errorf("parse raw amount %q: %w", raw, err)
	}
	return CurrencyAmount{Currency: currency, Quotient: q}, nil
}

// ToExact renders the amount in whole units of the currency
func (a CurrencyAmount) ToExact() string {
	if a.Quotient == nil {
		return "0"
	}
	return decimal.NewFromBigInt(a.Quotient.ToBig(), -int32(a.Currency.Decimals)).String()
}

// Raw returns the quotient as a base-10 string
func (a CurrencyAmount) Raw() string {
	if a.Quotient == nil {
		return "0"
	}
	return a.Quotient.ToBig().String()
}

func (a CurrencyAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Currency Currency `json:"currency"`
		Quotient string   `json:"quotient"`
		Exact    string   `json:"exact"`
	}{a.Currency, a.Raw(), a.ToExact()})
}

// Percent is an exact fraction expressed as numerator over denominator
type Percent struct {
	Numerator   int64
	Denominator int64
}

// NewPercent builds a percent; the denominator must be non-zero
func NewPercent(numerator, denominator int64) Percent {
	return Percent{Numerator: numerator, Denominator: denominator}
}

// Fraction returns numerator/denominator as a decimal
func (p Percent) Fraction() decimal.Decimal {
	if p.Denominator == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(p.Numerator).Div(decimal.NewFromInt(p.Denominator))
}

func (p Percent) String() string {
	return p.Fraction().Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// TradeType indicates which side of a trade is fixed
type TradeType int

const (
	ExactInput TradeType = iota
	ExactOutput
)

func (t TradeType) String() string {
	if t == ExactOutput {
		return "EXACT_OUTPUT"
	}
	return "EXACT_INPUT"
}

func (t TradeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
