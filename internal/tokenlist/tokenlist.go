// Package tokenlist models token-list documents and the rules for moving
// between their versions.
package tokenlist

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenInfo is one token entry of a list
type TokenInfo struct {
	ChainID  uint64   `json:"chainId" validate:"required"`
	Address  string   `json:"address" validate:"required,eth_addr"`
	Name     string   `json:"name" validate:"required,max=60"`
	Symbol   string   `json:"symbol" validate:"required,max=20"`
	Decimals int      `json:"decimals" validate:"min=0,max=255"`
	LogoURI  string   `json:"logoURI,omitempty" validate:"omitempty,uri"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=10"`
}

// TagDefinition describes a tag referenced by tokens
type TagDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TokenList is a versioned list document
type TokenList struct {
	Name      string                   `json:"name" validate:"required,max=30"`
	Timestamp string                   `json:"timestamp" validate:"required"`
	Version   Version                  `json:"version"`
	Tokens    []TokenInfo              `json:"tokens" validate:"required,min=1,max=10000,dive"`
	Keywords  []string                 `json:"keywords,omitempty" validate:"omitempty,max=20,dive,min=1,max=20"`
	Tags      map[string]TagDefinition `json:"tags,omitempty"`
	LogoURI   string                   `json:"logoURI,omitempty" validate:"omitempty,uri"`
}

var validate = validator.New()

// Validate checks the document against the token-list schema rules
func (l *TokenList) Validate() error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("invalid token list: %w", err)
	}
	return nil
}

// Decode parses a list document
func Decode(data []byte) (*TokenList, error) {
	var l TokenList
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode token list: %w", err)
	}
	return &l, nil
}
