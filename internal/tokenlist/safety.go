package tokenlist

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// TokenSafety is how trusted a token is, based on the lists it appears on
type TokenSafety int

const (
	SafetyUnknown TokenSafety = iota
	SafetyDefault
	SafetyExtended
	SafetyBlocked
)

func (s TokenSafety) String() string {
	switch s {
	case SafetyDefault:
		return "default"
	case SafetyExtended:
		return "extended"
	case SafetyBlocked:
		return "blocked"
	}
	return "unknown"
}

// SafetyTable maps token addresses to their safety level.
// Blocked wins over default, default over extended.
type SafetyTable struct {
	defaultURL  string
	extendedURL string
	blockedURLs map[string]bool

	mu   sync.RWMutex
	dict map[common.Address]TokenSafety
}

func NewSafetyTable(defaultURL, extendedURL string, blockedURLs []string) *SafetyTable {
	blocked := make(map[string]bool, len(blockedURLs))
	for _, u := range blockedURLs {
		blocked[u] = true
	}
	return &SafetyTable{
		defaultURL:  defaultURL,
		extendedURL: extendedURL,
		blockedURLs: blocked,
		dict:        make(map[common.Address]TokenSafety),
	}
}

// Update rebuilds the table from the current version of each list
func (t *SafetyTable) Update(current map[string]*TokenList) {
	dict := make(map[common.Address]TokenSafety)
	mark := func(l *TokenList, level TokenSafety) {
		if l == nil {
			return
		}
		for _, tok := range l.Tokens {
			dict[common.HexToAddress(tok.Address)] = level
		}
	}

	// Applied weakest first so stronger classifications overwrite
	mark(current[t.extendedURL], SafetyExtended)
	mark(current[t.defaultURL], SafetyDefault)
	for u := range t.blockedURLs {
		mark(current[u], SafetyBlocked)
	}

	t.mu.Lock()
	t.dict = dict
	t.mu.Unlock()
}

// Check returns the safety level of a token address
func (t *SafetyTable) Check(address common.Address) TokenSafety {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dict[address]
}

// Len returns the number of classified tokens
func (t *SafetyTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.dict)
}
