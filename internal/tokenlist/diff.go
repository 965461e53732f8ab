package tokenlist

import (
	"slices"
	"strings"
)

type tokenKey struct {
	chainID uint64
	address string
}

func keyOf(t TokenInfo) tokenKey {
	return tokenKey{chainID: t.ChainID, address: strings.ToLower(t.Address)}
}

// Diff lists the tokens added, removed and changed between two lists
type Diff struct {
	Added   []TokenInfo
	Removed []TokenInfo
	Changed []TokenInfo
}

// DiffTokenLists compares token entries by chain and address
func DiffTokenLists(base, update []TokenInfo) Diff {
	baseByKey := make(map[tokenKey]TokenInfo, len(base))
	for _, t := range base {
		baseByKey[keyOf(t)] = t
	}

	var d Diff
	seen := make(map[tokenKey]bool, len(update))
	for _, t := range update {
		k := keyOf(t)
		seen[k] = true
		old, ok := baseByKey[k]
		if !ok {
			d.Added = append(d.Added, t)
			continue
		}
		if tokenChanged(old, t) {
			d.Changed = append(d.Changed, t)
		}
	}
	for _, t := range base {
		if !seen[keyOf(t)] {
			d.Removed = append(d.Removed, t)
		}
	}
	return d
}

func tokenChanged(a, b TokenInfo) bool {
	return a.Name != b.Name ||
		a.Symbol != b.Symbol ||
		a.Decimals != b.Decimals ||
		a.LogoURI != b.LogoURI ||
		!slices.Equal(a.Tags, b.Tags)
}

// MinVersionBump returns the smallest bump that accounts for the token changes
func MinVersionBump(base, update []TokenInfo) VersionUpgrade {
	d := DiffTokenLists(base, update)
	switch {
	case len(d.Removed) > 0:
		return VersionUpgradeMajor
	case len(d.Added) > 0:
		return VersionUpgradeMinor
	case len(d.Changed) > 0:
		return VersionUpgradePatch
	}
	return VersionUpgradeNone
}
