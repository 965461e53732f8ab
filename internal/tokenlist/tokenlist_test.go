package tokenlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const (
	daiAddr  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	usdcAddr = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	wethAddr = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
)

func token(addr, symbol string) TokenInfo {
	return TokenInfo{ChainID: 1, Address: addr, Name: symbol + " token", Symbol: symbol, Decimals: 18}
}

func sampleList(v Version, tokens ...TokenInfo) *TokenList {
	return &TokenList{Name: "Sample", Timestamp: "2023-01-01T00:00:00Z", Version: v, Tokens: tokens}
}

func TestGetVersionUpgrade(t *testing.T) {
	base := Version{Major: 1, Minor: 2, Patch: 3}
	cases := []struct {
		update Version
		want   VersionUpgrade
	}{
		{Version{1, 2, 3}, VersionUpgradeNone},
		{Version{1, 2, 4}, VersionUpgradePatch},
		{Version{1, 3, 0}, VersionUpgradeMinor},
		{Version{2, 0, 0}, VersionUpgradeMajor},
		{Version{0, 9, 9}, VersionUpgradeNone},
		{Version{1, 1, 9}, VersionUpgradeNone},
		{Version{1, 2, 2}, VersionUpgradeNone},
	}
	for _, c := range cases {
		require.Equal(t, c.want, GetVersionUpgrade(base, c.update), "update %s", c.update)
	}
	require.Less(t, VersionUpgradePatch, VersionUpgradeMinor)
	require.Less(t, VersionUpgradeMinor, VersionUpgradeMajor)
}

func TestMinVersionBump(t *testing.T) {
	dai, usdc := token(daiAddr, "DAI"), token(usdcAddr, "USDC")

	require.Equal(t, VersionUpgradeNone, MinVersionBump([]TokenInfo{dai}, []TokenInfo{dai}))
	require.Equal(t, VersionUpgradeMinor, MinVersionBump([]TokenInfo{dai}, []TokenInfo{dai, usdc}))
	require.Equal(t, VersionUpgradeMajor, MinVersionBump([]TokenInfo{dai, usdc}, []TokenInfo{dai}))

	renamed := dai
	renamed.Symbol = "DAI2"
	require.Equal(t, VersionUpgradePatch, MinVersionBump([]TokenInfo{dai}, []TokenInfo{renamed}))

	lower := dai
	lower.Address = "0x6b175474e89094c44da98b954eedeac495271d0f"
	require.Equal(t, VersionUpgradeNone, MinVersionBump([]TokenInfo{dai}, []TokenInfo{lower}))
}

func TestMinBumpPolicy(t *testing.T) {
	dai, usdc := token(daiAddr, "DAI"), token(usdcAddr, "USDC")
	current := sampleList(Version{1, 0, 0}, dai)

	added := sampleList(Version{1, 1, 0}, dai, usdc)
	require.True(t, MinBumpPolicy("https://list", current, added, VersionUpgradeMinor))
	require.False(t, MinBumpPolicy("https://list", current, added, VersionUpgradePatch))

	removed := sampleList(Version{1, 1, 0}, usdc)
	require.False(t, MinBumpPolicy("https://list", current, removed, VersionUpgradeMinor))
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleList(Version{1, 0, 0}, token(daiAddr, "DAI")).Validate())

	require.Error(t, sampleList(Version{1, 0, 0}).Validate())
	require.Error(t, sampleList(Version{1, 0, 0}, token("0x1234", "BAD")).Validate())

	noName := sampleList(Version{1, 0, 0}, token(daiAddr, "DAI"))
	noName.Name = ""
	require.Error(t, noName.Validate())
}

func TestURIToHTTP(t *testing.T) {
	f := NewFetcher(time.Second, "https://cloudflare-ipfs.com/")

	urls, err := f.URIToHTTP("https://tokens.example.org/list.json")
	require.NoError(t, err)
	require.Equal(t, []string{"https://tokens.example.org/list.json"}, urls)

	urls, err = f.URIToHTTP("http://tokens.example.org/list.json")
	require.NoError(t, err)
	require.Equal(t, []string{"https://tokens.example.org/list.json", "http://tokens.example.org/list.json"}, urls)

	urls, err = f.URIToHTTP("ipns://tokens.example.org")
	require.NoError(t, err)
	require.Equal(t, []string{"https://cloudflare-ipfs.com/ipns/tokens.example.org"}, urls)

	_, err = f.URIToHTTP("tokens.uniswap.eth")
	require.ErrorIs(t, err, ErrUnsupportedURI)
}

func TestFetch(t *testing.T) {
	valid := sampleList(Version{1, 0, 0}, token(daiAddr, "DAI"))
	invalid := sampleList(Version{1, 0, 0}, token("0xnope", "BAD"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/valid.json":
			_ = json.NewEncoder(w).Encode(valid)
		case "/invalid.json":
			_ = json.NewEncoder(w).Encode(invalid)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	f := NewFetcher(time.Second, "")
	f.client = server.Client()
	ctx := context.Background()

	// httptest serves plain http; the https upgrade attempt fails first
	list, err := f.Fetch(ctx, server.URL+"/valid.json", false)
	require.NoError(t, err)
	require.Equal(t, Version{1, 0, 0}, list.Version)

	_, err = f.Fetch(ctx, server.URL+"/invalid.json", false)
	require.Error(t, err)

	list, err = f.Fetch(ctx, server.URL+"/invalid.json", true)
	require.NoError(t, err)
	require.Len(t, list.Tokens, 1)

	_, err = f.Fetch(ctx, server.URL+"/missing.json", false)
	require.Error(t, err)
}

func TestSafetyTable(t *testing.T) {
	table := NewSafetyTable("default", "extended", []string{"blocked"})
	table.Update(map[string]*TokenList{
		"default":  sampleList(Version{1, 0, 0}, token(daiAddr, "DAI"), token(wethAddr, "WETH")),
		"extended": sampleList(Version{1, 0, 0}, token(daiAddr, "DAI"), token(usdcAddr, "USDC")),
		"blocked":  sampleList(Version{1, 0, 0}, token(wethAddr, "WETH")),
	})

	require.Equal(t, SafetyDefault, table.Check(common.HexToAddress(daiAddr)))
	require.Equal(t, SafetyExtended, table.Check(common.HexToAddress(usdcAddr)))
	require.Equal(t, SafetyBlocked, table.Check(common.HexToAddress(wethAddr)))
	require.Equal(t, SafetyUnknown, table.Check(common.Address{}))
	require.Equal(t, 3, table.Len())
}
