package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the swapsync service
type Config struct {
	RPC     RPCConfig
	Lists   ListsConfig
	Storage StorageConfig
	API     APIConfig
	Logging LoggingConfig
}

// RPCConfig holds the provider endpoint used to gate list refreshes
type RPCConfig struct {
	URL            string
	RetryAttempts  int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
	HealthInterval time.Duration
}

// ListsConfig holds token list synchronization settings
type ListsConfig struct {
	DefaultURLs       []string
	UnsupportedURLs   []string
	DefaultActiveURLs []string
	DefaultSafetyURL  string // tokens on this list are "default" safety
	ExtendedSafetyURL string
	RefreshInterval   time.Duration
	FetchTimeout      time.Duration
	IPFSGateway       string
	AutoAccept        string // "min_bump" or "always"
}

// StorageConfig holds the list state database location
type StorageConfig struct {
	Path string
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	Addr    string
	Enabled bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level         string
	Format        string // "json" or "console"
	StatsInterval time.Duration
}

const (
	uniswapDefaultList  = "https://tokens.uniswap.org"
	uniswapExtendedList = "https://extendedtokens.uniswap.org"
	unsupportedList     = "https://unsupportedtokens.uniswap.org"
)

// Load reads configuration from environment and config file
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("rpc.url", "https://eth-mainnet.g.alchemy.com/v2/YOUR_API_KEY")
	v.SetDefault("rpc.retry_attempts", 3)
	v.SetDefault("rpc.retry_delay", "1s")
	v.SetDefault("rpc.request_timeout", "30s")
	v.SetDefault("rpc.health_interval", "30s")

	v.SetDefault("lists.default_urls", []string{
		uniswapDefaultList,
		uniswapExtendedList,
		"https://www.gemini.com/uniswap/manifest.json",
		"https://tokens.coingecko.com/uniswap/all.json",
	})
	v.SetDefault("lists.unsupported_urls", []string{unsupportedList})
	v.SetDefault("lists.default_active_urls", []string{uniswapDefaultList})
	v.SetDefault("lists.default_safety_url", uniswapDefaultList)
	v.SetDefault("lists.extended_safety_url", uniswapExtendedList)
	v.SetDefault("lists.refresh_interval", "10m")
	v.SetDefault("lists.fetch_timeout", "15s")
	v.SetDefault("lists.ipfs_gateway", "https://cloudflare-ipfs.com/")
	v.SetDefault("lists.auto_accept", "min_bump")

	v.SetDefault("storage.path", "./data/lists")

	v.SetDefault("api.addr", ":8080")
	v.SetDefault("api.enabled", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.stats_interval", "1m")

	// Environment variable support
	v.SetEnvPrefix("SWAPSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file support
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.swapsync")

	// Read config file (optional)
	_ = v.ReadInConfig()

	cfg := &Config{
		RPC: RPCConfig{
			URL:            v.GetString("rpc.url"),
			RetryAttempts:  v.GetInt("rpc.retry_attempts"),
			RetryDelay:     v.GetDuration("rpc.retry_delay"),
			RequestTimeout: v.GetDuration("rpc.request_timeout"),
			HealthInterval: v.GetDuration("rpc.health_interval"),
		},
		Lists: ListsConfig{
			DefaultURLs:       v.GetStringSlice("lists.default_urls"),
			UnsupportedURLs:   v.GetStringSlice("lists.unsupported_urls"),
			DefaultActiveURLs: v.GetStringSlice("lists.default_active_urls"),
			DefaultSafetyURL:  v.GetString("lists.default_safety_url"),
			ExtendedSafetyURL: v.GetString("lists.extended_safety_url"),
			RefreshInterval:   v.GetDuration("lists.refresh_interval"),
			FetchTimeout:      v.GetDuration("lists.fetch_timeout"),
			IPFSGateway:       v.GetString("lists.ipfs_gateway"),
			AutoAccept:        v.GetString("lists.auto_accept"),
		},
		Storage: StorageConfig{
			Path: v.GetString("storage.path"),
		},
		API: APIConfig{
			Addr:    v.GetString("api.addr"),
			Enabled: v.GetBool("api.enabled"),
		},
		Logging: LoggingConfig{
			Level:         v.GetString("logging.level"),
			Format:        v.GetString("logging.format"),
			StatsInterval: v.GetDuration("logging.stats_interval"),
		},
	}

	return cfg, nil
}
