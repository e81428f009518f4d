package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		CoinGeckoURL   string `yaml:"coingecko_url"`
		AltSeasonURL   string `yaml:"alt_season_url"`
		BinanceURL     string `yaml:"binance_url"`
		HyperliquidURL string `yaml:"hyperliquid_url"`
		DefiLlamaURL   string `yaml:"defillama_url"`
		TradingEconKey string `yaml:"tradingecon_key"`
		FinnhubKey     string `yaml:"finnhub_key"`
		FundingSymbol  string `yaml:"funding_symbol"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Engine struct {
		CooldownHours int `yaml:"cooldown_hours"`
	} `yaml:"engine"`
	Journal struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"journal"`
	Database struct {
		// SQLitePath is the history database location; "off" disables
		// recording entirely.
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	State struct {
		FilePath string `yaml:"file_path"`
	} `yaml:"state"`
	Web struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"web"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TG_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TG_CHAT"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TRADINGECON_KEY"); v != "" {
		cfg.DataSource.TradingEconKey = v
	}
	if v := os.Getenv("FINNHUB_KEY"); v != "" {
		cfg.DataSource.FinnhubKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("JOURNAL_PATH"); v != "" {
		cfg.Journal.CSVPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Web.ListenAddr = v
	}

	// Defaults
	if cfg.DataSource.CoinGeckoURL == "" {
		cfg.DataSource.CoinGeckoURL = "https://api.coingecko.com"
	}
	if cfg.DataSource.AltSeasonURL == "" {
		cfg.DataSource.AltSeasonURL = "https://www.blockchaincenter.net/altcoin-season-index.csv"
	}
	if cfg.DataSource.BinanceURL == "" {
		cfg.DataSource.BinanceURL = "https://fapi.binance.com"
	}
	if cfg.DataSource.HyperliquidURL == "" {
		cfg.DataSource.HyperliquidURL = "https://api.hyperliquid.xyz"
	}
	if cfg.DataSource.DefiLlamaURL == "" {
		cfg.DataSource.DefiLlamaURL = "https://stablecoins.llama.fi"
	}
	if cfg.DataSource.FundingSymbol == "" {
		cfg.DataSource.FundingSymbol = "BTC"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 0 */12 * * *"
	}
	if cfg.Engine.CooldownHours == 0 {
		cfg.Engine.CooldownHours = 12
	}
	if cfg.Journal.CSVPath == "" {
		cfg.Journal.CSVPath = "trading_journal.csv"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/crypto_buckets.db"
	}
	if cfg.State.FilePath == "" {
		cfg.State.FilePath = "data/trigger_state.json"
	}
	if cfg.Web.ListenAddr == "" {
		cfg.Web.ListenAddr = ":8501"
	}

	return cfg, nil
}

// SQLiteEnabled reports whether tick history recording is configured.
func (c *Config) SQLiteEnabled() bool {
	return c.Database.SQLitePath != "" && c.Database.SQLitePath != "off"
}

// Validate checks that all required fields are usable. Telegram credentials
// are optional; without them alerts degrade to log lines.
func (c *Config) Validate() error {
	if c.Engine.CooldownHours < 0 {
		return fmt.Errorf("engine.cooldown_hours must not be negative")
	}
	if c.Journal.CSVPath == "" {
		return fmt.Errorf("journal.csv_path is required")
	}
	if c.Web.ListenAddr == "" {
		return fmt.Errorf("web.listen_addr is required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
