package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level    string `yaml:"level"`
		Encoding string `yaml:"encoding"`
	} `yaml:"log"`
	Data struct {
		Companies []string `yaml:"companies"`
		Days      int      `yaml:"days"`
		Seed      uint64   `yaml:"seed"`
		CSVPath   string   `yaml:"csv_path"`
	} `yaml:"data"`
	Portfolio struct {
		StartingCash float64 `yaml:"starting_cash"`
	} `yaml:"portfolio"`
	Live struct {
		RefreshInterval time.Duration `yaml:"refresh_interval"`
		Noise           float64       `yaml:"noise"`
		ForecastDays    int           `yaml:"forecast_days"`
		ChartPath       string        `yaml:"chart_path"`
	} `yaml:"live"`
	Console struct {
		Prices    []StockPrice  `yaml:"prices"`
		MaxChange float64       `yaml:"max_change"`
		Delay     time.Duration `yaml:"delay"`
	} `yaml:"console"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// StockPrice is the starting price of one console symbol.
type StockPrice struct {
	Symbol string  `yaml:"symbol"`
	Price  float64 `yaml:"price"`
}

// Load reads config from a YAML file on top of the defaults, then applies
// environment variable overrides. A missing file is not an error. Values
// written in the file, zeros included, replace the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

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
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SIM_SEED"); v != "" {
		var seed uint64
		if _, err := fmt.Sscanf(v, "%d", &seed); err == nil {
			cfg.Data.Seed = seed
		}
	}
	if v := os.Getenv("SIM_STARTING_CASH"); v != "" {
		var cash float64
		if _, err := fmt.Sscanf(v, "%f", &cash); err == nil {
			cfg.Portfolio.StartingCash = cash
		}
	}
	if v := os.Getenv("SIM_COMPANIES"); v != "" {
		cfg.Data.Companies = splitSymbols(v)
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	cfg.normalize()
	return cfg, nil
}

// Default returns a config holding every default value.
func Default() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Log.Encoding = "console"
	cfg.Data.Companies = []string{"AAPL", "GOOGL", "MSFT", "AMZN", "META"}
	cfg.Data.Days = 365
	cfg.Data.CSVPath = "synthetic_stock_data.csv"
	cfg.Portfolio.StartingCash = 10000
	cfg.Live.RefreshInterval = 2 * time.Second
	cfg.Live.Noise = 2
	cfg.Live.ForecastDays = 30
	cfg.Live.ChartPath = "forecast.png"
	cfg.Console.Prices = []StockPrice{
		{Symbol: "AAPL", Price: 150},
		{Symbol: "GOOG", Price: 2800},
		{Symbol: "TSLA", Price: 700},
		{Symbol: "AMZN", Price: 3300},
	}
	cfg.Console.MaxChange = 0.05
	cfg.Console.Delay = 2 * time.Second
	return cfg
}

// normalize upper-cases symbols so YAML and env input match the same way.
func (c *Config) normalize() {
	for i, s := range c.Data.Companies {
		c.Data.Companies[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	for i := range c.Console.Prices {
		c.Console.Prices[i].Symbol = strings.ToUpper(strings.TrimSpace(c.Console.Prices[i].Symbol))
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if len(c.Data.Companies) == 0 {
		return fmt.Errorf("data.companies must not be empty")
	}
	if c.Data.Days <= 0 {
		return fmt.Errorf("data.days must be positive")
	}
	for _, s := range c.Data.Companies {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("data.companies must not contain empty symbols")
		}
	}
	if c.Portfolio.StartingCash < 0 {
		return fmt.Errorf("portfolio.starting_cash must not be negative")
	}
	if c.Live.RefreshInterval < time.Second {
		return fmt.Errorf("live.refresh_interval must be at least 1s")
	}
	if c.Live.Noise < 0 {
		return fmt.Errorf("live.noise must not be negative")
	}
	if c.Live.ForecastDays <= 0 {
		return fmt.Errorf("live.forecast_days must be positive")
	}
	if c.Console.MaxChange <= 0 || c.Console.MaxChange >= 1 {
		return fmt.Errorf("console.max_change must be in (0, 1)")
	}
	if len(c.Console.Prices) == 0 {
		return fmt.Errorf("console.prices must not be empty")
	}
	seen := make(map[string]bool, len(c.Console.Prices))
	for _, p := range c.Console.Prices {
		if p.Symbol == "" {
			return fmt.Errorf("console.prices must not contain empty symbols")
		}
		if seen[p.Symbol] {
			return fmt.Errorf("console.prices lists %s twice", p.Symbol)
		}
		seen[p.Symbol] = true
		if p.Price <= 0 {
			return fmt.Errorf("console.prices.%s must be positive", p.Symbol)
		}
	}
	if c.Console.Delay < 0 {
		return fmt.Errorf("console.delay must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether trade alerts should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
