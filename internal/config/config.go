package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "MEDIASANITIZER_CONFIG"
	openAIAPIKeyEnv  = "OPENAI_API_KEY"
	chatGPTModelEnv  = "CHATGPT_MODEL"
	databasePathEnv  = "DATABASE_PATH"
	serverAddressEnv = "SERVER_ADDRESS"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	ChatGPT  ChatGPTConfig  `yaml:"chatgpt"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Report   ReportConfig   `yaml:"report"`
	Logging  LoggingConfig  `yaml:"logging"`
	Sites    []SiteConfig   `yaml:"sites"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DatabaseConfig locates the SQLite analysis cache.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScraperConfig tunes page fetching.
type ScraperConfig struct {
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	UserAgent      string `yaml:"userAgent"`
}

// ChatGPTConfig defines how to contact the chat-completion API.
type ChatGPTConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"apiKey"`
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float64 `yaml:"temperature"`
}

// AnalyzerConfig bounds what gets submitted to the model.
type AnalyzerConfig struct {
	MinContentLength int `yaml:"minContentLength"`
}

// ReportConfig feeds the synthesizer's cross-check and technical sections.
type ReportConfig struct {
	TrustedSources []string `yaml:"trustedSources"`
	CheckedCount   int      `yaml:"checkedCount"`
	SourcesChecked int      `yaml:"sourcesChecked"`
	Method         string   `yaml:"method"`
	LoadedTerms    []string `yaml:"loadedTerms"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SiteConfig adds or overrides a per-domain extraction rule.
type SiteConfig struct {
	Domain          string `yaml:"domain"`
	TitleSelector   string `yaml:"titleSelector"`
	ContentSelector string `yaml:"contentSelector"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}

	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}

	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(serverAddressEnv); v != "" {
		c.Server.Address = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Address != "" {
		base.Server = override.Server
	}

	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Scraper.TimeoutSeconds > 0 {
		base.Scraper.TimeoutSeconds = override.Scraper.TimeoutSeconds
	}
	if override.Scraper.UserAgent != "" {
		base.Scraper.UserAgent = override.Scraper.UserAgent
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.MaxTokens > 0 {
		base.ChatGPT.MaxTokens = override.ChatGPT.MaxTokens
	}
	if override.ChatGPT.Temperature > 0 {
		base.ChatGPT.Temperature = override.ChatGPT.Temperature
	}

	if override.Analyzer.MinContentLength > 0 {
		base.Analyzer.MinContentLength = override.Analyzer.MinContentLength
	}

	if len(override.Report.TrustedSources) > 0 {
		base.Report.TrustedSources = override.Report.TrustedSources
	}
	if override.Report.CheckedCount > 0 {
		base.Report.CheckedCount = override.Report.CheckedCount
	}
	if override.Report.SourcesChecked > 0 {
		base.Report.SourcesChecked = override.Report.SourcesChecked
	}
	if override.Report.Method != "" {
		base.Report.Method = override.Report.Method
	}
	if len(override.Report.LoadedTerms) > 0 {
		base.Report.LoadedTerms = override.Report.LoadedTerms
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Address: ":5000"},
		Database: DatabaseConfig{Path: "./data/articles.db"},
		Scraper:  ScraperConfig{TimeoutSeconds: 20, UserAgent: "MediaSanitizer/1.0"},
		ChatGPT: ChatGPTConfig{
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-4o-mini",
			APIKey:      "",
			MaxTokens:   900,
			Temperature: 0.1,
		},
		Analyzer: AnalyzerConfig{MinContentLength: 60},
		Report: ReportConfig{
			TrustedSources: []string{"Hetq", "CivilNet", "Armenpress", "Oragir.news"},
			CheckedCount:   30,
			SourcesChecked: 11,
			Method:         "AI + Heuristic (TF-IDF, Sentiment, BERT)",
			LoadedTerms:    []string{"suspicious", "allegedly", "denied"},
		},
		Logging: LoggingConfig{Level: "info"},
		Sites: []SiteConfig{
			{
				Domain:          "civilnet.am",
				TitleSelector:   "h1",
				ContentSelector: "div[class*='article-content'], div[class*='content']",
			},
			{
				Domain:          "hetq.am",
				TitleSelector:   "h1",
				ContentSelector: "div[class*='article-content'], div[class*='content']",
			},
		},
	}
}
