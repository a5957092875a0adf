// Package config loads the YAML configuration shared by the pptxhtml
// commands and maps it onto renderer and embed options.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/VantageDataChat/pptxhtml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// AppInfo identifies the running service.
type AppInfo struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

// LoggerConfig configures logging.
type LoggerConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// RenderConfig mirrors pptxhtml.RenderOptions.
type RenderConfig struct {
	Profile           string            `yaml:"profile"`   // rich or simple
	Direction         string            `yaml:"direction"` // auto, ltr or rtl
	Language          string            `yaml:"language"`
	Title             string            `yaml:"title"`
	TextAlign         map[string]string `yaml:"textAlign"` // per direction: ltr, rtl
	MaxImageDimension int               `yaml:"maxImageDimension"`
	Workers           int               `yaml:"workers"`
	StorageNamespace  string            `yaml:"storageNamespace"`
}

// EmbedConfig configures the embeddable variant.
type EmbedConfig struct {
	AllowedOrigin string `yaml:"allowedOrigin"`
	// BaseURL is prepended to artifact paths in snippets produced by the server.
	BaseURL     string `yaml:"baseURL"`
	FrameHeight int    `yaml:"frameHeight"`
}

// ServerConfig configures the HTTP conversion service.
type ServerConfig struct {
	Address        string `yaml:"address"`
	MaxUploadMB    int    `yaml:"maxUploadMB"`
	RequestTimeout string `yaml:"requestTimeout"` // e.g. "30s"
	Store          string `yaml:"store"`          // memory or redis
	MaxArtifacts   int    `yaml:"maxArtifacts"`   // memory store capacity
	ArtifactTTL    string `yaml:"artifactTTL"`    // redis expiry, e.g. "24h"
}

// RedisConfig configures the Redis artifact store.
type RedisConfig struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// AppConfig is the root of the YAML file.
type AppConfig struct {
	App    AppInfo      `yaml:"app"`
	Logger LoggerConfig `yaml:"logger"`
	Render RenderConfig `yaml:"render"`
	Embed  EmbedConfig  `yaml:"embed"`
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
}

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	return &AppConfig{
		App:    AppInfo{Name: "pptxhtml", Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Render: RenderConfig{
			Profile:          string(pptxhtml.ProfileRich),
			Direction:        string(pptxhtml.DirectionAuto),
			Language:         "en",
		},
		Embed: EmbedConfig{FrameHeight: 600},
		Server: ServerConfig{
			Address:        ":8080",
			MaxUploadMB:    50,
			RequestTimeout: "60s",
			Store:          "memory",
			MaxArtifacts:   100,
			ArtifactTTL:    "24h",
		},
		Redis: RedisConfig{Address: "localhost:6379", KeyPrefix: "pptxhtml:artifact:"},
	}
}

// LoadConfig reads the YAML file at path over the defaults and validates the result.
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(yamlFile, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *AppConfig) Validate() error {
	switch pptxhtml.Profile(c.Render.Profile) {
	case "", pptxhtml.ProfileRich, pptxhtml.ProfileSimple:
	default:
		return fmt.Errorf("render.profile: unknown profile %q", c.Render.Profile)
	}
	switch pptxhtml.Direction(c.Render.Direction) {
	case "", pptxhtml.DirectionAuto, pptxhtml.DirectionLTR, pptxhtml.DirectionRTL:
	default:
		return fmt.Errorf("render.direction: unknown direction %q", c.Render.Direction)
	}
	for dir := range c.Render.TextAlign {
		if dir != string(pptxhtml.DirectionLTR) && dir != string(pptxhtml.DirectionRTL) {
			return fmt.Errorf("render.textAlign: unknown direction %q", dir)
		}
	}
	if c.Render.Workers < 0 || c.Render.MaxImageDimension < 0 {
		return fmt.Errorf("render: workers and maxImageDimension must not be negative")
	}
	if _, err := pptxhtml.FrameAncestors(c.Embed.AllowedOrigin); err != nil {
		return fmt.Errorf("embed.allowedOrigin: %w", err)
	}
	if c.Server.Store != "memory" && c.Server.Store != "redis" {
		return fmt.Errorf("server.store: want memory or redis, got %q", c.Server.Store)
	}
	if _, err := parseDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("server.requestTimeout: %w", err)
	}
	if _, err := parseDuration(c.Server.ArtifactTTL); err != nil {
		return fmt.Errorf("server.artifactTTL: %w", err)
	}
	return nil
}

// RenderOptions maps the render section onto renderer options.
func (c *AppConfig) RenderOptions(log logrus.FieldLogger) *pptxhtml.RenderOptions {
	opts := pptxhtml.DefaultRenderOptions()
	if c.Render.Profile != "" {
		opts.Profile = pptxhtml.Profile(c.Render.Profile)
	}
	if c.Render.Direction != "" {
		opts.Direction = pptxhtml.Direction(c.Render.Direction)
	}
	if c.Render.Language != "" {
		opts.Language = c.Render.Language
	}
	if c.Render.StorageNamespace != "" {
		opts.StorageNamespace = c.Render.StorageNamespace
	}
	for dir, align := range c.Render.TextAlign {
		opts.TextAlignDefaults[pptxhtml.Direction(dir)] = align
	}
	opts.Title = c.Render.Title
	opts.MaxImageDimension = c.Render.MaxImageDimension
	opts.Workers = c.Render.Workers
	if log != nil {
		opts.Logger = log
	}
	return opts
}

// EmbedOptions maps the embed section onto embed options for the given artifact URL.
func (c *AppConfig) EmbedOptions(artifactURL string) pptxhtml.EmbedOptions {
	return pptxhtml.EmbedOptions{
		ArtifactURL:   c.Embed.BaseURL + artifactURL,
		AllowedOrigin: c.Embed.AllowedOrigin,
		InitialHeight: c.Embed.FrameHeight,
	}
}

// Timeout returns the per-request conversion timeout; zero disables it.
func (s ServerConfig) Timeout() time.Duration {
	d, _ := parseDuration(s.RequestTimeout)
	return d
}

// TTL returns the artifact expiry; zero keeps artifacts forever.
func (s ServerConfig) TTL() time.Duration {
	d, _ := parseDuration(s.ArtifactTTL)
	return d
}

// MaxUploadBytes returns the request body limit.
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
