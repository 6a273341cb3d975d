// Package config resolves toolkit configuration from defaults, an
// optional YAML file, and environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Cache keys for the three persisted snapshots. Each manager is the
// sole writer of its own key.
const (
	ShopCacheKey     = "storefront_shop"
	ProductsCacheKey = "storefront_products"
	CartCacheKey     = "storefront_cart"
)

// Default TTLs: products are short-lived (price and inventory move),
// shop metadata and the cart much less so.
const (
	DefaultProductsTTL = 10 * time.Minute
	DefaultShopTTL     = time.Hour
	DefaultCartTTL     = 24 * time.Hour
)

// Config is the resolved toolkit configuration.
type Config struct {
	// Token and Domain identify the storefront API instance. Both are
	// required for any command that reaches the network.
	Token  string `yaml:"token"`
	Domain string `yaml:"domain"`

	// APIVersion overrides the gateway's default when set.
	APIVersion string `yaml:"api_version"`

	// RedisAddr switches the cache backend from files to Redis when set.
	RedisAddr string `yaml:"redis_addr"`

	// CacheDir is where the file cache keeps its entries.
	CacheDir string `yaml:"cache_dir"`

	TTL TTLConfig `yaml:"ttl"`
}

// TTLConfig carries the per-snapshot cache TTLs.
type TTLConfig struct {
	Products time.Duration `yaml:"products"`
	Shop     time.Duration `yaml:"shop"`
	Cart     time.Duration `yaml:"cart"`
}

// Load resolves the configuration. A .env file in the working directory
// is folded into the environment first; path, when non-empty, names a
// YAML file whose values sit between the defaults and the environment.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := &Config{
		TTL: TTLConfig{
			Products: DefaultProductsTTL,
			Shop:     DefaultShopTTL,
			Cart:     DefaultCartTTL,
		},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
	if cfg.TTL.Products <= 0 {
		cfg.TTL.Products = DefaultProductsTTL
	}
	if cfg.TTL.Shop <= 0 {
		cfg.TTL.Shop = DefaultShopTTL
	}
	if cfg.TTL.Cart <= 0 {
		cfg.TTL.Cart = DefaultCartTTL
	}

	return cfg, nil
}

// Validate checks the fields required for network access.
func (c *Config) Validate() error {
	if c.Token == "" || c.Domain == "" {
		return fmt.Errorf("store token and domain are required (set STOREFRONT_TOKEN and STOREFRONT_DOMAIN)")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STOREFRONT_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("STOREFRONT_DOMAIN"); v != "" {
		cfg.Domain = v
	}
	if v := os.Getenv("STOREFRONT_API_VERSION"); v != "" {
		cfg.APIVersion = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("STOREFRONT_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "storefront")
	}
	return filepath.Join(base, "storefront")
}
