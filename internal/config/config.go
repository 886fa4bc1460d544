package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds client configuration loaded from environment and flags.
type Config struct {
	APIAddress     string
	WSAddress      string
	TokenFile      string
	RequestTimeout time.Duration
	PageLimit      int
	DemoMode       bool
}

const (
	defaultRequestTimeout = 10 * time.Second
	defaultPageLimit      = 12
	defaultTokenFileName  = ".storefront_token"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		APIAddress:     getString(lookup, "STOREFRONT_API_ADDRESS", ""),
		WSAddress:      getString(lookup, "STOREFRONT_WS_ADDRESS", ""),
		TokenFile:      getString(lookup, "STOREFRONT_TOKEN_FILE", defaultTokenFile()),
		RequestTimeout: getDuration(lookup, "STOREFRONT_REQUEST_TIMEOUT", defaultRequestTimeout),
		PageLimit:      getInt(lookup, "STOREFRONT_PAGE_LIMIT", defaultPageLimit),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	timeoutStr := cfg.RequestTimeout.String()

	fs.StringVar(&cfg.APIAddress, "a", cfg.APIAddress, "Backend REST base URL")
	fs.StringVar(&cfg.WSAddress, "w", cfg.WSAddress, "Live update WebSocket URL")
	fs.StringVar(&cfg.TokenFile, "t", cfg.TokenFile, "Path of the persisted credential file")
	fs.StringVar(&timeoutStr, "timeout", timeoutStr, "Per-request timeout")
	fs.IntVar(&cfg.PageLimit, "limit", cfg.PageLimit, "Default page size for listings")
	fs.BoolVar(&cfg.DemoMode, "demo", false, "Run against an in-process backend")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error
	if cfg.RequestTimeout, err = time.ParseDuration(timeoutStr); err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = defaultPageLimit
	}

	if cfg.APIAddress == "" && !cfg.DemoMode {
		return nil, fmt.Errorf("backend API address must be provided")
	}

	if cfg.WSAddress == "" && cfg.APIAddress != "" {
		ws, err := DeriveWSAddress(cfg.APIAddress)
		if err != nil {
			return nil, err
		}
		cfg.WSAddress = ws
	}

	return cfg, nil
}

// DeriveWSAddress maps an http(s) base URL to the backend's /ws endpoint.
func DeriveWSAddress(apiAddress string) (string, error) {
	parsed, err := url.Parse(apiAddress)
	if err != nil {
		return "", fmt.Errorf("parse api address: %w", err)
	}
	if !parsed.IsAbs() {
		return "", fmt.Errorf("api address must be absolute")
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported api scheme %q", parsed.Scheme)
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/") + "/ws"
	return parsed.String(), nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultTokenFileName
	}
	return filepath.Join(home, defaultTokenFileName)
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
