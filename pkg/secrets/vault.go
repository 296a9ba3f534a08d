// Package secrets fills process environment variables from a HashiCorp
// Vault KV secret so JWT_SECRET, DB_PASSWORD and RESEND_API_KEY can live
// outside the deployment manifest.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// VaultConfig describes where the secret lives. Variables already set in
// the environment win unless Overwrite is true.
type VaultConfig struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
	Overwrite bool
}

// VaultResult reports how many keys were exported
type VaultResult struct {
	Loaded  int
	Skipped int
}

// VaultConfigFromEnv reads VAULT_* variables. Vault is off unless
// VAULT_ENABLED=true.
func VaultConfigFromEnv() VaultConfig {
	cfg := VaultConfig{
		Enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:      os.Getenv("VAULT_ADDR"),
		Token:     os.Getenv("VAULT_TOKEN"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Mount:     "secret",
		Path:      os.Getenv("VAULT_PATH"),
		KVVersion: 2,
		Timeout:   5 * time.Second,
		Overwrite: strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
	}
	if v := os.Getenv("VAULT_MOUNT"); v != "" {
		cfg.Mount = v
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_KV_VERSION")); err == nil {
		cfg.KVVersion = v
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_TIMEOUT_MS")); err == nil && v > 0 {
		cfg.Timeout = time.Duration(v) * time.Millisecond
	}
	return cfg
}

// ApplyVault exports every key of the configured secret as an environment
// variable. It is a no-op when Vault is disabled.
func ApplyVault(ctx context.Context, cfg VaultConfig) (VaultResult, error) {
	if !cfg.Enabled {
		return VaultResult{}, nil
	}

	data, err := fetch(ctx, cfg)
	if err != nil {
		return VaultResult{}, err
	}

	var res VaultResult
	for key, value := range data {
		if !cfg.Overwrite && os.Getenv(key) != "" {
			res.Skipped++
			continue
		}
		if err := os.Setenv(key, stringify(value)); err != nil {
			return res, fmt.Errorf("vault: set %s: %w", key, err)
		}
		res.Loaded++
	}
	return res, nil
}

func fetch(ctx context.Context, cfg VaultConfig) (map[string]any, error) {
	addr := strings.TrimRight(cfg.Addr, "/")
	mount := strings.Trim(cfg.Mount, "/")
	path := strings.TrimLeft(cfg.Path, "/")
	if addr == "" || cfg.Token == "" || mount == "" || path == "" {
		return nil, errors.New("vault: VAULT_ADDR, VAULT_TOKEN and VAULT_PATH are required")
	}

	url := fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path)
	if cfg.KVVersion == 1 {
		url = fmt.Sprintf("%s/v1/%s/%s", addr, mount, path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Vault-Token", cfg.Token)
	if cfg.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", cfg.Namespace)
	}

	resp, err := (&http.Client{Timeout: cfg.Timeout}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("vault: fetch %s failed: %s %s", path, resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("vault: decode response: %w", err)
	}
	if payload.Data == nil {
		return nil, errors.New("vault: response has no data")
	}
	if cfg.KVVersion == 1 {
		return payload.Data, nil
	}
	inner, ok := payload.Data["data"].(map[string]any)
	if !ok {
		return nil, errors.New("vault: KV v2 response has no data.data")
	}
	return inner, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}
