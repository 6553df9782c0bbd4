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

	"github.com/jsimpson73/test-med-app/pkg/retry"
	"github.com/rs/zerolog/log"
)

// VaultConfig locates a KV secret whose keys are environment variable names
// (DB_PASSWORD, REDIS_PASSWORD, TYPESENSE_API_KEY).
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

// LoadVaultConfigFromEnv reads VAULT_* variables.
func LoadVaultConfigFromEnv() VaultConfig {
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
	if mount := os.Getenv("VAULT_MOUNT"); mount != "" {
		cfg.Mount = mount
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_KV_VERSION")); err == nil {
		cfg.KVVersion = v
	}
	if ms, err := strconv.Atoi(os.Getenv("VAULT_TIMEOUT_MS")); err == nil {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

// ApplyVaultSecrets exports the secret's keys into the process environment
// so config.Load picks them up. It returns the number of variables set.
// Existing variables are kept unless Overwrite is set.
func ApplyVaultSecrets(ctx context.Context, cfg VaultConfig) (int, error) {
	if !cfg.Enabled {
		return 0, nil
	}

	values, err := fetchVaultSecret(ctx, cfg)
	if err != nil {
		return 0, err
	}

	loaded := 0
	for key, value := range values {
		if !cfg.Overwrite && os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return loaded, fmt.Errorf("failed to set %s: %w", key, err)
		}
		loaded++
	}

	log.Info().Str("path", cfg.Path).Int("loaded", loaded).Int("total", len(values)).Msg("applied vault secrets")
	return loaded, nil
}

func fetchVaultSecret(ctx context.Context, cfg VaultConfig) (map[string]string, error) {
	if cfg.Addr == "" || cfg.Token == "" || cfg.Path == "" {
		return nil, errors.New("vault configuration incomplete (VAULT_ADDR, VAULT_TOKEN, VAULT_PATH)")
	}
	url, err := buildVaultURL(cfg.Addr, cfg.Mount, cfg.Path, cfg.KVVersion)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.Timeout}
	var body []byte
	err = retry.DoWithLog(ctx, retry.DefaultConfig(), "Vault",
		func() error {
			body, err = getVault(ctx, client, url, cfg)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("vault fetch failed")
		},
	)
	if err != nil {
		return nil, err
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode vault response: %w", err)
	}
	data, err := extractVaultData(payload, cfg.KVVersion)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = stringifyVaultValue(v)
	}
	return out, nil
}

func getVault(ctx context.Context, client *http.Client, url string, cfg VaultConfig) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Vault-Token", cfg.Token)
	if cfg.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", cfg.Namespace)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vault fetch failed: %s %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func buildVaultURL(addr, mount, path string, kvVersion int) (string, error) {
	addr = strings.TrimRight(addr, "/")
	mount = strings.Trim(mount, "/")
	path = strings.TrimLeft(path, "/")
	if addr == "" || mount == "" || path == "" {
		return "", errors.New("vault address, mount, and path must be set")
	}
	if kvVersion == 1 {
		return fmt.Sprintf("%s/v1/%s/%s", addr, mount, path), nil
	}
	return fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path), nil
}

func extractVaultData(payload map[string]interface{}, kvVersion int) (map[string]interface{}, error) {
	data, ok := payload["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("vault response missing data for KV v%d", kvVersion)
	}
	if kvVersion == 1 {
		return data, nil
	}
	if inner, ok := data["data"].(map[string]interface{}); ok {
		return inner, nil
	}
	return nil, errors.New("vault response missing data for KV v2")
}

func stringifyVaultValue(value interface{}) string {
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
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
