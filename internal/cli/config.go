package cli

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	// Token overrides the saved per-session tokens when set
	Token     string
	TokenFile string
	Output    string
	Verbose   bool

	tokens map[string]string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("WORDRUSH_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("WORDRUSH_TOKEN"),
		TokenFile: getEnvOrDefault("WORDRUSH_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
	}
}

// LoadTokens reads the saved session tokens. A missing file is an empty store.
func (c *Config) LoadTokens() error {
	c.tokens = make(map[string]string)

	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return json.Unmarshal(data, &c.tokens)
}

// TokenFor returns the player token to use for a session
func (c *Config) TokenFor(sessionID string) string {
	if c.Token != "" {
		return c.Token
	}
	return c.tokens[normalizeID(sessionID)]
}

// SaveToken remembers the player token for a session
func (c *Config) SaveToken(sessionID, token string) error {
	if c.tokens == nil {
		c.tokens = make(map[string]string)
	}
	c.tokens[normalizeID(sessionID)] = token
	return c.writeTokens()
}

// ForgetToken drops the saved token for a session
func (c *Config) ForgetToken(sessionID string) error {
	id := normalizeID(sessionID)
	if _, ok := c.tokens[id]; !ok {
		return nil
	}
	delete(c.tokens, id)
	return c.writeTokens()
}

func (c *Config) writeTokens() error {
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c.tokens, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, data, 0600)
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".wordrush", "tokens.json")
	}
	return filepath.Join(home, ".wordrush", "tokens.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
