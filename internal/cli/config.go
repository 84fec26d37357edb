package cli

import (
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	UserName    string
	Password    string
	SessionFile string
	Output      string
	Verbose     bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("GAMECLI_SERVER", "http://localhost:8080"),
		UserName:    os.Getenv("GAMECLI_USER"),
		Password:    os.Getenv("GAMECLI_PASSWORD"),
		SessionFile: getEnvOrDefault("GAMECLI_SESSION_FILE", defaultSessionFile()),
		Output:      "text",
		Verbose:     false,
	}
}

// LoadSession loads the saved session id, if any. Reusing the session id
// keeps the gamer's identity stable across invocations, which matters
// because invites and games address players by session id.
func (c *Config) LoadSession() (string, error) {
	data, err := os.ReadFile(c.SessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// SaveSession persists the session id for later invocations
func (c *Config) SaveSession(sid string) error {
	dir := filepath.Dir(c.SessionFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(c.SessionFile, []byte(sid), 0600)
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gamecli/session"
	}
	return filepath.Join(home, ".gamecli", "session")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
