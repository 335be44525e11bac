package gateway

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultURI      = "neo4j://localhost:7687"
	DefaultUsername = "neo4j"
)

// Config carries the store connection settings for the serve command. Values omitted from the file
// fall back to the defaults above.
type Config struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

func ReadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)

	if err != nil {
		return Config{}, err
	}

	config := Config{}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return Config{}, fmt.Errorf("unable to parse configuration at %s: %w", path, err)
	}

	return config.WithDefaults(), nil
}

func (s Config) WithDefaults() Config {
	if s.URI == "" {
		s.URI = DefaultURI
	}

	if s.Username == "" {
		s.Username = DefaultUsername
	}

	return s
}

// ConnectionString folds the credentials into the store URI.
func (s Config) ConnectionString() (string, error) {
	parsed, err := url.Parse(s.URI)

	if err != nil {
		return "", fmt.Errorf("invalid store URI %s: %w", s.URI, err)
	}

	parsed.User = url.UserPassword(s.Username, s.Password)
	return parsed.String(), nil
}
