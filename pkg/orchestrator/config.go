package orchestrator

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config is the YAML job description naming a pass's inputs and the
// formatting conventions to render with.
type Config struct {
	Template  string `yaml:"template"`
	Data      string `yaml:"data"`
	Style     string `yaml:"style,omitempty"`
	Output    string `yaml:"output,omitempty"`
	Locale    string `yaml:"locale,omitempty"`
	Currency  string `yaml:"currency,omitempty"`
	Delimiter string `yaml:"delimiter,omitempty"`
}

// ParseConfig decodes a YAML job description.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("orchestrator: parse config: %w", err)
	}
	if cfg.Delimiter != "" && utf8.RuneCountInString(cfg.Delimiter) != 1 {
		return Config{}, fmt.Errorf("orchestrator: delimiter must be a single character, got %q", cfg.Delimiter)
	}
	return cfg, nil
}

// LoadConfig reads and decodes a YAML job description from disk.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("orchestrator: load config: %w", err)
	}
	return ParseConfig(data)
}

// DelimiterRune returns the configured delimiter, or zero when unset.
func (c Config) DelimiterRune() rune {
	if c.Delimiter == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Request translates the config into a pass request.
func (c Config) Request() Request {
	return Request{
		TemplatePath: c.Template,
		DataPath:     c.Data,
		StylePath:    c.Style,
		Delimiter:    c.DelimiterRune(),
		OutputPath:   c.Output,
	}
}
