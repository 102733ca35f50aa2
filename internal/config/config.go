package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ScenarioConfig drives serialctl's round-trip run: where artifacts go,
// which encodings to exercise, and whether to keep the files afterwards.
type ScenarioConfig struct {
	WorkDir       string   `toml:"work_dir"`
	Encodings     []string `toml:"encodings"`
	KeepArtifacts bool     `toml:"keep_artifacts"`
}

// Encoding names accepted in ScenarioConfig.Encodings.
const (
	EncodingBinary    = "binary"
	EncodingXML       = "xml"
	EncodingXMLBase64 = "xml-base64"
)

func DefaultScenario() ScenarioConfig {
	return ScenarioConfig{
		Encodings: []string{EncodingBinary, EncodingXML, EncodingXMLBase64},
	}
}

func LoadScenario(path string) (ScenarioConfig, error) {
	cfg := DefaultScenario()
	if err := loadToml(path, &cfg); err != nil {
		return ScenarioConfig{}, err
	}
	if len(cfg.Encodings) == 0 {
		cfg.Encodings = DefaultScenario().Encodings
	}
	if err := ValidateScenario(cfg); err != nil {
		return ScenarioConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateScenario(cfg ScenarioConfig) error {
	for i, enc := range cfg.Encodings {
		switch strings.TrimSpace(enc) {
		case EncodingBinary, EncodingXML, EncodingXMLBase64:
		default:
			return fmt.Errorf("encodings[%d] invalid: %q", i, enc)
		}
	}
	return nil
}
