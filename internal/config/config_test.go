package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeConfig(t, `
work_dir = "/tmp/serialctl"
encodings = ["binary", "xml"]
keep_artifacts = true
`)
	cfg, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WorkDir != "/tmp/serialctl" || !cfg.KeepArtifacts {
		t.Fatalf("got %+v", cfg)
	}
	if len(cfg.Encodings) != 2 || cfg.Encodings[0] != EncodingBinary || cfg.Encodings[1] != EncodingXML {
		t.Fatalf("encodings: got %v", cfg.Encodings)
	}
}

func TestLoadScenarioDefaultsEncodings(t *testing.T) {
	path := writeConfig(t, `work_dir = ""`)
	cfg, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Encodings) != 3 {
		t.Fatalf("got %v", cfg.Encodings)
	}
}

func TestLoadScenarioRejectsUnknownEncoding(t *testing.T) {
	path := writeConfig(t, `encodings = ["binary", "json"]`)
	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected an error for unknown encoding")
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected an error for missing file")
	}
}
