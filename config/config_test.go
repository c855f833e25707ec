package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sigspan/pdfsign/config"
	"github.com/sigspan/pdfsign/splice"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdfsign.conf")

	const content = `{
		"info": {"name": "Test Signer", "location": "Earth", "reason": "Testing", "contact_info": "test@example.com"},
		"tsa": {"url": "https://tsa.example.com/"},
		"pades_level": 1
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if c.Info.Reason != "Testing" {
		t.Errorf("Info.Reason = %q, want %q", c.Info.Reason, "Testing")
	}
	if c.TSA.URL != "https://tsa.example.com/" {
		t.Errorf("TSA.URL = %q, want %q", c.TSA.URL, "https://tsa.example.com/")
	}
	if c.PAdESLevel != splice.PAdESBT {
		t.Errorf("PAdESLevel = %v, want %v", c.PAdESLevel, splice.PAdESBT)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.conf")); err == nil {
		t.Error("Load did not return an error for a missing file")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdfsign.conf")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := config.Load(path); err == nil {
		t.Error("Load did not return an error for malformed JSON")
	}
}
