package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("READLOG_TEST_NAME", "shelf")
	path := writeFile(t, "name: ${READLOG_TEST_NAME}\n")
	s := &sample{Count: 7}
	if err := Load(path, s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "shelf" || s.Count != 7 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_Validates(t *testing.T) {
	path := writeFile(t, "count: -1\n")
	err := Load(path, &sample{})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v, want validation failure", err)
	}
}

func TestLoadOptional_MissingFileKeepsTarget(t *testing.T) {
	s := &sample{Name: "default"}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"), s)
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if found || s.Name != "default" {
		t.Errorf("found = %v, target = %+v", found, s)
	}
}

func TestLoadOptional_MissingFileStillValidates(t *testing.T) {
	if _, err := LoadOptional("", &sample{Count: -3}); err == nil {
		t.Error("expected validation error for defaults")
	}
}

func TestLoadOptional_ParseError(t *testing.T) {
	path := writeFile(t, "name: [\n")
	found, err := LoadOptional(path, &sample{})
	if !found || err == nil {
		t.Errorf("found = %v, err = %v; want found with error", found, err)
	}
}
