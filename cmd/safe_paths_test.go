package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/khanhnv2901/cscan-cli/internal/shared/security"
)

func TestValidateOutName(t *testing.T) {
	valid := []string{"scan_results.json", "example.com.json"}
	for _, name := range valid {
		if err := validateOutName(name); err != nil {
			t.Fatalf("expected name %s to be valid: %v", name, err)
		}
	}

	invalid := []string{"", ".", "..", "sub/results.json", `sub\results.json`, "../escape.json"}
	for _, name := range invalid {
		if err := validateOutName(name); err == nil {
			t.Fatalf("expected name %s to be rejected", name)
		}
	}
}

func TestResolveResultsPath(t *testing.T) {
	base := t.TempDir()

	path, err := resolveResultsPath(base, "scan_results.json")
	if err != nil {
		t.Fatalf("resolveResultsPath failed: %v", err)
	}
	if path != filepath.Join(base, "scan_results.json") {
		t.Fatalf("path resolved outside results dir: %s", path)
	}
}

func TestResolveResultsPathRejectsTraversal(t *testing.T) {
	base := t.TempDir()

	if _, err := resolveResultsPath(base, "../../etc/x.json"); err == nil {
		t.Fatal("expected traversal filename to be rejected")
	}

	// The separator check fires before path resolution; a name that survives
	// it must still never escape the base.
	if _, err := security.ResolveWithin(base, "..", "x.json"); !errors.Is(err, security.ErrPathEscape) {
		t.Fatalf("expected ErrPathEscape, got %v", err)
	}
}
