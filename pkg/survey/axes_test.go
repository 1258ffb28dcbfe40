package survey

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogCoversEveryAxis(t *testing.T) {
	cat := DefaultCatalog()
	for _, axis := range Axes() {
		if _, ok := cat.spec(axis); !ok {
			t.Fatalf("axis %s missing from default catalog", axis)
		}
	}
}

func TestLoadCatalogEmptyPathReturnsDefault(t *testing.T) {
	cat, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(cat.Axes) != len(DefaultCatalog().Axes) {
		t.Fatalf("expected default catalog, got %d axes", len(cat.Axes))
	}
}

func TestLoadCatalogFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axes.yaml")
	content := []byte(`axes:
  - name: gender
    values:
      woman: woman
      femme: woman
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	category, ok := cat.Resolve(AxisGender, "femme")
	if !ok || category != "woman" {
		t.Fatalf("custom alias not resolved, got %q ok=%v", category, ok)
	}
}

func TestLoadCatalogRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axes.yaml")
	if err := os.WriteFile(path, []byte("axes: []\n"), 0o600); err != nil {
		t.Fatalf("failed to write catalog file: %v", err)
	}

	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("expected error for catalog without axes")
	}
}

func TestResolveUnknownAxis(t *testing.T) {
	if _, ok := DefaultCatalog().Resolve(Axis("shoe_size"), "47"); ok {
		t.Fatal("unknown axis should not resolve")
	}
}
