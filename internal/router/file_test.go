package router_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shiftgate/shiftgate/internal/router"
)

func readWeights(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	return got
}

func TestFileRouter_SetWeights(t *testing.T) {
	dir := t.TempDir()
	r, err := router.NewFileRouter(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := r.SetWeights(ctx, "checkout", "checkout-stable", "checkout-candidate-1", 75, 25); err != nil {
		t.Fatal(err)
	}

	got := readWeights(t, filepath.Join(dir, "checkout.json"))
	stable := got["stable"].(map[string]any)
	candidate := got["candidate"].(map[string]any)
	if stable["env"] != "checkout-stable" || stable["weight"].(float64) != 75 {
		t.Fatalf("unexpected stable upstream: %v", stable)
	}
	if candidate["env"] != "checkout-candidate-1" || candidate["weight"].(float64) != 25 {
		t.Fatalf("unexpected candidate upstream: %v", candidate)
	}

	// A later write replaces the file in place.
	if err := r.SetWeights(ctx, "checkout", "checkout-stable", "checkout-candidate-1", 100, 0); err != nil {
		t.Fatal(err)
	}
	got = readWeights(t, filepath.Join(dir, "checkout.json"))
	if got["candidate"].(map[string]any)["weight"].(float64) != 0 {
		t.Fatalf("expected candidate weight 0 after cutback, got %v", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single published file, found %d", len(entries))
	}
}

func TestFileRouter_SanitizesTargetName(t *testing.T) {
	dir := t.TempDir()
	r, err := router.NewFileRouter(dir, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetWeights(context.Background(), "team/checkout api", "s", "c", 100, 0); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one file, found %d", len(entries))
	}
	name := entries[0].Name()
	if filepath.Ext(name) != ".json" {
		t.Fatalf("expected a .json file, got %q", name)
	}
	for _, c := range name {
		if c == '/' || c == ' ' {
			t.Fatalf("expected sanitized file name, got %q", name)
		}
	}
}
