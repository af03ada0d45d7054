//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "storefront-api"
	ConsumerName = "storefront-miniapp"

	// DataProviderName is the static host serving items.json and the history fixtures.
	DataProviderName = "storefront-data"

	StateCatalogueSeeded  = "catalogue with item 101"
	StateItemMissing      = "no item with id 404"
	StateItemsPublished   = "items.json is published"
	StateHistoryPublished = "history fixtures are published"
)

const (
	ExistingItemID int64 = 101
	MissingItemID  int64 = 404

	Owner = "42"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file the mini app records against the storefront API.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleItemPayload is the items.json element both sides agree on.
func ExampleItemPayload() map[string]any {
	return map[string]any{
		"id":          ExistingItemID,
		"name":        "Pact Tee",
		"category":    "Tee",
		"description": "Contract cotton",
		"price":       12.5,
		"currency":    "TON",
		"left":        3,
		"tags":        map[string]any{"fabric": "cotton"},
		"images":      []string{"https://example.pact/items/101.png"},
	}
}

// ExamplePurchasePayload is one history.json element.
func ExamplePurchasePayload() map[string]any {
	return map[string]any{
		"timestamp": 1717171717000,
		"id":        ExistingItemID,
		"total":     25,
		"currency":  "TON",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
