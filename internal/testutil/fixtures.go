// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"
)

// ProductCSV is a small table keyed by ID, matching ProductDocument and
// ProductList.
const ProductCSV = "ID,price,stock,label\n" +
	"p-1,12.50,7,Blue Mug\n" +
	"p-2,3.25,40,Tea Towel\n"

// ProductMapping routes ProductCSV columns into product objects.
const ProductMapping = `{
  "price": "$.pricing.amount",
  "stock": "$.stock",
  "label": "$.display.label"
}`

// ProductDirectives updates and removes fields on every product.
const ProductDirectives = `[
  {"path": "$.status", "operation": "update", "value": "published"},
  {"path": "$.draft", "operation": "remove"}
]`

// NewProductDocument returns a single product object with id "p-1".
func NewProductDocument() map[string]any {
	return map[string]any{
		"id":      "p-1",
		"name":    "Mug",
		"stock":   1,
		"pricing": map[string]any{"amount": 9.99, "currency": "EUR"},
		"status":  "draft",
		"draft":   true,
	}
}

// NewProductList returns two products, "p-1" and "p-2".
func NewProductList() []any {
	second := NewProductDocument()
	second["id"] = "p-2"
	second["name"] = "Towel"
	return []any{NewProductDocument(), second}
}

// WriteTempFile writes content to name inside a fresh temporary directory.
// Returns the path to the file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}

	return tmpFile
}

// WriteTempYAML marshals a document to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}
	return WriteTempFile(t, "test.yaml", string(data))
}

// WriteTempJSON marshals a document to JSON and writes it to a temporary file.
// Returns the path to the temporary file.
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}
	return WriteTempFile(t, "test.json", string(data))
}
