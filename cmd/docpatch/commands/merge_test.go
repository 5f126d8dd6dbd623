package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/docpatch/internal/testutil"
	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mergeFixture writes the product fixtures and returns their paths.
func mergeFixture(t *testing.T) (doc, csv, mapping, static string) {
	t.Helper()
	doc = testutil.WriteTempJSON(t, testutil.NewProductList())
	csv = testutil.WriteTempFile(t, "rows.csv", testutil.ProductCSV)
	mapping = testutil.WriteTempFile(t, "mapping.json", testutil.ProductMapping)
	static = testutil.WriteTempFile(t, "static.json", testutil.ProductDirectives)
	return doc, csv, mapping, static
}

func TestSetupMergeFlags(t *testing.T) {
	fs, flags := SetupMergeFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Equal(t, "INFO", flags.LogLevel)
		assert.Equal(t, "id", flags.IDField)
		assert.Equal(t, "ID", flags.IDColumn)
		assert.False(t, flags.DryRun)
		assert.Empty(t, flags.OutputFile)
	})

	t.Run("short and long aliases", func(t *testing.T) {
		args := []string{"-j", "doc.json", "--csv-file", "rows.csv", "-m", "map.json", "--static-file", "s.json", "-o", "out.json", "-l", "debug", "--dry-run"}
		require.NoError(t, fs.Parse(args))
		assert.Equal(t, "doc.json", flags.JSONFile)
		assert.Equal(t, "rows.csv", flags.CSVFile)
		assert.Equal(t, "map.json", flags.MappingFile)
		assert.Equal(t, "s.json", flags.StaticFile)
		assert.Equal(t, "out.json", flags.OutputFile)
		assert.Equal(t, "debug", flags.LogLevel)
		assert.True(t, flags.DryRun)
	})
}

func TestHandleMerge_Help(t *testing.T) {
	captureOutput(t)
	assert.NoError(t, HandleMerge([]string{"--help"}))
}

func TestHandleMerge_WritesInPlace(t *testing.T) {
	_, errOut := captureOutput(t)
	doc, csv, mapping, static := mergeFixture(t)

	require.NoError(t, HandleMerge([]string{"-j", doc, "-c", csv, "-m", mapping, "-s", static, "-l", "ERROR"}))

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount": 3.25`)
	assert.Contains(t, string(data), `"status": "published"`)
	assert.NotContains(t, string(data), `"draft"`)

	assert.Contains(t, errOut.String(), "Fields: 6 updated, 0 skipped")
	assert.Contains(t, errOut.String(), "Directives: 4 applied, 0 skipped")
	assert.Contains(t, errOut.String(), "✓ Merged document written to "+doc)
}

func TestHandleMerge_OutputFile(t *testing.T) {
	captureOutput(t)
	doc, csv, mapping, static := mergeFixture(t)
	before, err := os.ReadFile(doc)
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "merged.json")

	require.NoError(t, HandleMerge([]string{"-j", doc, "-c", csv, "-m", mapping, "-s", static, "-o", out, "-q"}))

	after, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, before, after, "input document must be untouched")

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestHandleMerge_DryRun(t *testing.T) {
	out, errOut := captureOutput(t)
	doc, csv, mapping, static := mergeFixture(t)
	before, err := os.ReadFile(doc)
	require.NoError(t, err)

	require.NoError(t, HandleMerge([]string{"--dry-run", "-j", doc, "-c", csv, "-m", mapping, "-s", static, "-l", "error"}))

	after, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Contains(t, out.String(), `"label": "Tea Towel"`)
	assert.Contains(t, errOut.String(), "Dry run completed")
}

func TestHandleMerge_ReportsSkips(t *testing.T) {
	_, errOut := captureOutput(t)
	doc := testutil.WriteTempFile(t, "doc.json", `{"id": "p-1", "stock": 1}`)
	csv := testutil.WriteTempFile(t, "rows.csv", "ID,stock\np-1,lots\n")
	mapping := testutil.WriteTempFile(t, "mapping.json", `{"stock": "$.stock"}`)
	static := testutil.WriteTempFile(t, "static.json", `[]`)

	require.NoError(t, HandleMerge([]string{"-j", doc, "-c", csv, "-m", mapping, "-s", static, "-l", "ERROR"}))

	assert.Contains(t, errOut.String(), "Skipped updates:")
	assert.Contains(t, errOut.String(), "column stock -> $.stock")
	assert.Contains(t, errOut.String(), "(1 update skipped)")
}

func TestHandleMerge_SQLTable(t *testing.T) {
	captureOutput(t)
	doc, _, mapping, static := mergeFixture(t)
	dsn := testutil.NewSQLiteTable(t, "prices", testutil.ProductCSV)

	require.NoError(t, HandleMerge([]string{
		"-j", doc, "-m", mapping, "-s", static, "-q", "-l", "ERROR",
		"--table-driver", "sqlite", "--table-dsn", dsn,
		"--table-query", "SELECT ID, price, stock, label FROM prices",
	}))

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"label": "Blue Mug"`)
}

func TestHandleMerge_Errors(t *testing.T) {
	doc, csv, mapping, static := mergeFixture(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no document", []string{"-c", csv, "-m", mapping, "-s", static}, "requires --json-file"},
		{"no mapping", []string{"-j", doc, "-c", csv, "-s", static}, "requires --mapping-file"},
		{"no directives", []string{"-j", doc, "-c", csv, "-m", mapping}, "requires --static-file"},
		{"no table", []string{"-j", doc, "-m", mapping, "-s", static}, "requires --csv-file or --table-driver"},
		{"two tables", []string{"-j", doc, "-c", csv, "-m", mapping, "-s", static, "--table-driver", "sqlite"}, "not both"},
		{"driver without query", []string{"-j", doc, "-m", mapping, "-s", static, "--table-driver", "sqlite", "--table-dsn", "x.db"}, "requires --table-dsn and --table-query"},
		{"output over mapping", []string{"-j", doc, "-c", csv, "-m", mapping, "-s", static, "-o", mapping}, "would overwrite input file"},
		{"bad log level", []string{"-j", doc, "-c", csv, "-m", mapping, "-s", static, "-l", "loud"}, "invalid log level"},
		{"positional argument", []string{"-j", doc, "extra"}, "no positional arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			err := HandleMerge(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHandleMerge_FatalErrors(t *testing.T) {
	_, csv, mapping, static := mergeFixture(t)

	t.Run("missing document", func(t *testing.T) {
		captureOutput(t)
		err := HandleMerge([]string{"-j", "/nonexistent/doc.json", "-c", csv, "-m", mapping, "-s", static, "-l", "ERROR"})
		require.Error(t, err)
		assert.ErrorIs(t, err, mergeerrors.ErrLoad)
	})

	t.Run("scalar document is left alone", func(t *testing.T) {
		captureOutput(t)
		doc := testutil.WriteTempFile(t, "doc.json", `"text"`)
		err := HandleMerge([]string{"-j", doc, "-c", csv, "-m", mapping, "-s", static, "-l", "ERROR"})
		require.Error(t, err)
		assert.ErrorIs(t, err, mergeerrors.ErrDocumentShape)

		data, readErr := os.ReadFile(doc)
		require.NoError(t, readErr)
		assert.Equal(t, `"text"`, string(data))
	})
}
