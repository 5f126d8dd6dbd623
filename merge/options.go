package merge

import (
	"context"
	"fmt"

	"github.com/erraggy/docpatch"
	"github.com/erraggy/docpatch/internal/options"
	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/override"
	"github.com/erraggy/docpatch/table"
)

// Option is a function that configures a merge run.
type Option func(*runConfig) error

// sqlSource describes a table read from a database.
type sqlSource struct {
	driver string
	dsn    string
	query  string
}

// runConfig holds configuration for a merge run.
type runConfig struct {
	// Input source for the document (exactly one must be set)
	documentFile *string
	document     *Document

	// Input source for the table (exactly one must be set)
	csvFile *string
	sql     *sqlSource
	rows    []table.Row
	rowsSet bool

	// Input source for the mapping (exactly one must be set)
	mappingFile *string
	mapping     table.Mapping
	mappingSet  bool

	// Input source for the directives (exactly one must be set)
	directivesFile *string
	directives     []override.Directive
	directivesSet  bool

	output   string
	dryRun   bool
	idField  string
	idColumn string
	logger   docpatch.Logger
}

func emptyOption(option, what string) error {
	return &mergeerrors.ConfigError{Option: option, Message: what + " cannot be empty"}
}

// WithDocumentFile reads the document from a JSON or YAML file. Unless
// WithOutputFile says otherwise, the merged document is written back to it.
func WithDocumentFile(path string) Option {
	return func(cfg *runConfig) error {
		if path == "" {
			return emptyOption("WithDocumentFile", "document path")
		}
		cfg.documentFile = &path
		return nil
	}
}

// WithDocumentParsed uses an already-loaded document. It is mutated in place.
func WithDocumentParsed(doc *Document) Option {
	return func(cfg *runConfig) error {
		if doc == nil {
			return &mergeerrors.ConfigError{Option: "WithDocumentParsed", Message: "document cannot be nil"}
		}
		cfg.document = doc
		return nil
	}
}

// WithTableCSVFile reads table rows from a CSV file.
func WithTableCSVFile(path string) Option {
	return func(cfg *runConfig) error {
		if path == "" {
			return emptyOption("WithTableCSVFile", "table path")
		}
		cfg.csvFile = &path
		return nil
	}
}

// WithTableSQL reads table rows from a database query. driver is one of
// table.Drivers.
func WithTableSQL(driver, dsn, query string) Option {
	return func(cfg *runConfig) error {
		if dsn == "" {
			return emptyOption("WithTableSQL", "table DSN")
		}
		cfg.sql = &sqlSource{driver: driver, dsn: dsn, query: query}
		return nil
	}
}

// WithTableRows uses rows that are already loaded. A nil slice means an
// empty table.
func WithTableRows(rows []table.Row) Option {
	return func(cfg *runConfig) error {
		cfg.rows = rows
		cfg.rowsSet = true
		return nil
	}
}

// WithMappingFile reads the column-to-path mapping from a file.
func WithMappingFile(path string) Option {
	return func(cfg *runConfig) error {
		if path == "" {
			return emptyOption("WithMappingFile", "mapping path")
		}
		cfg.mappingFile = &path
		return nil
	}
}

// WithMappingParsed uses an already-loaded mapping.
func WithMappingParsed(mapping table.Mapping) Option {
	return func(cfg *runConfig) error {
		cfg.mapping = mapping
		cfg.mappingSet = true
		return nil
	}
}

// WithDirectivesFile reads override directives from a file.
func WithDirectivesFile(path string) Option {
	return func(cfg *runConfig) error {
		if path == "" {
			return emptyOption("WithDirectivesFile", "directives path")
		}
		cfg.directivesFile = &path
		return nil
	}
}

// WithDirectivesParsed uses already-loaded directives.
func WithDirectivesParsed(directives []override.Directive) Option {
	return func(cfg *runConfig) error {
		cfg.directives = directives
		cfg.directivesSet = true
		return nil
	}
}

// WithOutputFile sets where the merged document is written.
// Default: the document file.
func WithOutputFile(path string) Option {
	return func(cfg *runConfig) error {
		if path == "" {
			return emptyOption("WithOutputFile", "output path")
		}
		cfg.output = path
		return nil
	}
}

// WithDryRun merges without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(cfg *runConfig) error {
		cfg.dryRun = dryRun
		return nil
	}
}

// WithIDField sets the object field matched against row identifiers.
// Default: "id".
func WithIDField(field string) Option {
	return func(cfg *runConfig) error {
		if field == "" {
			return emptyOption("WithIDField", "identifier field")
		}
		cfg.idField = field
		return nil
	}
}

// WithIDColumn sets the table column holding row identifiers.
// Default: "ID".
func WithIDColumn(column string) Option {
	return func(cfg *runConfig) error {
		if column == "" {
			return emptyOption("WithIDColumn", "identifier column")
		}
		cfg.idColumn = column
		return nil
	}
}

// WithLogger sets the logger for the run.
func WithLogger(l docpatch.Logger) Option {
	return func(cfg *runConfig) error {
		cfg.logger = l
		return nil
	}
}

// applyOptions applies all options and returns the configuration.
func applyOptions(opts ...Option) (*runConfig, error) {
	cfg := &runConfig{
		idField:  DefaultIDField,
		idColumn: table.DefaultIDColumn,
		logger:   docpatch.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	checks := []error{
		options.ValidateSingleInputSource("document",
			options.Source{Option: "WithDocumentFile", Set: cfg.documentFile != nil},
			options.Source{Option: "WithDocumentParsed", Set: cfg.document != nil},
		),
		options.ValidateSingleInputSource("table",
			options.Source{Option: "WithTableCSVFile", Set: cfg.csvFile != nil},
			options.Source{Option: "WithTableSQL", Set: cfg.sql != nil},
			options.Source{Option: "WithTableRows", Set: cfg.rowsSet},
		),
		options.ValidateSingleInputSource("mapping",
			options.Source{Option: "WithMappingFile", Set: cfg.mappingFile != nil},
			options.Source{Option: "WithMappingParsed", Set: cfg.mappingSet},
		),
		options.ValidateSingleInputSource("directives",
			options.Source{Option: "WithDirectivesFile", Set: cfg.directivesFile != nil},
			options.Source{Option: "WithDirectivesParsed", Set: cfg.directivesSet},
		),
	}
	for _, err := range checks {
		if err != nil {
			return nil, err
		}
	}

	if cfg.output == "" && !cfg.dryRun {
		switch {
		case cfg.documentFile != nil:
			cfg.output = *cfg.documentFile
		case cfg.document.Source != "":
			cfg.output = cfg.document.Source
		default:
			return nil, &mergeerrors.ConfigError{
				Option:  "WithOutputFile",
				Message: "an output path is required for a parsed document without a source path (or use WithDryRun)",
			}
		}
	}
	return cfg, nil
}

// loadInputs loads every input named by the configuration. The first
// failure is returned as a *mergeerrors.LoadError.
func loadInputs(ctx context.Context, cfg *runConfig) (*Document, []table.Row, table.Mapping, []override.Directive, error) {
	doc := cfg.document
	if cfg.documentFile != nil {
		var err error
		if doc, err = LoadDocument(*cfg.documentFile); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	rows := cfg.rows
	switch {
	case cfg.csvFile != nil:
		var err error
		if rows, err = table.LoadCSVFile(*cfg.csvFile); err != nil {
			return nil, nil, nil, nil, err
		}
	case cfg.sql != nil:
		var err error
		if rows, err = table.LoadSQL(ctx, cfg.sql.driver, cfg.sql.dsn, cfg.sql.query); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	mapping := cfg.mapping
	if cfg.mappingFile != nil {
		var err error
		if mapping, err = table.LoadMappingFile(*cfg.mappingFile); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	directives := cfg.directives
	if cfg.directivesFile != nil {
		var err error
		if directives, err = override.ParseDirectivesFile(*cfg.directivesFile); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	return doc, rows, mapping, directives, nil
}

// RunWithOptions loads every input, merges, and writes the result.
//
// Nothing is written when an input fails to load or the document has the
// wrong shape. Per-field and per-directive failures do not stop the run;
// they are reported in the Result.
//
// Example:
//
//	result, err := merge.RunWithOptions(ctx,
//	    merge.WithDocumentFile("products.json"),
//	    merge.WithTableCSVFile("prices.csv"),
//	    merge.WithMappingFile("mapping.json"),
//	    merge.WithDirectivesFile("static.json"),
//	)
func RunWithOptions(ctx context.Context, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("merge: invalid options: %w", err)
	}

	doc, rows, mapping, directives, err := loadInputs(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	m := &Merger{
		Mapping:  mapping,
		IDField:  cfg.idField,
		IDColumn: cfg.idColumn,
		Logger:   cfg.logger,
	}
	result, err := m.Run(doc.Value, rows, directives)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	result.Document = doc

	if cfg.dryRun {
		return result, nil
	}
	if err := SaveDocument(doc, cfg.output); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	result.Output = cfg.output
	docpatch.OrNop(cfg.logger).Info("saved merged document", "run", result.RunID, "output", cfg.output)
	return result, nil
}
