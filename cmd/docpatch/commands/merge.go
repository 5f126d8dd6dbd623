package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/docpatch"
	"github.com/erraggy/docpatch/internal/cliutil"
	"github.com/erraggy/docpatch/merge"
	"github.com/erraggy/docpatch/table"
)

// MergeFlags contains flags for the merge command
type MergeFlags struct {
	JSONFile    string
	CSVFile     string
	MappingFile string
	StaticFile  string
	OutputFile  string
	LogLevel    string
	IDField     string
	IDColumn    string
	TableDriver string
	TableDSN    string
	TableQuery  string
	DryRun      bool
	Quiet       bool
}

// SetupMergeFlags creates and configures a FlagSet for the merge command.
// Returns the FlagSet and a MergeFlags struct with bound flag variables.
func SetupMergeFlags() (*flag.FlagSet, *MergeFlags) {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	flags := &MergeFlags{}

	fs.StringVar(&flags.JSONFile, "j", "", "document to update (JSON or YAML)")
	fs.StringVar(&flags.JSONFile, "json-file", "", "document to update (JSON or YAML)")
	fs.StringVar(&flags.CSVFile, "c", "", "CSV table whose header row names the columns")
	fs.StringVar(&flags.CSVFile, "csv-file", "", "CSV table whose header row names the columns")
	fs.StringVar(&flags.MappingFile, "m", "", "mapping of table column to document path")
	fs.StringVar(&flags.MappingFile, "mapping-file", "", "mapping of table column to document path")
	fs.StringVar(&flags.StaticFile, "s", "", "override directives applied after the table")
	fs.StringVar(&flags.StaticFile, "static-file", "", "override directives applied after the table")
	fs.StringVar(&flags.OutputFile, "o", "", "output file (default: overwrite the document)")
	fs.StringVar(&flags.OutputFile, "output-file", "", "output file (default: overwrite the document)")
	fs.StringVar(&flags.LogLevel, "l", "INFO", "log level: DEBUG, INFO, WARN, WARNING, ERROR")
	fs.StringVar(&flags.LogLevel, "log-level", "INFO", "log level: DEBUG, INFO, WARN, WARNING, ERROR")
	fs.StringVar(&flags.IDField, "id-field", merge.DefaultIDField, "document field matched against row identifiers")
	fs.StringVar(&flags.IDColumn, "id-column", table.DefaultIDColumn, "table column holding row identifiers")
	fs.StringVar(&flags.TableDriver, "table-driver", "", fmt.Sprintf("read the table from SQL instead of CSV: %v", table.Drivers))
	fs.StringVar(&flags.TableDSN, "table-dsn", "", "data source name for --table-driver")
	fs.StringVar(&flags.TableQuery, "table-query", "", "query whose result columns name the table columns")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "merge without writing; print the merged document to stdout")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no summary on stderr")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no summary on stderr")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: docpatch merge -j <document> -m <mapping> -s <directives> (-c <csv> | --table-driver ...) [flags]\n\n")
		Writef(fs.Output(), "Merge table rows, then override directives, into a JSON or YAML document.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  docpatch merge -j products.json -c prices.csv -m mapping.json -s static.json\n")
		Writef(fs.Output(), "  docpatch merge -j products.yaml -c prices.csv -m mapping.yaml -s static.yaml -o merged.yaml\n")
		Writef(fs.Output(), "  docpatch merge -j products.json -m mapping.json -s static.json \\\n")
		Writef(fs.Output(), "      --table-driver sqlite --table-dsn prices.db --table-query 'SELECT sku AS ID, price FROM prices'\n")
		Writef(fs.Output(), "  docpatch merge --dry-run -j products.json -c prices.csv -m mapping.json -s static.json | jq .\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Merge completed (skipped updates are reported, not fatal)\n")
		Writef(fs.Output(), "  1    An input could not be loaded, the document has the wrong shape, or the output could not be written\n")
	}

	return fs, flags
}

// HandleMerge executes the merge command
func HandleMerge(args []string) error {
	fs, flags := SetupMergeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("merge command takes no positional arguments (got %d)", fs.NArg())
	}
	if err := flags.validate(); err != nil {
		fs.Usage()
		return err
	}

	logger, err := cliutil.NewLogger(stderr, flags.LogLevel)
	if err != nil {
		return err
	}

	result, err := merge.RunWithOptions(context.Background(), flags.options(logger)...)
	if err != nil {
		return err
	}

	if flags.DryRun {
		data, err := result.Document.Marshal()
		if err != nil {
			return fmt.Errorf("marshaling merged document: %w", err)
		}
		Writef(stdout, "%s", data)
	}
	if !flags.Quiet {
		printMergeSummary(flags, result)
	}
	return nil
}

func (f *MergeFlags) validate() error {
	switch {
	case f.JSONFile == "":
		return errors.New("merge command requires --json-file")
	case f.MappingFile == "":
		return errors.New("merge command requires --mapping-file")
	case f.StaticFile == "":
		return errors.New("merge command requires --static-file")
	case f.CSVFile != "" && f.TableDriver != "":
		return errors.New("use either --csv-file or --table-driver, not both")
	case f.CSVFile == "" && f.TableDriver == "":
		return errors.New("merge command requires --csv-file or --table-driver")
	case f.TableDriver != "" && (f.TableDSN == "" || f.TableQuery == ""):
		return errors.New("--table-driver requires --table-dsn and --table-query")
	}
	return ValidateOutputPath(f.OutputFile, []string{f.CSVFile, f.MappingFile, f.StaticFile})
}

func (f *MergeFlags) options(logger docpatch.Logger) []merge.Option {
	opts := []merge.Option{
		merge.WithDocumentFile(f.JSONFile),
		merge.WithMappingFile(f.MappingFile),
		merge.WithDirectivesFile(f.StaticFile),
		merge.WithIDField(f.IDField),
		merge.WithIDColumn(f.IDColumn),
		merge.WithDryRun(f.DryRun),
		merge.WithLogger(logger),
	}
	if f.TableDriver != "" {
		opts = append(opts, merge.WithTableSQL(f.TableDriver, f.TableDSN, f.TableQuery))
	} else {
		opts = append(opts, merge.WithTableCSVFile(f.CSVFile))
	}
	if f.OutputFile != "" {
		opts = append(opts, merge.WithOutputFile(f.OutputFile))
	}
	return opts
}

// printMergeSummary writes the run report to stderr so stdout stays
// usable for the dry-run document.
func printMergeSummary(flags *MergeFlags, result *merge.Result) {
	Writef(stderr, "docpatch version: %s\n", docpatch.Version())
	Writef(stderr, "Run: %s\n", result.RunID)
	Writef(stderr, "Document: %s (%s, %s)\n", flags.JSONFile, result.Shape, cliutil.Plural(result.Objects, "object"))
	Writef(stderr, "Rows: %d matched, %d unmatched\n", result.RowsMatched, result.RowsUnmatched)
	Writef(stderr, "Fields: %d updated, %d skipped\n", result.FieldsUpdated(), result.FieldsSkipped())
	Writef(stderr, "Directives: %d applied, %d skipped\n\n", result.OverridesApplied(), result.OverridesSkipped())

	if result.HasSkips() {
		Writef(stderr, "Skipped updates:\n")
		for _, f := range result.Fields {
			if f.Status != table.StatusSkipped {
				continue
			}
			Writef(stderr, "  object %d: column %s -> %s: %v\n", f.Object, f.Column, f.Path, f.Err)
		}
		for obj, res := range result.Overrides {
			for _, w := range res.Warnings {
				Writef(stderr, "  object %d: directive %d %s: %v\n", obj, w.Index, w.Path, w.Cause)
			}
		}
		Writef(stderr, "\n")
	}

	if len(result.Warnings) > 0 {
		Writef(stderr, "Warnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			Writef(stderr, "  - %s\n", w)
		}
		Writef(stderr, "\n")
	}

	skipped := result.FieldsSkipped() + result.OverridesSkipped()
	switch {
	case result.Output == "":
		Writef(stderr, "✓ Dry run completed - nothing written")
	default:
		Writef(stderr, "✓ Merged document written to %s", result.Output)
	}
	if skipped > 0 {
		Writef(stderr, " (%s skipped)", cliutil.Plural(skipped, "update"))
	}
	Writef(stderr, "\n")
}
