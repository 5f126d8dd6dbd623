package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/docpatch/internal/jsonpath"
	"github.com/erraggy/docpatch/merge"
)

// GetFlags contains flags for the get command
type GetFlags struct {
	JSONFile string
	Format   string
}

// SetupGetFlags creates and configures a FlagSet for the get command.
func SetupGetFlags() (*flag.FlagSet, *GetFlags) {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	flags := &GetFlags{}

	fs.StringVar(&flags.JSONFile, "j", "", "document to read (JSON or YAML)")
	fs.StringVar(&flags.JSONFile, "json-file", "", "document to read (JSON or YAML)")
	fs.StringVar(&flags.Format, "format", FormatJSON, "output format: json or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: docpatch get -j <document> [flags] <path>\n\n")
		Writef(fs.Output(), "Print the value at a path such as $.pricing.amount or $[0]['display name'].\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  docpatch get -j products.json '$[0].pricing'\n")
		Writef(fs.Output(), "  docpatch get -j product.yaml --format yaml '$.display'\n")
	}

	return fs, flags
}

// HandleGet executes the get command
func HandleGet(args []string) error {
	fs, flags := SetupGetFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("get command requires exactly one path expression")
	}
	if flags.JSONFile == "" {
		fs.Usage()
		return errors.New("get command requires --json-file")
	}
	if err := ValidateOutputFormat(flags.Format, FormatJSON, FormatYAML); err != nil {
		return err
	}

	path, err := jsonpath.Parse(fs.Arg(0))
	if err != nil {
		return err
	}
	doc, err := merge.LoadDocument(flags.JSONFile)
	if err != nil {
		return err
	}

	value, ok := path.Get(doc.Value)
	if !ok {
		return fmt.Errorf("no value at %s in %s", path, flags.JSONFile)
	}
	data, err := merge.MarshalDocument(value, merge.SourceFormat(flags.Format))
	if err != nil {
		return fmt.Errorf("marshaling value: %w", err)
	}
	Writef(stdout, "%s", data)
	return nil
}
