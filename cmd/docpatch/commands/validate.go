package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/docpatch/internal/cliutil"
	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/override"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	Quiet  bool
	Format string
}

// DirectiveIssue is one problem found in a directive list.
type DirectiveIssue struct {
	Index   int    `json:"index" yaml:"index"`
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// ValidateReport is the structured output of the validate command.
type ValidateReport struct {
	File       string           `json:"file" yaml:"file"`
	Valid      bool             `json:"valid" yaml:"valid"`
	Directives int              `json:"directives" yaml:"directives"`
	Issues     []DirectiveIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// ErrInvalidDirectives is returned when validation finds any issue.
var ErrInvalidDirectives = errors.New("directives failed validation")

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only set the exit code")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only set the exit code")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: docpatch validate [flags] <directives-file>\n\n")
		Writef(fs.Output(), "Check override directives without applying them.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  docpatch validate static.json\n")
		Writef(fs.Output(), "  docpatch validate --format json static.yaml | jq '.issues'\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Every directive is valid\n")
		Writef(fs.Output(), "  1    The file could not be loaded or a directive is malformed\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one directives file")
	}
	if err := ValidateOutputFormat(flags.Format, FormatText, FormatJSON, FormatYAML); err != nil {
		return err
	}

	path := fs.Arg(0)
	directives, err := override.ParseDirectivesFile(path)
	if err != nil {
		return err
	}
	report := buildValidateReport(path, directives)

	switch {
	case flags.Format != FormatText:
		if err := OutputStructured(report, flags.Format); err != nil {
			return err
		}
	case !flags.Quiet:
		printValidateReport(report)
	}

	if !report.Valid {
		return fmt.Errorf("%w: %s", ErrInvalidDirectives, cliutil.Plural(len(report.Issues), "issue"))
	}
	return nil
}

func buildValidateReport(path string, directives []override.Directive) *ValidateReport {
	errs := override.ValidateAll(directives)
	report := &ValidateReport{
		File:       path,
		Valid:      len(errs) == 0,
		Directives: len(directives),
	}
	for _, err := range errs {
		issue := DirectiveIssue{Message: err.Error()}
		var me *mergeerrors.MalformedDirectiveError
		if errors.As(err, &me) {
			issue.Index = me.Index
			issue.Field = me.Field
			issue.Message = me.Message
			if me.Cause != nil {
				issue.Message += ": " + me.Cause.Error()
			}
		}
		report.Issues = append(report.Issues, issue)
	}
	return report
}

func printValidateReport(report *ValidateReport) {
	Writef(stderr, "Directives: %s (%d)\n\n", report.File, report.Directives)
	if len(report.Issues) > 0 {
		Writef(stderr, "Issues (%d):\n", len(report.Issues))
		for _, issue := range report.Issues {
			Writef(stderr, "  [%d] %s: %s\n", issue.Index, issue.Field, issue.Message)
		}
		Writef(stderr, "\n")
	}
	if report.Valid {
		Writef(stderr, "✓ Validation passed\n")
	} else {
		Writef(stderr, "✗ Validation failed: %s\n", cliutil.Plural(len(report.Issues), "issue"))
	}
}
