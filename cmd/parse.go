// =============================================================================
// Cart Parser - Parse Command
// =============================================================================
//
// COMMAND USAGE:
//   cartparser parse <file|-> [--output result.json]
//
// Parses one cart file and prints the JSON result. "-" reads the cart from
// stdin. Validation errors are printed to stderr and the command fails.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cart-parser/internal/cartparser"
	"github.com/ginjaninja78/cart-parser/internal/jsonwriter"
	"github.com/ginjaninja78/cart-parser/internal/types"
	"github.com/ginjaninja78/cart-parser/internal/validation"
)

// parseOutput is the file the JSON result is written to instead of stdout.
var parseOutput string

var parseCmd = &cobra.Command{
	Use:   "parse <file|->",
	Short: "Parse a cart file and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runParse(a, args[0], parseOutput, streams{
			in:     cmd.InOrStdin(),
			out:    cmd.OutOrStdout(),
			errOut: cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(
		&parseOutput,
		"output",
		"o",
		"",
		"Write the JSON result to this file instead of stdout",
	)
}

// streams are the standard streams of a command.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func runParse(a *app, source, output string, s streams) error {
	result, err := parseSource(a.parser, source, s.in)
	if err != nil {
		var validationErr *cartparser.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprint(s.errOut, validation.FormatErrors(validationErr.Errors))
		}
		return err
	}

	options := jsonwriter.DefaultGenerateOptions()
	options.Indent = a.config.Indent

	if output != "" {
		if err := jsonwriter.Write(result, output, options); err != nil {
			return err
		}
		a.logger.Info("wrote output", "path", output, "items", len(result.Items), "total", result.Total)
		return nil
	}

	data, err := jsonwriter.GenerateWithOptions(result, options)
	if err != nil {
		return err
	}
	_, err = s.out.Write(data)
	return err
}

// parseSource parses the file at source, or stdin when source is "-".
func parseSource(parser *cartparser.CartParser, source string, stdin io.Reader) (*types.ParseResult, error) {
	if source != "-" {
		return parser.Parse(source)
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return parser.ParseContents(string(data))
}
