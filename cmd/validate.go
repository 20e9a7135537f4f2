// =============================================================================
// Cart Parser - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   cartparser validate <file|->
//
// Prints every header, row and cell error found in the cart file. The
// command fails when the file has any error.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cart-parser/internal/cartparser"
	"github.com/ginjaninja78/cart-parser/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|->",
	Short: "Validate a cart file without converting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runValidate(a, args[0], streams{
			in:     cmd.InOrStdin(),
			out:    cmd.OutOrStdout(),
			errOut: cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(a *app, source string, s streams) error {
	var (
		contents string
		err      error
	)
	if source == "-" {
		var data []byte
		data, err = io.ReadAll(s.in)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		contents = string(data)
	} else {
		contents, err = a.parser.ReadFile(source)
		if err != nil {
			return err
		}
	}

	errs := a.parser.Validate(contents)
	if len(errs) == 0 {
		fmt.Fprintln(s.out, validation.FormatErrors(errs))
		return nil
	}

	fmt.Fprint(s.out, validation.FormatErrors(errs))
	return &cartparser.ValidationError{Errors: errs}
}
