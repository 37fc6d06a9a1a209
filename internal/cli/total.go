package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/pricing"
)

// newTotalCmd creates the total command, which prices a gallery document.
func newTotalCmd() *cobra.Command {
	var symbol string

	cmd := &cobra.Command{
		Use:   "total [file]",
		Short: "Compute the order total for a gallery document",
		Long:  `Reads a gallery document (JSON) from a file or stdin and prints the price breakdown. Totals are recomputed from the document contents; nothing stored in the document is trusted.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocumentArg(args)
			if err != nil {
				return err
			}
			c, err := codec.Unmarshal(data)
			if err != nil {
				return err
			}

			b := pricing.Total(c)
			printKeyValue("products", pricing.FormatMinorComma(b.ProductsMinor, symbol))
			printKeyValue("frames", pricing.FormatMinorComma(b.FramesMinor, symbol))
			printKeyValue("service", pricing.FormatMinorComma(b.ServiceMinor, symbol))
			printKeyValue("total", StylePrice.Render(pricing.FormatMinorComma(b.TotalMinor, symbol)))
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "€", "currency symbol for display")
	return cmd
}

// readDocumentArg reads a document from the file argument, or stdin when the
// argument is missing or "-".
func readDocumentArg(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document from stdin")
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document %s", args[0])
	}
	return data, nil
}

// printDocumentJSON writes indented document JSON to stdout.
func printDocumentJSON(doc codec.Document) error {
	data, err := codec.MarshalIndent(doc)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
