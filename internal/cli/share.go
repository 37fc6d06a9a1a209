package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuriosis/wallbuilder/pkg/codec"
)

// newShareCmd creates the share command group.
func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode and decode shareable gallery links",
	}
	cmd.AddCommand(newShareEncodeCmd())
	cmd.AddCommand(newShareDecodeCmd())
	return cmd
}

func newShareEncodeCmd() *cobra.Command {
	var pageURL string

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Embed a gallery document into a shareable URL",
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
			link, err := codec.EncodeShareURL(pageURL, c)
			if err != nil {
				return err
			}
			fmt.Println(link)
			return nil
		},
	}

	cmd.Flags().StringVar(&pageURL, "page-url", "", "page URL the link should open")
	_ = cmd.MarkFlagRequired("page-url")
	return cmd
}

func newShareDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <url>",
		Short: "Extract the gallery document from a shared link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec.DecodeShareURL(args[0])
			if err != nil {
				return err
			}
			return printDocumentJSON(codec.ToDocument(c))
		},
	}
}
