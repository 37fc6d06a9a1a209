package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/config"
	"github.com/kuriosis/wallbuilder/pkg/pricing"
	"github.com/kuriosis/wallbuilder/pkg/render"
	"github.com/kuriosis/wallbuilder/pkg/store"
)

// newGalleriesCmd creates the galleries command group.
func newGalleriesCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "galleries",
		Short: "Manage saved galleries",
	}
	cmd.AddCommand(newGalleriesListCmd(configPath))
	cmd.AddCommand(newGalleriesShowCmd(configPath))
	cmd.AddCommand(newGalleriesSaveCmd(configPath))
	cmd.AddCommand(newGalleriesDeleteCmd(configPath))
	return cmd
}

// openStore loads config and opens the configured backend.
func openStore(ctx context.Context, configPath string) (store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg.OpenStore(ctx)
}

func newGalleriesListCmd(configPath *string) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved galleries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("no saved galleries")
				return nil
			}

			if interactive {
				selected, err := pickGallery(records)
				if err != nil || selected == nil {
					return err
				}
				return showGallery(selected)
			}

			for _, rec := range records {
				total := pricing.Total(codec.FromDocument(rec.Document))
				fmt.Println(StyleValue.Render(rec.Name) +
					"  " + StyleDim.Render(rec.ID) +
					"  " + StyleDim.Render(rec.UpdatedAt.Format("2006-01-02 15:04")) +
					"  " + StylePrice.Render(pricing.FormatMinorComma(total.TotalMinor, "€")))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a gallery interactively")
	return cmd
}

func newGalleriesShowCmd(configPath *string) *cobra.Command {
	var svgPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved gallery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if svgPath != "" {
				svg := render.RenderSVG(codec.FromDocument(rec.Document))
				if err := os.WriteFile(svgPath, svg, 0644); err != nil {
					return err
				}
				printSuccess("preview written to %s", svgPath)
			}
			return showGallery(rec)
		},
	}

	cmd.Flags().StringVar(&svgPath, "svg", "", "also write an SVG preview to this path")
	return cmd
}

// showGallery prints one record's metadata, totals and document.
func showGallery(rec *store.SavedGallery) error {
	c := codec.FromDocument(rec.Document)
	total := pricing.Total(c)

	printKeyValue("id", rec.ID)
	printKeyValue("name", rec.Name)
	printKeyValue("updated", rec.UpdatedAt.Format("2006-01-02 15:04:05"))
	printKeyValue("slots", fmt.Sprintf("%d (%d with products)", len(c.Slots), c.ProductCount()))
	printKeyValue("total", StylePrice.Render(pricing.FormatMinorComma(total.TotalMinor, "€")))
	return printDocumentJSON(rec.Document)
}

func newGalleriesSaveCmd(configPath *string) *cobra.Command {
	var (
		name      string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Save a gallery document from a file or stdin",
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

			st, err := openStore(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Save(cmd.Context(), name, codec.ToDocument(c), store.SaveOptions{Overwrite: overwrite})
			if err != nil {
				return err
			}
			printSuccess("saved %q as %s", rec.Name, rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "gallery name")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "update the newest gallery with the same name instead of versioning")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGalleriesDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved gallery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("deleted %s", args[0])
			return nil
		},
	}
}
