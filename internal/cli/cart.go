package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/config"
	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/pricing"
	"github.com/kuriosis/wallbuilder/pkg/storefront"
)

// newCartCmd creates the cart command group.
func newCartCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Submit galleries to the storefront cart",
	}
	cmd.AddCommand(newCartSubmitCmd(configPath))
	return cmd
}

func newCartSubmitCmd(configPath *string) *cobra.Command {
	var (
		galleryID string
		name      string
	)

	cmd := &cobra.Command{
		Use:   "submit [file]",
		Short: "Add a gallery's products, frames and service to the cart",
		Long:  `Flattens a gallery into cart lines and adds them one at a time. A line that fails is reported and skipped; the rest of the gallery still goes in.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Storefront.BaseURL == "" {
				return errors.New(errors.ErrCodeInvalidInput, "no storefront base_url configured")
			}

			var doc codec.Document
			if galleryID != "" {
				st, err := cfg.OpenStore(ctx)
				if err != nil {
					return err
				}
				defer st.Close()
				rec, err := st.Get(ctx, galleryID)
				if err != nil {
					return err
				}
				doc = rec.Document
				if name == "" {
					name = rec.Name
				}
			} else {
				data, err := readDocumentArg(args)
				if err != nil {
					return err
				}
				c, err := codec.Unmarshal(data)
				if err != nil {
					return err
				}
				doc = codec.ToDocument(c)
			}

			c := codec.FromDocument(doc)
			lines, err := storefront.LinesFromComposition(c, name)
			if err != nil {
				return err
			}
			printInfo("submitting %d cart lines (%s)", len(lines),
				pricing.FormatMinorComma(pricing.Total(c).TotalMinor, "€"))

			shop := storefront.NewClient(cfg.Storefront.BaseURL, storefront.WithLogger(logger))
			prog := newProgress(logger)
			spinner := newSpinner(ctx, "adding items to cart...")
			spinner.Start()

			result, err := shop.AddBatch(ctx, lines)
			if err != nil {
				spinner.StopWithError(err.Error())
				return err
			}
			spinner.Stop()
			prog.done(fmt.Sprintf("Added %d of %d items", len(result.Added), len(lines)))

			for _, f := range result.Failures {
				printWarning("skipped %s: %s", f.Line.VariantID, errors.UserMessage(f.Err))
			}

			if len(cfg.Quantity.Limits) > 0 {
				policy := &storefront.QuantityPolicy{Limits: cfg.Quantity.Limits}
				adjustments, err := policy.Enforce(ctx, shop)
				if err != nil {
					printWarning("quantity policy enforcement incomplete: %s", errors.UserMessage(err))
				}
				for _, adj := range adjustments {
					printDetail("quantity capped for %s: %d -> %d", adj.VariantID, adj.From, adj.To)
				}
			}

			if partialErr := result.Err(); partialErr != nil {
				printWarning("%s", errors.UserMessage(partialErr))
			} else {
				printSuccess("cart updated")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&galleryID, "id", "", "saved gallery id to submit")
	cmd.Flags().StringVarP(&name, "name", "n", "", "gallery name for cart line properties")
	return cmd
}
