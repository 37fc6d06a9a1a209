package cli

import (
	"github.com/spf13/cobra"

	"github.com/kuriosis/wallbuilder/pkg/catalog"
	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/pricing"
	"github.com/kuriosis/wallbuilder/pkg/storefront"
)

// newResolveCmd creates the resolve command, which answers "which variant
// matches this size and material" from an encoded variant list or a live
// product.
func newResolveCmd() *cobra.Command {
	var (
		variants string
		handle   string
		shopURL  string
		size     string
		material string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a product variant by size and material",
		Example: `  wallbuilder resolve --variants "S - 30 x 40cm|Paper:29.99|123;..." --size 30x40
  wallbuilder resolve --handle poster-lines --shop https://shop.example.com --size 50x70 --material canvas`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			var ix *catalog.Index
			switch {
			case variants != "":
				ix = catalog.ParseIndex(variants)
			case handle != "":
				if shopURL == "" {
					return errors.New(errors.ErrCodeInvalidInput, "--handle requires --shop")
				}
				shop := storefront.NewClient(shopURL, storefront.WithLogger(logger))
				product, err := shop.ProductVariants(cmd.Context(), handle)
				if err != nil {
					return err
				}
				ix = product.Index()
			default:
				return errors.New(errors.ErrCodeInvalidInput, "provide --variants or --handle")
			}

			if ix.Len() == 0 {
				return errors.New(errors.ErrCodeVariantNotFound, "no parseable variants")
			}

			variant, err := ix.Find(size, material)
			exact := err == nil
			if !exact {
				logger.Debug("no exact match, falling back to first variant", "size", size, "material", material)
				variant, _ = ix.First()
			}

			printKeyValue("variant", variant.VariantID)
			printKeyValue("size", variant.SizeLabel)
			printKeyValue("material", variant.MaterialLabel)
			printKeyValue("price", StylePrice.Render(pricing.FormatMinorComma(variant.PriceMinor, "€")))
			if !exact {
				printWarning("no exact match for %q / %q, showing first available", size, material)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&variants, "variants", "", "encoded variant list")
	cmd.Flags().StringVar(&handle, "handle", "", "product handle to fetch variants from")
	cmd.Flags().StringVar(&shopURL, "shop", "", "storefront base URL")
	cmd.Flags().StringVarP(&size, "size", "s", "", "size label, e.g. 50x70")
	cmd.Flags().StringVarP(&material, "material", "m", "", "material label")
	_ = cmd.MarkFlagRequired("size")
	return cmd
}
