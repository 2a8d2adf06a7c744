package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/bizdeck/internal/catalog"
	"github.com/rshade/bizdeck/internal/format"
	"github.com/rshade/bizdeck/internal/pagination"
)

// Output formats for catalog list.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// NewCatalogSeedCmd creates the catalog seed command.
func NewCatalogSeedCmd() *cobra.Command {
	var (
		count       int
		imageDir    string
		imageBase   string
		brokenEvery int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the catalog with generated demo products",
		Long: `Generates deterministic demo products and writes a swatch thumbnail for each
into the image directory. Every --broken-every'th product points at a missing
image with a shared fallback, which exercises thumbnail fallback in the console.

With --image-base set to an http(s) URL no images are written; refs point at
that server instead.`,
		Example: `  # 5,000 products, every 25th with a broken primary image
  bizdeck catalog seed --count 5000 --broken-every 25

  # Thumbnails served from elsewhere
  bizdeck catalog seed --image-base https://cdn.example.com/thumbs`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogSeed(cmd, count, imageDir, imageBase, brokenEvery)
		},
	}

	cmd.Flags().IntVar(&count, "count", catalog.DefaultSeedCount, "number of products to generate")
	cmd.Flags().StringVar(&imageDir, "images", "", "directory to write thumbnails to (default: <config dir>/images)")
	cmd.Flags().StringVar(&imageBase, "image-base", "", "http(s) base URL for thumbnail refs; skips writing images")
	cmd.Flags().IntVar(&brokenEvery, "broken-every", 0, "give every Nth product a missing image with a fallback (0 disables)")

	return cmd
}

func runCatalogSeed(cmd *cobra.Command, count int, imageDir, imageBase string, brokenEvery int) error {
	ctx := cmd.Context()
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	if brokenEvery < 0 {
		return fmt.Errorf("broken-every must be >= 0, got %d", brokenEvery)
	}

	remote := strings.HasPrefix(imageBase, "http://") || strings.HasPrefix(imageBase, "https://")
	if imageBase != "" && !remote {
		return fmt.Errorf("image-base must be an http(s) URL, got %q", imageBase)
	}
	if !remote && imageDir == "" {
		dir, err := defaultImageDir()
		if err != nil {
			return err
		}
		imageDir = dir
	}

	opts := catalog.SeedOptions{Count: count, ImageBase: imageBase, BrokenEvery: brokenEvery}
	if !remote {
		opts.ImageBase = imageDir
	}
	products := catalog.GenerateProducts(opts)

	if !remote {
		written, err := catalog.WriteImages(imageDir, products)
		if err != nil {
			return fmt.Errorf("writing images: %w", err)
		}
		logger.Debug().Ctx(ctx).Int("images", written).Str("dir", imageDir).Msg("thumbnails written")
	}

	store, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.DeleteAll(ctx); err != nil {
		return err
	}
	n, err := store.InsertAll(ctx, products)
	if err != nil {
		return err
	}

	logger.Info().Ctx(ctx).Int("products", n).Msg("catalog seeded")
	cmd.Printf("Seeded %s products\n", format.FormatNumber(int64(n)))
	if !remote {
		cmd.Printf("Thumbnails: %s\n", imageDir)
	}
	return nil
}

// NewCatalogListCmd creates the catalog list command.
func NewCatalogListCmd() *cobra.Command {
	var (
		params   = pagination.NewParams()
		sortFlag string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		Example: `  # First page of 20, most expensive first
  bizdeck catalog list --page 1 --page-size 20 --sort price:desc

  # Offset-based, as JSON
  bizdeck catalog list --limit 10 --offset 100 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			field, order, err := pagination.ParseSort(sortFlag)
			if err != nil {
				return err
			}
			params.SortField, params.SortOrder = field, order
			if params.Page > 0 && !cmd.Flags().Changed("limit") {
				params.Limit = 0
			}
			return runCatalogList(cmd, *params, output)
		},
	}

	cmd.Flags().IntVar(&params.Limit, "limit", pagination.DefaultLimit, "maximum number of products (offset mode)")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "number of products to skip (offset mode)")
	cmd.Flags().IntVar(&params.Page, "page", 0, "1-based page number (page mode)")
	cmd.Flags().IntVar(&params.PageSize, "page-size", 0, "products per page (page mode)")
	cmd.Flags().StringVar(&sortFlag, "sort", "", "sort as field or field:order (name, sku, price, stock, created)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")

	return cmd
}

func runCatalogList(cmd *cobra.Command, params pagination.Params, output string) error {
	if output != outputTable && output != outputJSON {
		return fmt.Errorf("unsupported output format: %s", output)
	}
	ctx := cmd.Context()

	store, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	products, err := store.List(ctx, params)
	if err != nil {
		return err
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	meta := pagination.NewMeta(params, total)

	if output == outputJSON {
		return renderProductsJSON(cmd.OutOrStdout(), products, meta)
	}
	return renderProductsTable(cmd.OutOrStdout(), products, meta, params.IsPageBased())
}

type productListJSON struct {
	Products   []catalog.Product         `json:"products"`
	Pagination pagination.Meta `json:"pagination"`
}

func renderProductsJSON(w io.Writer, products []catalog.Product, meta pagination.Meta) error {
	if products == nil {
		products = []catalog.Product{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(productListJSON{Products: products, Pagination: meta})
}

func renderProductsTable(w io.Writer, products []catalog.Product, meta pagination.Meta, paged bool) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products found.")
		return err
	}

	const tabPadding = 2
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "SKU\tName\tPrice\tStock\t")
	fmt.Fprintln(tw, "---\t----\t-----\t-----\t")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t\n", p.SKU, format.Truncate(p.Name, 40), format.FormatPrice(p.PriceCents), p.Stock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if paged {
		_, err := fmt.Fprintf(w, "\nPage %d of %d (%s products)\n",
			meta.CurrentPage, meta.TotalPages, format.FormatNumber(int64(meta.TotalItems)))
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d of %s products\n", len(products), format.FormatNumber(int64(meta.TotalItems)))
	return err
}
