package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show server liveness and load state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := apiClient.Health(cmd.Context())
			if err != nil {
				return err
			}
			table := &tableView{
				headers: []string{"STATUS", "VERSION", "ARTIFACTS_LOADED", "UPTIME_S"},
				rows: [][]string{{
					h.Status, h.Version, strconv.FormatBool(h.ArtifactsLoaded), formatFloat(h.UptimeSeconds),
				}},
			}
			return output(cmd.OutOrStdout(), h, table, h.Status)
		},
	}
}

func newCatalogCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List catalog products (id, name)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := apiClient.Products.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			table := &tableView{headers: []string{"PRODUCT_ID", "NAME"}}
			ids := make([]string, len(entries))
			for i, e := range entries {
				ids[i] = e.ProductID
				table.rows = append(table.rows, []string{e.ProductID, e.ProductName})
			}
			return output(cmd.OutOrStdout(), entries, table, ids...)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many entries (0 = all returned)")
	return cmd
}

func newProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show a product by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := apiClient.Products.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			table := &tableView{
				headers: []string{"PRODUCT_ID", "NAME", "CATEGORY", "RATING", "PRICE", "SENTIMENT"},
				rows: [][]string{{
					p.ProductID, p.ProductName, p.Category,
					formatFloat(p.Rating), formatFloat(p.DiscountedPrice), formatFloat(p.AvgSentiment),
				}},
			}
			return output(cmd.OutOrStdout(), p, table, p.ProductID)
		},
	}
}

func newPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price <id>",
		Short: "Show the live price of a product, or the cached one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := apiClient.Products.LivePrice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			table := &tableView{
				headers: []string{"PRODUCT_ID", "STATUS", "PRICE"},
				rows:    [][]string{{args[0], q.Status, formatFloat(q.Price)}},
			}
			return output(cmd.OutOrStdout(), q, table, formatFloat(q.Price))
		},
	}
}
