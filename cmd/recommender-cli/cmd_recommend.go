package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/recommender/client"
)

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <query>",
		Short: "Resolve a product name query to the closest catalog product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The server exposes matching through by_name; one result is enough.
			resp, err := apiClient.Recommend.ByName(cmd.Context(), args[0], 1)
			if err != nil {
				return err
			}

			var score float64
			if resp.MatchScore != nil {
				score = *resp.MatchScore
			}
			match := map[string]any{
				"product_id":   resp.SeedProductID,
				"product_name": resp.SeedProductName,
				"score":        score,
			}
			table := &tableView{
				headers: []string{"PRODUCT_ID", "NAME", "SCORE"},
				rows:    [][]string{{resp.SeedProductID, resp.SeedProductName, formatFloat(score)}},
			}
			return output(cmd.OutOrStdout(), match, table, resp.SeedProductID)
		},
	}
}

func newRecommendCmd() *cobra.Command {
	var (
		name string
		topN int
	)
	cmd := &cobra.Command{
		Use:   "recommend [product-id]",
		Short: "Recommend products for a seed product ID or --name query",
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case name == "" && len(args) != 1:
				return errors.New("requires a product id or --name")
			case name != "" && len(args) != 0:
				return errors.New("use either a product id or --name, not both")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				resp *client.RecommendResponse
				err  error
			)
			if name != "" {
				resp, err = apiClient.Recommend.ByName(cmd.Context(), name, topN)
			} else {
				resp, err = apiClient.Recommend.ByID(cmd.Context(), args[0], topN)
			}
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), resp, recommendTable(resp), recommendIDs(resp)...)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Find the seed by product name instead of ID")
	cmd.Flags().IntVar(&topN, "top", 0, "Number of recommendations (0 = server default)")
	return cmd
}

func recommendTable(resp *client.RecommendResponse) *tableView {
	t := &tableView{headers: []string{"RANK", "PRODUCT_ID", "NAME", "SOURCE", "SCORE"}}
	for i, r := range resp.Recommendations {
		score := "-"
		if r.FinalScore != nil {
			score = formatFloat(*r.FinalScore)
		}
		t.rows = append(t.rows, []string{fmt.Sprint(i + 1), r.ProductID, r.ProductName, r.Source, score})
	}
	return t
}

func recommendIDs(resp *client.RecommendResponse) []string {
	ids := make([]string, len(resp.Recommendations))
	for i, r := range resp.Recommendations {
		ids[i] = r.ProductID
	}
	return ids
}
