package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alebarre/italicita/internal/catalog"
	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/pricing"
	"github.com/spf13/cobra"
)

func menuCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the seed menu with option prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := catalog.LoadSeed()
			if err != nil {
				return err
			}
			if category != "" {
				c := domain.Category(strings.ToLower(category))
				if !c.Valid() {
					return fmt.Errorf("unknown category %q", category)
				}
				items = filterCategory(items, c)
			}
			return printMenu(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only print one category")
	return cmd
}

func filterCategory(items []domain.MenuItem, c domain.Category) []domain.MenuItem {
	var out []domain.MenuItem
	for _, it := range items {
		if it.Category == c {
			out = append(out, it)
		}
	}
	return out
}

func printMenu(w io.Writer, items []domain.MenuItem) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		status := ""
		if !it.IsAvailable {
			status = " (indisponível)"
		}
		fmt.Fprintf(tw, "%s\t%s%s\t%s\t%s\n", it.ID, it.Name, status, it.Category, pricing.Format(it.BasePrice))
		for _, s := range it.AllowedSizes {
			fmt.Fprintf(tw, "\t  tamanho %s\t\t+%s\n", s.Name, pricing.Format(s.PriceAdjustment))
		}
		for _, p := range it.AllowedPasta {
			fmt.Fprintf(tw, "\t  massa %s\t\t+%s\n", p.Name, pricing.Format(p.PriceAdjustment))
		}
		for _, s := range it.AllowedSauces {
			fmt.Fprintf(tw, "\t  molho %s\t\t+%s\n", s.Name, pricing.Format(s.Price))
		}
		for _, a := range it.AllowedAddOns {
			fmt.Fprintf(tw, "\t  adicional %s\t\t+%s\n", a.Name, pricing.Format(a.Price))
		}
		for _, e := range it.AllowedExtras {
			fmt.Fprintf(tw, "\t  extra %s\t\t+%s\n", e.Name, pricing.Format(e.Price))
		}
	}
	return tw.Flush()
}
