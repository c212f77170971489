package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	var (
		catalogPath string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the format catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			if asJSON {
				return emitJSON(cat.Document())
			}

			fmt.Printf("catalog version %s\n\n", cat.Version())
			for _, class := range cat.Classes() {
				marker := ""
				if class.Fallback {
					marker = " (fallback)"
				}
				fmt.Printf("%-18s %-10s %s%s\n", class.Slug, class.Severity, class.Name, marker)
				if len(class.Subtypes) > 0 {
					variants := make([]string, 0, len(class.Subtypes))
					for _, sub := range class.Subtypes {
						variants = append(variants, sub.Variant)
					}
					fmt.Printf("%-18s            variants: %s\n", "", strings.Join(variants, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file overriding the built-in catalog")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the catalog as JSON")

	return cmd
}
