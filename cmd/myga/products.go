package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/myga/internal/domain"
	"github.com/rgehrsitz/myga/internal/output"
)

func (a *app) productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the products in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := a.catalog()
			codes, err := catalog.List()
			if err != nil {
				return err
			}
			specs := make([]*domain.ProductSpec, 0, len(codes))
			for _, code := range codes {
				spec, err := catalog.Get(code)
				if err != nil {
					return err
				}
				specs = append(specs, spec)
			}
			fmt.Fprint(cmd.OutOrStdout(), output.FormatProductList(specs))
			return nil
		},
	}
}

func (a *app) productCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product [code]",
		Short: "Show a product's surrender schedule, allowances and guarantee funds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := a.catalog().Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), output.FormatProductSummary(spec))
			return nil
		},
	}
}
