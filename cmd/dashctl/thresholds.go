package main

import (
	"fmt"

	inventoryapp "github.com/erp/dashboard/internal/application/inventory"
	"github.com/erp/dashboard/internal/domain/inventory"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/spf13/cobra"
)

func newThresholdsCmd(c *cli) *cobra.Command {
	var alertsOnly bool

	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Show stock threshold settings and their alert levels",
		Example: `  dashctl thresholds --identity owner@shop.ng
  dashctl thresholds --identity owner@shop.ng --alerts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.connect(); err != nil {
				return err
			}
			email, err := c.requireIdentity()
			if err != nil {
				return err
			}

			list := inventoryapp.NewThresholdService(c.client, nil, c.log).List(cmd.Context(), email)
			if list.Stale {
				return fmt.Errorf("could not load threshold settings for %s", email)
			}

			items := make([]inventory.ThresholdSetting, 0, len(list.Items))
			for _, t := range list.Items {
				if alertsOnly && t.Status == inventory.StatusNormal {
					continue
				}
				items = append(items, t)
			}

			out := cmd.OutOrStdout()
			if c.output == outputJSON {
				return c.printJSON(out, dto.ThresholdListResponse{
					Items:   items,
					Summary: dto.NewThresholdSummaryResponse(list.Summary),
				})
			}

			f := c.formatter
			tw := newTable(out)
			fmt.Fprintln(tw, "ITEM\tSTOCK\tREORDER\tMIN\tMAX\tALERTS\tSTATUS")
			for _, t := range items {
				alerts := "off"
				if t.AutoAlerts {
					alerts = "on"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ItemName,
					f.Quantity(t.CurrentStock),
					f.Quantity(t.ReorderLevel),
					f.Quantity(t.MinStock),
					f.Quantity(t.MaxStock),
					alerts,
					t.Status,
				)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			s := list.Summary
			fmt.Fprintf(out, "\n%d items: %d critical, %d low, %d normal\n", s.Total, s.Critical, s.Low, s.Normal)
			return nil
		},
	}

	cmd.Flags().BoolVar(&alertsOnly, "alerts", false, "Only list items at low or critical level")
	return cmd
}
