package main

import (
	"fmt"

	ledgerapp "github.com/erp/dashboard/internal/application/ledger"
	"github.com/erp/dashboard/internal/domain/ledger"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/spf13/cobra"
)

func newLedgerCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show creditor and receivable ledgers",
	}
	cmd.AddCommand(newCreditorsCmd(c), newReceivablesCmd(c))
	return cmd
}

func newCreditorsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "creditors",
		Short: "List the suppliers an account owes, with derived balances",
		Example: `  dashctl ledger creditors --identity owner@shop.ng
  dashctl ledger creditors --identity owner@shop.ng -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.connect(); err != nil {
				return err
			}
			email, err := c.requireIdentity()
			if err != nil {
				return err
			}

			list := ledgerapp.NewCreditorService(c.client, nil, c.log).List(cmd.Context(), email)
			if list.Stale {
				return fmt.Errorf("could not load creditors for %s", email)
			}

			out := cmd.OutOrStdout()
			if c.output == outputJSON {
				items := list.Items
				if items == nil {
					items = []ledger.Creditor{}
				}
				return c.printJSON(out, dto.CreditorListResponse{
					Items:   items,
					Summary: dto.NewLedgerSummaryResponse(list.Summary),
				})
			}

			f := c.formatter
			tw := newTable(out)
			fmt.Fprintln(tw, "SUPPLIER\tORIGINAL\tPAID\tREMAINING\tSTATUS\tSETTLEMENTS")
			for _, cr := range list.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					cr.SupplierName,
					f.Money(cr.OriginalAmount),
					f.Money(cr.TotalPaid()),
					f.Money(cr.RemainingBalance),
					cr.Status,
					len(cr.SettlementHistory),
				)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d creditors, %s outstanding\n", list.Summary.Count, f.Money(list.Summary.Outstanding))
			return nil
		},
	}
}

func newReceivablesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "receivables",
		Short: "List what customers owe an account, with derived balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.connect(); err != nil {
				return err
			}
			email, err := c.requireIdentity()
			if err != nil {
				return err
			}

			list := ledgerapp.NewReceivableService(c.client, nil, c.log).List(cmd.Context(), email)
			if list.Stale {
				return fmt.Errorf("could not load receivables for %s", email)
			}

			out := cmd.OutOrStdout()
			if c.output == outputJSON {
				items := list.Items
				if items == nil {
					items = []ledger.Receivable{}
				}
				return c.printJSON(out, dto.ReceivableListResponse{
					Items:   items,
					Summary: dto.NewLedgerSummaryResponse(list.Summary),
				})
			}

			f := c.formatter
			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tCUSTOMER\tCASHIER\tAMOUNT\tREMAINING\tSTATUS")
			for _, r := range list.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID,
					r.CustomerName,
					r.CashierName,
					f.Money(r.Amount),
					f.Money(r.RemainingBalance),
					r.Status,
				)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d receivables, %s outstanding\n", list.Summary.Count, f.Money(list.Summary.Outstanding))
			return nil
		},
	}
}
