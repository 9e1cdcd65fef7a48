package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

func NewTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage dining tables",
	}
	cmd.AddCommand(newTablesAddCmd(), newTablesListCmd())
	return cmd
}

func newTablesAddCmd() *cobra.Command {
	var (
		number   string
		capacity uint32
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a dining table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			svc := service.NewTables(repository.NewStore(db, cfg.DB.Driver), nil)
			t, err := svc.Create(cmd.Context(), number, capacity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created table %s (id=%d, capacity=%d)\n", t.TableNumber, t.ID, t.Capacity)
			return nil
		},
	}
	cmd.Flags().StringVar(&number, "number", "", "table number, e.g. T1")
	cmd.Flags().Uint32Var(&capacity, "capacity", 0, "number of seats")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("capacity")
	return cmd
}

func newTablesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dining tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			svc := service.NewTables(repository.NewStore(db, cfg.DB.Driver), nil)
			list, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNUMBER\tCAPACITY")
			for _, t := range list {
				fmt.Fprintf(w, "%d\t%s\t%d\n", t.ID, t.TableNumber, t.Capacity)
			}
			return w.Flush()
		},
	}
}
