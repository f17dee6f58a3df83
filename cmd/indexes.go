package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(false, false)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := rt.app.Store.EnsureIndexes(ctx); err != nil {
				return err
			}
			rt.logger.Info("Indexes created")
			return nil
		},
	}
}
