package commands

import (
	"fmt"
	"time"

	"github.com/sharath018/eventify-backend/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, events and RSVPs into an empty database",
		Long: `Migrate the schema, then insert sample data when the users table is empty.

Demo accounts:
  admin@eventify.com / admin123
  organizer@eventify.com / organizer123
  john@example.com / attendee123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, db, err := openDatabase(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeDatabase(ctx, db)

			res, err := seed.Run(ctx, db, time.Now())
			if err != nil {
				return err
			}
			if res.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "database already has users; nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d events, %d rsvps\n", res.Users, res.Events, res.RSVPs)
			return nil
		},
	}
}
