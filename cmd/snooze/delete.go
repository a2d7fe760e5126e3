package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/repository"
	"github.com/garrettladley/snooze/internal/service/record"
)

func deleteCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "delete <date>",
		Short: "Delete the diary entry for a night",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date := args[0]

			app, err := openLocal(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = app.Close()
			}()

			if remote {
				client, err := newClient(app.cfg)
				if err != nil {
					return err
				}
				if err := client.Sleep.Delete(ctx, date); err != nil {
					return err
				}
				fmt.Printf("Deleted %s on the server\n", date)
				return nil
			}

			if err := record.New(nil).DeleteSleep(ctx, "", app.repo.Sleep, date); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("no entry for %s", date)
				}
				return describe(err)
			}
			fmt.Printf("Deleted %s\n", date)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "delete the entry stored on the server")
	return cmd
}
