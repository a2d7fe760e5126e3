package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/garrettladley/snooze/internal/service/user"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage server users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a user and print its API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := openPostgres(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			userID, apiKey, err := user.NewPostgresService(pool).CreateUser(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Printf("User ID: %s\n", userID)
			fmt.Printf("API Key: %s\n", apiKey)
			fmt.Println("Store the key now; it cannot be shown again.")
			return nil
		},
	})

	return cmd
}

func apiKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
	}

	var name string
	create := &cobra.Command{
		Use:   "create <user-id>",
		Short: "Issue an additional API key for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := openPostgres(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			apiKey, err := user.NewPostgresService(pool).CreateAPIKey(ctx, args[0], name)
			if err != nil {
				return fmt.Errorf("failed to create API key: %w", err)
			}

			fmt.Printf("API Key: %s\n", apiKey)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "cli", "label for the key")

	revoke := &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Revoke an API key",
		Long:  "Revokes an API key. Servers that cache validated keys honour the revocation once the cached entry expires.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid key id %q: %w", args[0], err)
			}

			pool, err := openPostgres(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := user.NewPostgresService(pool).RevokeAPIKey(ctx, id); err != nil {
				return fmt.Errorf("failed to revoke API key: %w", err)
			}

			fmt.Printf("Revoked API key %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, revoke)
	return cmd
}
