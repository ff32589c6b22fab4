package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nicheshunter/nicheshunter/adapters/sqlite"
	"github.com/nicheshunter/nicheshunter/config"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect accounts",
	Long: `Inspect Niches Hunter accounts.

Subscription status is owned by payment webhooks; this command is
read-only on purpose.

Examples:
  nicheshunter users list
  nicheshunter users get dana@example.com`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE:  runUsersList,
}

var usersGetCmd = &cobra.Command{
	Use:   "get <user-id-or-email>",
	Short: "Get account details",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersGet,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersGetCmd)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewUserStore(db)
	users, err := store.List(context.Background(), 1000, 0)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No accounts found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tSTATUS\tCREATED")
	fmt.Fprintln(w, "--\t-----\t------\t-------")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Status, u.CreatedAt.Format("2006-01-02"))
	}
	w.Flush()
	return nil
}

func runUsersGet(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewUserStore(db)
	ctx := context.Background()

	u, err := store.Get(ctx, args[0])
	if err != nil {
		u, err = store.GetByEmail(ctx, args[0])
	}
	if err != nil {
		return fmt.Errorf("user %q: %w", args[0], err)
	}

	fmt.Printf("ID:       %s\n", u.ID)
	fmt.Printf("Email:    %s\n", u.Email)
	fmt.Printf("Name:     %s\n", u.Name)
	fmt.Printf("Status:   %s\n", u.Status)
	if u.StripeCustomerID != "" {
		fmt.Printf("Customer: %s\n", u.StripeCustomerID)
	}
	fmt.Printf("Created:  %s\n", u.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

// openDatabase opens the configured database for CLI commands.
func openDatabase() (*sqlite.DB, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
