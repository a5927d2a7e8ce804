package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/libstack-dev/libstack/internal/cli/commands"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "libstack",
	Short: "LibStack - Library catalog from your terminal",
	Long: `LibStack CLI - Browse the catalog, borrow and return books, and
manage your loans against a LibStack server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("libstack version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewBooksCmd())
	rootCmd.AddCommand(commands.NewBorrowCmd())
	rootCmd.AddCommand(commands.NewReturnCmd())
	rootCmd.AddCommand(commands.NewLoansCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
