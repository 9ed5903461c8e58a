package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		reg, err := loadRegistry()
		if err != nil {
			fmt.Println("❌ Status error:", err)
			os.Exit(1)
		}
		conn, d, err := openDatabase(ctx)
		if err != nil {
			fmt.Println("❌ Status error:", err)
			os.Exit(1)
		}
		defer conn.Close()

		engine := newEngine(conn, d, reg, true)
		pending, err := engine.Pending(ctx)
		if err != nil {
			fmt.Println("❌ Status error:", err)
			os.Exit(1)
		}

		journal := engine.Journal()
		fmt.Printf("✅ Applied migrations: %d (collection %s)\n", len(journal), cfg.CollectionId)

		fmt.Println("\n🕒 Pending migrations:")
		if len(pending) == 0 {
			fmt.Println("   none")
		}
		for _, op := range pending {
			fmt.Println("   -", op.Key())
		}
	},
}
