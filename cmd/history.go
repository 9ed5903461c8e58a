package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Altinn/altinn-authorization-tmp-sub012/runner"
)

var (
	historyLimit    int
	historyObject   string
	historyDetailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the migration journal",
	Long: `Show the journaled operations of the configured collection, newest first.

Examples:
  dbdef history                    # Show all journal entries
  dbdef history --limit 10         # Show the last 10 entries
  dbdef history --object Role      # Show entries for one model type
  dbdef history --detailed         # Show scripts as well
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		reg, err := loadRegistry()
		if err != nil {
			fmt.Printf("❌ Error loading definitions: %v\n", err)
			os.Exit(1)
		}
		conn, d, err := openDatabase(ctx)
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}
		defer conn.Close()

		engine := newEngine(conn, d, reg, true)
		if err := engine.Init(ctx); err != nil {
			fmt.Printf("❌ Error reading migration journal: %v\n", err)
			os.Exit(1)
		}

		history := filterHistory(engine.Journal(), historyObject, historyLimit)
		if len(history) == 0 {
			fmt.Println("📋 No migration history found")
			return
		}
		showMigrationHistory(history, historyDetailed)
	},
}

// filterHistory sorts newest first and applies the object filter and limit.
func filterHistory(entries []runner.JournalEntry, object string, limit int) []runner.JournalEntry {
	var out []runner.JournalEntry
	for _, e := range entries {
		if object == "" || strings.EqualFold(e.ObjectName, object) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func showMigrationHistory(history []runner.JournalEntry, detailed bool) {
	fmt.Println("📋 Migration History")
	fmt.Println(strings.Repeat("=", 60))

	if detailed {
		showDetailedHistory(history)
	} else {
		showSummaryHistory(history)
	}
}

func showDetailedHistory(history []runner.JournalEntry) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	cyan := color.New(color.FgCyan)

	for i, entry := range history {
		fmt.Printf("\n%d. ", i+1)
		if entry.Status == runner.StatusApplied {
			green.Print("✅ ")
		} else {
			yellow.Print("➕ ")
		}
		blue.Printf("%s\n", entry.Key)
		cyan.Printf("   📦 Object: %s\n", entry.ObjectName)
		cyan.Printf("   📅 At: %s\n", entry.At.Format("2006-01-02 15:04:05"))
		cyan.Printf("   📊 Status: %s\n", entry.Status)
		if entry.Script != "" {
			cyan.Println("   📝 Script:")
			for _, line := range strings.Split(entry.Script, "\n") {
				fmt.Println("      " + line)
			}
		}
	}
}

func showSummaryHistory(history []runner.JournalEntry) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)

	fmt.Printf("%-4s %-8s %-50s %s\n", "ID", "Status", "Key", "Date")
	fmt.Println(strings.Repeat("-", 80))

	applied := 0
	for i, entry := range history {
		var status string
		if entry.Status == runner.StatusApplied {
			status = green.Sprint("✅")
			applied++
		} else {
			status = yellow.Sprint("➕")
		}

		key := entry.Key
		if len(key) > 48 {
			key = key[:45] + "..."
		}
		fmt.Printf("%-4d %-8s %-50s %s\n", i+1, status, blue.Sprint(key), entry.At.Format("2006-01-02 15:04"))
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("📊 Summary: %d total, %d applied, %d included\n", len(history), applied, len(history)-applied)
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 0, "Limit number of records to show (0 = all)")
	historyCmd.Flags().StringVarP(&historyObject, "object", "o", "", "Filter by model type or object name")
	historyCmd.Flags().BoolVarP(&historyDetailed, "detailed", "d", false, "Show detailed information")
}
