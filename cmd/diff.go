package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Altinn/altinn-authorization-tmp-sub012/diff"
)

var diffVisual bool

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show operations not yet applied to the database",
	Long: `Show the planned operations that are missing from the migration journal.

Examples:
  dbdef diff                    # Show pending operations in text format
  dbdef diff --visual           # Group pending operations per type with colors
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

		operations, err := newEngine(conn, d, reg, true).Pending(ctx)
		if err != nil {
			fmt.Printf("❌ Error reading migration journal: %v\n", err)
			os.Exit(1)
		}

		if len(operations) == 0 {
			fmt.Println("✅ No differences found between definitions and database")
			return
		}

		if diffVisual {
			showVisualDiff(operations)
		} else {
			showTextDiff(operations)
		}
	},
}

// groupOperations buckets operations by model type, keeping plan order.
func groupOperations(operations []diff.Operation) ([]string, map[string][]diff.Operation) {
	var order []string
	groups := make(map[string][]diff.Operation)
	for _, op := range operations {
		name := op.ObjectName()
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], op)
	}
	return order, groups
}

func showVisualDiff(operations []diff.Operation) {
	green := color.New(color.FgGreen, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	cyan := color.New(color.FgCyan)
	magenta := color.New(color.FgMagenta)

	fmt.Println("🌳 Pending Changes")
	fmt.Println(strings.Repeat("=", 40))

	order, groups := groupOperations(operations)
	for _, name := range order {
		fmt.Printf("\n📋 %s:\n", name)
		for _, op := range groups[name] {
			switch op.Type {
			case diff.CreateSchema:
				green.Printf("  ➕ SCHEMA %s\n", op.Schema)
			case diff.CreateTable:
				if op.Translation {
					green.Printf("  ➕ TRANSLATION TABLE %s.%s\n", op.Schema, op.Definition.ModelType)
				} else {
					green.Printf("  ➕ TABLE %s.%s\n", op.Schema, op.Definition.ModelType)
				}
			case diff.AddColumn:
				blue.Printf("  ➕ COLUMN %s (%s)", op.Property.Name, op.Property.Kind)
				if !op.Property.Nullable {
					blue.Print(" NOT NULL")
				}
				if op.Property.Default != nil {
					blue.Printf(" DEFAULT %s", *op.Property.Default)
				}
				blue.Println()
			case diff.AddUniqueConstraint:
				cyan.Printf("  🔑 UNIQUE %s (%s)\n", op.Constraint.Name, strings.Join(op.Constraint.Properties, ", "))
			case diff.AddForeignKey:
				cyan.Printf("  🔗 FK %s → %s.%s\n", op.Relation.BaseProperty, op.Relation.Ref, op.Relation.RefProperty)
			case diff.CreateView:
				magenta.Printf("  👁  VIEW %s v%d\n", op.Definition.ModelType, op.Definition.Version)
			case diff.CreateFunction:
				magenta.Printf("  ƒ FUNCTION %s.%s\n", op.Schema, op.Name)
			}
		}
	}
}

func showTextDiff(operations []diff.Operation) {
	fmt.Println("📋 Pending Changes (Text Format)")
	fmt.Println(strings.Repeat("=", 40))

	for i, op := range operations {
		fmt.Printf("%d. %s\n", i+1, op.Key())
	}
}

func init() {
	diffCmd.Flags().BoolVarP(&diffVisual, "visual", "v", false, "Show changes grouped per type with colors")
}
