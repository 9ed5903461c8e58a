package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the registered definitions",
	Long: `Validate the registered definitions against the rules of the configured dialect.

This command checks:
- Model and property naming (identifier rules, reserved keywords)
- Constraint and foreign key name lengths
- Extended types whose fields disagree with the joined type
- Translation and audit settings the backend cannot honor
- View dependency cycles
- Drift against the live schema (when a connection string is set)

Examples:
  dbdef validate                     # Validate definitions
  dbdef validate --format json       # Output validation results as JSON
  dbdef validate --offline           # Never connect to the database
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateDefinitions(); err != nil {
			fmt.Printf("❌ Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var (
	validateFormat  string
	validateOffline bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
	validateCmd.Flags().BoolVar(&validateOffline, "offline", false, "Skip the comparison with the database")
}

func validateDefinitions() error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	d, err := dialect.Parse(cfg.Dialect)
	if err != nil {
		return err
	}
	v := validator.NewSchemaValidator(d)

	var result *validator.ValidationResult
	if validateOffline || cfg.ConnectionString == "" {
		log.Debugw("no connection string, validating offline")
		result = v.Validate(reg)
	} else {
		ctx := context.Background()
		conn, _, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()
		result, err = v.ValidateWithDB(ctx, conn, reg, cfg.Schemas.Default)
		if err != nil {
			return err
		}
	}

	if validateFormat == "json" {
		if err := outputJSON(result); err != nil {
			return err
		}
	} else {
		outputText(result)
	}
	return result.Err()
}

func outputJSON(result *validator.ValidationResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func printFindings(findings []validator.ValidationError) {
	for i, f := range findings {
		fmt.Printf("  %d. ", i+1)
		if f.Model != "" {
			fmt.Printf("[%s]", f.Model)
		}
		if f.Property != "" {
			fmt.Printf(".%s", f.Property)
		}
		fmt.Printf(": %s\n", f.Message)
	}
}

func outputText(result *validator.ValidationResult) {
	if result.Valid {
		color.Green("✅ Definition validation passed!")
	} else {
		color.Red("❌ Definition validation failed!")
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\n🔴 Errors (%d):\n", len(result.Errors))
		printFindings(result.Errors)
	}
	if len(result.Warnings) > 0 {
		fmt.Printf("\n🟡 Warnings (%d):\n", len(result.Warnings))
		printFindings(result.Warnings)
	}
	if len(result.Info) > 0 {
		fmt.Printf("\n🔵 Info (%d):\n", len(result.Info))
		printFindings(result.Info)
	}

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  • Errors: %d\n", len(result.Errors))
	fmt.Printf("  • Warnings: %d\n", len(result.Warnings))
	fmt.Printf("  • Info: %d\n", len(result.Info))
}
