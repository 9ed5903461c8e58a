package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

var docsOutput string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate a Mermaid ERD from the definitions",
	Long: `Generate a Mermaid entity relationship diagram of the registered tables
and the relations between them. Column types are shown for the configured
dialect.

Examples:
  dbdef docs                      # Print the diagram
  dbdef docs --output erd.md      # Write the diagram to a file
`,
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := loadRegistry()
		if err != nil {
			fmt.Printf("❌ Error loading definitions: %v\n", err)
			os.Exit(1)
		}
		d, err := cfg.DialectValue()
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}

		content := generateMermaidContent(reg, d)
		if docsOutput == "" {
			fmt.Print(content)
			return
		}
		if err := os.WriteFile(docsOutput, []byte(content), 0644); err != nil {
			fmt.Printf("❌ Error writing Mermaid file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Mermaid ERD saved to: %s\n", docsOutput)
	},
}

func generateMermaidContent(reg *schema.Registry, d dialect.Dialect) string {
	var content strings.Builder

	content.WriteString("```mermaid\n")
	content.WriteString("erDiagram\n")

	for _, def := range reg.All() {
		if def.DefinitionType != schema.Table {
			continue
		}
		content.WriteString(fmt.Sprintf("    %s {\n", def.ModelType))
		for _, p := range def.Properties {
			colType := strings.NewReplacer(" ", "_", "(", "_", ")", "", ",", "_").Replace(d.ColumnType(p))
			var marks []string
			if def.IsKey(p.Name) {
				marks = append(marks, "PK")
			}
			if _, ok := foreignKeyOf(def, p.Name); ok {
				marks = append(marks, "FK")
			}
			content.WriteString(fmt.Sprintf("        %s %s %s\n", colType, p.Name, strings.Join(marks, ",")))
		}
		content.WriteString("    }\n")
	}

	for _, def := range reg.All() {
		seen := map[string]bool{}
		for _, rel := range def.Relations {
			if rel.IsList || seen[rel.BaseProperty] {
				continue
			}
			seen[rel.BaseProperty] = true
			left := "||"
			if rel.IsOptional {
				left = "|o"
			}
			content.WriteString(fmt.Sprintf("    %s %s--o{ %s : \"%s\"\n", rel.Ref, left, def.ModelType, rel.BaseProperty))
		}
	}

	content.WriteString("```\n")
	return content.String()
}

func foreignKeyOf(def *schema.DbDefinition, property string) (schema.DbRelation, bool) {
	for _, rel := range def.Relations {
		if !rel.IsList && rel.BaseProperty == property {
			return rel, true
		}
	}
	return schema.DbRelation{}, false
}

func init() {
	docsCmd.Flags().StringVarP(&docsOutput, "output", "o", "", "Output file (default stdout)")
}
