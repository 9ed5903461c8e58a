package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initFile string

const defaultConfig = `# dbdef configuration. Every key can be overridden by a DBDEF_ environment
# variable, e.g. DBDEF_CONNECTION_STRING or DBDEF_SCHEMAS_DEFAULT.
dialect: mssql
connection_string: ""
collection_id: default
schemas:
  default: dbo
  translation: translation
  history: history
functions_file: ""
models_dir: models
script_dir: migrations
debug: false
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a dbdef.yaml with the default settings.

Examples:
  dbdef init                      # Create dbdef.yaml
  dbdef init --file custom.yaml   # Create another file`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(initFile); err == nil {
			fmt.Printf("❌ %s already exists!\n", initFile)
			return
		}
		if err := os.WriteFile(initFile, []byte(defaultConfig), 0644); err != nil {
			fmt.Printf("❌ Error creating %s: %v\n", initFile, err)
			return
		}
		fmt.Printf("✅ Created %s\n", initFile)
		fmt.Println("📝 Set connection_string or DATABASE_URL, then run 'dbdef migrate --dry-run'")
	},
}

func init() {
	initCmd.Flags().StringVarP(&initFile, "file", "f", "dbdef.yaml", "Config file to create")
}
