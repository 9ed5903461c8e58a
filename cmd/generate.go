package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Altinn/altinn-authorization-tmp-sub012/generator"
	"github.com/Altinn/altinn-authorization-tmp-sub012/loader"
)

var generateModelsDir string
var dryRunGenerate bool

func init() {
	generateCmd.Flags().StringVarP(&generateModelsDir, "dir", "d", "", "Models directory (defaults to models_dir from config)")
	generateCmd.Flags().BoolVar(&dryRunGenerate, "dry-run", false, "Print the generated code without writing it")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate field descriptors for marked model structs",
	Long: `Generate zz_generated.dbfields.go for every struct marked with a
"// +dbdef" comment in the models directory. The file declares a <Type>Fields
variable and the DBType and DBValues methods used by definitions.

Examples:
  dbdef generate                 # Generate for models_dir (default models/)
  dbdef generate -d internal/x   # Generate for another directory
  dbdef generate --dry-run       # Print instead of writing
`,
	Run: func(cmd *cobra.Command, args []string) {
		dir := generateModelsDir
		if dir == "" {
			dir = cfg.ModelsDir
		}

		if dryRunGenerate {
			pkg, err := loader.LoadPackage(dir)
			if err != nil {
				fmt.Println("❌ Loading models from structs:", err)
				os.Exit(1)
			}
			src, err := generator.Render(pkg)
			if err != nil {
				fmt.Println("❌ Generating code:", err)
				os.Exit(1)
			}
			fmt.Print(string(src))
			return
		}

		path, err := generator.Generate(dir)
		if err != nil {
			fmt.Println("❌ Generating code:", err)
			os.Exit(1)
		}
		fmt.Println("✅ Field descriptors generated:", path)
	},
}
