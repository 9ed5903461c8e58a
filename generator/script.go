package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteScript saves the statements of a dry run to a timestamped file in
// dir, creating dir when needed. Migrations are forward-only, so there is no
// rollback section.
func WriteScript(dir string, statements []string, collection string, now time.Time) (string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating %s folder: %w", dir, err)
		}
	}

	timestamp := now.UTC().Format("20060102150405")
	filename := filepath.Join(dir, fmt.Sprintf("%s_migration.sql", timestamp))

	var sb strings.Builder
	sb.WriteString("-- Migration: " + timestamp + "\n")
	sb.WriteString("-- Collection: " + collection + "\n\n")
	for _, stmt := range statements {
		sb.WriteString(strings.TrimRight(stmt, "; \n"))
		sb.WriteString(";\n\n")
	}

	if err := os.WriteFile(filename, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("writing migration file: %w", err)
	}
	return filename, nil
}
