package utils

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env files into the process environment. Values already set
// in the environment win. The error is informational; a missing file is the
// common case.
func LoadEnv(files ...string) error {
	return godotenv.Load(files...)
}

// GetDatabaseURL returns DATABASE_URL, the fallback connection string.
func GetDatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}
