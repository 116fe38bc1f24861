package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config returns the value of an environment variable, loading .env first if
// present. Process environment always wins over the file.
func Config(key string) string {
	godotenv.Load(".env")
	return os.Getenv(key)
}
