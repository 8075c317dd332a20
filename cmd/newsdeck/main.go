package main

import (
	"github.com/joho/godotenv"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	// A .env next to the binary may carry NEWSDECK_API_KEY; its absence
	// is not an error.
	_ = godotenv.Load()

	Execute()
}
