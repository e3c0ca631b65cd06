// Etsi - Cross Provider IP Search
// Ask once. Every provider answers.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/yairfalse/etsi/providers/cloudflare"
	_ "github.com/yairfalse/etsi/providers/coolify"
	_ "github.com/yairfalse/etsi/providers/digitalocean"
	_ "github.com/yairfalse/etsi/providers/gcp"
)

func main() {
	// Local .env files carry provider credentials during development
	_ = godotenv.Load()

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	Execute()
}
