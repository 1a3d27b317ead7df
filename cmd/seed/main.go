// Command seed loads the stock mission set into the configured catalog
// database. It is idempotent: missions already present by name are left
// untouched.
package main

import (
	"os"

	"github.com/sigmahq/sigma/internal/catalog"
	"github.com/sigmahq/sigma/internal/config"
	"github.com/sigmahq/sigma/internal/logging"
)

func main() {
	if err := config.Load("."); err != nil {
		errLog := logging.New(os.Stderr, "ERROR")
		errLog.Fatal().Err(err).Msg("config")
	}
	log := logging.New(os.Stderr, config.GetString("logLevel"))

	store, err := catalog.Connect(log)
	if err != nil {
		log.Fatal().Err(err).Msg("mission catalog unavailable")
	}
	defer store.Close()

	missions := catalog.StockMissions()
	if err := store.Seed(missions); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Int("missions", len(missions)).Msg("catalog seeded")
}
