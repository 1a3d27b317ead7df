package main

import (
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	eaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/sigmahq/sigma/internal/assets"
	"github.com/sigmahq/sigma/internal/audio"
	"github.com/sigmahq/sigma/internal/catalog"
	"github.com/sigmahq/sigma/internal/config"
	"github.com/sigmahq/sigma/internal/game"
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
	if err := store.Seed(catalog.StockMissions()); err != nil {
		log.Fatal().Err(err).Msg("catalog seed")
	}

	provider := assets.New(config.GetString("assets.dir"), log)

	ctx := eaudio.NewContext(audio.SampleRate)
	fade := time.Duration(config.GetInt("audio.fadeMs")) * time.Millisecond
	sound := audio.New(audio.NewEbitenSource(ctx, provider.Sound), fade, log)
	defer sound.Close()
	sound.SetVolume(audio.CategoryMusic, config.GetFloat64("audio.musicVolume"))
	sound.SetVolume(audio.CategorySFX, config.GetFloat64("audio.sfxVolume"))

	engine := game.New(game.Deps{
		Catalog: store,
		Assets:  provider,
		Sound:   sound,
		Log:     log,
	})

	width := config.GetInt("window.width")
	height := config.GetInt("window.height")
	ebiten.SetWindowTitle(config.GetString("window.title"))
	ebiten.SetWindowSize(width, height)
	if err := ebiten.RunGame(game.NewApp(engine, provider, width, height, log)); err != nil {
		log.Fatal().Err(err).Msg("game loop")
	}
}
