package main

import (
	"errors"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/polyrhythm/internal/audio"
	"github.com/iburimskiy/polyrhythm/internal/config"
	"github.com/iburimskiy/polyrhythm/internal/engine"
	"github.com/iburimskiy/polyrhythm/internal/game"
	"github.com/iburimskiy/polyrhythm/internal/logger"
)

var (
	flagLogLevel = flag.String("log-level", "info", "log level: debug, info, warn, error, none")
	flagWidth    = flag.Int("width", config.WindowWidth, "window width")
	flagHeight   = flag.Int("height", config.WindowHeight, "window height")
	flagVolume   = flag.Float64("volume", 1, "master volume")
	flagSeed     = flag.Int64("seed", 0, "particle seed, 0 for time-seeded")
)

func main() {
	flag.Parse()
	log := logger.New(os.Stderr, logger.LevelFromString(*flagLogLevel))

	seed := *flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rate := beep.SampleRate(config.SampleRate)
	bus := audio.NewBus(game.SpeakerLock{}, *flagVolume, config.VisualRingSize)

	eng, err := engine.New(engine.Options{
		Logger:     log,
		Rand:       rand.New(rand.NewSource(seed)),
		Sink:       bus,
		SampleRate: rate,
	})
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	output := game.NewOutput(rate, bus)
	defer output.Close()

	ebiten.SetWindowSize(*flagWidth, *flagHeight)
	ebiten.SetWindowTitle("Polyrhythm - Space: start/stop, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := game.New(eng, bus, output, log)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Errorf("run: %v", err)
		output.Close()
		os.Exit(1)
	}
}
