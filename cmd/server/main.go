package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Golloumette/escape-game/internal/agent"
	"github.com/Golloumette/escape-game/internal/engine"
	"github.com/Golloumette/escape-game/internal/relay"
	"github.com/Golloumette/escape-game/internal/server"
	"github.com/Golloumette/escape-game/internal/version"
	"github.com/Golloumette/escape-game/pkg/gamemap"
	"github.com/Golloumette/escape-game/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	cfg := &config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func serve(cfg *config) error {
	logger.Log.Info("Starting escape relay...")
	logger.Log.Info(version.String())

	// Формируем конфиг движка. Relay загадки не проверяет, но сид решает,
	// какие загадки достанутся дверям встроенной карты.
	engCfg := engine.NewConfig()
	engCfg.TargetSolved = cfg.targetSolved
	if cfg.puzzleSeed != 0 {
		engCfg.PuzzleSeed = cfg.puzzleSeed
		logger.Log.Infof("🎲 Using explicit puzzle seed: %d", engCfg.PuzzleSeed)
	} else {
		logger.Log.Infof("🎲 Using random puzzle seed: %d", engCfg.PuzzleSeed)
	}

	world, err := loadWorld(cfg, engCfg.PuzzleSeed)
	if err != nil {
		return err
	}
	if cfg.mapPath != "" {
		logger.Log.WithField("path", cfg.mapPath).Info("Loaded map file")
	} else {
		logger.Log.Info("Loaded built-in building map")
	}

	svc := relay.NewService(world)
	srv := server.New(svc, cfg.bind, cfg.port, cfg.publicURL)

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.bots > 0 {
		go runBots(ctx, cfg, engCfg)
	}

	select {
	case err := <-errCh:
		return err
	case <-stop:
		logger.Log.Info("Shutting down...")
	}

	logger.Log.Info("Done.")
	return nil
}

// loadWorld грузит карту из файла или встроенное здание.
func loadWorld(cfg *config, puzzleSeed int64) (*gamemap.Map, error) {
	if cfg.mapPath != "" {
		return gamemap.LoadFile(cfg.mapPath, gamemap.NewPuzzleAllocator(puzzleSeed))
	}
	return gamemap.LoadBuilding(puzzleSeed)
}

// runBots запускает headless-агентов в комнату по умолчанию. Каждый
// получает собственную копию карты и случайный маршрут: дешевый способ
// прогнать relay под живой нагрузкой.
func runBots(ctx context.Context, cfg *config, engCfg engine.Config) {
	wsURL := fmt.Sprintf("ws://127.0.0.1:%d/ws", cfg.port)

	// Сервер мог еще не начать слушать.
	time.Sleep(200 * time.Millisecond)

	for i := 0; i < cfg.bots; i++ {
		world, err := loadWorld(cfg, engCfg.PuzzleSeed)
		if err != nil {
			logger.Log.WithError(err).Error("bot world load failed")
			return
		}

		bot := agent.New(world, engCfg, agent.Options{
			ServerURL: wsURL,
			Room:      relay.DefaultRoom,
			StepDelay: 300 * time.Millisecond,
		})

		script := randomWalk(engCfg.PuzzleSeed+int64(i), 128)
		go func() {
			if err := bot.Run(ctx, script); err != nil && ctx.Err() == nil {
				logger.Log.WithError(err).Warn("bot stopped")
			}
		}()
	}
}

// randomWalk — маршрут из единичных шагов в четырех направлениях.
func randomWalk(seed int64, length int) []agent.Step {
	rng := rand.New(rand.NewSource(seed))
	dirs := []agent.Step{{Dx: 1}, {Dx: -1}, {Dy: 1}, {Dy: -1}}

	steps := make([]agent.Step, length)
	for i := range steps {
		steps[i] = dirs[rng.Intn(len(dirs))]
	}
	return steps
}
