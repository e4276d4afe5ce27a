package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/akmonengine/spin"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const frameRate = 60

func main() {
	configPath := flag.String("config", "", "path to a yaml config file")
	mode := flag.String("mode", "", "rotation mode, overrides the config")
	duration := flag.Duration("duration", 3*time.Second, "length of the scene")
	flag.Parse()

	if err := run(*configPath, *mode, *duration); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, mode string, duration time.Duration) error {
	config := spin.DefaultConfig()
	if configPath != "" {
		var err error
		if config, err = spin.LoadConfigFile(configPath); err != nil {
			return err
		}
	}
	if mode != "" {
		m, err := spin.ParseMode(mode)
		if err != nil {
			return err
		}
		config.Mode = m
	}

	logger, err := spin.NewLogger(config.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	controller, err := spin.NewController(config, spin.WithLogger(logger))
	if err != nil {
		return err
	}
	defer controller.Close()

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return fling(ctx, controller)
	})
	group.Go(func() error {
		return render(ctx, controller, logger)
	})

	if err := group.Wait(); err != nil {
		return err
	}

	snap := controller.Snapshot()
	logger.Info("scene finished",
		zap.Stringer("mode", snap.Mode),
		zap.Any("orientation", snap.Orientation),
		zap.Float64("speed", snap.AngularVelocity.Len()),
	)
	return nil
}

// fling drags a finger a quarter turn across the front of the sphere, then
// lets go
func fling(ctx context.Context, controller *spin.Controller) error {
	const samples = 12

	if err := controller.Begin(mgl64.Vec3{0, 0, 1}); err != nil {
		return err
	}
	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	for i := 1; i <= samples; i++ {
		select {
		case <-ctx.Done():
			return controller.Interrupt()
		case <-ticker.C:
		}

		a := float64(i) / samples * math.Pi / 2
		if err := controller.Change(mgl64.Vec3{math.Sin(a), 0, math.Cos(a)}); err != nil {
			return err
		}
	}

	return controller.End()
}

// render ticks the controller at the frame rate until the scene times out
func render(ctx context.Context, controller *spin.Controller, logger *zap.Logger) error {
	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-ctx.Done():
			return controller.Flush()
		case <-ticker.C:
		}

		if err := controller.Tick(controller.Now()); err != nil {
			return err
		}

		frame++
		if frame%frameRate == 0 {
			snap := controller.Snapshot()
			logger.Info("frame",
				zap.Int("frame", frame),
				zap.Any("presentation", snap.Presentation),
				zap.Any("anchor", snap.AnchorOrientation),
				zap.Float64("speed", snap.AngularVelocity.Len()),
			)
		}
	}
}
