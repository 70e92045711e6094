// talon-live runs talon against a remote play service's streaming event
// feed instead of the UCI protocol, playing any number of games
// concurrently.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seekerror/logw"

	"github.com/talonchess/talon/pkg/engine"
	"github.com/talonchess/talon/pkg/engine/config"
	"github.com/talonchess/talon/pkg/eval/nn"
	"github.com/talonchess/talon/pkg/playclient"
)

var configPath = flag.String("config", "talon.toml", "Path to talon.toml")

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: talon-live [options]

talon-live plays talon against a remote play service's event feed.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logw.Exitf(ctx, "Invalid config %q: %v", *configPath, err)
	}
	if cfg.PlayService.URL == "" {
		logw.Exitf(ctx, "play_service.url must be set in %v", *configPath)
	}

	var token string
	if cfg.PlayService.TokenFile != "" {
		token, err = playclient.Token(cfg.PlayService.TokenFile)
		if err != nil {
			logw.Exitf(ctx, "Cannot read play-service token: %v", err)
		}
	}

	client, err := playclient.New(ctx, cfg.PlayService.URL, token)
	if err != nil {
		logw.Exitf(ctx, "Cannot connect to play service: %v", err)
	}

	newEngine := func(ctx context.Context, gameID string) *engine.Engine {
		var opts []engine.Option
		opts = append(opts, engine.WithOptions(engine.Options{
			Hash:     cfg.Engine.HashMiB,
			Noise:    cfg.Engine.NoiseMcp,
			Contempt: cfg.Engine.Contempt,
		}))
		if cfg.Engine.NNWeights != "" {
			if ev, err := nn.LoadFromFile(cfg.Engine.NNWeights); err != nil {
				logw.Warningf(ctx, "game %v: NN weights unavailable, using tapered eval: %v", gameID, err)
			} else {
				opts = append(opts, engine.WithEvaluator(ev))
			}
		}
		return engine.New(ctx, "talon", "talonchess", opts...)
	}

	pool := playclient.NewPool(client, newEngine, cfg.PlayService.MaxConcurrency)

	events := make(chan playclient.Event, 64)
	unsubscribe := client.Lobby(events)
	defer unsubscribe()

	logw.Infof(ctx, "talon-live connected to %v, max concurrency %v", cfg.PlayService.URL, cfg.PlayService.MaxConcurrency)

	for ev := range events {
		if ev.Type != playclient.EventGameStarted {
			continue
		}
		go pool.Play(ctx, ev)
	}
}
