// talon is a standalone UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/seekerror/logw"

	"github.com/talonchess/talon/internal/testsuite"
	"github.com/talonchess/talon/pkg/engine"
	"github.com/talonchess/talon/pkg/engine/config"
	"github.com/talonchess/talon/pkg/engine/uci"
	"github.com/talonchess/talon/pkg/eval/nn"
)

var (
	configPath    = flag.String("config", "", "Path to talon.toml (defaults built in if omitted)")
	bookPath      = flag.String("book", "", "Path to a YAML opening book, overrides config")
	suitePath     = flag.String("suite", "", "Path to a YAML test suite to run instead of speaking UCI")
	suiteMovetime = flag.Duration("suite_movetime", time.Second, "Per-position search budget when running -suite")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: talon [options]

talon is a UCI chess engine.
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

	if *suitePath != "" {
		runSuite(ctx, *suitePath, *suiteMovetime)
		return
	}

	var opts []engine.Option
	opts = append(opts, engine.WithOptions(engine.Options{
		Hash:     cfg.Engine.HashMiB,
		Noise:    cfg.Engine.NoiseMcp,
		Contempt: cfg.Engine.Contempt,
	}))

	if cfg.Engine.NNWeights != "" {
		ev, err := nn.LoadFromFile(cfg.Engine.NNWeights)
		if err != nil {
			// A missing or malformed network is recoverable: fall back to
			// the hand-crafted tapered evaluator rather than refuse to
			// start.
			logw.Warningf(ctx, "NN weights %v unavailable, using tapered eval: %v", cfg.Engine.NNWeights, err)
		} else {
			opts = append(opts, engine.WithEvaluator(ev))
		}
	}

	e := engine.New(ctx, "talon", "talonchess", opts...)

	var uciOpts []uci.Option
	path := *bookPath
	if path == "" {
		path = cfg.Engine.BookPath
	}
	if path != "" {
		book, err := loadBook(path)
		if err != nil {
			logw.Warningf(ctx, "Book %v unavailable: %v", path, err)
		} else {
			uciOpts = append(uciOpts, uci.UseBook(book, 1))
		}
	}

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in, uciOpts...)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}

func loadBook(path string) (engine.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return engine.NewBookFromYAML(data)
}

func runSuite(ctx context.Context, path string, movetime time.Duration) {
	s, err := testsuite.LoadSuite(path)
	if err != nil {
		logw.Exitf(ctx, "Cannot load suite %v: %v", path, err)
	}

	sum, err := testsuite.Run(ctx, s, movetime)
	if err != nil {
		logw.Exitf(ctx, "Suite run failed: %v", err)
	}

	for _, r := range sum.Results {
		fmt.Printf("%-20v %-8v %-8v %v\n", r.Case.ID, r.Actual, r.Verdict, r.Score)
	}
	fmt.Printf("\n%v passed, %v failed, of %v\n", sum.Passed, sum.Failed, len(sum.Results))
	if failed := sum.FailedIDs(); len(failed) > 0 {
		fmt.Printf("failed: %v\n", failed)
	}
}
