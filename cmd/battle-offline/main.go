package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/montplusa/connect-four/pkg/ai/players"
	"github.com/montplusa/connect-four/pkg/dataset"
	"github.com/montplusa/connect-four/pkg/sim"
)

// 出力ファイル名は prefix_NNNNN.ext。既存の最大番号の次を使う
func nextOutputPath(dir, prefix, ext string) (string, error) {
	existing, err := filepath.Glob(filepath.Join(dir, prefix+"_*."+ext))
	if err != nil {
		return "", err
	}
	next := 1
	for _, path := range existing {
		num := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), prefix+"_"), "."+ext)
		if len(num) != 5 {
			continue
		}
		if seq, err := strconv.Atoi(num); err == nil && seq >= next {
			next = seq + 1
		}
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%05d.%s", prefix, next, ext)), nil
}

// データセットの書き出し先
func newSink(format string, w io.Writer, width int) (dataset.Writer, error) {
	switch format {
	case "csv":
		return dataset.NewCSVWriter(w, width), nil
	case "jsonl":
		return dataset.NewJSONWriter(w), nil
	}
	return nil, errors.Errorf("unknown format %q", format)
}

func main() {
	def := sim.DefaultConfig()

	// コマンドライン引数の解析
	configPath := flag.String("config", "", "JSON config file (flags override it)")
	outputDir := flag.String("output", "output", "output directory")
	outputPrefix := flag.String("output-prefix", "", "output file prefix")
	format := flag.String("format", "csv", "dataset format: csv or jsonl")
	noOutput := flag.Bool("no-output", false, "do not write a dataset")
	games := flag.Int("games", def.Games, "number of games")
	workers := flag.Int("workers", def.Workers, "number of workers")
	height := flag.Int("height", def.Height, "board height")
	width := flag.Int("width", def.Width, "board width")
	p1 := flag.String("p1", def.Players[0], "player 1 AI ("+strings.Join(players.Names(), ", ")+")")
	p2 := flag.String("p2", def.Players[1], "player 2 AI")
	seed := flag.Int64("seed", 0, "base seed, 0 for clock")
	repeatDraws := flag.Bool("repeat-draws", false, "replay drawn games until someone wins")
	maxRejections := flag.Int("max-rejections", 0, "fail a game after this many invalid moves in a row, 0 for no limit")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("invalid log level: %v", err)
	}
	log.SetLevel(level)

	cfg := def
	if *configPath != "" {
		if cfg, err = sim.LoadConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	// 明示されたフラグだけ設定ファイルを上書きする
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "games":
			cfg.Games = *games
		case "workers":
			cfg.Workers = *workers
		case "height":
			cfg.Height = *height
		case "width":
			cfg.Width = *width
		case "p1":
			cfg.Players[0] = *p1
		case "p2":
			cfg.Players[1] = *p2
		case "seed":
			cfg.Seed = *seed
		case "repeat-draws":
			cfg.RepeatDraws = *repeatDraws
		case "max-rejections":
			cfg.MaxRejections = *maxRejections
		}
	})

	// 出力プレフィックスが指定されていない場合はエラー
	if !*noOutput && *outputPrefix == "" {
		fmt.Fprintln(os.Stderr, "error: --output-prefix is required")
		flag.Usage()
		os.Exit(1)
	}

	var sink dataset.Writer
	var file *os.File
	if !*noOutput {
		// 不正な形式ではファイルを作らない
		if _, err := newSink(*format, io.Discard, cfg.Width); err != nil {
			log.Fatal(err)
		}
		if err := os.MkdirAll(*outputDir, 0755); err != nil {
			log.Fatalf("failed to create output directory: %v", err)
		}
		filename, err := nextOutputPath(*outputDir, *outputPrefix, *format)
		if err != nil {
			log.Fatalf("failed to scan existing files: %v", err)
		}
		if file, err = os.Create(filename); err != nil {
			log.Fatalf("failed to create dataset file: %v", err)
		}
		sink, _ = newSink(*format, file, cfg.Width)
		log.WithField("file", filename).Info("writing dataset")
	}

	log.WithFields(log.Fields{
		"games":   cfg.Games,
		"workers": cfg.Workers,
		"p1":      cfg.Players[0],
		"p2":      cfg.Players[1],
		"size":    fmt.Sprintf("%dx%d", cfg.Height, cfg.Width),
	}).Info("starting simulation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := sim.Run(ctx, cfg, sink, log.StandardLogger())
	if err != nil {
		log.Errorf("simulation stopped: %v", err)
	}
	if summary != nil {
		log.Info(summary.String())
	}
	// os.Exit は defer を実行しないので明示的に閉じる
	if file != nil {
		if cerr := file.Close(); cerr != nil {
			log.Errorf("failed to close dataset file: %v", cerr)
			if err == nil {
				err = cerr
			}
		}
	}
	stop()
	if err != nil {
		os.Exit(1)
	}
}
