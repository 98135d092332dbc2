// Command wordle-entropy precomputes the hint of every guess against every
// solution and ranks guesses by how much information they are expected to
// reveal about the solution.
//
//	wordle-entropy build
//	wordle-entropy rank --top 20
//	wordle-entropy rank --candidates erase,label,abbey
//	wordle-entropy pattern speed erase
//	wordle-entropy inspect roate
//	wordle-entropy search --guess crane gyb.b
//	wordle-entropy serve --addr :8080
//
// Word lists, the table file and worker counts come from a TOML config file
// (see package config); flags override it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/bent101/go-wordle-entropy/api"
	"github.com/bent101/go-wordle-entropy/entropy"
	"github.com/bent101/go-wordle-entropy/hint"
	"github.com/bent101/go-wordle-entropy/internal/config"
	"github.com/bent101/go-wordle-entropy/internal/logger"
	"github.com/bent101/go-wordle-entropy/table"
	"github.com/bent101/go-wordle-entropy/vocab"
	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

type app struct {
	cfg *config.Config
	log *log.Logger

	logOut io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	configPath := "wordle-entropy.toml"
	debug := false

	cmd := &cli.Command{
		Name:  "wordle-entropy",
		Usage: "precompute word game hints and rank guesses by entropy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Value:       configPath,
				Usage:       "TOML config file (defaults are used if it does not exist)",
				Destination: &configPath,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Aliases:     []string{"d"},
				Usage:       "debug logging",
				Destination: &debug,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, a.setup(configPath, debug)
		},
		Commands: []*cli.Command{
			a.buildCommand(),
			a.rankCommand(),
			a.patternCommand(),
			a.inspectCommand(),
			a.searchCommand(),
			a.serveCommand(),
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads the config and applies its log level before anything is logged.
func (a *app) setup(configPath string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.Log.Level, debug); err != nil {
		return err
	}
	a.cfg = cfg
	out := a.logOut
	if out == nil {
		out = os.Stderr
	}
	a.log = logger.NewTo(out, "wordle-entropy")

	if cfg.Path() == "" {
		a.log.Debug("no config file, using built-in defaults", "path", configPath)
	} else {
		a.log.Debug("loaded config", "path", cfg.Path())
	}
	return nil
}

func (a *app) buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "compute the hint table and save it",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			guesses, solutions, err := a.loadWords()
			if err != nil {
				return err
			}
			t, err := a.build(ctx, guesses, solutions)
			if err != nil {
				return err
			}
			return t.SaveFile(a.cfg.Table.Path)
		},
	}
}

func (a *app) rankCommand() *cli.Command {
	top := 0
	return &cli.Command{
		Name:  "rank",
		Usage: "rank every allowed guess by entropy over the candidate solutions",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "candidates",
				Usage: "candidate solutions (default: every solution)",
			},
			&cli.StringFlag{
				Name:  "candidates-file",
				Usage: "file with one candidate solution per line",
			},
			&cli.IntFlag{
				Name:        "top",
				Aliases:     []string{"n"},
				Usage:       "number of guesses to print (0 for all, default from config)",
				Value:       -1,
				Destination: &top,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			t, err := a.loadTable(ctx)
			if err != nil {
				return err
			}
			ranker := entropy.New(t, entropy.WithWorkers(a.cfg.Rank.Workers))

			words := cmd.StringSlice("candidates")
			if path := cmd.String("candidates-file"); path != "" {
				v, err := vocab.LoadFile(path)
				if err != nil {
					return err
				}
				words = append(words, v.Words()...)
			}
			candidates := vocab.Full(t.Solutions())
			if len(words) > 0 {
				if candidates, err = vocab.NewSubset(t.Solutions(), words...); err != nil {
					return err
				}
			}

			start := time.Now()
			ranked, err := ranker.RankAll(ctx, t.Guesses().Words(), candidates)
			if err != nil {
				return err
			}
			a.log.Info("ranked guesses", "guesses", len(ranked), "candidates", candidates.Len(), "took", time.Since(start))

			if top < 0 {
				top = a.cfg.Rank.Top
			}
			if top > 0 && top < len(ranked) {
				ranked = ranked[:top]
			}
			for i, rk := range ranked {
				remaining, err := ranker.ExpectedRemaining(rk.Word, candidates)
				if err != nil {
					return err
				}
				fmt.Printf("%4d  %s  %.4f bits  %.2f left\n", i+1, rk.Word, rk.Score, remaining)
			}
			return nil
		},
	}
}

func (a *app) patternCommand() *cli.Command {
	return &cli.Command{
		Name:      "pattern",
		Usage:     "show the hint for one guess against one solution",
		ArgsUsage: "GUESS SOLUTION",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return errors.New("pattern needs GUESS and SOLUTION")
			}
			guess, solution := cmd.Args().Get(0), cmd.Args().Get(1)
			h, err := hint.Compute(guess, solution)
			if err != nil {
				return err
			}
			fmt.Println(h.Colored(guess), h.Pattern(len(guess)), h)
			return nil
		},
	}
}

func (a *app) inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "show how a guess splits every solution by hint",
		ArgsUsage: "GUESS",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("inspect needs GUESS")
			}
			guess := cmd.Args().First()
			t, err := a.loadTable(ctx)
			if err != nil {
				return err
			}
			counts, err := t.Histogram(guess)
			if err != nil {
				return err
			}

			type hintCount struct {
				hint  hint.Hint
				count int
			}
			hintCounts := make([]hintCount, 0, len(counts))
			for h, c := range counts {
				hintCounts = append(hintCounts, hintCount{h, c})
			}
			sort.Slice(hintCounts, func(i, j int) bool {
				if hintCounts[i].count != hintCounts[j].count {
					return hintCounts[i].count > hintCounts[j].count
				}
				return hintCounts[i].hint < hintCounts[j].hint
			})

			buckets := make([]int, len(hintCounts))
			for i, hc := range hintCounts {
				fmt.Println(hc.hint.Colored(guess), hc.count)
				buckets[i] = hc.count
			}
			score := entropy.Shannon(buckets, t.Solutions().Len())
			fmt.Printf("%d hints, %.4f bits\n", len(hintCounts), score)
			return nil
		},
	}
}

func (a *app) searchCommand() *cli.Command {
	limit := 0
	return &cli.Command{
		Name:      "search",
		Usage:     "list the pairs that produce a hint (g/y/b letters or 0/1/2 digits)",
		ArgsUsage: "PATTERN",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "guess",
				Usage: "only pairs with this guess",
			},
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "stop after this many pairs (0 for all)",
				Value:       50,
				Destination: &limit,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("search needs PATTERN")
			}
			p, err := hint.ParsePattern(cmd.Args().First())
			if err != nil {
				return err
			}
			h, err := hint.Encode(p)
			if err != nil {
				return err
			}
			t, err := a.loadTable(ctx)
			if err != nil {
				return err
			}
			if len(p) != t.Length() {
				return fmt.Errorf("pattern has %d letters, table has %d: %w", len(p), t.Length(), hint.ErrInvalidLength)
			}

			guess := cmd.String("guess")
			shown := 0
			for _, pair := range t.Search(h) {
				if guess != "" && pair.Guess != guess {
					continue
				}
				fmt.Println(table.Key(pair.Guess, pair.Solution))
				shown++
				if limit > 0 && shown >= limit {
					break
				}
			}
			return nil
		},
	}
}

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve hint lookups and rankings over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address (default from config)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			t, err := a.loadTable(ctx)
			if err != nil {
				return err
			}
			addr := cmd.String("addr")
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			srv := &http.Server{
				Addr:    addr,
				Handler: api.NewServer(t, entropy.New(t, entropy.WithWorkers(a.cfg.Rank.Workers))).Handler(),
			}
			go func() {
				<-ctx.Done()
				a.shutdown(srv, 5*time.Second)
			}()

			a.log.Info("listening", "addr", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

// shutdown stops srv, giving in-flight requests up to timeout to finish.
func (a *app) shutdown(srv *http.Server, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.log.Error("could not shut down cleanly", "err", err)
		return
	}
	a.log.Info("server stopped")
}

func (a *app) loadWords() (guesses, solutions *vocab.Vocabulary, err error) {
	if guesses, err = vocab.LoadFile(a.cfg.Words.Guesses); err != nil {
		return nil, nil, err
	}
	if solutions, err = vocab.LoadFile(a.cfg.Words.Solutions); err != nil {
		return nil, nil, err
	}
	a.log.Debug("loaded words", "guesses", guesses.Len(), "solutions", solutions.Len())
	return guesses, solutions, nil
}

// loadTable reads the table from disk if possible, otherwise builds it from
// the word lists and tries to save it for next time.
func (a *app) loadTable(ctx context.Context) (*table.Table, error) {
	t, err := table.LoadFile(a.cfg.Table.Path)
	if err == nil {
		return t, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		a.log.Info("table not found, will calculate from scratch", "path", a.cfg.Table.Path)
	} else {
		a.log.Warn("could not load table, will recalculate", "err", err)
	}

	guesses, solutions, err := a.loadWords()
	if err != nil {
		return nil, err
	}
	t, err = a.build(ctx, guesses, solutions)
	if err != nil {
		return nil, err
	}
	if err := t.SaveFile(a.cfg.Table.Path); err != nil {
		a.log.Error("could not save table", "err", err)
	}
	return t, nil
}

func (a *app) build(ctx context.Context, guesses, solutions *vocab.Vocabulary) (*table.Table, error) {
	a.log.Info("calculating hints for all guess-solution pairs", "pairs", guesses.Len()*solutions.Len())
	bar := progressbar.Default(int64(guesses.Len()), "hints")
	defer bar.Finish()

	return table.Build(ctx, guesses, solutions,
		table.WithWorkers(a.cfg.Table.Workers),
		table.WithProgress(func() { bar.Add(1) }),
	)
}
