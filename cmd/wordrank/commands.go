package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/bastiangx/wordrank/internal/cli"
	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/bench"
	"github.com/bastiangx/wordrank/pkg/server"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/charmbracelet/log"
	urfave "github.com/urfave/cli/v2"
)

func serveCommand(rt *appState) *urfave.Command {
	return &urfave.Command{
		Name:  "serve",
		Usage: "answer msgpack requests on stdin/stdout",
		Flags: []urfave.Flag{dictFlag, variantFlag},
		Action: func(c *urfave.Context) error {
			ac, err := rt.loadCompleter(c)
			if err != nil {
				return err
			}
			srv := server.NewServer(ac, rt.cfg.Server, os.Stdin, os.Stdout)
			showStartupInfo(c.String("dict"))

			errc := make(chan error, 1)
			go func() { errc <- srv.Start(c.Context) }()
			select {
			case err := <-errc:
				return err
			case <-c.Context.Done():
				log.Debug("Server interrupted")
				return nil
			}
		},
	}
}

// showStartupInfo logs basic info about the server process.
func showStartupInfo(dict string) {
	log.Debugf("Version: %s", Version)
	log.Debugf("Process ID: [ %d ]", os.Getpid())
	log.Debugf("dictionary: ( %s )", dict)
	log.Debug("status: ready")
}

func replCommand(rt *appState) *urfave.Command {
	return &urfave.Command{
		Name:  "repl",
		Usage: "type prefixes and see ranked completions",
		Flags: []urfave.Flag{
			dictFlag,
			variantFlag,
			&urfave.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "show at most `N` completions (default from config)",
			},
			&urfave.BoolFlag{
				Name:  "no-filter",
				Usage: "complete prefixes made of digits or symbols too",
			},
		},
		Action: func(c *urfave.Context) error {
			ac, err := rt.loadCompleter(c)
			if err != nil {
				return err
			}
			limit := rt.cfg.CLI.DefaultLimit
			if c.IsSet("limit") {
				limit = c.Int("limit")
			}
			noFilter := rt.cfg.CLI.DefaultNoFilter || c.Bool("no-filter")
			log.Debug("Input info:",
				"minPrefix", rt.cfg.Server.MinPrefix,
				"maxPrefix", rt.cfg.Server.MaxPrefix,
				"limit", limit,
				"noFilter", noFilter)

			h := cli.NewInputHandler(ac, rt.cfg.Server.MinPrefix, rt.cfg.Server.MaxPrefix, limit, noFilter, os.Stdin, c.App.Writer)
			errc := make(chan error, 1)
			go func() { errc <- h.Start(c.Context) }()
			select {
			case err := <-errc:
				return err
			case <-c.Context.Done():
				return nil
			}
		},
	}
}

func queryCommand(rt *appState) *urfave.Command {
	return &urfave.Command{
		Name:      "query",
		Usage:     "print the top completions of each PREFIX",
		ArgsUsage: "PREFIX...",
		Flags: []urfave.Flag{
			dictFlag,
			variantFlag,
			&urfave.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "print at most `N` completions per prefix (default from config)",
			},
			&urfave.BoolFlag{
				Name:  "top",
				Usage: "print only the best completion",
			},
		},
		Action: func(c *urfave.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("%w: expected at least one PREFIX", ErrFlag)
			}
			limit := rt.cfg.CLI.DefaultLimit
			if c.IsSet("limit") {
				limit = c.Int("limit")
			}
			ac, err := rt.loadCompleter(c)
			if err != nil {
				return err
			}

			w := c.App.Writer
			for _, prefix := range c.Args().Slice() {
				if err := c.Context.Err(); err != nil {
					return err
				}
				if c.Bool("top") {
					fmt.Fprintf(w, "%s\t%s\n", prefix, ac.TopMatch(prefix))
					continue
				}
				words, err := ac.TopMatches(prefix, limit)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s:\n", prefix)
				for i, word := range words {
					fmt.Fprintf(w, "%3d. %14s\t%s\n", i+1, utils.FormatWeight(ac.WeightOf(word)), word)
				}
			}
			return nil
		},
	}
}

func benchCommand(rt *appState) *urfave.Command {
	return &urfave.Command{
		Name:  "bench",
		Usage: "time every index variant on the same queries",
		Flags: []urfave.Flag{
			dictFlag,
			&urfave.StringSliceFlag{
				Name:  "variant",
				Usage: "benchmark only `VARIANT` (repeatable)",
			},
			&urfave.Int64Flag{
				Name:  "seed",
				Usage: "seed for picking the sample word (default from config)",
			},
			&urfave.IntFlag{
				Name:  "trials",
				Usage: "run each call at most `N` times (default from config)",
			},
			&urfave.DurationFlag{
				Name:  "time-limit",
				Usage: "stop repeating a call after `DURATION` (default from config)",
			},
			&urfave.IntSliceFlag{
				Name:  "k",
				Usage: "time topMatches with `K` results (repeatable, default from config)",
			},
		},
		Action: func(c *urfave.Context) error {
			b := rt.cfg.Bench
			opts := bench.Options{
				Trials:    b.Trials,
				TimeLimit: b.TimeLimit.Duration,
				Ks:        b.Ks,
			}
			seed := b.Seed
			if c.IsSet("seed") {
				seed = c.Int64("seed")
			}
			opts.Rand = rand.New(rand.NewPCG(uint64(seed), 0))
			if c.IsSet("trials") {
				opts.Trials = c.Int("trials")
			}
			if c.IsSet("time-limit") {
				opts.TimeLimit = c.Duration("time-limit")
			}
			if c.IsSet("k") {
				opts.Ks = c.IntSlice("k")
			}
			for _, name := range c.StringSlice("variant") {
				kind, err := suggest.ParseKind(name)
				if err != nil {
					return fmt.Errorf("%w: --variant: %w", ErrFlag, err)
				}
				opts.Kinds = append(opts.Kinds, kind)
			}

			d, err := rt.loadDictionary(c)
			if err != nil {
				return err
			}
			report, err := bench.Run(c.Context, d, opts)
			if err != nil {
				return err
			}
			report.Render(c.App.Writer)
			return nil
		},
	}
}
