package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordrank/internal/logger"
	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/config"
	"github.com/bastiangx/wordrank/pkg/dictionary"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"
)

// ErrWordrank is the root error for command failures.
var ErrWordrank = errors.New(AppName)

// ErrFlag is returned when flag values cannot be used.
var ErrFlag = fmt.Errorf("%w: invalid flag", ErrWordrank)

// appState carries state shared by every command once flags are parsed.
type appState struct {
	cfg        *config.Config
	configPath string
}

var dictFlag = &cli.StringFlag{
	Name:    "dict",
	Aliases: []string{"d"},
	Usage:   "load dictionary from `FILE` (.txt, .dz or .bin)",
	Value:   "words.txt",
}

var variantFlag = &cli.StringFlag{
	Name:    "variant",
	Aliases: []string{"v"},
	Usage:   "index `VARIANT`: linear, binary, trie or patricia (default from config)",
}

func newApp() *cli.App {
	rt := &appState{}
	return &cli.App{
		Name:                 AppName,
		Usage:                "Weighted prefix completion.",
		Version:              Version,
		HideVersion:          true,
		EnableBashCompletion: true,
		Writer:               os.Stdout,
		ErrWriter:            os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read settings from `FILE` instead of the default config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log at debug level to stderr",
			},
		},
		Before: rt.setup,
		Commands: []*cli.Command{
			serveCommand(rt),
			replCommand(rt),
			queryCommand(rt),
			benchCommand(rt),
			convertCommand(),
			configCommand(rt),
			versionCommand(),
		},
	}
}

// setup configures logging and loads the config before any command runs.
func (rt *appState) setup(c *cli.Context) error {
	logger.Setup(c.Bool("debug"))

	cfg, path, err := config.LoadConfigWithPriority(c.String("config"))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", config.GetActiveConfigPath(path), err)
	}
	rt.cfg = cfg
	rt.configPath = path
	log.Debugf("Using config: %s", config.GetActiveConfigPath(path))
	return nil
}

// loadDictionary resolves and reads the --dict file.
func (rt *appState) loadDictionary(c *cli.Context) (*dictionary.Dictionary, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return nil, fmt.Errorf("%w: resolving paths: %w", ErrWordrank, err)
	}
	path, err := pr.GetDictPath(c.String("dict"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dictionary.ErrDictionary, err)
	}
	return dictionary.Load(path, dictionary.Options{Lowercase: rt.cfg.Engine.Lowercase})
}

// variant returns the --variant flag, falling back to the config.
func (rt *appState) variant(c *cli.Context) (suggest.Kind, error) {
	name := rt.cfg.Engine.Variant
	if c.IsSet("variant") {
		name = c.String("variant")
	}
	kind, err := suggest.ParseKind(name)
	if err != nil {
		return 0, fmt.Errorf("%w: --variant: %w", ErrFlag, err)
	}
	return kind, nil
}

// loadCompleter builds the configured index over the --dict file, wrapped
// in a result cache when engine.cache_size is set.
func (rt *appState) loadCompleter(c *cli.Context) (suggest.Autocompletor, error) {
	kind, err := rt.variant(c)
	if err != nil {
		return nil, err
	}
	d, err := rt.loadDictionary(c)
	if err != nil {
		return nil, err
	}
	ac, err := suggest.New(kind, d.Terms, d.Weights)
	if err != nil {
		return nil, err
	}
	log.Debugf("Built %s index over %d entries", kind, d.Len())
	return suggest.NewCache(ac, rt.cfg.Engine.CacheSize), nil
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "rewrite a dictionary in the format matching OUTPUT's extension",
		ArgsUsage: "OUTPUT",
		Flags: []cli.Flag{
			dictFlag,
			&cli.BoolFlag{
				Name:  "lowercase",
				Usage: "fold words to lower case, merging entries that collide",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("%w: expected one OUTPUT argument, got %d", ErrFlag, c.NArg())
			}
			d, err := dictionary.Load(c.String("dict"), dictionary.Options{Lowercase: c.Bool("lowercase")})
			if err != nil {
				return err
			}
			if err := d.Validate(); err != nil {
				return err
			}
			out := c.Args().First()
			if err := dictionary.Save(out, d); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "wrote %s entries to %s\n", utils.FormatWithCommas(int64(d.Len())), filepath.Clean(out))
			return nil
		},
	}
}

func configCommand(rt *appState) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "show where settings come from, or reset the default config file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "overwrite the default config.toml with built-in defaults",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("reset") {
				if err := config.RebuildConfigFile(); err != nil {
					return err
				}
				path, err := config.GetDefaultConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "reset %s\n", path)
				return nil
			}
			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "config: %s\n", config.GetActiveConfigPath(rt.configPath))
			fmt.Fprintf(c.App.Writer, "config dir: %s\n", dir)
			fmt.Fprintf(c.App.Writer, "variant: %s\n", rt.cfg.Engine.Variant)
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print version information",
		Action: func(c *cli.Context) error {
			printVersion(c.App.ErrWriter)
			return nil
		},
	}
}

// printVersion writes the styled version banner.
func printVersion(w io.Writer) {
	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ wordrank ] weighted prefix completion")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use --help to see available commands")
	logger.Print("Github Repo", "gh", gh)
}
