package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/codeanchor/anchor"
	"github.com/arjunmahishi/codeanchor/config"
	"github.com/arjunmahishi/codeanchor/output"
	"github.com/arjunmahishi/codeanchor/snapshot"
)

func main() {
	app := &cli.Command{
		Name:  "codeanchor",
		Usage: "find definitions and doc comments of functions, methods and types",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log lookup details to stderr",
			},
		},
		Commands: []*cli.Command{
			lookupCommand("find", "find definitions with their documentation", func(m anchor.Match) any {
				return m
			}),
			lookupCommand("definition", "print only the definitions", func(m anchor.Match) any {
				return m.Definition
			}),
			lookupCommand("documentation", "print only the documentation comments", func(m anchor.Match) any {
				return m.Documentation
			}),
			linesCommand(),
			languagesCommand(),
			queriesCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		output.WriteError(os.Stderr, err)
		os.Exit(1)
	}
}

func lookupFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "single file to search",
		},
		&cli.StringFlag{
			Name:  "path",
			Value: ".",
			Usage: "root path to scan when --file is not given",
		},
		&cli.StringFlag{
			Name:  "repo",
			Usage: "git URL or local repository to snapshot",
		},
		&cli.StringFlag{
			Name:  "commit",
			Usage: "revision to check out in the snapshot",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "only scan paths matching this glob (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "skip paths matching this glob (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "language",
			Usage: "restrict lookups to this language (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "compact",
			Usage: "minimize output",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "show a progress bar on stderr during directory searches",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "number of parallel workers",
		},
		&cli.Int64Flag{
			Name:  "max-bytes",
			Usage: "skip files larger than this",
		},
	}
}

func lookupCommand(name, usage string, project func(anchor.Match) any) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "REFERENCE (Type, fn() or Type.fn())",
		Flags:     lookupFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runLookup(ctx, cmd, project)
		},
	}
}

func runLookup(ctx context.Context, cmd *cli.Command, project func(anchor.Match) any) error {
	if cmd.Args().Len() != 1 {
		return errors.New("exactly one reference is required")
	}
	target, err := anchor.ParseTarget(cmd.Args().First())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	languages, err := anchor.LanguagesByName(cfg.Languages)
	if err != nil {
		return err
	}
	logger := newLogger(cmd)
	out := output.New(output.Config{Compact: cfg.Compact})

	search := anchor.SearchOptions{
		Target:      target,
		Path:        cmd.String("path"),
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		NoGitignore: !cfg.Gitignore,
		Jobs:        cfg.Jobs,
		MaxBytes:    cfg.MaxBytes,
	}
	if cmd.Bool("progress") {
		search.Progress = newBarReporter(os.Stderr)
	}

	var source anchor.Source
	var repo *snapshot.Repo
	if repoArg := cmd.String("repo"); repoArg != "" {
		repo, err = openRepo(ctx, repoArg)
		if err != nil {
			return err
		}
		defer repo.Close()
		logger.Debug("snapshot ready", slog.String("repo", repo.String()))
		source = repo
		search.Path = repo.Root()
	}

	finder, err := anchor.NewFinder(anchor.FinderOptions{
		Languages: languages,
		Source:    source,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	file := cmd.String("file")
	switch {
	case repo != nil && file != "":
		matches, err := repo.Fetch(ctx, finder, target, cmd.String("commit"), file)
		if err != nil {
			return err
		}
		return out.Write(projectMatches(matches, project))
	case repo != nil:
		var rows []anchor.FileMatches
		err := repo.At(ctx, cmd.String("commit"), func() error {
			var err error
			rows, err = finder.Search(ctx, search)
			return err
		})
		if err != nil {
			return err
		}
		return out.Write(projectRows(rows, project))
	case file != "":
		matches, err := finder.Fetch(target, file)
		if err != nil {
			return err
		}
		return out.Write(projectMatches(matches, project))
	default:
		rows, err := finder.Search(ctx, search)
		if err != nil {
			return err
		}
		return out.Write(projectRows(rows, project))
	}
}

type fileResult struct {
	File     string `json:"file"`
	Language string `json:"language,omitempty"`
	Results  []any  `json:"results,omitempty"`
	Error    string `json:"error,omitempty"`
}

func projectMatches(matches []anchor.Match, project func(anchor.Match) any) []any {
	out := make([]any, 0, len(matches))
	for _, m := range matches {
		out = append(out, project(m))
	}
	return out
}

func projectRows(rows []anchor.FileMatches, project func(anchor.Match) any) []fileResult {
	out := make([]fileResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, fileResult{
			File:     r.File,
			Language: r.Language,
			Results:  projectMatches(r.Matches, project),
			Error:    r.Error,
		})
	}
	return out
}

func openRepo(ctx context.Context, arg string) (*snapshot.Repo, error) {
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return snapshot.FromLocal(ctx, arg)
	}
	return snapshot.Clone(ctx, arg)
}

// loadConfig layers explicitly set flags over the config file and env.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("jobs") {
		cfg.Jobs = cmd.Int("jobs")
	}
	if cmd.IsSet("max-bytes") {
		cfg.MaxBytes = cmd.Int64("max-bytes")
	}
	if cmd.IsSet("include") {
		cfg.Include = cmd.StringSlice("include")
	}
	if cmd.IsSet("exclude") {
		cfg.Exclude = cmd.StringSlice("exclude")
	}
	if cmd.IsSet("language") {
		cfg.Languages = cmd.StringSlice("language")
	}
	if cmd.IsSet("compact") {
		cfg.Compact = cmd.Bool("compact")
	}
	return cfg, config.Validate(cfg)
}

func newLogger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func linesCommand() *cli.Command {
	return &cli.Command{
		Name:  "lines",
		Usage: "print a line window of a file at a revision",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "repo",
				Usage:    "git URL or local repository to snapshot (required)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "commit",
				Usage: "revision to check out",
			},
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "repository-relative file (required)",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "start",
				Usage: "first line, 0-based",
			},
			&cli.IntFlag{
				Name:     "end",
				Usage:    "last line, inclusive (required)",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "minimize output",
			},
		},
		Action: runLines,
	}
}

func runLines(ctx context.Context, cmd *cli.Command) error {
	repo, err := openRepo(ctx, cmd.String("repo"))
	if err != nil {
		return err
	}
	defer repo.Close()

	lines, err := repo.ReadLines(ctx, cmd.String("commit"), cmd.String("file"), cmd.Int("start"), cmd.Int("end"))
	if err != nil {
		return err
	}
	return output.New(output.Config{Compact: cmd.Bool("compact")}).Write(lines)
}

type languageInfo struct {
	Name      string         `json:"name"`
	Extension string         `json:"extension"`
	Templates map[string]int `json:"templates"`
}

func languagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "list supported languages and their query templates",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "minimize output",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var infos []languageInfo
			for _, l := range anchor.DefaultLanguages() {
				info := languageInfo{
					Name:      l.Name(),
					Extension: l.Extension(),
					Templates: map[string]int{},
				}
				for _, k := range l.Kinds() {
					info.Templates[k.String()] = len(l.Templates(k))
				}
				infos = append(infos, info)
			}
			return output.New(output.Config{Compact: cmd.Bool("compact")}).Write(infos)
		},
	}
}
