package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/codeanchor/anchor"
)

func queriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "queries",
		Usage: "show the query templates used for lookups",
		Description: "Print the built-in tree-sitter query templates, grouped by language and kind.\n" +
			"{receiver} and {function} are replaced with the parts of the reference.\n\n" +
			"Examples:\n" +
			"  codeanchor queries                          # every template\n" +
			"  codeanchor queries --language go            # Go only\n" +
			"  codeanchor queries --kind methods | grep -B2 pointer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "language",
				Usage: "only this language",
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "only this kind: functions, methods or types",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			var names []string
			if l := cmd.String("language"); l != "" {
				names = []string{l}
			}
			languages, err := anchor.LanguagesByName(names)
			if err != nil {
				return err
			}
			fmt.Print(formatTemplates(languages, cmd.String("kind")))
			return nil
		},
	}
}

func formatTemplates(languages []*anchor.Language, kind string) string {
	var sb strings.Builder
	for _, l := range languages {
		for _, k := range l.Kinds() {
			if kind != "" && k.String() != kind {
				continue
			}
			for i, tmpl := range l.Templates(k) {
				fmt.Fprintf(&sb, "# %s %s %d\n", l.Name(), k, i+1)
				sb.WriteString(strings.TrimRight(tmpl, "\n"))
				sb.WriteString("\n\n")
			}
		}
	}
	return sb.String()
}
