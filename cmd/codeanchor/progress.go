package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// barReporter draws directory search progress on w.
type barReporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newBarReporter(out io.Writer) *barReporter {
	return &barReporter{out: out}
}

func (r *barReporter) OnSearchStart(totalFiles int) {
	r.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("Searching files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(r.out)
		}),
	)
}

func (r *barReporter) OnFileSearched(string) {
	if r.bar != nil {
		_ = r.bar.Add(1)
	}
}
