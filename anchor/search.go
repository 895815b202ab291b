package anchor

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Search looks the target up in every supported file under opts.Path.
// Results follow the scan order; files without matches are omitted. A file
// that cannot be read or parsed is reported through FileMatches.Err and does
// not stop the search.
func (f *Finder) Search(ctx context.Context, opts SearchOptions) ([]FileMatches, error) {
	if _, err := opts.Target.Kind(); err != nil {
		return nil, err
	}
	if opts.Path == "" {
		opts.Path = "."
	}
	if opts.Jobs == 0 {
		opts.Jobs = runtime.NumCPU()
	}

	sc, err := newScanner(scannerConfig{
		root:      opts.Path,
		languages: f.languages,
		include:   opts.Include,
		exclude:   opts.Exclude,
		gitignore: !opts.NoGitignore,
		maxBytes:  opts.MaxBytes,
	})
	if err != nil {
		return nil, err
	}
	files, err := sc.collect()
	if err != nil {
		return nil, err
	}
	f.logger.Debug("scanned files", slog.String("path", opts.Path), slog.Int("files", len(files)))

	if opts.Progress != nil {
		opts.Progress.OnSearchStart(len(files))
	}
	if len(files) == 0 {
		return []FileMatches{}, nil
	}

	rows, err := runWorkers(ctx, files, opts.Jobs, func(job FileJob) FileMatches {
		row := FileMatches{File: job.DisplayPath}
		if lang := f.LanguageFor(job.AbsPath); lang != nil {
			row.Language = lang.Name()
		}
		row.Matches, row.Err = f.Fetch(opts.Target, job.AbsPath)
		if row.Err != nil {
			row.Error = row.Err.Error()
			f.logger.Debug("file skipped", slog.String("file", job.DisplayPath), slog.String("error", row.Error))
		}
		if opts.Progress != nil {
			opts.Progress.OnFileSearched(job.DisplayPath)
		}
		return row
	})
	if err != nil {
		return nil, err
	}

	results := []FileMatches{}
	for _, row := range rows {
		if row.Err == nil && len(row.Matches) == 0 {
			continue
		}
		results = append(results, row)
	}
	return results, nil
}

// runWorkers processes files on a bounded pool and returns one result per
// file, in the order of files. It stops early only when ctx is done.
func runWorkers[T any](
	ctx context.Context, files []FileJob, jobs int, process func(FileJob) T,
) ([]T, error) {
	workerCount := jobs
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(files) {
		workerCount = len(files)
	}

	results := make([]T, len(files))
	if len(files) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)
	for i, job := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = process(job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
