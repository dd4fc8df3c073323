package chunker

import (
	"fmt"
	"log/slog"

	"github.com/dgallion1/docchunk/internal/document"
	"golang.org/x/sync/errgroup"
)

// splitPages runs split over every page and returns the pieces indexed by
// page position, so numbering can be done in a single ordered pass
// regardless of how many workers ran.
func (e *Engine) splitPages(pages []document.PageEntry, split splitFunc, log *slog.Logger) ([][]string, error) {
	pieces := make([][]string, len(pages))

	if e.workers <= 1 || len(pages) == 1 {
		for i, page := range pages {
			out, err := safeSplit(split, page.Text)
			if err != nil {
				log.Error("split failed", "page", page.Page, "error", err)
				return nil, err
			}
			pieces[i] = out
		}
		return pieces, nil
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, page := range pages {
		g.Go(func() error {
			out, err := safeSplit(split, page.Text)
			if err != nil {
				log.Error("split failed", "page", page.Page, "error", err)
				return err
			}
			pieces[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pieces, nil
}

// safeSplit turns a panic inside a splitter into ErrSplitFailure.
func safeSplit(split splitFunc, text string) (out []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", ErrSplitFailure, r)
		}
	}()
	return split(text), nil
}
