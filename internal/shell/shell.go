// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

// Package shell runs the interactive recommendation prompt.
//
// Each non-blank line is treated as a user ID. "exit" in any case, or the end
// of input, ends the session.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/filmwise/internal/logging"
	"github.com/tomtom215/filmwise/internal/recommend"
	"github.com/tomtom215/filmwise/internal/report"
)

// DefaultPrompt is used when Options.Prompt is empty.
const DefaultPrompt = "Enter a user ID (or 'exit' to quit): "

// Recommender produces recommendations for a user.
type Recommender interface {
	Recommend(ctx context.Context, user string, n int) ([]recommend.Recommendation, error)
	HasHistory(user string) bool
}

// Options configures a Shell.
type Options struct {
	Prompt string
	Color  bool

	// N is the number of recommendations per request. Zero defers to the
	// recommender's default.
	N int
}

// Shell reads user IDs and prints recommendations.
type Shell struct {
	rec    Recommender
	opts   Options
	out    io.Writer
	styles report.Styles
	logger zerolog.Logger
}

// New creates a shell writing to out.
func New(rec Recommender, opts Options, out io.Writer) *Shell {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	return &Shell{
		rec:    rec,
		opts:   opts,
		out:    out,
		styles: report.NewStyles(out, opts.Color),
		logger: logging.WithComponent("shell"),
	}
}

// Run reads lines from in until "exit", end of input or ctx is done.
// It returns nil on a normal exit and ctx.Err() on cancellation.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprint(s.out, s.opts.Prompt); err != nil {
			return fmt.Errorf("write prompt: %w", err)
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(s.out)
			return nil
		}

		user := strings.TrimSpace(scanner.Text())
		if user == "" {
			continue
		}
		if strings.EqualFold(user, "exit") {
			return nil
		}

		if err := s.handle(ctx, user); err != nil {
			return err
		}
	}
}

func (s *Shell) handle(ctx context.Context, user string) error {
	ctx = logging.ContextWithNewRequestID(ctx)

	recs, err := s.rec.Recommend(ctx, user, s.opts.N)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Error().Err(err).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Str("user", user).
			Msg("Recommendation failed")
		fmt.Fprintln(s.out, s.styles.Error.Render("Could not compute recommendations: "+err.Error()))
		return nil
	}

	return s.print(user, recs)
}

func (s *Shell) print(user string, recs []recommend.Recommendation) error {
	bw := bufio.NewWriter(s.out)

	var header string
	if s.rec.HasHistory(user) {
		header = fmt.Sprintf("Personalized recommendations for %s:", user)
	} else {
		header = fmt.Sprintf("No ratings found for %s. Popular movies:", user)
	}
	fmt.Fprintln(bw, s.styles.Heading.Render(header))

	if len(recs) == 0 {
		fmt.Fprintln(bw, s.styles.Info.Render("  Nothing left to recommend."))
	}
	for i, r := range recs {
		fmt.Fprintf(bw, "%d. %s — %s\n", i+1, s.styles.Label.Render(r.Movie), s.styles.Value.Render(fmt.Sprintf("%.2f", r.Score)))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write recommendations: %w", err)
	}
	return nil
}
