package main

import (
	"context"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/ragask/internal/models"
	"github.com/xhad/ragask/internal/types"
	"github.com/xhad/ragask/pkg/render"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.Sampling = nil

	return config.Build()
}

func getSpinner(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

// pollView reports submit and progress events while a query is being polled.
type pollView struct {
	printer *render.Printer
	out     io.Writer
	spinner bool

	bar *progressbar.ProgressBar
}

func (v *pollView) submitted(queryID string) {
	v.printer.Submitted(queryID)
	if v.spinner {
		v.bar = getSpinner(v.out, "Waiting for query "+queryID+"...")
	}
}

func (v *pollView) progress(res *models.QueryResult) {
	if v.bar == nil {
		v.printer.Progress(res.Progress)
		return
	}

	progress := res.Progress
	if progress == "" {
		progress = "Processing"
	}
	v.bar.Describe(color.CyanString("Status: %s", progress))
	v.bar.Add(1)
}

func (v *pollView) done() {
	if v.bar != nil {
		v.bar.Finish()
		v.bar = nil
	}
}

// run drives one invocation: health check, question, stats, recent queries.
// It returns the process exit code.
func run(ctx context.Context, opts Options, maxWait time.Duration, svc types.RAGService, printer *render.Printer, view *pollView) int {
	code := 0

	if !opts.SkipHealth {
		_, err := svc.Health(ctx)
		printer.Health(err == nil)
	}

	if opts.Question != "" {
		printer.Header(opts.Question)

		var res *models.QueryResult
		var err error
		if opts.Direct {
			res, err = svc.Query(ctx, opts.Question)
		} else {
			res, err = svc.Ask(ctx, opts.Question, maxWait)
			view.done()
		}

		switch {
		case err != nil:
			printer.Error(err)
			code = 1
		case res.Status == models.StatusCompleted || res.Answer != "":
			printer.Result(res)
		default:
			// The direct endpoint may hand back a query that is still running.
			printer.Submitted(res.ID)
			printer.Progress(string(res.Status))
		}
	}

	if opts.Stats {
		stats, err := svc.Stats(ctx)
		if err != nil {
			printer.Error(err)
			code = 1
		} else {
			printer.Stats(stats)
		}
	}

	if opts.Recent > 0 {
		queries, err := svc.RecentQueries(ctx, opts.Recent)
		if err != nil {
			printer.Error(err)
			code = 1
		} else {
			printer.RecentQueries(queries)
		}
	}

	return code
}
