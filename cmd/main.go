package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	cfgPkg "github.com/xhad/ragask/pkg/config"
	"github.com/xhad/ragask/pkg/ragclient"
	"github.com/xhad/ragask/pkg/render"
)

type Options struct {
	ConfigPath string
	Question   string
	Direct     bool
	Stats      bool
	Recent     int
	SkipHealth bool
}

func main() {
	config, opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		color.Red("%v", err)
		os.Exit(2)
	}

	if !config.UI.Color {
		color.NoColor = true
	}

	logger, err := newLogger(config.Log.Level)
	if err != nil {
		color.Red("failed to initialize logger: %v", err)
		os.Exit(2)
	}

	printer := render.NewPrinter(os.Stdout, config.UI.MaxSources)
	view := &pollView{printer: printer, out: os.Stderr, spinner: config.UI.Spinner}

	client, err := ragclient.NewWithConfig(ragclient.ClientConfig{
		BaseURL:        config.Server.BaseURL,
		SubmitTimeout:  config.Server.SubmitTimeout,
		StatusTimeout:  config.Server.StatusTimeout,
		RequestTimeout: config.Server.RequestTimeout,
		DirectTimeout:  config.Server.DirectTimeout,
		PollInterval:   config.Polling.Interval,
		MaxWait:        config.Polling.MaxWait,
		RateLimit:      config.Server.RateLimit,
		Logger:         logger,
		OnSubmit:       view.submitted,
		OnProgress:     view.progress,
	})
	if err != nil {
		color.Red("failed to initialize client: %v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, opts, config.Polling.MaxWait, client, printer, view)
	stop()
	logger.Sync()
	os.Exit(code)
}

func parseFlags(args []string) (*cfgPkg.Config, Options, error) {
	var opts Options
	var baseURL string
	var maxWait, interval time.Duration
	var verbose, noColor bool

	fs := flag.NewFlagSet("ragask", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	fs.StringVar(&baseURL, "url", "", "RAG server base URL")
	fs.StringVar(&opts.Question, "question", "", "Question to ask (or pass it as arguments)")
	fs.DurationVar(&maxWait, "max-wait", 300*time.Second, "Maximum time to wait for an answer")
	fs.DurationVar(&interval, "interval", 3*time.Second, "Time between status checks")
	fs.BoolVar(&opts.Direct, "direct", false, "Use the synchronous query endpoint instead of polling")
	fs.BoolVar(&opts.Stats, "stats", false, "Print server stats")
	fs.IntVar(&opts.Recent, "recent", 0, "Print the N most recent queries")
	fs.BoolVar(&opts.SkipHealth, "skip-health", false, "Skip the server health check")
	fs.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	if err := fs.Parse(args); err != nil {
		return nil, opts, err
	}

	if opts.Question == "" {
		opts.Question = strings.TrimSpace(strings.Join(fs.Args(), " "))
	}

	config, err := cfgPkg.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, opts, err
	}

	// Flags only override the file when given explicitly
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			config.Server.BaseURL = baseURL
		case "max-wait":
			config.Polling.MaxWait = maxWait
		case "interval":
			config.Polling.Interval = interval
		case "verbose":
			if verbose {
				config.Log.Level = "debug"
			}
		case "no-color":
			if noColor {
				config.UI.Color = false
			}
		}
	})

	if errs := config.Validate(); len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return nil, opts, fmt.Errorf("invalid configuration:\n  %s", strings.Join(msgs, "\n  "))
	}

	return config, opts, nil
}
