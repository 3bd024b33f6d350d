package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/ragask/internal/models"
	"github.com/xhad/ragask/pkg/ragclient"
	"github.com/xhad/ragask/pkg/render"
)

type fakeService struct {
	healthErr error
	askResult *models.QueryResult
	askErr    error
	asked     []string
	maxWait   time.Duration
	direct    bool
	stats     *models.Stats
	recent    []models.QueryResult
}

func (f *fakeService) Ask(_ context.Context, question string, maxWait time.Duration) (*models.QueryResult, error) {
	f.asked = append(f.asked, question)
	f.maxWait = maxWait
	return f.askResult, f.askErr
}

func (f *fakeService) Query(_ context.Context, question string) (*models.QueryResult, error) {
	f.direct = true
	f.asked = append(f.asked, question)
	return f.askResult, f.askErr
}

func (f *fakeService) Health(context.Context) (*models.Health, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &models.Health{Status: "ok"}, nil
}

func (f *fakeService) Stats(context.Context) (*models.Stats, error) {
	if f.stats == nil {
		return nil, &ragclient.HTTPError{StatusCode: 500, Body: "Failed to fetch stats"}
	}
	return f.stats, nil
}

func (f *fakeService) RecentQueries(_ context.Context, limit int) ([]models.QueryResult, error) {
	return f.recent[:limit], nil
}

func newTestRun(svc *fakeService, opts Options) (string, int) {
	color.NoColor = true
	var buf bytes.Buffer
	printer := render.NewPrinter(&buf, 3)
	view := &pollView{printer: printer, out: &buf}
	code := run(context.Background(), opts, time.Minute, svc, printer, view)
	return buf.String(), code
}

func TestRunAsk(t *testing.T) {
	confidence := 0.91
	svc := &fakeService{askResult: &models.QueryResult{
		Status:     models.StatusCompleted,
		Answer:     "A deployment guide.",
		Sources:    []models.Source{{DocumentName: "guide.pdf"}},
		Confidence: &confidence,
	}}

	out, code := newTestRun(svc, Options{Question: "What is this document about?"})

	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"What is this document about?"}, svc.asked)
	assert.Equal(t, time.Minute, svc.maxWait)
	assert.False(t, svc.direct)
	assert.Contains(t, out, "✅ Server is running")
	assert.Contains(t, out, "Question: What is this document about?")
	assert.Contains(t, out, "Answer: A deployment guide.")
	assert.Contains(t, out, "1. guide.pdf")
	assert.Contains(t, out, "Confidence: 0.91")
}

func TestRunAskErrorIsPrinted(t *testing.T) {
	svc := &fakeService{
		healthErr: errors.New("connection refused"),
		askErr:    &ragclient.TimeoutError{QueryID: "q1", Waited: 300 * time.Second},
	}

	out, code := newTestRun(svc, Options{Question: "Anything?"})

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "❌ Server not responding")
	assert.Contains(t, out, "Error: query q1 timed out after waiting 5m0s")
}

func TestRunDirectStillProcessing(t *testing.T) {
	svc := &fakeService{askResult: &models.QueryResult{ID: "d1", Status: models.StatusProcessing}}

	out, code := newTestRun(svc, Options{Question: "Anything?", Direct: true, SkipHealth: true})

	assert.Equal(t, 0, code)
	assert.True(t, svc.direct)
	assert.NotContains(t, out, "Server is running")
	assert.Contains(t, out, "Query submitted with ID: d1")
	assert.Contains(t, out, "Status: processing")
}

func TestRunStatsAndRecent(t *testing.T) {
	svc := &fakeService{
		stats: &models.Stats{TotalDocuments: 2, ProcessedDocuments: 2, TotalQueries: 7},
		recent: []models.QueryResult{
			{ID: "b", Question: "second?", Status: models.StatusCompleted},
			{ID: "a", Question: "first?", Status: models.StatusError},
		},
	}

	out, code := newTestRun(svc, Options{Stats: true, Recent: 1, SkipHealth: true})

	assert.Equal(t, 0, code)
	assert.Empty(t, svc.asked)
	assert.Contains(t, out, "Documents: 2")
	assert.Contains(t, out, "Queries: 7")
	assert.Contains(t, out, "b [completed] second?")
	assert.NotContains(t, out, "first?")
}

func TestRunStatsError(t *testing.T) {
	out, code := newTestRun(&fakeService{}, Options{Stats: true, SkipHealth: true})

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Error: HTTP 500: Failed to fetch stats")
}

func TestPollViewWithoutSpinner(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	view := &pollView{printer: render.NewPrinter(&buf, 3), out: &buf}

	view.submitted("q9")
	view.progress(&models.QueryResult{Status: models.StatusProcessing, Progress: "Ranking chunks"})
	view.done()

	assert.Equal(t, "Query submitted with ID: q9\nStatus: Ranking chunks\n", buf.String())
}

func TestParseFlags(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
server:
  base_url: "http://from-file:5000"
polling:
  interval: 1s
  max_wait: 60s
`), 0644))

	config, opts, err := parseFlags([]string{
		"-config", configPath,
		"-max-wait", "2m",
		"-verbose",
		"-stats",
		"What", "is", "this?",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://from-file:5000", config.Server.BaseURL)
	assert.Equal(t, time.Second, config.Polling.Interval)
	assert.Equal(t, 2*time.Minute, config.Polling.MaxWait)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "What is this?", opts.Question)
	assert.True(t, opts.Stats)
}

func TestParseFlagsInvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  base_url: \"http://ok:5000\"\n"), 0644))

	_, _, err := parseFlags([]string{"-config", configPath, "-url", "not a url", "-interval", "10s", "-max-wait", "5s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.base_url")
	assert.Contains(t, err.Error(), "polling.max_wait")
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger("chatty")
	assert.Error(t, err)
}
