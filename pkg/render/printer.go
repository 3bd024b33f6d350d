package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/xhad/ragask/internal/models"
)

// Printer writes query results and server information for a terminal.
type Printer struct {
	w          io.Writer
	maxSources int

	heading *color.Color
	success *color.Color
	failure *color.Color
	info    *color.Color
	muted   *color.Color
}

func NewPrinter(w io.Writer, maxSources int) *Printer {
	return &Printer{
		w:          w,
		maxSources: maxSources,
		heading:    color.New(color.FgCyan, color.Bold),
		success:    color.New(color.FgGreen),
		failure:    color.New(color.FgRed),
		info:       color.New(color.FgBlue),
		muted:      color.New(color.FgHiBlack),
	}
}

func (p *Printer) Header(question string) {
	p.heading.Fprintf(p.w, "Question: %s\n", question)
	fmt.Fprintln(p.w, strings.Repeat("=", 50))
}

func (p *Printer) Submitted(queryID string) {
	p.muted.Fprintf(p.w, "Query submitted with ID: %s\n", queryID)
}

func (p *Printer) Progress(progress string) {
	if progress == "" {
		progress = "Processing"
	}
	p.muted.Fprintf(p.w, "Status: %s\n", progress)
}

// Result prints the answer, up to maxSources sources, and the confidence if present.
func (p *Printer) Result(res *models.QueryResult) {
	p.success.Fprintf(p.w, "\n✅ Answer: %s\n", res.Answer)

	if len(res.Sources) > 0 {
		p.info.Fprintf(p.w, "\n📚 Sources: %d document(s)\n", len(res.Sources))
		for i, source := range res.Sources {
			if i >= p.maxSources {
				break
			}
			name := source.DocumentName
			if name == "" {
				name = "Unknown document"
			}
			fmt.Fprintf(p.w, "  %d. %s\n", i+1, name)
		}
	}

	if res.Confidence != nil {
		p.info.Fprintf(p.w, "\n🎯 Confidence: %.2f\n", *res.Confidence)
	}
}

func (p *Printer) Error(err error) {
	p.failure.Fprintf(p.w, "Error: %v\n", err)
}

func (p *Printer) Health(up bool) {
	if up {
		p.success.Fprintln(p.w, "✅ Server is running")
		return
	}
	p.failure.Fprintln(p.w, "❌ Server not responding")
}

func (p *Printer) Stats(stats *models.Stats) {
	p.heading.Fprintln(p.w, "\nServer Stats:")
	fmt.Fprintf(p.w, "Documents: %d\n", stats.TotalDocuments)
	fmt.Fprintf(p.w, "Processed: %d\n", stats.ProcessedDocuments)
	fmt.Fprintf(p.w, "Queries: %d\n", stats.TotalQueries)

	extended := []struct {
		label string
		value int
		unit  string
	}{
		{"Queries today", stats.QueriesToday, ""},
		{"Average accuracy", stats.AvgAccuracy, "%"},
		{"Chunks", stats.TotalChunks, ""},
		{"Chunks with embeddings", stats.ChunksWithEmbeddings, ""},
		{"Indexing progress", stats.IndexingProgress, "%"},
	}
	for _, e := range extended {
		if e.value != 0 {
			fmt.Fprintf(p.w, "%s: %d%s\n", e.label, e.value, e.unit)
		}
	}
}

func (p *Printer) RecentQueries(queries []models.QueryResult) {
	p.heading.Fprintf(p.w, "\nRecent Queries (%d):\n", len(queries))
	for _, q := range queries {
		status := p.muted
		switch q.Status {
		case models.StatusCompleted:
			status = p.success
		case models.StatusError:
			status = p.failure
		}
		fmt.Fprintf(p.w, "  %s [%s] %s\n", q.ID, status.Sprint(q.Status), q.Question)
	}
}
