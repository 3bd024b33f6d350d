package models

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// IsTerminal reports whether polling can stop on this status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

type Query struct {
	Question string `json:"question"`
}

type QueryHandle struct {
	QueryID string `json:"queryId"`
}

// QueryResult is one snapshot of a query as reported by the server.
type QueryResult struct {
	ID           string     `json:"id,omitempty"`
	Question     string     `json:"question,omitempty"`
	Status       Status     `json:"status"`
	Progress     string     `json:"progress,omitempty"`
	Answer       string     `json:"answer,omitempty"`
	Sources      []Source   `json:"sources,omitempty"`
	Confidence   *float64   `json:"confidence,omitempty"`
	Error        string     `json:"error,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// Message returns the server-provided failure text, if any.
func (r *QueryResult) Message() string {
	if r.Error != "" {
		return r.Error
	}
	return r.ErrorMessage
}

type Source struct {
	DocumentID   string  `json:"documentId,omitempty"`
	DocumentName string  `json:"document_name,omitempty"`
	ChunkID      string  `json:"chunkId,omitempty"`
	Relevance    float64 `json:"relevance,omitempty"`
	Content      string  `json:"content,omitempty"`
}

// UnmarshalJSON accepts the document name under either document_name or documentName.
func (s *Source) UnmarshalJSON(data []byte) error {
	type plain Source
	var raw struct {
		plain
		CamelName string `json:"documentName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Source(raw.plain)
	if s.DocumentName == "" {
		s.DocumentName = raw.CamelName
	}
	return nil
}

type Stats struct {
	TotalDocuments       int `json:"totalDocuments"`
	ProcessedDocuments   int `json:"processedDocuments"`
	TotalQueries         int `json:"totalQueries"`
	QueriesToday         int `json:"queriesToday,omitempty"`
	AvgAccuracy          int `json:"avgAccuracy,omitempty"`
	TotalChunks          int `json:"totalChunks,omitempty"`
	ChunksWithEmbeddings int `json:"chunksWithEmbeddings,omitempty"`
	IndexingProgress     int `json:"indexingProgress,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}
