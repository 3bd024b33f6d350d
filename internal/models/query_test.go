package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/ragask/internal/models"
)

func TestStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status   models.Status
		expected bool
	}{
		{models.StatusPending, false},
		{models.StatusProcessing, false},
		{models.StatusCompleted, true},
		{models.StatusError, true},
		{models.Status("queued"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsTerminal())
		})
	}
}

func TestSourceDocumentNameKeys(t *testing.T) {
	var snake, camel models.Source
	require.NoError(t, json.Unmarshal([]byte(`{"document_name":"a.pdf","relevance":0.9}`), &snake))
	require.NoError(t, json.Unmarshal([]byte(`{"documentName":"b.pdf","documentId":"d1"}`), &camel))

	assert.Equal(t, "a.pdf", snake.DocumentName)
	assert.Equal(t, 0.9, snake.Relevance)
	assert.Equal(t, "b.pdf", camel.DocumentName)
	assert.Equal(t, "d1", camel.DocumentID)
}

func TestQueryResultOptionalFields(t *testing.T) {
	var res models.QueryResult
	require.NoError(t, json.Unmarshal([]byte(`{"status":"processing"}`), &res))

	assert.Equal(t, models.StatusProcessing, res.Status)
	assert.Nil(t, res.Confidence)
	assert.Nil(t, res.Sources)

	require.NoError(t, json.Unmarshal([]byte(`{"status":"error","errorMessage":"boom"}`), &res))
	assert.Equal(t, "boom", res.Message())
}
