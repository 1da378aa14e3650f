package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

func TestProcessCmd_PrintsSummary(t *testing.T) {
	started := time.Now().UTC()
	processor := &fakeProcessorEngine{summary: &domain.ProcessSummary{
		RunID:          "run-1",
		State:          domain.RunStateCompleted,
		ProcessedCount: 5,
		CampaignCount:  2,
		StartedAt:      started,
		FinishedAt:     started.Add(3 * time.Second),
	}}
	withFakeServices(t, &fakeInsightEngine{}, processor)

	out, err := execute(t, "process", "/campaigns")
	require.NoError(t, err)

	assert.Equal(t, "/campaigns", processor.ref)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "Campaigns: 2")
	assert.Contains(t, out, "5 processed, 0 failed")
}

func TestProcessCmd_ReportsPartialFailure(t *testing.T) {
	processor := &fakeProcessorEngine{summary: &domain.ProcessSummary{
		RunID:          "run-2",
		State:          domain.RunStatePartiallyFailed,
		ProcessedCount: 3,
		ErrorCount:     1,
		CampaignCount:  1,
		Errors: []domain.DocumentError{
			{DocumentID: "d9", Path: "summer/bad.txt", Message: "embed chunks: upstream unavailable"},
		},
	}}
	withFakeServices(t, &fakeInsightEngine{}, processor)

	out, err := execute(t, "process", "/campaigns")
	require.NoError(t, err)

	assert.Contains(t, out, "partially_failed")
	assert.Contains(t, out, "summer/bad.txt")
	assert.Contains(t, out, "rerun to retry")
}

func TestProcessCmd_RunFailureSurfaces(t *testing.T) {
	processor := &fakeProcessorEngine{err: errors.New("list assets: mount gone")}
	withFakeServices(t, &fakeInsightEngine{}, processor)

	_, err := execute(t, "process", "/campaigns")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mount gone")
}
