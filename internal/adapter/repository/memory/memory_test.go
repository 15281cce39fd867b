package memory

import (
	"context"
	"testing"

	"github.com/simaogato/priorityflow-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetRepository_CopiesOnLoadAndSave(t *testing.T) {
	ctx := context.Background()
	seed := []domain.Asset{{ID: "A", PriorityScore: 1}}
	repo := NewAssetRepository(seed...)
	seed[0].PriorityScore = 50

	got, err := repo.LoadAssets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].PriorityScore)

	got[0].PriorityScore = 99
	again, _ := repo.LoadAssets(ctx)
	assert.Equal(t, 1, again[0].PriorityScore)

	require.NoError(t, repo.SaveAssets(ctx, []domain.Asset{{ID: "B"}}))
	after, _ := repo.LoadAssets(ctx)
	assert.Equal(t, "B", after[0].ID)
	assert.Equal(t, 1, repo.Saves())
}

func TestEventSource_ReadAll(t *testing.T) {
	source := NewEventSource(domain.Event{AssetID: "A", PriorityBump: 1}, domain.Event{AssetID: "B", PriorityBump: -1})

	events, err := source.ReadAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, []string{events[0].AssetID, events[1].AssetID})
}
