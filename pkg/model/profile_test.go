package model_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/omicsatlas/internal/testdb"
	"github.com/yumyai/omicsatlas/pkg/model"
)

func str(s string) *string { return &s }

func TestUpsertProfileCreatesVersionOne(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	p, created, err := model.UpsertProfile(ctx, odb, f.OrganismID, model.ProfileInput{GramStain: str("negative")}, model.ChangeMeta{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, p.VersionNumber)

	history, err := model.ListProfileHistory(ctx, odb, f.OrganismID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.FieldProfileCreated, history[0].FieldName)
	assert.Equal(t, model.DefaultChangeReason, history[0].Reason)
	assert.Equal(t, model.DefaultChangeSource, history[0].Source)
	assert.Equal(t, model.DefaultChangedBy, history[0].ChangedBy)
}

func TestUpsertProfileHistoryCount(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	_, _, err := model.UpsertProfile(ctx, odb, f.OrganismID, model.ProfileInput{}, model.ChangeMeta{})
	require.NoError(t, err)

	const updates = 5
	for i := 0; i < updates; i++ {
		p, created, err := model.UpsertProfile(ctx, odb, f.OrganismID,
			model.ProfileInput{Habitat: str(fmt.Sprintf("habitat %d", i))},
			model.ChangeMeta{Reason: "curation", Source: "Literature", ChangedBy: "curator"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, i+2, p.VersionNumber)
	}

	history, err := model.ListProfileHistory(ctx, odb, f.OrganismID)
	require.NoError(t, err)

	changed, createdRows := 0, 0
	for _, h := range history {
		switch h.FieldName {
		case model.FieldProfileCreated:
			createdRows++
		case "habitat":
			changed++
			assert.Equal(t, "curator", h.ChangedBy)
		}
	}
	assert.Equal(t, updates, changed)
	assert.Equal(t, 1, createdRows)

	// newest first
	assert.Equal(t, updates+1, history[0].VersionNumber)
	assert.Equal(t, "habitat 3", *history[0].OldValue)
	assert.Equal(t, "habitat 4", *history[0].NewValue)
}

func TestUpsertProfileDiffsTrackedFieldsOnly(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	_, _, err := model.UpsertProfile(ctx, odb, f.OrganismID,
		model.ProfileInput{GramStain: str("negative"), CellShape: str("rod")}, model.ChangeMeta{})
	require.NoError(t, err)

	temp := 25.0
	p, _, err := model.UpsertProfile(ctx, odb, f.OrganismID, model.ProfileInput{
		GramStain:          str("negative"),
		CellShape:          str("coccus"),
		Motility:           str("gliding"),
		OptimalTemperature: &temp,
	}, model.ChangeMeta{})
	require.NoError(t, err)
	assert.Equal(t, 2, p.VersionNumber)
	assert.Equal(t, "gliding", *p.Motility)
	assert.Equal(t, "negative", *p.GramStain)

	history, err := model.ListProfileHistory(ctx, odb, f.OrganismID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "cellShape", history[0].FieldName)
	assert.Equal(t, "rod", *history[0].OldValue)
}

func TestUpsertProfileNoChangeStillBumpsVersion(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	in := model.ProfileInput{Habitat: str("Marine")}
	_, _, err := model.UpsertProfile(ctx, odb, f.OrganismID, in, model.ChangeMeta{})
	require.NoError(t, err)
	p, _, err := model.UpsertProfile(ctx, odb, f.OrganismID, in, model.ChangeMeta{})
	require.NoError(t, err)
	assert.Equal(t, 2, p.VersionNumber)

	history, err := model.ListProfileHistory(ctx, odb, f.OrganismID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestUpsertProfileErrors(t *testing.T) {
	odb := testdb.Open(t)
	f := testdb.Seed(t, odb)
	ctx := context.Background()

	_, _, err := model.UpsertProfile(ctx, odb, "missing", model.ProfileInput{}, model.ChangeMeta{})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, _, err = model.UpsertProfile(ctx, odb, f.OrganismID, model.ProfileInput{}, model.ChangeMeta{})
	require.NoError(t, err)

	stale := 3
	_, _, err = model.UpsertProfile(ctx, odb, f.OrganismID, model.ProfileInput{ExpectedVersion: &stale}, model.ChangeMeta{})
	assert.ErrorIs(t, err, model.ErrVersionConflict)

	p, err := model.GetProfile(ctx, odb, f.OrganismID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.VersionNumber)
}
