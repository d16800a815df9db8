package repository_test

import (
	"context"
	"testing"

	"github.com/gymbro/gymbro-api/internal/db"
	"github.com/gymbro/gymbro-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListByRelationOrdering(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	messages := repository.NewMessageRepository(dbase)
	matches := repository.NewMatchRepository(dbase)

	seedUsers(t, dbase,
		db.User{ID: 1, Name: "Alex", FamilyName: "Dupont", Age: 24, Type: db.TypeMassGain},
		db.User{ID: 2, Name: "Marie", FamilyName: "Leroy", Age: 22, Type: db.TypeCardio},
	)
	require.NoError(t, matches.CreateRelation(ctx, 1, 2))

	var relation db.Relation
	require.NoError(t, dbase.First(&relation).Error)

	for _, content := range []string{"M1", "M2", "M3"} {
		_, err := messages.Create(ctx, relation.ID, 1, content)
		require.NoError(t, err)
	}

	rows, nextToken, err := messages.ListByRelation(ctx, relation.ID, nil, 50)
	require.NoError(t, err)
	assert.Nil(t, nextToken)
	require.Len(t, rows, 3)

	// send order ascending
	assert.Equal(t, "M1", rows[0].Content)
	assert.Equal(t, "M2", rows[1].Content)
	assert.Equal(t, "M3", rows[2].Content)
	assert.Equal(t, "Alex", rows[0].FromName)
}

func TestListByRelationPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	messages := repository.NewMessageRepository(dbase)
	matches := repository.NewMatchRepository(dbase)

	seedUsers(t, dbase,
		db.User{ID: 1, Name: "Alex", FamilyName: "Dupont", Age: 24, Type: db.TypeMassGain},
		db.User{ID: 2, Name: "Marie", FamilyName: "Leroy", Age: 22, Type: db.TypeCardio},
	)
	require.NoError(t, matches.CreateRelation(ctx, 1, 2))

	var relation db.Relation
	require.NoError(t, dbase.First(&relation).Error)

	for _, content := range []string{"one", "two", "three", "four", "five"} {
		_, err := messages.Create(ctx, relation.ID, 2, content)
		require.NoError(t, err)
	}

	// first page
	rows, token, err := messages.ListByRelation(ctx, relation.ID, nil, 2)
	require.NoError(t, err)
	require.NotNil(t, token)
	require.Len(t, rows, 2)
	assert.Equal(t, "one", rows[0].Content)
	assert.Equal(t, "two", rows[1].Content)

	// second page continues after the cursor
	rows, token, err = messages.ListByRelation(ctx, relation.ID, token, 2)
	require.NoError(t, err)
	require.NotNil(t, token)
	require.Len(t, rows, 2)
	assert.Equal(t, "three", rows[0].Content)
	assert.Equal(t, "four", rows[1].Content)

	// last page has no next token
	rows, token, err = messages.ListByRelation(ctx, relation.ID, token, 2)
	require.NoError(t, err)
	assert.Nil(t, token)
	require.Len(t, rows, 1)
	assert.Equal(t, "five", rows[0].Content)
}

func TestListByRelationInvalidToken(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	messages := repository.NewMessageRepository(dbase)

	bad := "not-base64!"
	_, _, err := messages.ListByRelation(ctx, 1, &bad, 10)
	assert.Error(t, err)
}
