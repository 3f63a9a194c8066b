package service

import (
	"context"
	"testing"

	"charbit-go/internal/infra/kafka"
	"charbit-go/internal/model"
	"charbit-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPrefersIndexAndFiltersHidden(t *testing.T) {
	r := setupRepos(t)
	testutil.CreateUser(t, r.db, "u1")
	a := testutil.CreateCharacter(t, r.db, "u1", "Alpha", model.VisibilityPublic)
	b := testutil.CreateCharacter(t, r.db, "u1", "Beta", model.VisibilityPublic)
	hidden := testutil.CreateCharacter(t, r.db, "u1", "Gamma", model.VisibilityPrivate)

	index := newFakeIndex()
	index.searchIDs = []int64{b.ID, hidden.ID, 999, a.ID}
	svc := NewSearchService(r.characters, index)

	list, err := svc.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
	assert.Equal(t, "u1", list[0].Creator.ID)
}

func TestSearchFallsBackToDatabase(t *testing.T) {
	r := setupRepos(t)
	testutil.CreateUser(t, r.db, "u1")
	testutil.CreateCharacter(t, r.db, "u1", "Alpha", model.VisibilityPublic)
	testutil.CreateCharacter(t, r.db, "u1", "Beta", model.VisibilityPublic, "alpha")

	index := newFakeIndex()
	index.searchErr = assert.AnError
	svc := NewSearchService(r.characters, index)

	list, err := svc.Search(context.Background(), "alpha", 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestHandleEventSyncsIndex(t *testing.T) {
	r := setupRepos(t)
	testutil.CreateUser(t, r.db, "u1")
	ctx := context.Background()
	public := testutil.CreateCharacter(t, r.db, "u1", "Alpha", model.VisibilityPublic)
	private := testutil.CreateCharacter(t, r.db, "u1", "Beta", model.VisibilityPrivate)

	index := newFakeIndex()
	index.docs[private.ID] = "stale"
	svc := NewSearchService(r.characters, index)

	require.NoError(t, svc.HandleEvent(ctx, kafka.CharacterEvent{Type: kafka.EventUpsert, CharacterID: public.ID}))
	require.NoError(t, svc.HandleEvent(ctx, kafka.CharacterEvent{Type: kafka.EventUpsert, CharacterID: private.ID}))
	assert.Equal(t, map[int64]string{public.ID: "Alpha"}, index.docs)

	require.NoError(t, svc.PublishCharacterEvent(ctx, kafka.CharacterEvent{Type: kafka.EventDelete, CharacterID: public.ID}))
	assert.Empty(t, index.docs)

	// 已删除的角色按删除处理
	index.docs[777] = "ghost"
	require.NoError(t, svc.HandleEvent(ctx, kafka.CharacterEvent{Type: kafka.EventUpsert, CharacterID: 777}))
	assert.Empty(t, index.docs)

	assert.Error(t, svc.HandleEvent(ctx, kafka.CharacterEvent{Type: "rename", CharacterID: 1}))
}

func TestReindex(t *testing.T) {
	r := setupRepos(t)
	testutil.CreateUser(t, r.db, "u1")
	testutil.CreateCharacter(t, r.db, "u1", "Alpha", model.VisibilityPublic)
	testutil.CreateCharacter(t, r.db, "u1", "Beta", model.VisibilityPublic)
	testutil.CreateCharacter(t, r.db, "u1", "Gamma", model.VisibilityRestricted)
	ctx := context.Background()

	_, err := NewSearchService(r.characters, nil).Reindex(ctx)
	assert.ErrorIs(t, err, ErrSearchDisabled)

	index := newFakeIndex()
	result, err := NewSearchService(r.characters, index).Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Success)
	assert.Len(t, index.docs, 2)
}
