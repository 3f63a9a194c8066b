package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"charbit-go/internal/model"
	"charbit-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeTwiceRestoresCounter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "u1")
	testutil.CreateUser(t, db, "u2")
	c := testutil.CreateCharacter(t, db, "u1", "Lyra", model.VisibilityPublic, "Fantasy")

	repo := NewInteractionRepository(db)
	chars := NewCharacterRepository(db)

	liked, err := repo.ToggleLike(ctx, "u2", c.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := chars.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.LikesCount)

	isLiked, err := repo.IsLiked(ctx, "u2", c.ID)
	require.NoError(t, err)
	assert.True(t, isLiked)

	liked, err = repo.ToggleLike(ctx, "u2", c.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = chars.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.LikesCount)

	var rows int64
	require.NoError(t, db.Model(&model.CharacterLike{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestToggleFavoriteAndListFavorites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "u1")
	a := testutil.CreateCharacter(t, db, "u1", "A", model.VisibilityPublic)
	b := testutil.CreateCharacter(t, db, "u1", "B", model.VisibilityPublic)

	repo := NewInteractionRepository(db)

	for _, id := range []int64{a.ID, b.ID} {
		fav, err := repo.ToggleFavorite(ctx, "u1", id)
		require.NoError(t, err)
		assert.True(t, fav)
	}

	list, err := repo.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.EqualValues(t, 1, list[0].FavoritesCount)
	assert.Equal(t, "u1", list[0].Creator.ID)

	fav, err := repo.ToggleFavorite(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	isFav, err := repo.IsFavorited(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.False(t, isFav)
}

func TestAddRecentlyViewedKeepsOneRowPerCharacter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "u1")
	testutil.CreateUser(t, db, "viewer")
	a := testutil.CreateCharacter(t, db, "u1", "A", model.VisibilityPublic)
	b := testutil.CreateCharacter(t, db, "u1", "B", model.VisibilityPublic)

	repo := NewInteractionRepository(db)
	require.NoError(t, repo.AddRecentlyViewed(ctx, "viewer", a.ID))
	require.NoError(t, repo.AddRecentlyViewed(ctx, "viewer", b.ID))
	require.NoError(t, repo.AddRecentlyViewed(ctx, "viewer", a.ID))

	list, err := repo.ListRecentlyViewed(ctx, "viewer", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.EqualValues(t, 2, list[0].ViewsCount)
	assert.Equal(t, b.ID, list[1].ID)

	list, err = repo.ListRecentlyViewed(ctx, "viewer", 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListsHideCharactersThatTurnedPrivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "owner")
	testutil.CreateUser(t, db, "fan")
	c := testutil.CreateCharacter(t, db, "owner", "Lyra", model.VisibilityPublic)

	repo := NewInteractionRepository(db)
	_, err := repo.ToggleFavorite(ctx, "fan", c.ID)
	require.NoError(t, err)
	require.NoError(t, repo.AddRecentlyViewed(ctx, "fan", c.ID))
	_, err = repo.ToggleFavorite(ctx, "owner", c.ID)
	require.NoError(t, err)
	require.NoError(t, repo.AddRecentlyViewed(ctx, "owner", c.ID))

	require.NoError(t, db.Model(&model.Character{}).Where("id = ?", c.ID).
		Update("visibility", model.VisibilityPrivate).Error)

	favorites, err := repo.ListFavorites(ctx, "fan")
	require.NoError(t, err)
	assert.Empty(t, favorites)
	viewed, err := repo.ListRecentlyViewed(ctx, "fan", 10)
	require.NoError(t, err)
	assert.Empty(t, viewed)

	favorites, err = repo.ListFavorites(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
	viewed, err = repo.ListRecentlyViewed(ctx, "owner", 10)
	require.NoError(t, err)
	assert.Len(t, viewed, 1)
}

func TestConcurrentTogglesKeepCountersConsistent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "owner")
	c := testutil.CreateCharacter(t, db, "owner", "Lyra", model.VisibilityPublic)

	const fans = 5
	for i := 0; i < fans; i++ {
		testutil.CreateUser(t, db, fmt.Sprintf("fan%d", i))
	}
	repo := NewInteractionRepository(db)

	run := func(togglesPerFan int) {
		var wg sync.WaitGroup
		errs := make(chan error, fans*togglesPerFan*2)
		for i := 0; i < fans; i++ {
			userID := fmt.Sprintf("fan%d", i)
			for n := 0; n < togglesPerFan; n++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_, err := repo.ToggleLike(ctx, userID, c.ID)
					errs <- err
				}()
				go func() {
					defer wg.Done()
					_, err := repo.ToggleFavorite(ctx, userID, c.ID)
					errs <- err
				}()
			}
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
	}

	assertConsistent := func(want int64) {
		t.Helper()
		var got model.Character
		require.NoError(t, db.First(&got, c.ID).Error)

		var likes, favorites int64
		require.NoError(t, db.Model(&model.CharacterLike{}).Where("character_id = ?", c.ID).Count(&likes).Error)
		require.NoError(t, db.Model(&model.CharacterFavorite{}).Where("character_id = ?", c.ID).Count(&favorites).Error)

		assert.Equal(t, likes, got.LikesCount)
		assert.Equal(t, favorites, got.FavoritesCount)
		assert.Equal(t, want, likes)
		assert.Equal(t, want, favorites)
	}

	// 每人偶数次切换，最终回到 0
	run(4)
	assertConsistent(0)

	// 每人一次，计数等于人数
	run(1)
	assertConsistent(fans)
}
