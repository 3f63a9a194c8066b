package repository

import (
	"context"
	"testing"

	"charbit-go/internal/model"
	"charbit-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserUpsertKeepsCreatorFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	user, err := repo.Upsert(ctx, &model.User{
		ID:                       "google-1",
		Email:                    strPtr("lyra@example.com"),
		FirstName:                strPtr("Lyra"),
		CreatorApplicationStatus: model.CreatorStatusNone,
		Theme:                    "black",
		UserRole:                 model.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "lyra@example.com", *user.Email)

	_, err = repo.Update(ctx, "google-1", map[string]interface{}{"is_creator": true, "theme": "neon"})
	require.NoError(t, err)

	user, err = repo.Upsert(ctx, &model.User{
		ID:        "google-1",
		Email:     strPtr("lyra@new.example.com"),
		FirstName: strPtr("Lyra"),
		Theme:     "black",
		UserRole:  model.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "lyra@new.example.com", *user.Email)
	assert.True(t, user.IsCreator)
	assert.Equal(t, "neon", user.Theme)
}

func TestFeaturedCreatorsOrderedByCharacterCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	for _, id := range []string{"small", "big", "fan"} {
		testutil.CreateUser(t, db, id)
	}
	for _, id := range []string{"small", "big"} {
		_, err := repo.Update(ctx, id, map[string]interface{}{"is_creator": true})
		require.NoError(t, err)
	}
	testutil.CreateCharacter(t, db, "small", "s1", model.VisibilityPublic)
	testutil.CreateCharacter(t, db, "big", "b1", model.VisibilityPublic)
	testutil.CreateCharacter(t, db, "big", "b2", model.VisibilityPrivate)
	testutil.CreateCharacter(t, db, "fan", "f1", model.VisibilityPublic)

	users, counts, err := repo.ListFeaturedCreators(ctx, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "big", users[0].ID)
	assert.Equal(t, "small", users[1].ID)
	assert.EqualValues(t, 2, counts["big"])
	assert.EqualValues(t, 1, counts["small"])
}

func TestProfileVisibilityUpsertAndUsernameCheck(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	testutil.CreateUser(t, db, "u1")
	testutil.CreateUser(t, db, "u2")

	profile, err := repo.UpsertProfileVisibility(ctx, "u1", model.VisibilityPrivate)
	require.NoError(t, err)
	assert.Equal(t, model.VisibilityPrivate, profile.ProfileVisibility)

	profile, err = repo.UpsertProfileVisibility(ctx, "u1", model.VisibilityRestricted)
	require.NoError(t, err)
	assert.Equal(t, model.VisibilityRestricted, profile.ProfileVisibility)

	taken, err := repo.ExistsByUsernameExcept(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsByUsernameExcept(ctx, "u1", "u1")
	require.NoError(t, err)
	assert.False(t, taken)
}
