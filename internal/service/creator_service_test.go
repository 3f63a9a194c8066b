package service

import (
	"context"
	"testing"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/model"
	"charbit-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatorApplyYoutube(t *testing.T) {
	r := setupRepos(t)
	testutil.CreateUser(t, r.db, "u1")
	ctx := context.Background()
	svc := NewCreatorService(r.users, r.verification)

	_, err := svc.Apply(ctx, "u1", &dto.CreatorApplyRequest{ApplicationType: ApplicationYoutube, YoutubeHandle: strPtr(" @!! ")})
	assert.ErrorIs(t, err, ErrYoutubeHandleRequired)

	status, err := svc.Apply(ctx, "u1", &dto.CreatorApplyRequest{
		ApplicationType: ApplicationYoutube,
		YoutubeHandle:   strPtr("  @Lyra Maker!"),
		DisplayName:     strPtr(" Lyra "),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CreatorStatusPending, status.Status)
	assert.False(t, status.IsCreator)

	user, err := r.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "LyraMaker", *user.Username)
	assert.Equal(t, "LyraMaker", *user.CreatorName)
	assert.Equal(t, "LyraMaker", *user.YoutubeHandle)
	assert.Equal(t, "Lyra", *user.DisplayName)

	_, err = svc.Apply(ctx, "u1", &dto.CreatorApplyRequest{ApplicationType: ApplicationYoutube, YoutubeHandle: strPtr("again")})
	assert.ErrorIs(t, err, ErrApplicationPending)

	user, err = r.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.CreatorStatusPending, user.CreatorApplicationStatus)
}

func TestCreatorApplyEmail(t *testing.T) {
	r := setupRepos(t)
	testutil.CreateUser(t, r.db, "u1")
	noEmail := &model.User{ID: "u2", CreatorApplicationStatus: model.CreatorStatusNone, Theme: "black", UserRole: model.RoleUser}
	require.NoError(t, r.db.Create(noEmail).Error)
	ctx := context.Background()
	svc := NewCreatorService(r.users, r.verification)

	_, err := svc.Apply(ctx, "u2", &dto.CreatorApplyRequest{ApplicationType: ApplicationEmail})
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Apply(ctx, "u1", &dto.CreatorApplyRequest{ApplicationType: ApplicationEmail, DisplayName: strPtr("  ")})
	require.NoError(t, err)

	user, err := r.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", *user.Username)
	assert.Equal(t, "u1", *user.CreatorName)
	assert.Nil(t, user.DisplayName)
}

func TestCreatorApplyUsernameTaken(t *testing.T) {
	r := setupRepos(t)
	testutil.CreateUser(t, r.db, "u1")
	testutil.CreateUser(t, r.db, "taken")
	svc := NewCreatorService(r.users, r.verification)

	_, err := svc.Apply(context.Background(), "u1", &dto.CreatorApplyRequest{ApplicationType: ApplicationYoutube, YoutubeHandle: strPtr("@taken")})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreatorReviewFlow(t *testing.T) {
	r := setupRepos(t)
	testutil.CreateUser(t, r.db, "u1")
	ctx := context.Background()
	svc := NewCreatorService(r.users, r.verification)

	_, err := svc.Approve(ctx, "u1")
	assert.ErrorIs(t, err, ErrApplicationNotPending)
	_, err = svc.Approve(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	apply := &dto.CreatorApplyRequest{ApplicationType: ApplicationYoutube, YoutubeHandle: strPtr("maker")}
	_, err = svc.Apply(ctx, "u1", apply)
	require.NoError(t, err)

	status, err := svc.Reject(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.CreatorStatusRejected, status.Status)

	// 被拒绝后可以重新申请
	_, err = svc.Apply(ctx, "u1", apply)
	require.NoError(t, err)

	status, err = svc.Approve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.CreatorStatusApproved, status.Status)
	assert.True(t, status.IsCreator)

	_, err = svc.Apply(ctx, "u1", apply)
	assert.ErrorIs(t, err, ErrAlreadyCreator)

	current, err := svc.Status(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &dto.CreatorStatusData{Status: model.CreatorStatusApproved, IsCreator: true}, current)
}

func TestFeaturedCreators(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	for _, id := range []string{"c1", "c2", "fan"} {
		testutil.CreateUser(t, r.db, id)
	}
	require.NoError(t, r.db.Model(&model.User{}).Where("id IN ?", []string{"c1", "c2"}).Update("is_creator", true).Error)
	testutil.CreateCharacter(t, r.db, "c2", "A", model.VisibilityPublic)
	testutil.CreateCharacter(t, r.db, "c2", "B", model.VisibilityPrivate)
	testutil.CreateCharacter(t, r.db, "c1", "C", model.VisibilityPublic)
	_, err := r.verification.Upsert(ctx, "c2", "youtube", "c2yt")
	require.NoError(t, err)

	svc := NewCreatorService(r.users, r.verification)
	creators, err := svc.Featured(ctx, 0)
	require.NoError(t, err)
	require.Len(t, creators, 2)
	assert.Equal(t, "c2", creators[0].ID)
	assert.EqualValues(t, 2, creators[0].CharacterCount)
	require.Len(t, creators[0].Verifications, 1)
	assert.Equal(t, "c2yt", creators[0].Verifications[0].PlatformUsername)
	assert.Equal(t, "c1", creators[1].ID)
	assert.Empty(t, creators[1].Verifications)
}
