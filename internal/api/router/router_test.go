package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strconv"
	"testing"
	"time"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/api/handler"
	"charbit-go/internal/api/response"
	"charbit-go/internal/infra/cache"
	"charbit-go/internal/infra/oauth"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"
	"charbit-go/internal/service"
	"charbit-go/internal/testutil"
	"charbit-go/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProvider struct {
	profile *oauth.Profile
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.test/auth?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*oauth.Profile, error) {
	if code != "good-code" {
		return nil, errors.New("bad code")
	}
	return p.profile, nil
}

type fakeAvatars struct{}

func (fakeAvatars) UploadAvatar(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	_, _ = io.Copy(io.Discard, reader)
	return "http://cdn.test/" + objectName, nil
}

type testEnv struct {
	t        *testing.T
	db       *gorm.DB
	engine   *gin.Engine
	jwt      *utils.JWTManager
	provider *fakeProvider
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T, avatars service.AvatarStorage) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	tagRepo := repository.NewTagRepository(db)

	localCache := cache.NewLocalCache(time.Minute)
	t.Cleanup(localCache.Close)

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, "charbit-test")
	searchService := service.NewSearchService(characterRepo, nil)
	userService := service.NewUserService(userRepo, relationRepo, verificationRepo)
	creatorService := service.NewCreatorService(userRepo, verificationRepo)
	verificationService := service.NewVerificationService(verificationRepo, userRepo)
	provider := &fakeProvider{profile: &oauth.Profile{Subject: "google-1", Email: "lyra@example.com", GivenName: "Ly"}}

	h := &Handlers{
		Auth: handler.NewAuthHandler(service.NewAuthService(userRepo, jwtManager), userService, provider, "/home"),
		User: handler.NewUserHandler(userService),
		Character: handler.NewCharacterHandler(
			service.NewCharacterService(characterRepo, interactionRepo, searchService, nil, avatars),
			service.NewInteractionService(characterRepo, interactionRepo, nil),
			1,
		),
		Relation:   handler.NewRelationHandler(service.NewRelationService(relationRepo, friendshipRepo, userRepo)),
		Friendship: handler.NewFriendshipHandler(service.NewFriendshipService(friendshipRepo, userRepo)),
		Message:    handler.NewMessageHandler(service.NewMessageService(messageRepo, friendshipRepo)),
		Creator:    handler.NewCreatorHandler(creatorService, verificationService),
		Tag:        handler.NewTagHandler(service.NewTagService(tagRepo, localCache, time.Minute)),
		Admin:      handler.NewAdminHandler(creatorService, verificationService, searchService),
	}

	engine := gin.New()
	engine.Use(sessions.Sessions("test-session", cookie.NewStore([]byte("secret"))))
	Setup(engine, h, jwtManager, userService.GetRole)

	return &testEnv{t: t, db: db, engine: engine, jwt: jwtManager, provider: provider}
}

func (e *testEnv) do(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	e.authorize(req, userID)
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) authorize(req *http.Request, userID string) {
	e.t.Helper()
	if userID == "" {
		return
	}
	token, err := e.jwt.GenerateToken(userID)
	require.NoError(e.t, err)
	req.Header.Set("Authorization", "Bearer "+token)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
}

func TestErrorShape(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodGet, "/api/auth/user", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var errResp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, http.StatusUnauthorized, errResp.Code)
	assert.Equal(t, "Unauthorized", errResp.Type)
	assert.NotEmpty(t, errResp.Message)
}

func TestCharacterRoutes(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "u1")
	testutil.CreateUser(t, env.db, "u2")

	w := env.do(http.MethodPost, "/api/characters", "u1", map[string]interface{}{
		"name": "Lyra", "tags": []string{"Fantasy"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.CharacterInfo
	decodeData(t, w, &created)
	assert.Equal(t, []string{"OC", "Fantasy"}, created.Tags)
	assert.Equal(t, model.VisibilityPublic, created.Visibility)

	path := "/api/characters/" + itoa(created.ID)

	w = env.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPatch, path, "u2", map[string]interface{}{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, path+"/like", "u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var like dto.LikeResult
	decodeData(t, w, &like)
	assert.True(t, like.Liked)

	w = env.do(http.MethodGet, path+"/status", "u2", nil)
	var status dto.CharacterStatusData
	decodeData(t, w, &status)
	assert.True(t, status.Liked)
	assert.False(t, status.Favorited)

	w = env.do(http.MethodPost, path+"/like", "u2", nil)
	decodeData(t, w, &like)
	assert.False(t, like.Liked)

	w = env.do(http.MethodPost, path+"/favorite", "u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, "/api/users/me/favorites", "u2", nil)
	var favorites []dto.CharacterInfo
	decodeData(t, w, &favorites)
	require.Len(t, favorites, 1)
	assert.Equal(t, created.ID, favorites[0].ID)

	w = env.do(http.MethodGet, path, "u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, "/api/characters/recently-viewed", "u2", nil)
	var recent []dto.CharacterInfo
	decodeData(t, w, &recent)
	require.Len(t, recent, 1)

	w = env.do(http.MethodPatch, path, "u1", map[string]interface{}{"visibility": "private"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, path, "u2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(http.MethodGet, path, "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodPost, path+"/like", "u2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	decodeData(t, env.do(http.MethodGet, "/api/users/me/favorites", "u2", nil), &favorites)
	assert.Empty(t, favorites)

	w = env.do(http.MethodDelete, path, "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodDelete, path, "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/characters/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(http.MethodPost, "/api/characters", "", map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDiscoveryRoutes(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "u1")
	testutil.CreateCharacter(t, env.db, "u1", "Lyra", model.VisibilityPublic, "Fantasy")
	testutil.CreateCharacter(t, env.db, "u1", "Orion", model.VisibilityPublic, "Sci-Fi")
	testutil.CreateCharacter(t, env.db, "u1", "Hidden", model.VisibilityPrivate, "Fantasy")

	var list []dto.CharacterInfo
	decodeData(t, env.do(http.MethodGet, "/api/characters?tags=Fantasy", "", nil), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Lyra", list[0].Name)

	decodeData(t, env.do(http.MethodGet, "/api/characters?query=ori", "", nil), &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Orion", list[0].Name)

	decodeData(t, env.do(http.MethodGet, "/api/characters?limit=1", "", nil), &list)
	assert.Len(t, list, 1)

	decodeData(t, env.do(http.MethodGet, "/api/users/u1/characters", "", nil), &list)
	assert.Len(t, list, 2)
	decodeData(t, env.do(http.MethodGet, "/api/users/u1/characters", "u1", nil), &list)
	assert.Len(t, list, 3)

	var tags []string
	decodeData(t, env.do(http.MethodGet, "/api/tags", "", nil), &tags)
	assert.Contains(t, tags, "Fantasy")
	assert.Contains(t, tags, "Villain")

	var trending []dto.TrendingTag
	decodeData(t, env.do(http.MethodGet, "/api/tags/trending", "", nil), &trending)
	require.NotEmpty(t, trending)
	assert.Equal(t, "OC", trending[0].Tag)
	assert.Equal(t, int64(2), trending[0].Count)
}

func TestSocialRoutes(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "alice")
	testutil.CreateUser(t, env.db, "bob")

	var follow dto.FollowResult
	decodeData(t, env.do(http.MethodPost, "/api/users/bob/follow", "alice", nil), &follow)
	assert.True(t, follow.Following)
	decodeData(t, env.do(http.MethodGet, "/api/users/bob/follow-status", "alice", nil), &follow)
	assert.True(t, follow.Following)

	var followers []dto.UserBrief
	decodeData(t, env.do(http.MethodGet, "/api/users/bob/followers", "", nil), &followers)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].ID)

	w := env.do(http.MethodPost, "/api/users/alice/follow", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/messages", "alice", map[string]string{"receiver_id": "bob", "content": "hi"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/users/bob/friend-request", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var requests []dto.FriendRequestInfo
	decodeData(t, env.do(http.MethodGet, "/api/users/me/friend-requests", "bob", nil), &requests)
	require.Len(t, requests, 1)
	assert.Equal(t, "alice", requests[0].RequesterID)

	w = env.do(http.MethodPost, "/api/friend-requests/alice/accept", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodPost, "/api/friend-requests/alice/accept", "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var friends []dto.UserBrief
	decodeData(t, env.do(http.MethodGet, "/api/users/me/friends", "alice", nil), &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].ID)

	w = env.do(http.MethodPost, "/api/messages", "alice", map[string]string{"receiver_id": "bob", "content": "  hi bob  "})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = env.do(http.MethodPost, "/api/messages", "bob", map[string]string{"receiver_id": "alice", "content": "hey"})
	require.Equal(t, http.StatusCreated, w.Code)

	var conversation []dto.MessageInfo
	decodeData(t, env.do(http.MethodGet, "/api/messages/alice", "bob", nil), &conversation)
	require.Len(t, conversation, 2)
	assert.Equal(t, "hi bob", conversation[0].Content)
	assert.Equal(t, "hey", conversation[1].Content)

	w = env.do(http.MethodPost, "/api/users/alice/block", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, "/api/messages/alice", "bob", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	decodeData(t, env.do(http.MethodGet, "/api/users/bob/follow-status", "alice", nil), &follow)
	assert.False(t, follow.Following)
	w = env.do(http.MethodPost, "/api/users/bob/follow", "alice", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var blocked []dto.UserBrief
	decodeData(t, env.do(http.MethodGet, "/api/users/me/blocked", "bob", nil), &blocked)
	require.Len(t, blocked, 1)

	w = env.do(http.MethodPost, "/api/users/alice/unblock", "bob", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodDelete, "/api/users/alice/friend", "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatorAndAdminRoutes(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "u1")
	testutil.CreateUser(t, env.db, "boss")
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", "boss").
		Update("user_role", model.RoleAdmin).Error)

	w := env.do(http.MethodPost, "/api/creator/apply", "u1", map[string]string{
		"application_type": "youtube", "youtube_handle": "@LyraMaker",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/creator/apply", "u1", map[string]string{"application_type": "email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/admin/creators/u1/approve", "u1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var status dto.CreatorStatusData
	decodeData(t, env.do(http.MethodPost, "/api/admin/creators/u1/approve", "boss", nil), &status)
	assert.Equal(t, model.CreatorStatusApproved, status.Status)
	assert.True(t, status.IsCreator)

	w = env.do(http.MethodPost, "/api/admin/creators/u1/reject", "boss", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(http.MethodPost, "/api/admin/creators/ghost/approve", "boss", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	decodeData(t, env.do(http.MethodGet, "/api/creator/status", "u1", nil), &status)
	assert.Equal(t, model.CreatorStatusApproved, status.Status)

	w = env.do(http.MethodPost, "/api/social-verification", "u1", map[string]string{"platform": "youtube", "username": "LyraMaker"})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodPost, "/api/admin/verifications/u1/instagram/verify", "boss", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var verification dto.VerificationInfo
	decodeData(t, env.do(http.MethodPost, "/api/admin/verifications/u1/youtube/verify", "boss", nil), &verification)
	assert.True(t, verification.IsVerified)

	var featured []dto.FeaturedCreator
	decodeData(t, env.do(http.MethodGet, "/api/creators/featured", "", nil), &featured)
	require.Len(t, featured, 1)
	assert.Equal(t, "u1", featured[0].ID)
	require.Len(t, featured[0].Verifications, 1)

	var profile dto.UserProfileData
	decodeData(t, env.do(http.MethodGet, "/api/users/LyraMaker", "", nil), &profile)
	assert.Equal(t, "u1", profile.ID)
	w = env.do(http.MethodGet, "/api/users/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/api/admin/search/reindex", "boss", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUserSettingsRoutes(t *testing.T) {
	env := newTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "u1")

	var info dto.UserInfo
	decodeData(t, env.do(http.MethodPatch, "/api/user/theme", "u1", map[string]string{"theme": "neon"}), &info)
	assert.Equal(t, "neon", info.Theme)

	w := env.do(http.MethodPatch, "/api/user/theme", "u1", map[string]string{"theme": "plaid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPatch, "/api/user/profile-visibility", "u1", map[string]string{"visibility": "restricted"})
	require.Equal(t, http.StatusOK, w.Code)

	var profile dto.UserProfileData
	decodeData(t, env.do(http.MethodGet, "/api/auth/user", "u1", nil), &profile)
	assert.Equal(t, "restricted", profile.ProfileVisibility)

	var token dto.TokenData
	decodeData(t, env.do(http.MethodPost, "/api/auth/token", "u1", nil), &token)
	claims, err := env.jwt.ParseToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestGoogleOAuthFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	start := func() (string, []*http.Cookie) {
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))
		require.Equal(t, http.StatusFound, w.Code)
		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		return location.Query().Get("state"), w.Result().Cookies()
	}
	callback := func(query string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?"+query, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, req)
		return w
	}

	state, cookies := start()
	require.NotEmpty(t, state)
	w := callback("state=forged&code=good-code", cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	state, cookies = start()
	w = callback("state="+url.QueryEscape(state)+"&code=bad-code", cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	state, cookies = start()
	w = callback("state="+url.QueryEscape(state)+"&code=good-code", cookies)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/home", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	for _, ck := range w.Result().Cookies() {
		req.AddCookie(ck)
	}
	me := httptest.NewRecorder()
	env.engine.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	var profile dto.UserProfileData
	decodeData(t, me, &profile)
	assert.Equal(t, "google-1", profile.ID)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "lyra@example.com", *profile.Email)
}

func TestAvatarUpload(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

	upload := func(env *testEnv, path, userID, contentType string, data []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="avatar"; filename="avatar.png"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, _ = part.Write(data)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, path, &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		env.authorize(req, userID)
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, req)
		return w
	}

	disabled := newTestEnv(t, nil)
	testutil.CreateUser(t, disabled.db, "u1")
	c := testutil.CreateCharacter(t, disabled.db, "u1", "Lyra", model.VisibilityPublic)
	w := upload(disabled, "/api/characters/"+itoa(c.ID)+"/avatar", "u1", "image/png", pngHeader)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env := newTestEnv(t, fakeAvatars{})
	testutil.CreateUser(t, env.db, "u1")
	testutil.CreateUser(t, env.db, "u2")
	c = testutil.CreateCharacter(t, env.db, "u1", "Lyra", model.VisibilityPublic)
	path := "/api/characters/" + itoa(c.ID) + "/avatar"

	w = upload(env, path, "u2", "image/png", pngHeader)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = upload(env, path, "u1", "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload(env, path, "u1", "application/octet-stream", pngHeader)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var avatar dto.AvatarData
	decodeData(t, w, &avatar)
	assert.Contains(t, avatar.AvatarURL, "http://cdn.test/characters/")

	var stored model.Character
	require.NoError(t, env.db.First(&stored, c.ID).Error)
	require.NotNil(t, stored.AvatarURL)
	assert.Equal(t, avatar.AvatarURL, *stored.AvatarURL)

	w = upload(env, path, "u1", "image/png", make([]byte, 2<<20))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
