package router

import (
	"charbit-go/internal/api/handler"
	"charbit-go/internal/api/middleware"
	"charbit-go/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的全部 handler
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Character  *handler.CharacterHandler
	Relation   *handler.RelationHandler
	Friendship *handler.FriendshipHandler
	Message    *handler.MessageHandler
	Creator    *handler.CreatorHandler
	Tag        *handler.TagHandler
	Admin      *handler.AdminHandler
}

// Setup 注册所有业务路由
func Setup(r *gin.Engine, h *Handlers, jwtManager *utils.JWTManager, roleFetcher middleware.UserRoleFetcher) {
	authRequired := middleware.AuthRequired(jwtManager)
	optionalAuth := middleware.OptionalAuth(jwtManager)

	api := r.Group("/api")

	// --- 认证 ---
	api.GET("/auth/google", h.Auth.GoogleLogin)
	api.GET("/auth/google/callback", h.Auth.GoogleCallback)
	api.GET("/logout", h.Auth.Logout)
	api.GET("/auth/user", authRequired, h.Auth.CurrentUser)
	api.POST("/auth/token", authRequired, h.Auth.IssueToken)

	// --- 创作者 ---
	api.POST("/creator/apply", authRequired, h.Creator.Apply)
	api.GET("/creator/status", authRequired, h.Creator.Status)
	api.GET("/creators/featured", h.Creator.Featured)
	api.POST("/social-verification", authRequired, h.Creator.AddVerification)

	// --- 用户设置 ---
	settings := api.Group("/user", authRequired)
	{
		settings.PATCH("/theme", h.User.UpdateTheme)
		settings.PATCH("/profile-visibility", h.User.UpdateProfileVisibility)
	}

	// --- 角色 ---
	characters := api.Group("/characters")
	{
		characters.GET("", h.Character.List)
		characters.GET("/:id", optionalAuth, h.Character.Get)

		charactersAuth := characters.Group("", authRequired)
		{
			charactersAuth.POST("", h.Character.Create)
			charactersAuth.GET("/following/feed", h.Character.FollowingFeed)
			charactersAuth.GET("/recently-viewed", h.Character.RecentlyViewed)
			charactersAuth.PATCH("/:id", h.Character.Update)
			charactersAuth.DELETE("/:id", h.Character.Delete)
			charactersAuth.POST("/:id/avatar", h.Character.UploadAvatar)
			charactersAuth.POST("/:id/like", h.Character.Like)
			charactersAuth.POST("/:id/favorite", h.Character.Favorite)
			charactersAuth.GET("/:id/status", h.Character.Status)
		}
	}

	// --- 用户与社交关系 ---
	users := api.Group("/users")
	{
		users.GET("/:id", h.User.GetProfile)
		users.GET("/:id/characters", optionalAuth, h.Character.ListByUser)
		users.GET("/:id/followers", h.Relation.Followers)
		users.GET("/:id/following", h.Relation.Following)

		me := users.Group("/me", authRequired)
		{
			me.GET("/favorites", h.Character.MyFavorites)
			me.GET("/friends", h.Friendship.MyFriends)
			me.GET("/friend-requests", h.Friendship.MyRequests)
			me.GET("/blocked", h.Friendship.MyBlocked)
		}

		usersAuth := users.Group("", authRequired)
		{
			usersAuth.POST("/:id/follow", h.Relation.ToggleFollow)
			usersAuth.GET("/:id/follow-status", h.Relation.FollowStatus)
			usersAuth.POST("/:id/friend-request", h.Friendship.SendRequest)
			usersAuth.DELETE("/:id/friend", h.Friendship.Remove)
			usersAuth.POST("/:id/block", h.Friendship.Block)
			usersAuth.POST("/:id/unblock", h.Friendship.Unblock)
		}
	}

	friendRequests := api.Group("/friend-requests", authRequired)
	{
		friendRequests.POST("/:id/accept", h.Friendship.Accept)
		friendRequests.POST("/:id/reject", h.Friendship.Reject)
	}

	// --- 私信 ---
	messages := api.Group("/messages", authRequired)
	{
		messages.POST("", h.Message.Send)
		messages.GET("/:id", h.Message.Conversation)
	}

	// --- 标签 ---
	api.GET("/tags", h.Tag.All)
	api.GET("/tags/trending", h.Tag.Trending)

	// --- 管理员 ---
	admin := api.Group("/admin", authRequired, middleware.AdminRequired(roleFetcher))
	{
		admin.POST("/creators/:id/approve", h.Admin.ApproveCreator)
		admin.POST("/creators/:id/reject", h.Admin.RejectCreator)
		admin.POST("/verifications/:id/:platform/verify", h.Admin.VerifySocial)
		admin.POST("/search/reindex", h.Admin.Reindex)
	}
}
