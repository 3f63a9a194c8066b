package model

import "time"

// 创作者申请状态
const (
	CreatorStatusNone     = "none"
	CreatorStatusPending  = "pending"
	CreatorStatusApproved = "approved"
	CreatorStatusRejected = "rejected"
)

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Themes 支持的界面主题
var Themes = []string{"black", "white", "midnight", "neon", "pinky", "bob"}

// User 用户模型，ID 为 OAuth 提供方返回的 subject
type User struct {
	ID                       string    `gorm:"primaryKey;size:255;comment:用户标识" json:"id"`
	Email                    *string   `gorm:"size:255;uniqueIndex;comment:邮箱" json:"email"`
	FirstName                *string   `gorm:"size:255;comment:名" json:"first_name"`
	LastName                 *string   `gorm:"size:255;comment:姓" json:"last_name"`
	DisplayName              *string   `gorm:"size:255;comment:展示名" json:"display_name"`
	CreatorName              *string   `gorm:"size:255;comment:创作者名" json:"creator_name"`
	ProfileImageURL          *string   `gorm:"size:500;comment:头像地址" json:"profile_image_url"`
	Username                 *string   `gorm:"size:255;uniqueIndex;comment:用户名" json:"username"`
	YoutubeHandle            *string   `gorm:"size:255;comment:YouTube handle" json:"youtube_handle"`
	IsCreator                bool      `gorm:"not null;default:false;comment:是否认证创作者" json:"is_creator"`
	CreatorApplicationStatus string    `gorm:"size:20;not null;default:'none';comment:创作者申请状态" json:"creator_application_status"`
	Theme                    string    `gorm:"size:20;not null;default:'black';comment:界面主题" json:"theme"`
	UserRole                 string    `gorm:"size:20;not null;default:'user';comment:用户角色" json:"user_role"`
	CreatedAt                time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt                time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Characters []Character `gorm:"foreignKey:CreatorID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// 主页可见性
const (
	VisibilityPublic     = "public"
	VisibilityRestricted = "restricted"
	VisibilityPrivate    = "private"
)

// UserProfile 用户主页设置
type UserProfile struct {
	UserID            string    `gorm:"primaryKey;size:255;comment:用户ID" json:"user_id"`
	ProfileVisibility string    `gorm:"size:20;not null;default:'public';comment:主页可见性" json:"profile_visibility"`
	CreatedAt         time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
