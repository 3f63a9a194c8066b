package repository

import (
	"context"

	"charbit-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID 根据 ID 查询用户
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名查询用户
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs 批量查询用户
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Upsert OAuth 登录时写入用户，已存在则只刷新账号资料，不覆盖创作者信息与设置
func (r *UserRepository) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "profile_image_url", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, user.ID)
}

// Update 更新用户字段
func (r *UserRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.User, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// UpdateWhereStatus 仅当创作者申请处于指定状态时更新，返回是否命中
func (r *UserRepository) UpdateWhereStatus(ctx context.Context, id, status string, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND creator_application_status = ?", id, status).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ExistsByUsernameExcept 检查用户名是否已被其他用户占用
func (r *UserRepository) ExistsByUsernameExcept(ctx context.Context, username, exceptID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).Error
	return count > 0, err
}

// ListFeaturedCreators 按角色数量降序返回创作者及其角色数
func (r *UserRepository) ListFeaturedCreators(ctx context.Context, limit int) ([]model.User, map[string]int64, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.*").
		Joins("LEFT JOIN characters ON characters.creator_id = users.id").
		Where("users.is_creator = ?", true).
		Group("users.id").
		Order("COUNT(characters.id) DESC").
		Order("users.created_at ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[string]int64, len(users))
	if len(users) == 0 {
		return users, counts, nil
	}

	ids := make([]string, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
		counts[users[i].ID] = 0
	}

	var rows []struct {
		CreatorID string
		Total     int64
	}
	err = r.db.WithContext(ctx).Model(&model.Character{}).
		Select("creator_id, COUNT(*) AS total").
		Where("creator_id IN ?", ids).
		Group("creator_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		counts[row.CreatorID] = row.Total
	}
	return users, counts, nil
}

// GetProfile 查询主页设置，不存在时返回 gorm.ErrRecordNotFound
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertProfileVisibility 写入主页可见性
func (r *UserRepository) UpsertProfileVisibility(ctx context.Context, userID, visibility string) (*model.UserProfile, error) {
	profile := &model.UserProfile{UserID: userID, ProfileVisibility: visibility}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"profile_visibility", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return nil, err
	}
	return r.GetProfile(ctx, userID)
}

// GetRole 查询用户角色，供管理员中间件使用
func (r *UserRepository) GetRole(ctx context.Context, id string) (string, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.UserRole, nil
}
