package testutil

import (
	"fmt"
	"testing"

	"charbit-go/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 创建独立的内存 SQLite 数据库并完成迁移，不依赖外部服务
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "SetupTestDB: Open")

	sqlDB, err := db.DB()
	require.NoError(t, err, "SetupTestDB: DB")
	// 内存库只在连接存活期间存在，单连接也保证事务串行
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...), "SetupTestDB: AutoMigrate")
	return db
}

// CreateUser 插入一个测试用户，id 同时作为用户名
func CreateUser(t *testing.T, db *gorm.DB, id string) *model.User {
	t.Helper()

	username := id
	email := id + "@example.com"
	user := &model.User{
		ID:                       id,
		Email:                    &email,
		Username:                 &username,
		CreatorApplicationStatus: model.CreatorStatusNone,
		Theme:                    "black",
		UserRole:                 model.RoleUser,
	}
	require.NoError(t, db.Create(user).Error, "CreateUser")
	return user
}

// CreateCharacter 插入一个测试角色
func CreateCharacter(t *testing.T, db *gorm.DB, creatorID, name, visibility string, tags ...string) *model.Character {
	t.Helper()

	c := &model.Character{
		CreatorID:  creatorID,
		Name:       name,
		Visibility: visibility,
		Tags:       append([]string{"OC"}, tags...),
	}
	require.NoError(t, db.Create(c).Error, "CreateCharacter")
	return c
}
