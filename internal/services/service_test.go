package services

import (
	stderrors "errors"
	"fmt"
	"testing"

	"newshub/internal/models"
	"newshub/pkg/errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建内存数据库
// 连接数限制为1，串行化sqlite写入，并发测试依赖该设置
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Right{},
		&models.Category{},
		&models.News{},
	)
	if err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}
	return db
}

// createTestRole 创建测试角色
func createTestRole(t *testing.T, db *gorm.DB, name string, tier models.RoleTier, rights []string) *models.Role {
	t.Helper()

	role := &models.Role{RoleName: name, Tier: tier}
	if err := role.SetRightKeys(rights); err != nil {
		t.Fatalf("设置权限集合失败: %v", err)
	}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("创建角色 %s 失败: %v", name, err)
	}
	return role
}

// createTestUser 创建测试用户，密码统一为 pass123456
func createTestUser(t *testing.T, db *gorm.DB, username string, roleID uint, categoryIDs []uint) *models.User {
	t.Helper()

	user := &models.User{
		Username:  username,
		RoleID:    roleID,
		RoleState: true,
	}
	if err := user.SetPassword("pass123456"); err != nil {
		t.Fatalf("设置密码失败: %v", err)
	}
	if err := user.SetAllowedCategories(categoryIDs); err != nil {
		t.Fatalf("设置所辖分类失败: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建用户 %s 失败: %v", username, err)
	}
	if err := db.Preload("Role").First(user, user.ID).Error; err != nil {
		t.Fatalf("重载用户 %s 失败: %v", username, err)
	}
	return user
}

// createTestCategory 创建测试分类
func createTestCategory(t *testing.T, db *gorm.DB, title string) *models.Category {
	t.Helper()

	category := &models.Category{Title: title}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("创建分类 %s 失败: %v", title, err)
	}
	return category
}

// newsFixture 一套带三个层级用户的标准测试数据
type newsFixture struct {
	db       *gorm.DB
	svc      *NewsService
	superRole, managerRole, editorRole *models.Role
	admin    *models.User // 超级管理员
	manager  *models.User // 分类管理员，所辖分类为cat1
	editor   *models.User // 编辑
	editor2  *models.User // 另一个编辑
	cat1     *models.Category
	cat2     *models.Category
}

func setupNewsFixture(t *testing.T) *newsFixture {
	t.Helper()

	db := setupTestDB(t)
	f := &newsFixture{db: db, svc: NewNewsService(db)}

	f.superRole = createTestRole(t, db, "超级管理员", models.TierSuperAdmin, []string{"/home"})
	f.managerRole = createTestRole(t, db, "分类管理员", models.TierCategoryManager, []string{"/home"})
	f.editorRole = createTestRole(t, db, "编辑", models.TierEditor, []string{"/home"})

	f.cat1 = createTestCategory(t, db, "时政")
	f.cat2 = createTestCategory(t, db, "科技")

	f.admin = createTestUser(t, db, "admin", f.superRole.ID, nil)
	f.manager = createTestUser(t, db, "manager1", f.managerRole.ID, []uint{f.cat1.ID})
	f.editor = createTestUser(t, db, "editor1", f.editorRole.ID, []uint{f.cat1.ID})
	f.editor2 = createTestUser(t, db, "editor2", f.editorRole.ID, []uint{f.cat2.ID})

	return f
}

// assertAppCode 断言错误为指定错误码的业务错误
func assertAppCode(t *testing.T, err error, code int) {
	t.Helper()

	if err == nil {
		t.Fatalf("期望错误码 %d 的错误，实际为nil", code)
	}
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("期望AppError，实际为 %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("期望错误码 %d，实际为 %d (%s)", code, appErr.Code, appErr.Message)
	}
}

// mustState 断言稿件当前状态对
func mustState(t *testing.T, item *models.News, audit models.AuditState, publish models.PublishState) {
	t.Helper()

	if item.AuditState != audit || item.PublishState != publish {
		t.Fatalf("期望状态(%d,%d)，实际为(%d,%d)",
			audit, publish, item.AuditState, item.PublishState)
	}
}

// reloadNews 重新加载稿件
func reloadNews(t *testing.T, db *gorm.DB, id uint) *models.News {
	t.Helper()

	var item models.News
	if err := db.First(&item, id).Error; err != nil {
		t.Fatalf("重载稿件 %d 失败: %v", id, err)
	}
	return &item
}

// mustDraft 创建一篇草稿
func mustDraft(t *testing.T, f *newsFixture, author *models.User, categoryID uint) *models.News {
	t.Helper()

	item, err := f.svc.CreateDraft(author, fmt.Sprintf("%s的稿件", author.Username), "正文内容", categoryID)
	if err != nil {
		t.Fatalf("创建草稿失败: %v", err)
	}
	return item
}
