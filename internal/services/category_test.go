package services

import (
	stderrors "errors"
	"testing"

	"newshub/internal/models"
	"newshub/pkg/errors"

	"gorm.io/gorm"
)

func TestCategoryCreateAndUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	category, err := svc.Create("时政")
	if err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}

	_, err = svc.Create("时政")
	assertAppCode(t, err, errors.CodeConflict)

	if _, err := svc.Create(""); err == nil {
		t.Fatal("空分类名应被拒绝")
	}

	updated, err := svc.Update(category.ID, "国际")
	if err != nil {
		t.Fatalf("更新分类失败: %v", err)
	}
	if updated.Title != "国际" {
		t.Fatalf("分类名称未更新: %s", updated.Title)
	}

	other, _ := svc.Create("科技")
	_, err = svc.Update(other.ID, "国际")
	assertAppCode(t, err, errors.CodeConflict)

	_, err = svc.Update(9999, "体育")
	assertAppCode(t, err, errors.CodeNotFound)
}

// 删除分类时同步摘除所有用户所辖分类集合中的该ID
func TestCategoryDeleteStripsUserGrants(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	cat1 := createTestCategory(t, db, "时政")
	cat2 := createTestCategory(t, db, "科技")

	role := createTestRole(t, db, "分类管理员", models.TierCategoryManager, nil)
	both := createTestUser(t, db, "manager1", role.ID, []uint{cat1.ID, cat2.ID})
	onlyOther := createTestUser(t, db, "manager2", role.ID, []uint{cat2.ID})

	if err := svc.Delete(cat1.ID); err != nil {
		t.Fatalf("删除分类失败: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, both.ID).Error; err != nil {
		t.Fatalf("重载用户失败: %v", err)
	}
	got := reloaded.AllowedCategories()
	if len(got) != 1 || got[0] != cat2.ID {
		t.Fatalf("用户所辖分类应只剩 %d，实际为 %v", cat2.ID, got)
	}

	// 未持有该分类的用户不受影响
	reloaded = models.User{}
	if err := db.First(&reloaded, onlyOther.ID).Error; err != nil {
		t.Fatalf("重载用户失败: %v", err)
	}
	got = reloaded.AllowedCategories()
	if len(got) != 1 || got[0] != cat2.ID {
		t.Fatalf("无关用户的所辖分类不应变化，实际为 %v", got)
	}

	err := svc.Delete(cat1.ID)
	assertAppCode(t, err, errors.CodeNotFound)
}

// 删除分类本身失败时，用户所辖分类集合的摘除必须一并回滚
func TestCategoryDeleteRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	cat := createTestCategory(t, db, "时政")
	role := createTestRole(t, db, "分类管理员", models.TierCategoryManager, nil)
	user := createTestUser(t, db, "manager1", role.ID, []uint{cat.ID})

	// 注入故障：分类表的删除语句一律失败
	forced := stderrors.New("存储故障")
	err := db.Callback().Delete().Before("gorm:delete").Register("test_fail_category_delete", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.Category); ok {
			tx.AddError(forced)
		}
	})
	if err != nil {
		t.Fatalf("注册故障回调失败: %v", err)
	}

	if err := svc.Delete(cat.ID); !stderrors.Is(err, forced) {
		t.Fatalf("期望注入的故障错误，实际为: %v", err)
	}

	// 分类仍在
	var count int64
	db.Model(&models.Category{}).Where("id = ?", cat.ID).Count(&count)
	if count != 1 {
		t.Fatal("删除失败后分类不应消失")
	}

	// 用户所辖分类集合未被摘除
	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("重载用户失败: %v", err)
	}
	got := reloaded.AllowedCategories()
	if len(got) != 1 || got[0] != cat.ID {
		t.Fatalf("删除失败后用户所辖分类应回滚，实际为 %v", got)
	}
}
