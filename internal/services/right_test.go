package services

import (
	"testing"

	"newshub/internal/models"
	"newshub/pkg/errors"

	"gorm.io/gorm"
)

// seedRightTree 构建一棵两级权限树
func seedRightTree(t *testing.T, db *gorm.DB) (top *models.Right, children []*models.Right) {
	t.Helper()

	top = &models.Right{Key: "/news-manage", Title: "新闻管理", PagePermission: true}
	if err := db.Create(top).Error; err != nil {
		t.Fatalf("创建顶级权限项失败: %v", err)
	}
	for _, item := range []struct {
		key   string
		title string
	}{
		{"/news-manage/add", "撰写新闻"},
		{"/news-manage/draft", "草稿箱"},
	} {
		child := &models.Right{Key: item.key, Title: item.title, PagePermission: true, ParentID: &top.ID}
		if err := db.Create(child).Error; err != nil {
			t.Fatalf("创建子权限项失败: %v", err)
		}
		children = append(children, child)
	}
	return top, children
}

func TestRightGetTree(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRightService(db)
	top, children := seedRightTree(t, db)

	tree, err := svc.GetTree()
	if err != nil {
		t.Fatalf("获取权限树失败: %v", err)
	}
	if len(tree) != 1 || tree[0].ID != top.ID {
		t.Fatalf("期望1个顶级节点，实际为%d", len(tree))
	}
	if len(tree[0].Children) != len(children) {
		t.Fatalf("期望%d个子节点，实际为%d", len(children), len(tree[0].Children))
	}

	flat, err := svc.GetAll()
	if err != nil {
		t.Fatalf("获取平铺列表失败: %v", err)
	}
	if len(flat) != 3 {
		t.Fatalf("期望3个权限项，实际为%d", len(flat))
	}
}

func TestRightUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRightService(db)
	top, _ := seedRightTree(t, db)

	hidden := false
	updated, err := svc.Update(top.ID, RightPatch{PagePermission: &hidden})
	if err != nil {
		t.Fatalf("更新权限项失败: %v", err)
	}
	if updated.PagePermission {
		t.Fatal("pagepermisson未更新")
	}

	_, err = svc.Update(9999, RightPatch{PagePermission: &hidden})
	assertAppCode(t, err, errors.CodeNotFound)
}

// 删除顶级权限项时级联删除子节点
func TestRightDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRightService(db)
	top, children := seedRightTree(t, db)

	// 先删一个子节点，不影响兄弟节点
	if err := svc.Delete(children[0].ID); err != nil {
		t.Fatalf("删除子权限项失败: %v", err)
	}
	var count int64
	db.Model(&models.Right{}).Count(&count)
	if count != 2 {
		t.Fatalf("期望剩余2个权限项，实际为%d", count)
	}

	if err := svc.Delete(top.ID); err != nil {
		t.Fatalf("删除顶级权限项失败: %v", err)
	}
	db.Model(&models.Right{}).Count(&count)
	if count != 0 {
		t.Fatalf("级联删除后应无剩余权限项，实际为%d", count)
	}

	err := svc.Delete(9999)
	assertAppCode(t, err, errors.CodeNotFound)
}
