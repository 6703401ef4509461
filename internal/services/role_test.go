package services

import (
	"testing"

	"newshub/internal/models"
	"newshub/pkg/errors"
)

func TestRoleGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoleService(db)

	createTestRole(t, db, "超级管理员", models.TierSuperAdmin, nil)
	editor := createTestRole(t, db, "编辑", models.TierEditor, []string{"/home"})

	roles, err := svc.GetAll()
	if err != nil {
		t.Fatalf("获取角色列表失败: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("期望2个角色，实际为%d", len(roles))
	}

	got, err := svc.GetByID(editor.ID)
	if err != nil {
		t.Fatalf("获取角色失败: %v", err)
	}
	if !got.HasRight("/home") {
		t.Fatal("角色权限集合丢失")
	}

	_, err = svc.GetByID(9999)
	assertAppCode(t, err, errors.CodeNotFound)
}

// 权限提升防护：授权人不能授予自己未持有的权限
func TestRoleUpdatePrivilegeEscalation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoleService(db)

	superRole := createTestRole(t, db, "超级管理员", models.TierSuperAdmin,
		[]string{"/home", "/user-manage/list", "/right-manage/role/list"})
	managerRole := createTestRole(t, db, "分类管理员", models.TierCategoryManager,
		[]string{"/home", "/right-manage/role/list"})
	editorRole := createTestRole(t, db, "编辑", models.TierEditor, []string{"/home"})

	admin := createTestUser(t, db, "admin", superRole.ID, nil)
	manager := createTestUser(t, db, "manager1", managerRole.ID, nil)

	// 管理员授予自己持有的权限，允许
	updated, err := svc.Update(manager, editorRole.ID, RolePatch{Rights: []string{"/home"}})
	if err != nil {
		t.Fatalf("授予已持有权限失败: %v", err)
	}
	if !updated.HasRight("/home") {
		t.Fatal("权限集合未更新")
	}

	// 管理员授予未持有的权限，拒绝
	_, err = svc.Update(manager, editorRole.ID, RolePatch{Rights: []string{"/home", "/user-manage/list"}})
	assertAppCode(t, err, errors.CodeForbidden)

	// 超级管理员可授予任意权限
	updated, err = svc.Update(admin, editorRole.ID, RolePatch{Rights: []string{"/home", "/user-manage/list"}})
	if err != nil {
		t.Fatalf("超级管理员授权失败: %v", err)
	}
	if !updated.HasRight("/user-manage/list") {
		t.Fatal("权限集合未更新")
	}

	// 匿名调用方拒绝
	_, err = svc.Update(nil, editorRole.ID, RolePatch{Rights: []string{"/home"}})
	assertAppCode(t, err, errors.CodeForbidden)

	// 只改名不涉及权限集合，管理员可执行
	newName := "高级编辑"
	updated, err = svc.Update(manager, editorRole.ID, RolePatch{RoleName: &newName})
	if err != nil {
		t.Fatalf("修改角色名失败: %v", err)
	}
	if updated.RoleName != newName {
		t.Fatal("角色名未更新")
	}
}

func TestRoleDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoleService(db)

	editorRole := createTestRole(t, db, "编辑", models.TierEditor, nil)
	createTestUser(t, db, "zhangsan", editorRole.ID, nil)

	// 仍被用户引用的角色不可删除
	err := svc.Delete(editorRole.ID)
	assertAppCode(t, err, errors.CodeConflict)

	unused := createTestRole(t, db, "临时角色", models.TierEditor, nil)
	if err := svc.Delete(unused.ID); err != nil {
		t.Fatalf("删除未使用角色失败: %v", err)
	}

	err = svc.Delete(9999)
	assertAppCode(t, err, errors.CodeNotFound)
}

func TestGetEditorRoleIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoleService(db)

	createTestRole(t, db, "超级管理员", models.TierSuperAdmin, nil)
	editor := createTestRole(t, db, "编辑", models.TierEditor, nil)
	senior := createTestRole(t, db, "高级编辑", models.TierEditor, nil)

	ids, err := svc.GetEditorRoleIDs()
	if err != nil {
		t.Fatalf("获取编辑角色ID失败: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("期望2个编辑角色，实际为%d", len(ids))
	}
	found := map[uint]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found[editor.ID] || !found[senior.ID] {
		t.Fatalf("编辑角色ID集合错误: %v", ids)
	}
}
