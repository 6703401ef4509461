package main

import (
	"fmt"

	"newshub/internal/database"
	"newshub/internal/models"
	"newshub/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
func seedData() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	// 1. 初始化页面权限树
	if err := initializeRights(db); err != nil {
		return fmt.Errorf("初始化权限失败: %v", err)
	}

	// 2. 创建固定角色
	if err := initializeRoles(db); err != nil {
		return fmt.Errorf("初始化角色失败: %v", err)
	}

	// 3. 创建默认分类
	if err := initializeCategories(db); err != nil {
		return fmt.Errorf("初始化分类失败: %v", err)
	}

	// 4. 创建默认管理员用户
	if err := createDefaultAdmin(db); err != nil {
		return fmt.Errorf("创建默认管理员失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// 管理台页面权限树（两级）
var defaultRights = []struct {
	Key      string
	Title    string
	Page     bool
	Children []struct {
		Key   string
		Title string
		Page  bool
	}
}{
	{Key: "/home", Title: "首页", Page: true},
	{Key: "/user-manage", Title: "用户管理", Page: true, Children: []struct {
		Key   string
		Title string
		Page  bool
	}{
		{Key: "/user-manage/list", Title: "用户列表", Page: true},
	}},
	{Key: "/right-manage", Title: "权限管理", Page: true, Children: []struct {
		Key   string
		Title string
		Page  bool
	}{
		{Key: "/right-manage/role/list", Title: "角色列表", Page: true},
		{Key: "/right-manage/right/list", Title: "权限列表", Page: true},
	}},
	{Key: "/news-manage", Title: "新闻管理", Page: true, Children: []struct {
		Key   string
		Title string
		Page  bool
	}{
		{Key: "/news-manage/add", Title: "撰写新闻", Page: true},
		{Key: "/news-manage/draft", Title: "草稿箱", Page: true},
		{Key: "/news-manage/category", Title: "新闻分类", Page: true},
		{Key: "/news-manage/preview", Title: "新闻预览", Page: false},
		{Key: "/news-manage/update", Title: "新闻更新", Page: false},
	}},
	{Key: "/audit-manage", Title: "审核管理", Page: true, Children: []struct {
		Key   string
		Title string
		Page  bool
	}{
		{Key: "/audit-manage/audit", Title: "审核新闻", Page: true},
		{Key: "/audit-manage/list", Title: "审核列表", Page: true},
	}},
	{Key: "/publish-manage", Title: "发布管理", Page: true, Children: []struct {
		Key   string
		Title string
		Page  bool
	}{
		{Key: "/publish-manage/unpublished", Title: "待发布", Page: true},
		{Key: "/publish-manage/published", Title: "已发布", Page: true},
		{Key: "/publish-manage/sunset", Title: "已下线", Page: true},
	}},
}

// initializeRights 初始化页面权限树
func initializeRights(db *gorm.DB) error {
	for _, top := range defaultRights {
		var parent models.Right
		err := db.Where("key = ?", top.Key).First(&parent).Error
		if err != nil {
			parent = models.Right{Key: top.Key, Title: top.Title, PagePermission: top.Page}
			if err := db.Create(&parent).Error; err != nil {
				return err
			}
		}
		for _, child := range top.Children {
			var count int64
			db.Model(&models.Right{}).Where("key = ?", child.Key).Count(&count)
			if count > 0 {
				continue
			}
			parentID := parent.ID
			right := models.Right{
				Key:            child.Key,
				Title:          child.Title,
				PagePermission: child.Page,
				ParentID:       &parentID,
			}
			if err := db.Create(&right).Error; err != nil {
				return err
			}
		}
	}

	logger.GetLogger().Info("页面权限初始化完成")
	return nil
}

// rightsForTier 各层级角色的默认权限集
func rightsForTier(tier models.RoleTier) []string {
	var all []string
	for _, top := range defaultRights {
		all = append(all, top.Key)
		for _, child := range top.Children {
			all = append(all, child.Key)
		}
	}

	switch tier {
	case models.TierSuperAdmin:
		return all
	case models.TierCategoryManager:
		return []string{
			"/home",
			"/news-manage", "/news-manage/add", "/news-manage/draft",
			"/news-manage/category", "/news-manage/preview", "/news-manage/update",
			"/audit-manage", "/audit-manage/audit", "/audit-manage/list",
			"/publish-manage", "/publish-manage/unpublished",
			"/publish-manage/published", "/publish-manage/sunset",
		}
	case models.TierEditor:
		return []string{
			"/home",
			"/news-manage", "/news-manage/add", "/news-manage/draft",
			"/news-manage/preview", "/news-manage/update",
			"/audit-manage", "/audit-manage/list",
			"/publish-manage", "/publish-manage/unpublished",
			"/publish-manage/published", "/publish-manage/sunset",
		}
	default:
		return nil
	}
}

// initializeRoles 创建三个固定层级的角色
func initializeRoles(db *gorm.DB) error {
	fixedRoles := []struct {
		Name string
		Tier models.RoleTier
	}{
		{Name: "超级管理员", Tier: models.TierSuperAdmin},
		{Name: "分类管理员", Tier: models.TierCategoryManager},
		{Name: "编辑", Tier: models.TierEditor},
	}

	for _, item := range fixedRoles {
		var count int64
		db.Model(&models.Role{}).Where("tier = ?", item.Tier).Count(&count)
		if count > 0 {
			continue
		}
		role := &models.Role{RoleName: item.Name, Tier: item.Tier}
		if err := role.SetRightKeys(rightsForTier(item.Tier)); err != nil {
			return err
		}
		if err := db.Create(role).Error; err != nil {
			return err
		}
	}

	logger.GetLogger().Info("角色初始化完成")
	return nil
}

// initializeCategories 创建默认分类
func initializeCategories(db *gorm.DB) error {
	titles := []string{"时事新闻", "环球经济", "科学技术", "军事频道", "世界体育", "生活娱乐"}
	for _, title := range titles {
		var count int64
		db.Model(&models.Category{}).Where("title = ?", title).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&models.Category{Title: title}).Error; err != nil {
			return err
		}
	}

	logger.GetLogger().Info("分类初始化完成")
	return nil
}

// createDefaultAdmin 创建默认管理员
// 默认账号标记为受保护，任何人不可删除
func createDefaultAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认管理员已存在，跳过创建")
		return nil
	}

	var superRole models.Role
	if err := db.Where("tier = ?", models.TierSuperAdmin).First(&superRole).Error; err != nil {
		return fmt.Errorf("获取超级管理员角色失败: %v", err)
	}

	admin := &models.User{
		Username:  "admin",
		RoleID:    superRole.ID,
		RoleState: true,
		IsDefault: true,
	}
	if err := admin.SetPassword("admin123"); err != nil {
		return err
	}
	if err := admin.SetAllowedCategories(nil); err != nil {
		return err
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("默认管理员创建成功（用户名: admin）")
	return nil
}
