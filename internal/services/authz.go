package services

import (
	"newshub/internal/models"
)

// 本文件是权限判定的唯一实现，列表、详情、变更全部走同一组谓词，
// 不允许任何调用方在客户端或handler层重复实现过滤逻辑。
// 所有谓词均为纯函数：调用方负责预加载user.Role，谓词内部不访问数据库。

// CanAccessRoute 检查用户是否可访问指定权限key对应的页面
func CanAccessRoute(user *models.User, routeKey string) bool {
	if user == nil || user.Role == nil {
		return false
	}
	return user.Role.HasRight(routeKey)
}

// ResolveVisibleMenu 过滤权限树，只保留pagepermisson开启且用户持有的节点
// 子节点仅在父节点通过时才会被递归处理
func ResolveVisibleMenu(tree []models.Right, user *models.User) []models.Right {
	var visible []models.Right
	for _, node := range tree {
		if !node.PagePermission || !CanAccessRoute(user, node.Key) {
			continue
		}
		filtered := node
		filtered.Children = ResolveVisibleMenu(node.Children, user)
		visible = append(visible, filtered)
	}
	return visible
}

// CanManageCategory 检查用户是否可管理指定分类
func CanManageCategory(user *models.User, categoryID uint) bool {
	if user == nil {
		return false
	}
	return user.CanManageCategory(categoryID)
}

// CanReview 检查reviewer是否可审核待审稿件
// 超级管理员可审核任意稿件；分类管理员可审核自己提交的稿件，
// 或作者创建稿件时角色为编辑、且稿件分类在管理员所辖分类内的稿件；
// 编辑永远不能审核（包括自己的稿件）
func CanReview(reviewer *models.User, item *models.News, authorRole *models.Role) bool {
	if reviewer == nil || reviewer.Role == nil || item == nil {
		return false
	}
	switch reviewer.Role.Tier {
	case models.TierSuperAdmin:
		return true
	case models.TierCategoryManager:
		if item.AuthorID == reviewer.ID {
			return true
		}
		if authorRole == nil || authorRole.Tier != models.TierEditor {
			return false
		}
		return reviewer.CanManageCategory(item.CategoryID)
	case models.TierEditor:
		return false
	default:
		return false
	}
}

// CanPublish 检查用户是否可发布、下线或删除已下线稿件
// 作者本人、超级管理员、所辖分类内的分类管理员均可
func CanPublish(user *models.User, item *models.News) bool {
	if user == nil || user.Role == nil || item == nil {
		return false
	}
	if item.AuthorID == user.ID {
		return true
	}
	switch user.Role.Tier {
	case models.TierSuperAdmin:
		return true
	case models.TierCategoryManager:
		return user.CanManageCategory(item.CategoryID)
	default:
		return false
	}
}
