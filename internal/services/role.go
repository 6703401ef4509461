package services

import (
	stderrors "errors"

	"newshub/internal/models"
	"newshub/pkg/errors"

	"gorm.io/gorm"
)

type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// GetAll 获取全部角色
func (s *RoleService) GetAll() ([]*models.Role, error) {
	var roles []*models.Role
	err := s.db.Order("id").Find(&roles).Error
	return roles, err
}

// GetByID 获取角色
func (s *RoleService) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("角色不存在")
		}
		return nil, err
	}
	return &role, nil
}

// RolePatch 角色部分更新字段
type RolePatch struct {
	RoleName *string
	Rights   []string
}

// Update 更新角色
// 权限提升防护：非超级管理员授予的每个权限key必须是其自身已持有的，
// 超出授权人权限集合的变更一律拒绝
func (s *RoleService) Update(actor *models.User, id uint, patch RolePatch) (*models.Role, error) {
	if actor == nil || actor.Role == nil {
		return nil, errors.NewForbidden("无权修改角色")
	}

	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("角色不存在")
		}
		return nil, err
	}

	if patch.Rights != nil && actor.Role.Tier != models.TierSuperAdmin {
		granted := role.RightKeys()
		held := make(map[string]bool, len(granted))
		for _, key := range actor.Role.RightKeys() {
			held[key] = true
		}
		for _, key := range patch.Rights {
			if !held[key] {
				return nil, errors.NewForbidden("不能授予超出自身权限的权限: " + key)
			}
		}
	}

	if patch.RoleName != nil {
		role.RoleName = *patch.RoleName
	}
	if patch.Rights != nil {
		if err := role.SetRightKeys(patch.Rights); err != nil {
			return nil, err
		}
	}

	if err := s.db.Save(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// Delete 删除角色，仍被用户引用的角色不可删除
func (s *RoleService) Delete(id uint) error {
	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NewNotFound("角色不存在")
		}
		return err
	}

	var count int64
	s.db.Model(&models.User{}).Where("role_id = ?", id).Count(&count)
	if count > 0 {
		return errors.NewConflict("角色仍被用户使用，不可删除")
	}

	return s.db.Delete(&models.Role{}, id).Error
}

// GetEditorRoleIDs 获取编辑层级的角色ID集合
// 新闻可见性过滤和审核规则都依赖该集合判断作者角色
func (s *RoleService) GetEditorRoleIDs() ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Role{}).
		Where("tier = ?", models.TierEditor).
		Pluck("id", &ids).Error
	return ids, err
}
