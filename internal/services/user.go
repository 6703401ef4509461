package services

import (
	stderrors "errors"
	"fmt"

	"newshub/internal/models"
	"newshub/pkg/errors"
	"newshub/pkg/logger"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建用户
func (s *UserService) Create(username, password string, roleID uint, allowedCategoryIDs []uint) (*models.User, error) {
	if err := s.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	// 检查角色是否存在
	var role models.Role
	if err := s.db.First(&role, roleID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewValidation("角色不存在")
		}
		return nil, err
	}

	// 检查用户名是否重复
	var count int64
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return nil, errors.NewConflict("用户名已存在")
	}

	user := &models.User{
		Username:  username,
		RoleID:    roleID,
		RoleState: true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}
	if err := user.SetAllowedCategories(allowedCategoryIDs); err != nil {
		return nil, err
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	// 重新加载角色关联
	if err := s.db.Preload("Role").First(user, user.ID).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID 根据ID获取用户（含角色）
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户（含角色）
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Role").Where("username = ?", username).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// GetWithPage 分页获取用户列表
func (s *UserService) GetWithPage(page, pageSize int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := s.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := s.db.Preload("Role").Offset(offset).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UserPatch 用户部分更新字段，nil表示不修改
type UserPatch struct {
	Username           *string
	Password           *string
	RoleID             *uint
	RoleState          *bool
	AllowedCategoryIDs []uint
}

// Update 更新用户，携带明文密码时在落库前重新哈希
func (s *UserService) Update(id uint, patch UserPatch) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("用户不存在")
		}
		return nil, err
	}

	if patch.Username != nil && *patch.Username != user.Username {
		var count int64
		s.db.Model(&models.User{}).Where("username = ? AND id != ?", *patch.Username, id).Count(&count)
		if count > 0 {
			return nil, errors.NewConflict("用户名已存在")
		}
		user.Username = *patch.Username
	}
	if patch.Password != nil {
		if err := s.ValidatePassword(*patch.Password); err != nil {
			return nil, err
		}
		if err := user.SetPassword(*patch.Password); err != nil {
			return nil, fmt.Errorf("密码加密失败: %v", err)
		}
	}
	if patch.RoleID != nil {
		var role models.Role
		if err := s.db.First(&role, *patch.RoleID).Error; err != nil {
			return nil, errors.NewValidation("角色不存在")
		}
		user.RoleID = *patch.RoleID
	}
	if patch.RoleState != nil {
		user.RoleState = *patch.RoleState
	}
	if patch.AllowedCategoryIDs != nil {
		if err := user.SetAllowedCategories(patch.AllowedCategoryIDs); err != nil {
			return nil, err
		}
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Role").First(&user, user.ID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete 删除用户，默认账号受保护
func (s *UserService) Delete(id uint) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NewNotFound("用户不存在")
		}
		return err
	}
	if user.IsDefault {
		return errors.NewForbidden("默认账号不可删除")
	}
	return s.db.Delete(&models.User{}, id).Error
}

// DefaultRoleID 注册用户的默认角色ID（编辑层级）
func (s *UserService) DefaultRoleID() (uint, error) {
	var role models.Role
	if err := s.db.Where("tier = ?", models.TierEditor).First(&role).Error; err != nil {
		return 0, err
	}
	return role.ID, nil
}

// ========== 认证相关方法 ==========

// Authenticate 校验用户名密码
// 命中明文遗留凭证时立即改写为bcrypt哈希并记录告警
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, errors.NewValidation("用户名和密码不能为空")
	}

	var user models.User
	if err := s.db.Preload("Role").Where("username = ?", username).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewUnauthorized("用户名或密码错误")
		}
		return nil, err
	}

	ok, legacy := user.CheckPassword(password)
	if !ok {
		return nil, errors.NewUnauthorized("用户名或密码错误")
	}

	// 禁用账号即使密码正确也不发放令牌
	if !user.RoleState {
		return nil, errors.NewForbidden("账号已被禁用")
	}

	if legacy {
		logger.GetLogger().Warnf("用户 %s 使用明文遗留凭证登录，强制迁移为哈希", user.Username)
		if err := user.SetPassword(password); err != nil {
			logger.GetLogger().Errorf("迁移用户 %s 的遗留凭证失败: %v", user.Username, err)
		} else if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).
			Update("password_hash", user.PasswordHash).Error; err != nil {
			// 迁移失败不阻断登录，下次登录重试
			logger.GetLogger().Errorf("迁移用户 %s 的遗留凭证失败: %v", user.Username, err)
		}
	}

	return &user, nil
}

// ========== 验证相关方法 ==========

// ValidatePassword 验证密码
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.NewValidation("密码长度不能少于6位")
	}
	if len(password) > 50 {
		return errors.NewValidation("密码长度不能超过50位")
	}
	return nil
}

// ValidateCredentials 验证用户名和密码格式
func (s *UserService) ValidateCredentials(username, password string) error {
	if len(username) < 3 || len(username) > 50 {
		return errors.NewValidation("用户名长度必须在3-50个字符之间")
	}
	return s.ValidatePassword(password)
}
