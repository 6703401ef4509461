package models

import (
	"encoding/json"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// User 用户模型
type User struct {
	BaseModel
	Username     string `json:"username" gorm:"unique;not null;size:50;index"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`
	RoleID       uint   `json:"roleId" gorm:"not null;index"`
	RoleState    bool   `json:"roleState" gorm:"default:true"` // false表示账号被禁用
	IsDefault    bool   `json:"default" gorm:"default:false"`  // 默认账号不可删除

	// 允许管理的分类ID集合（JSON数组），超级管理员隐含全部分类
	AllowedCategoryIDs datatypes.JSON `json:"region" gorm:"type:json"`

	Role *Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}

// SetPassword 设置密码
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
// 迁移窗口内兼容两种编码：bcrypt哈希和历史遗留的明文。
// legacy为true表示命中明文，调用方必须强制改写为哈希并告警
func (u *User) CheckPassword(password string) (ok bool, legacy bool) {
	if strings.HasPrefix(u.PasswordHash, "$2a$") || strings.HasPrefix(u.PasswordHash, "$2b$") || strings.HasPrefix(u.PasswordHash, "$2y$") {
		err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
		return err == nil, false
	}
	// 未迁移的明文记录
	return u.PasswordHash == password, true
}

// AllowedCategories 解析允许管理的分类ID集合
func (u *User) AllowedCategories() []uint {
	var ids []uint
	if len(u.AllowedCategoryIDs) == 0 {
		return ids
	}
	if err := json.Unmarshal(u.AllowedCategoryIDs, &ids); err != nil {
		return nil
	}
	return ids
}

// SetAllowedCategories 写入允许管理的分类ID集合
func (u *User) SetAllowedCategories(ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	u.AllowedCategoryIDs = datatypes.JSON(data)
	return nil
}

// CanManageCategory 检查用户是否可管理指定分类
func (u *User) CanManageCategory(categoryID uint) bool {
	if u.Role != nil && u.Role.Tier == TierSuperAdmin {
		return true
	}
	for _, id := range u.AllowedCategories() {
		if id == categoryID {
			return true
		}
	}
	return false
}
