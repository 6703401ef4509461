package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// RoleTier 角色层级，封闭枚举
// 新增层级必须同时扩展所有switch分支，避免散落的魔法数字判断
type RoleTier uint

const (
	TierSuperAdmin      RoleTier = 1 // 超级管理员，拥有全部权限和全部分类
	TierCategoryManager RoleTier = 2 // 分类管理员，可审核所辖分类下编辑的稿件
	TierEditor          RoleTier = 3 // 编辑，只能撰写和提交自己的稿件
)

// Valid 检查层级是否在枚举范围内
func (t RoleTier) Valid() bool {
	switch t {
	case TierSuperAdmin, TierCategoryManager, TierEditor:
		return true
	default:
		return false
	}
}

func (t RoleTier) String() string {
	switch t {
	case TierSuperAdmin:
		return "superadmin"
	case TierCategoryManager:
		return "manager"
	case TierEditor:
		return "editor"
	default:
		return fmt.Sprintf("unknown(%d)", uint(t))
	}
}

// Role 角色模型
// Rights为去规范化的权限key集合（JSON数组），与Right.Key对应
type Role struct {
	BaseModel
	RoleName string         `gorm:"size:100;not null;uniqueIndex" json:"roleName"`
	Tier     RoleTier       `gorm:"not null" json:"roleType"`
	Rights   datatypes.JSON `gorm:"type:json" json:"rights"`
}

// TableName 表名
func (r *Role) TableName() string {
	return "roles"
}

// RightKeys 解析权限key集合
func (r *Role) RightKeys() []string {
	var keys []string
	if len(r.Rights) == 0 {
		return keys
	}
	if err := json.Unmarshal(r.Rights, &keys); err != nil {
		return nil
	}
	return keys
}

// SetRightKeys 写入权限key集合
func (r *Role) SetRightKeys(keys []string) error {
	if keys == nil {
		keys = []string{}
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	r.Rights = datatypes.JSON(data)
	return nil
}

// HasRight 检查角色是否持有指定权限key
func (r *Role) HasRight(key string) bool {
	for _, k := range r.RightKeys() {
		if k == key {
			return true
		}
	}
	return false
}
