package models

import (
	"time"
)

// AuditState 稿件审核状态
type AuditState int8

const (
	AuditDraft    AuditState = 0 // 草稿
	AuditPending  AuditState = 1 // 待审核
	AuditApproved AuditState = 2 // 审核通过
	AuditRejected AuditState = 3 // 已驳回
)

// PublishState 稿件发布状态
type PublishState int8

const (
	PublishUnpublished PublishState = 0 // 未发布
	PublishReady       PublishState = 1 // 审核通过待发布
	PublishPublished   PublishState = 2 // 已发布
	PublishSunset      PublishState = 3 // 已下线
)

// News 新闻稿件
// RoleID记录作者创建稿件时的角色，审核规则依赖该快照而非作者当前角色
type News struct {
	BaseModel
	Title        string       `json:"title" gorm:"size:255;not null"`
	Content      string       `json:"content" gorm:"type:text"`
	AuthorID     uint         `json:"authorId" gorm:"not null;index"`
	Author       string       `json:"author" gorm:"size:50;not null;index"`
	RoleID       uint         `json:"roleId" gorm:"not null"`
	CategoryID   uint         `json:"categoryId" gorm:"not null;index"`
	AuditState   AuditState   `json:"auditState" gorm:"not null;default:0;index"`
	PublishState PublishState `json:"publishState" gorm:"not null;default:0;index"`
	RejectReason string       `json:"rejectReason,omitempty" gorm:"size:500"`
	View         uint         `json:"view" gorm:"not null;default:0"`
	Star         uint         `json:"star" gorm:"not null;default:0"`
	PublishTime  *time.Time   `json:"publishTime,omitempty"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Role     *Role     `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// TableName 表名
func (n *News) TableName() string {
	return "news"
}

// StatePair 当前状态对 (auditState, publishState)
func (n *News) StatePair() [2]int8 {
	return [2]int8{int8(n.AuditState), int8(n.PublishState)}
}
