package models

// Right 页面权限项，两级树结构
// Key为页面路由路径，如 "/news-manage/add"
type Right struct {
	BaseModel
	Key            string  `json:"key" gorm:"uniqueIndex;size:100;not null"`
	Title          string  `json:"title" gorm:"size:100;not null"`
	PagePermission bool    `json:"pagepermisson"` // 是否在侧边菜单中展示
	ParentID       *uint   `json:"parentId" gorm:"index"`
	Children       []Right `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}

// TableName 表名
func (r *Right) TableName() string {
	return "rights"
}
