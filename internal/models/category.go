package models

// Category 新闻分类，同时作为编辑权限的控制单元
type Category struct {
	BaseModel
	Title string `json:"title" gorm:"uniqueIndex;size:100;not null"`
}

// TableName 表名
func (c *Category) TableName() string {
	return "categories"
}
