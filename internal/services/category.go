package services

import (
	stderrors "errors"

	"newshub/internal/models"
	"newshub/pkg/errors"

	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// GetAll 获取全部分类
func (s *CategoryService) GetAll() ([]*models.Category, error) {
	var categories []*models.Category
	err := s.db.Order("id").Find(&categories).Error
	return categories, err
}

// GetByID 获取分类
func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("分类不存在")
		}
		return nil, err
	}
	return &category, nil
}

// Create 创建分类
func (s *CategoryService) Create(title string) (*models.Category, error) {
	if title == "" {
		return nil, errors.NewValidation("分类名称不能为空")
	}

	var count int64
	s.db.Model(&models.Category{}).Where("title = ?", title).Count(&count)
	if count > 0 {
		return nil, errors.NewConflict("分类名称已存在")
	}

	category := &models.Category{Title: title}
	if err := s.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类名称
func (s *CategoryService) Update(id uint, title string) (*models.Category, error) {
	if title == "" {
		return nil, errors.NewValidation("分类名称不能为空")
	}

	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("分类不存在")
		}
		return nil, err
	}

	var count int64
	s.db.Model(&models.Category{}).Where("title = ? AND id != ?", title, id).Count(&count)
	if count > 0 {
		return nil, errors.NewConflict("分类名称已存在")
	}

	category.Title = title
	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete 删除分类，补偿事务
// 先从所有用户的所辖分类集合中摘除该ID，再删除分类本身，
// 任何一步失败整体回滚，不允许半完成状态
func (s *CategoryService) Delete(id uint) error {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NewNotFound("分类不存在")
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var users []models.User
		if err := tx.Find(&users).Error; err != nil {
			return err
		}

		for i := range users {
			ids := users[i].AllowedCategories()
			kept := make([]uint, 0, len(ids))
			removed := false
			for _, cid := range ids {
				if cid == id {
					removed = true
					continue
				}
				kept = append(kept, cid)
			}
			if !removed {
				continue
			}
			if err := users[i].SetAllowedCategories(kept); err != nil {
				return err
			}
			if err := tx.Model(&models.User{}).Where("id = ?", users[i].ID).
				Update("allowed_category_ids", users[i].AllowedCategoryIDs).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.NewNotFound("分类不存在")
		}
		return nil
	})
}
