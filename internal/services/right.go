package services

import (
	stderrors "errors"

	"newshub/internal/models"
	"newshub/pkg/errors"

	"gorm.io/gorm"
)

type RightService struct {
	db *gorm.DB
}

func NewRightService(db *gorm.DB) *RightService {
	return &RightService{db: db}
}

// GetAll 获取全部权限项（平铺）
func (s *RightService) GetAll() ([]*models.Right, error) {
	var rights []*models.Right
	err := s.db.Order("id").Find(&rights).Error
	return rights, err
}

// GetTree 获取两级权限树
func (s *RightService) GetTree() ([]models.Right, error) {
	var tops []models.Right
	err := s.db.Where("parent_id IS NULL").
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Order("id").
		Find(&tops).Error
	return tops, err
}

// RightPatch 权限项部分更新字段
type RightPatch struct {
	Title          *string
	PagePermission *bool
}

// Update 更新权限项
func (s *RightService) Update(id uint, patch RightPatch) (*models.Right, error) {
	var right models.Right
	if err := s.db.First(&right, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("权限项不存在")
		}
		return nil, err
	}

	if patch.Title != nil {
		right.Title = *patch.Title
	}
	if patch.PagePermission != nil {
		right.PagePermission = *patch.PagePermission
	}

	if err := s.db.Save(&right).Error; err != nil {
		return nil, err
	}
	return &right, nil
}

// Delete 删除权限项，顶级节点连同子节点一起删除
func (s *RightService) Delete(id uint) error {
	var right models.Right
	if err := s.db.First(&right, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NewNotFound("权限项不存在")
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if right.ParentID == nil {
			if err := tx.Where("parent_id = ?", id).Delete(&models.Right{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Right{}, id).Error
	})
}
