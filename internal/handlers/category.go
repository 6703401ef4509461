package handlers

import (
	"strconv"

	"newshub/internal/services"
	"newshub/pkg/response"

	"github.com/gin-gonic/gin"
)

type CategoryRequest struct {
	Title string `json:"title" binding:"required"`
}

type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// GetAll 获取分类列表
func (h *CategoryHandler) GetAll(c *gin.Context) {
	categories, err := h.service.GetAll()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}
	response.Success(c, categories)
}

// Create 创建分类
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindErrorMessage(err))
		return
	}

	category, err := h.service.Create(req.Title)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, category)
}

// Update 更新分类
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindErrorMessage(err))
		return
	}

	category, err := h.service.Update(uint(id), req.Title)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, category)
}

// Delete 删除分类（补偿事务，用户所辖分类集合同步清理）
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
