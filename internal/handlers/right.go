package handlers

import (
	"strconv"

	"newshub/internal/services"
	"newshub/pkg/response"

	"github.com/gin-gonic/gin"
)

type UpdateRightRequest struct {
	Title          *string `json:"title"`
	PagePermission *bool   `json:"pagepermisson"`
}

type RightHandler struct {
	service *services.RightService
}

func NewRightHandler(service *services.RightService) *RightHandler {
	return &RightHandler{service: service}
}

// GetAll 获取权限项列表
// ?_embed=children 返回两级树，否则平铺
func (h *RightHandler) GetAll(c *gin.Context) {
	if c.Query("_embed") == "children" {
		tree, err := h.service.GetTree()
		if err != nil {
			response.ServerError(c, "查询失败")
			return
		}
		response.Success(c, tree)
		return
	}

	rights, err := h.service.GetAll()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}
	response.Success(c, rights)
}

// Update 更新权限项
func (h *RightHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateRightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindErrorMessage(err))
		return
	}

	right, err := h.service.Update(uint(id), services.RightPatch{
		Title:          req.Title,
		PagePermission: req.PagePermission,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, right)
}

// Delete 删除权限项（顶级节点级联删除子节点）
func (h *RightHandler) Delete(c *gin.Context) {
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
