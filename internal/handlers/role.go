package handlers

import (
	"strconv"

	"newshub/internal/middleware"
	"newshub/internal/services"
	"newshub/pkg/response"

	"github.com/gin-gonic/gin"
)

type UpdateRoleRequest struct {
	RoleName *string  `json:"roleName"`
	Rights   []string `json:"rights"`
}

type RoleHandler struct {
	service *services.RoleService
}

func NewRoleHandler(service *services.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// GetAll 获取角色列表
func (h *RoleHandler) GetAll(c *gin.Context) {
	roles, err := h.service.GetAll()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}
	response.Success(c, roles)
}

// GetByID 获取角色
func (h *RoleHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	role, err := h.service.GetByID(uint(id))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, role)
}

// Update 更新角色（授权人权限集约束在服务层强制）
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindErrorMessage(err))
		return
	}

	actor := middleware.CurrentUser(c)
	role, err := h.service.Update(actor, uint(id), services.RolePatch{
		RoleName: req.RoleName,
		Rights:   req.Rights,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, role)
}

// Delete 删除角色
func (h *RoleHandler) Delete(c *gin.Context) {
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
