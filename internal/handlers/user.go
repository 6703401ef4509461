package handlers

import (
	"strconv"

	"newshub/internal/services"
	"newshub/pkg/pagination"
	"newshub/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Username           string `json:"username" binding:"required"`
	Password           string `json:"password" binding:"required"`
	RoleID             uint   `json:"roleId" binding:"required"`
	AllowedCategoryIDs []uint `json:"region"`
}

type UpdateUserRequest struct {
	Username           *string `json:"username"`
	Password           *string `json:"password"`
	RoleID             *uint   `json:"roleId"`
	RoleState          *bool   `json:"roleState"`
	AllowedCategoryIDs []uint  `json:"region"`
}

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create 创建用户
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindErrorMessage(err))
		return
	}

	user, err := h.service.Create(req.Username, req.Password, req.RoleID, req.AllowedCategoryIDs)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, user)
}

// GetAll 获取用户列表（密码不参与序列化）
func (h *UserHandler) GetAll(c *gin.Context) {
	pageParams := pagination.ParsePageParams(c)

	users, total, err := h.service.GetWithPage(pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, users, pageInfo)
}

// GetByID 获取用户
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	user, err := h.service.GetByID(uint(id))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, user)
}

// Update 更新用户，携带密码时落库前重新哈希
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindErrorMessage(err))
		return
	}

	user, err := h.service.Update(uint(id), services.UserPatch{
		Username:           req.Username,
		Password:           req.Password,
		RoleID:             req.RoleID,
		RoleState:          req.RoleState,
		AllowedCategoryIDs: req.AllowedCategoryIDs,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, user)
}

// Delete 删除用户，默认账号受保护
func (h *UserHandler) Delete(c *gin.Context) {
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
