package handlers

import (
	"strconv"

	"newshub/internal/middleware"
	"newshub/internal/models"
	"newshub/internal/services"
	"newshub/pkg/pagination"
	"newshub/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateNewsRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content"`
	CategoryID uint   `json:"categoryId" binding:"required"`
}

// PatchNewsRequest 内容更新与状态转换共用一个请求体
// 携带auditState/publishState即按工作流动作处理，否则按内容编辑处理
type PatchNewsRequest struct {
	Title        *string              `json:"title"`
	Content      *string              `json:"content"`
	CategoryID   *uint                `json:"categoryId"`
	AuditState   *models.AuditState   `json:"auditState"`
	PublishState *models.PublishState `json:"publishState"`
	RejectReason string               `json:"rejectReason"`
}

type NewsHandler struct {
	service *services.NewsService
}

func NewNewsHandler(service *services.NewsService) *NewsHandler {
	return &NewsHandler{service: service}
}

// parseStateQuery 解析状态过滤参数
func parseStateQuery(c *gin.Context, name string) (*int8, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(value, 10, 8)
	if err != nil || n < 0 || n > 3 {
		return nil, false
	}
	state := int8(n)
	return &state, true
}

// GetAll 按请求者可见范围查询稿件列表
func (h *NewsHandler) GetAll(c *gin.Context) {
	filter := services.NewsFilter{
		Author:    c.Query("author"),
		SortField: c.Query("_sort"),
		SortOrder: c.Query("_order"),
		Limit:     pagination.ParseLimit(c),
		Expand:    c.Query("_expand") == "category",
	}

	if state, ok := parseStateQuery(c, "auditState"); !ok {
		response.BadRequest(c, "auditState参数错误")
		return
	} else if state != nil {
		auditState := models.AuditState(*state)
		filter.AuditState = &auditState
	}
	if state, ok := parseStateQuery(c, "publishState"); !ok {
		response.BadRequest(c, "publishState参数错误")
		return
	} else if state != nil {
		publishState := models.PublishState(*state)
		filter.PublishState = &publishState
	}
	if categoryStr := c.Query("categoryId"); categoryStr != "" {
		categoryID, err := strconv.ParseUint(categoryStr, 10, 32)
		if err != nil {
			response.BadRequest(c, "categoryId参数错误")
			return
		}
		id := uint(categoryID)
		filter.CategoryID = &id
	}

	items, err := h.service.List(middleware.CurrentUser(c), filter)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, items)
}

// GetByID 获取稿件详情，支持多值_expand（category、role）
func (h *NewsHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	expandCategory, expandRole := false, false
	for _, expand := range c.QueryArray("_expand") {
		switch expand {
		case "category":
			expandCategory = true
		case "role":
			expandRole = true
		}
	}

	item, err := h.service.GetByID(middleware.CurrentUser(c), uint(id), expandCategory, expandRole)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, item)
}

// Create 创建草稿
func (h *NewsHandler) Create(c *gin.Context) {
	var req CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindErrorMessage(err))
		return
	}

	item, err := h.service.CreateDraft(middleware.CurrentUser(c), req.Title, req.Content, req.CategoryID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, item)
}

// Patch 更新稿件
// 状态字段的变更一律经过工作流状态机，不走通用更新路径
func (h *NewsHandler) Patch(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req PatchNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindErrorMessage(err))
		return
	}

	actor := middleware.CurrentUser(c)

	if req.AuditState != nil || req.PublishState != nil {
		item, err := h.service.GetByID(actor, uint(id), false, false)
		if err != nil {
			response.HandleError(c, err)
			return
		}
		action, err := services.ResolveAction(item, req.AuditState, req.PublishState)
		if err != nil {
			response.HandleError(c, err)
			return
		}
		updated, err := h.service.Transition(actor, uint(id), action, req.RejectReason)
		if err != nil {
			response.HandleError(c, err)
			return
		}
		response.Success(c, updated)
		return
	}

	updated, err := h.service.UpdateContent(actor, uint(id), services.NewsPatch{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, updated)
}

// Delete 删除稿件（仅草稿和已下线）
func (h *NewsHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(middleware.CurrentUser(c), uint(id)); err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// IncrementView 浏览数加一（原子操作）
func (h *NewsHandler) IncrementView(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.IncrementView(uint(id)); err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "success", nil)
}

// IncrementStar 点赞数加一（原子操作）
func (h *NewsHandler) IncrementStar(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.IncrementStar(uint(id)); err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "success", nil)
}

// GetStats 获取稿件状态分布统计
func (h *NewsHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}
	response.Success(c, stats)
}
