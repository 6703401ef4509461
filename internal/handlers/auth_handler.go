package handlers

import (
	"time"

	"newshub/internal/middleware"
	"newshub/internal/services"
	"newshub/pkg/config"
	"newshub/pkg/jwt"
	"newshub/pkg/logger"
	"newshub/pkg/response"
	"newshub/pkg/tokenstore"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService  *services.UserService
	rightService *services.RightService
	jwtManager   *jwt.JWTManager
	revokeStore  *tokenstore.RevokeStore // 可为nil（单元测试）
}

func NewAuthHandler(userService *services.UserService, rightService *services.RightService, revokeStore *tokenstore.RevokeStore) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		rightService: rightService,
		jwtManager:   jwt.GetJWTManager(),
		revokeStore:  revokeStore,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// setTokenCookie 下发httpOnly令牌Cookie，前端JS不可读取
func (h *AuthHandler) setTokenCookie(c *gin.Context, token string, maxAge int) {
	cfg := config.GetConfig()
	c.SetCookie(cfg.JWT.CookieName, token, maxAge, "/", cfg.JWT.CookieDomain, cfg.JWT.CookieSecure, true)
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindErrorMessage(err))
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Username, user.RoleID)
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	h.setTokenCookie(c, token, int(h.jwtManager.GetTokenDuration().Seconds()))
	response.Success(c, gin.H{"user": user})
}

// Logout 用户登出，清除Cookie并在服务端吊销令牌
func (h *AuthHandler) Logout(c *gin.Context) {
	defer h.setTokenCookie(c, "", -1)

	cfg := config.GetConfig()
	tokenString, err := c.Cookie(cfg.JWT.CookieName)
	if err != nil || tokenString == "" {
		// 没有令牌也算登出成功
		response.SuccessWithMessage(c, "登出成功", nil)
		return
	}

	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		// 令牌已失效，无需吊销
		response.SuccessWithMessage(c, "登出成功", nil)
		return
	}

	if h.revokeStore != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := h.revokeStore.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
			logger.GetLogger().Warnf("吊销令牌失败: %v", err)
		}
	}

	response.SuccessWithMessage(c, "登出成功", nil)
}

// Register 用户注册
// 公开接口，角色一律落到编辑层级，请求体中的角色字段不被采信，
// 角色变更只能由持有用户管理权限的账号通过用户接口完成
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, bindErrorMessage(err))
		return
	}

	roleID, err := h.userService.DefaultRoleID()
	if err != nil {
		response.ServerError(c, "默认角色缺失")
		return
	}

	user, err := h.userService.Create(req.Username, req.Password, roleID, nil)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, user)
}

// Me 获取当前登录用户信息及可见菜单
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Unauthorized(c, "请先登录")
		return
	}

	tree, err := h.rightService.GetTree()
	if err != nil {
		response.ServerError(c, "获取菜单失败")
		return
	}

	response.Success(c, gin.H{
		"user": user,
		"menu": services.ResolveVisibleMenu(tree, user),
	})
}
