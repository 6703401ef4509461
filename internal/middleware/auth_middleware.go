package middleware

import (
	"strings"

	"newshub/internal/models"
	"newshub/internal/services"
	"newshub/pkg/config"
	"newshub/pkg/jwt"
	"newshub/pkg/response"
	"newshub/pkg/tokenstore"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 权限中间件
type AuthMiddleware struct {
	userService *services.UserService
	jwtManager  *jwt.JWTManager
	revokeStore *tokenstore.RevokeStore // 可为nil（单元测试），此时跳过吊销检查
}

func NewAuthMiddleware(userService *services.UserService, revokeStore *tokenstore.RevokeStore) *AuthMiddleware {
	return &AuthMiddleware{
		userService: userService,
		jwtManager:  jwt.GetJWTManager(),
		revokeStore: revokeStore,
	}
}

// extractToken 提取令牌，优先httpOnly Cookie，兼容Authorization头
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	cookieName := config.GetConfig().JWT.CookieName
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

// resolveUser 验证令牌并解析为用户，返回nil表示未认证
func (m *AuthMiddleware) resolveUser(c *gin.Context) (*models.User, string) {
	tokenString := m.extractToken(c)
	if tokenString == "" {
		return nil, "请先登录"
	}

	claims, err := m.jwtManager.VerifyToken(tokenString)
	if err != nil {
		return nil, "Token无效或已过期"
	}

	if m.revokeStore != nil {
		revoked, err := m.revokeStore.IsRevoked(c.Request.Context(), claims.ID)
		if err == nil && revoked {
			return nil, "Token已失效"
		}
	}

	user, err := m.userService.GetByID(claims.UserID)
	if err != nil {
		return nil, "用户不存在"
	}
	if !user.RoleState {
		return nil, "账号已被禁用"
	}
	return user, ""
}

// RequireLogin 必须携带有效令牌
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, reason := m.resolveUser(c)
		if user == nil {
			response.Unauthorized(c, reason)
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Next()
	}
}

// OptionalLogin 可选认证
// 无令牌或令牌无效不报错，按匿名访客处理；公开查询接口使用
func (m *AuthMiddleware) OptionalLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, _ := m.resolveUser(c); user != nil {
			c.Set("user", user)
			c.Set("user_id", user.ID)
			c.Set("username", user.Username)
		}
		c.Next()
	}
}

// RequireRight 要求持有指定权限key
func (m *AuthMiddleware) RequireRight(routeKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !services.CanAccessRoute(user, routeKey) {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser 从上下文取出当前用户，匿名返回nil
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
