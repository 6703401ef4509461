package router

import (
	"time"

	"newshub/internal/database"
	"newshub/internal/handlers"
	"newshub/internal/middleware"
	"newshub/internal/services"
	"newshub/pkg/response"
	"newshub/pkg/tokenstore"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
func SetupRouter() *gin.Engine {
	return NewRouter(database.GetDB(), database.GetRevokeStore())
}

// NewRouter 按注入的依赖组装路由（测试直接注入内存数据库和nil吊销存储）
func NewRouter(db *gorm.DB, revokeStore *tokenstore.RevokeStore) *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.WithRequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	registerRoutes(router, db, revokeStore)
	return router
}

// 注册所有路由
// 路由直接挂载在根路径下，与旧版管理台客户端的请求路径保持兼容
func registerRoutes(router *gin.Engine, db *gorm.DB, revokeStore *tokenstore.RevokeStore) {
	userService := services.NewUserService(db)
	roleService := services.NewRoleService(db)
	rightService := services.NewRightService(db)
	categoryService := services.NewCategoryService(db)
	newsService := services.NewNewsService(db)

	auth := middleware.NewAuthMiddleware(userService, revokeStore)

	// 健康检查接口
	router.GET("/health", healthCheck)
	router.GET("/ping", ping)

	// 认证路由（无需登录）
	authHandler := handlers.NewAuthHandler(userService, rightService, revokeStore)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)       // 用户登录
		authGroup.POST("/logout", authHandler.Logout)     // 用户登出
		authGroup.POST("/register", authHandler.Register) // 用户注册
	}

	// 用户路由（用户管理页面权限）
	userHandler := handlers.NewUserHandler(userService)
	users := router.Group("/users")
	{
		users.GET("/me", auth.RequireLogin(), authHandler.Me)

		users.GET("", auth.RequireLogin(), auth.RequireRight("/user-manage/list"), userHandler.GetAll)
		users.POST("", auth.RequireLogin(), auth.RequireRight("/user-manage/list"), userHandler.Create)
		users.GET("/:id", auth.RequireLogin(), auth.RequireRight("/user-manage/list"), userHandler.GetByID)
		users.PATCH("/:id", auth.RequireLogin(), auth.RequireRight("/user-manage/list"), userHandler.Update)
		users.DELETE("/:id", auth.RequireLogin(), auth.RequireRight("/user-manage/list"), userHandler.Delete)
	}

	// 角色路由（权限管理页面权限）
	roleHandler := handlers.NewRoleHandler(roleService)
	roles := router.Group("/roles")
	{
		roles.GET("", auth.RequireLogin(), auth.RequireRight("/right-manage/role/list"), roleHandler.GetAll)
		roles.GET("/:id", auth.RequireLogin(), auth.RequireRight("/right-manage/role/list"), roleHandler.GetByID)
		roles.PATCH("/:id", auth.RequireLogin(), auth.RequireRight("/right-manage/role/list"), roleHandler.Update)
		roles.DELETE("/:id", auth.RequireLogin(), auth.RequireRight("/right-manage/role/list"), roleHandler.Delete)
	}

	// 权限项路由
	rightHandler := handlers.NewRightHandler(rightService)
	rights := router.Group("/rights")
	{
		rights.GET("", auth.RequireLogin(), auth.RequireRight("/right-manage/right/list"), rightHandler.GetAll)
		rights.PATCH("/:id", auth.RequireLogin(), auth.RequireRight("/right-manage/right/list"), rightHandler.Update)
		rights.DELETE("/:id", auth.RequireLogin(), auth.RequireRight("/right-manage/right/list"), rightHandler.Delete)
	}

	// 分类路由（读取公开，写入需要分类管理页面权限）
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	categories := router.Group("/categories")
	{
		categories.GET("", categoryHandler.GetAll)
		categories.POST("", auth.RequireLogin(), auth.RequireRight("/news-manage/category"), categoryHandler.Create)
		categories.PATCH("/:id", auth.RequireLogin(), auth.RequireRight("/news-manage/category"), categoryHandler.Update)
		categories.DELETE("/:id", auth.RequireLogin(), auth.RequireRight("/news-manage/category"), categoryHandler.Delete)
	}

	// 新闻路由
	// 查询为可选认证：匿名访客仅能看到已发布稿件，可见范围在服务层收口；
	// 变更操作的授权由工作流状态机按动作检查
	newsHandler := handlers.NewNewsHandler(newsService)
	news := router.Group("/news")
	{
		news.GET("", auth.OptionalLogin(), newsHandler.GetAll)
		news.GET("/stats", auth.RequireLogin(), auth.RequireRight("/home"), newsHandler.GetStats)
		news.GET("/:id", auth.OptionalLogin(), newsHandler.GetByID)
		news.POST("", auth.RequireLogin(), newsHandler.Create)
		news.PATCH("/:id", auth.RequireLogin(), newsHandler.Patch)
		news.DELETE("/:id", auth.RequireLogin(), newsHandler.Delete)

		// 计数接口：独立的原子自增，不走通用更新
		news.POST("/:id/view", newsHandler.IncrementView)
		news.POST("/:id/star", newsHandler.IncrementStar)
	}
}

func healthCheck(c *gin.Context) {
	data := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "newshub",
		"version":   "1.0.0",
	}
	response.Success(c, data)
}

func ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}
