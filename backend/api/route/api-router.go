package route

import (
	"archive-hub/backend/api/handler"
	"archive-hub/backend/api/middleware"
	"archive-hub/backend/common"
	"archive-hub/backend/service"

	"github.com/gin-gonic/gin"
)

func SetApiRouter(route *gin.Engine, catalog *service.Catalog) {
	userAuth := middleware.UserAuth(catalog.Auth)
	adminAuth := middleware.AdminAuth(catalog.Auth)

	apiRouter := route.Group("/api")
	{
		// Public routes
		apiRouter.GET("/status", handler.GetStatus(catalog.Store))
		apiRouter.POST("/login", middleware.CriticalRateLimit(), handler.Login(catalog.Auth))
		apiRouter.GET("/download/:id", handler.DownloadFile(catalog.Files))

		// Session
		apiRouter.POST("/logout", userAuth, handler.Logout(catalog.Auth))
		apiRouter.GET("/me", userAuth, handler.Me)

		categoryRoute := apiRouter.Group("/categories")
		{
			categoryRoute.GET("", handler.ListCategories(catalog.Categories))
			categoryRoute.GET("/:id", handler.GetCategory(catalog.Categories))
			categoryRoute.POST("", adminAuth, handler.CreateCategory(catalog.Categories))
			categoryRoute.PUT("/:id", adminAuth, handler.UpdateCategory(catalog.Categories))
			categoryRoute.DELETE("/:id", adminAuth, handler.DeleteCategory(catalog.Categories))
		}

		fileRoute := apiRouter.Group("/files")
		{
			fileRoute.GET("", handler.ListFiles(catalog.Files))
			fileRoute.GET("/:id", handler.GetFile(catalog.Files))
			// 先鉴权再接收文件，未授权请求不会落盘
			fileRoute.POST("", adminAuth, middleware.Upload(catalog.Blobs, common.MaxUploadSize), handler.UploadFile(catalog.Files))
			fileRoute.DELETE("/:id", adminAuth, handler.DeleteFile(catalog.Files))
		}

		apiRouter.GET("/stats", adminAuth, handler.GetStats(catalog.Stats))
	}
}
