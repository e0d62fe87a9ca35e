package router

import (
	"rag-console-backend/controller"
	"rag-console-backend/middleware"

	"github.com/gin-gonic/gin"
)

func Register() *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		public := api.Group("/user")
		{
			public.POST("/register", controller.UserRegister)
			public.POST("/login", controller.UserLogin)
		}

		// 聊天面向终端用户，无需登录
		api.POST("/chat", controller.Chat)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		{
			admin.GET("/files", controller.GetFiles)
			admin.POST("/files", controller.UploadFile)
			admin.POST("/files/:id/ingest_local", controller.IngestFile)
			admin.DELETE("/files/:id", controller.DeleteFile)

			admin.GET("/sites", controller.GetSites)
			admin.POST("/sites", controller.CreateSite)
			admin.POST("/sites/bulk", controller.BulkCreateSites)
			admin.POST("/sites/:id/reingest", controller.ReingestSite)
			admin.DELETE("/sites/:id", controller.DeleteSite)

			admin.GET("/chunks", controller.GetChunks)
			admin.DELETE("/chunks", controller.DeleteChunks)
		}
	}

	return r
}
