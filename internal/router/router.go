package router

import (
	"github.com/makpal80/avtoray/internal/handlers"
	"github.com/makpal80/avtoray/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Deps struct {
	Auth      handlers.AuthAPI
	Authn     middleware.Authenticator
	Catalog   handlers.CatalogAPI
	Orders    *handlers.OrderHandler
	Reports   handlers.ReportAPI
	UploadDir string
}

func Router(d Deps, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	r.Static("/uploads", d.UploadDir)

	authHandler := handlers.NewAuthHandler(d.Auth, log)
	catalogHandler := handlers.NewCatalogHandler(d.Catalog, d.UploadDir, log)
	reportHandler := handlers.NewReportHandler(d.Reports, log)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/products", catalogHandler.ListProducts)

	authed := r.Group("/", middleware.AuthRequired(d.Authn, log))
	authed.GET("/me", authHandler.Me)
	authed.POST("/orders", d.Orders.Create)
	authed.POST("/orders/preview", d.Orders.Preview)
	authed.GET("/orders", d.Orders.ListMine)
	authed.GET("/orders/:id", d.Orders.Get)

	admin := authed.Group("/admin", middleware.AdminRequired())
	admin.GET("/products", catalogHandler.AdminListProducts)
	admin.POST("/products", catalogHandler.CreateProduct)
	admin.PATCH("/products/:id", catalogHandler.UpdateProduct)
	admin.POST("/products/:id/types", catalogHandler.AddVariant)
	admin.DELETE("/products/types/:type_id", catalogHandler.DeleteVariant)

	admin.GET("/orders", d.Orders.AdminList)
	admin.GET("/orders/count", d.Orders.Count)
	admin.GET("/orders/:id", d.Orders.Get)
	admin.PATCH("/orders/:id/approve", d.Orders.Approve)
	admin.PATCH("/orders/:id/reject", d.Orders.Reject)

	admin.PATCH("/users/:id/discount", authHandler.SetDiscount)

	admin.GET("/reports/excel", reportHandler.Orders)
	admin.GET("/reports/client/:user_id/excel", reportHandler.Client)

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()))
	}
}
