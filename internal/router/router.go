package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"marketadmin/internal/controller"
	"marketadmin/internal/middleware"
	"marketadmin/internal/model"
)

// Controllers everything InitRoutes mounts
type Controllers struct {
	Auth     *controller.AuthController
	Product  *controller.ProductController
	User     *controller.UserController
	Business *controller.BusinessController
}

// Options route-level settings
type Options struct {
	Issuer        *middleware.TokenIssuer
	LoginCooldown time.Duration
}

// InitRoutes registers the marketplace API under /api, trailing-slash paths like the upstream service
func InitRoutes(r *gin.Engine, ctl Controllers, opts Options) {
	r.RedirectTrailingSlash = false

	auth := middleware.JWTAuth(opts.Issuer)
	caller := middleware.CallerContext()
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	productWriters := middleware.RequireRole(model.RoleAdmin, model.RoleEditor, model.RoleApprover)
	approvers := middleware.RequireRole(model.RoleAdmin, model.RoleApprover)

	api := r.Group("/api")
	{
		// POST /api/login/
		api.POST("/login/", middleware.LoginThrottle(middleware.NewCooldownLimiter(), opts.LoginCooldown), ctl.Auth.Login)

		// GET /api/products/public/
		api.GET("/products/public/", ctl.Product.ListPublic)

		secured := api.Group("", auth, caller)
		{
			secured.GET("/me/", ctl.Auth.Me)

			products := secured.Group("/products")
			{
				products.GET("/", ctl.Product.List)
				products.POST("/", productWriters, ctl.Product.Create)
				products.PUT("/:id/", productWriters, ctl.Product.Update)
				products.DELETE("/:id/", productWriters, ctl.Product.Delete)
				products.POST("/:id/approve/", approvers, ctl.Product.Approve)
			}

			users := secured.Group("/users")
			{
				users.GET("/", ctl.User.List)
				users.POST("/", adminOnly, ctl.User.Create)
				users.PUT("/:id/", adminOnly, ctl.User.Update)
				users.DELETE("/:id/", adminOnly, ctl.User.Delete)
			}

			businesses := secured.Group("/businesses")
			{
				businesses.GET("/", ctl.Business.List)
				businesses.POST("/", adminOnly, ctl.Business.Create)
				businesses.PUT("/:id/", adminOnly, ctl.Business.Update)
				businesses.DELETE("/:id/", adminOnly, ctl.Business.Delete)
			}
		}
	}
}
