package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketadmin/internal/controller"
	"marketadmin/internal/middleware"
	"marketadmin/internal/model"
	"marketadmin/internal/repository"
	"marketadmin/internal/service"
)

// SandboxConfig settings for the in-process marketplace API
type SandboxConfig struct {
	JWT           *middleware.JWTConfig
	LoginCooldown time.Duration

	// bootstrap account, created when missing; empty username skips seeding
	AdminUsername string
	AdminPassword string
	AdminBusiness string
}

// SandboxModels tables owned by the sandbox
var SandboxModels = []interface{}{&model.Business{}, &model.User{}, &model.Product{}}

// NewSandbox migrates db, wires repositories, services and controllers, and returns a ready gin engine
func NewSandbox(ctx context.Context, db *gorm.DB, log *zap.Logger, cfg SandboxConfig) (*gin.Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.AutoMigrate(SandboxModels...); err != nil {
		return nil, err
	}
	if err := middleware.RegisterAuditCallbacks(db); err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	productRepo := repository.NewProductRepository(db)

	issuer := middleware.NewTokenIssuer(cfg.JWT)
	authSvc := service.NewAuthService(userRepo, issuer)
	userSvc := service.NewUserService(userRepo, businessRepo)
	businessSvc := service.NewBusinessService(businessRepo)
	productSvc := service.NewProductService(productRepo)

	if cfg.AdminUsername != "" {
		admin, err := userSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminBusiness)
		if err != nil {
			return nil, err
		}
		log.Info("sandbox admin ready", zap.String("username", admin.Username), zap.Int64("business", admin.BusinessID))
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	apiLog := log.Named("sandbox")
	InitRoutes(r, Controllers{
		Auth:     controller.NewAuthController(authSvc, apiLog),
		Product:  controller.NewProductController(productSvc, apiLog),
		User:     controller.NewUserController(userSvc, apiLog),
		Business: controller.NewBusinessController(businessSvc, apiLog),
	}, Options{
		Issuer:        issuer,
		LoginCooldown: cfg.LoginCooldown,
	})
	return r, nil
}

// requestLogger one zap line per request, tagged with the console's request id
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", c.GetHeader(middleware.HeaderRequestID)),
		)
	}
}
