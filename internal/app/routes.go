package app

import (
	"time"

	"github.com/code-injection/core/internal/middleware"
	"github.com/code-injection/core/internal/modules/activity"
	"github.com/code-injection/core/internal/modules/code"
	"github.com/code-injection/core/internal/modules/injection"
	"github.com/code-injection/core/internal/modules/settings"
	"github.com/code-injection/core/internal/modules/stats"
	"github.com/code-injection/core/internal/modules/user"
	pkgredis "github.com/code-injection/core/internal/pkg/redis"
	"github.com/code-injection/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const rawCacheTTL = 15 * time.Second

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth()
	optionalAuthMW := middleware.OptionalAuth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	cacheMW := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
	if rc != nil {
		cacheMW = middleware.HTTPCache(rc.Raw(), rawCacheTTL)
	}

	// Shared services
	codeSvc := code.NewService(db)
	settingsSvc := settings.NewService(db)
	activityStore := activity.NewGormStore(db)
	recorder := activity.NewRecorder(activityStore, codeSvc)
	engine := injection.NewEngine(codeSvc, settingsSvc, recorder, injection.NewUnsafeExecutor(), a.logger)
	statsSvc := stats.NewService(activityStore)

	userSvc := user.NewService(db)
	if err := userSvc.EnsureAdmin(a.cfg); err != nil {
		a.logger.Warn("admin account seed failed", zap.Error(err))
	}

	api := r.Group("/api/v1")

	user.NewHandler(userSvc).RegisterRoutes(api, authMW)
	code.NewHandler(codeSvc).RegisterRoutes(api, authMW)
	settings.NewHandler(db, settingsSvc).RegisterRoutes(api, authMW)
	activity.NewHandler(db).RegisterRoutes(api, authMW)
	stats.NewHandler(statsSvc, codeSvc).RegisterRoutes(api, authMW)
	injection.NewHandler(engine).RegisterRoutes(api, optionalAuthMW, cacheMW)

	// Plugin-mode codes run once the route table is up.
	go engine.LoadPlugins()
}
