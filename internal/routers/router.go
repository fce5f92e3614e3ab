package routers

import (
	"time"

	"github.com/haierkeys/fast-diary/internal/app"
	"github.com/haierkeys/fast-diary/internal/middleware"
	"github.com/haierkeys/fast-diary/internal/routers/api_router"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// NewRouter 创建本地 JSON API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		entryHandler := api_router.NewEntryHandler(appContainer)
		settingHandler := api_router.NewSettingHandler(appContainer)
		backupHandler := api_router.NewBackupHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)

		api.GET("/health", healthHandler.Check)

		api.GET("/entry", entryHandler.Get)
		api.POST("/entry", entryHandler.Save)
		api.GET("/entries", entryHandler.List)

		api.GET("/setting/font-size", settingHandler.GetFontSize)
		api.PUT("/setting/font-size", settingHandler.SetFontSize)

		api.POST("/backup", backupHandler.Run)
	}

	r.NoRoute(middleware.NoFound())

	return r
}
