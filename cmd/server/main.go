package main

import (
	"context"
	"net/http"
	"time"

	"github.com/haatos/simple-cms/internal"
	"github.com/haatos/simple-cms/internal/handler"
	"github.com/haatos/simple-cms/internal/logger"
	"github.com/haatos/simple-cms/internal/security"
	"github.com/haatos/simple-cms/internal/service"
	"github.com/haatos/simple-cms/internal/settings"
	"github.com/haatos/simple-cms/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	settings.ReadDotenv(internal.DotEnvPath)
	settings.Settings = settings.NewSettings()
	internal.InitializeConfiguration(internal.ConfigPath)
	log := logger.New()
	defer log.Sync()

	hashKey, blockKey := security.NewKeys()
	rdb := store.InitDatabase(true)
	defer rdb.Close()
	rwdb := store.InitDatabase(false)
	defer rwdb.Close()
	if settings.Settings.IsPostgres() {
		store.RunMigrations(rwdb, "postgres")
	} else {
		store.RunMigrations(rwdb, "sqlite")
	}

	userStore := store.NewUserSQLStore(rdb, rwdb)
	sessionStore := store.NewSessionSQLStore(rdb, rwdb)
	rightsStore := store.NewRightsSQLStore(rdb, rwdb)
	moduleStore := store.NewModuleSQLStore(rdb, rwdb)
	sessionValues := store.NewKeyValueStore(settings.Settings.SessionValues)
	defer sessionValues.Close()

	cookieSvc := service.NewCookieService(hashKey, blockKey)
	authSvc := service.NewAuthService(
		userStore, sessionStore, rightsStore, moduleStore, service.SystemClock{}, log,
	)
	userSvc := service.NewUserService(
		userStore,
		service.NewLogMailer(log),
		service.SystemClock{},
		time.Duration(internal.Config.ResetPasswordExpiresHours),
		log,
	)
	moduleSvc := service.NewModuleService(moduleStore, log)

	userSvc.InitializeGodUser(context.Background())

	scheduler := service.NewScheduler()
	defer scheduler.Shutdown()
	sweepEvery := time.Duration(internal.Config.SessionSweepMinutes)
	authSvc.ScheduleSessionSweep(scheduler, sweepEvery)
	sessionValues.ScheduleCleanUp(scheduler, sweepEvery)
	scheduler.Start()

	m := handler.NewMiddleware(
		authSvc, cookieSvc, sessionValues, settings.Settings.CookieExpires, log,
	)
	authH := handler.NewAuthHandler(authSvc, userSvc, settings.Settings.BaseURL(), log)
	accessH := handler.NewAccessHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	moduleH := handler.NewModuleHandler(moduleSvc)

	e := setupEcho(log)
	router := e.Group("", m.Session, m.VerifyFormToken)
	loginLimiter := middleware.RateLimiterWithConfig(
		internal.GetRateLimiterConfig(internal.Config.LoginRateLimit),
	)

	handler.SetupAuthRoutes(router, authH, m, loginLimiter)
	router.GET("/api/allowed", accessH.GetAllowed)
	router.GET("/dashboard", accessH.GetDashboardPage, m.Action("Dashboard", "Index"))
	handler.SetupUserRoutes(router, userH, m)
	handler.SetupModuleRoutes(router, moduleH, m)

	log.Infow("starting server", "port", settings.Settings.Port, "driver", settings.Settings.DatabaseDriver)
	internal.GracefulShutdown(e, settings.Settings.Port)
}

func setupEcho(log *zap.SugaredLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.NewErrorHandler(log)
	e.Use(
		middleware.Recover(),
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogURI:    true,
			LogStatus: true,
			LogMethod: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				log.Infow("request", "method", v.Method, "uri", v.URI, "status", v.Status)
				return nil
			},
		}),
		middleware.CORSWithConfig(internal.GetCORSConfig()),
	)
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	})
	return e
}
