package router

import (
	"context"
	"time"

	"nutripae/internal/cache"
	"nutripae/internal/catalog"
	"nutripae/internal/config"
	"nutripae/internal/handler"
	"nutripae/internal/infra"
	"nutripae/internal/middleware"
	"nutripae/internal/model"
	"nutripae/internal/repository"
	"nutripae/internal/service"
	"nutripae/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Roles allowed per kind of route.
var (
	readRoles  = []string{model.RolAdministrador, model.RolCoordinador, model.RolConsulta}
	writeRoles = []string{model.RolAdministrador, model.RolCoordinador}
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← upstream REST / DB / Redis
//
// db, rdb and jobs are optional. Without db there is no login, operator
// management or audit log; without rdb the query cache stays in memory;
// without jobs purchase orders cannot be emailed. ctx bounds the background
// goroutines started here.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, jobs worker.Queue) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	apiLimiter := middleware.NewLimiter(1000, time.Minute) // per IP
	loginLimiter := middleware.NewLimiter(20, time.Minute)
	go apiLimiter.RunPurge(ctx, 5*time.Minute)
	go loginLimiter.RunPurge(ctx, 5*time.Minute)

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Middleware("Demasiadas solicitudes. Intente nuevamente en un momento."))

	// ── Infrastructure ───────────────────────────────────────────────────────
	store := newStore(cfg, rdb)
	upstream := func(name, url string) *infra.RESTClient {
		return infra.NewRESTClient(name, url, cfg.HTTPTimeout(), infra.NewCircuitBreaker(infra.DefaultCBConfig(name)))
	}
	coverageAPI := upstream("coverage", cfg.CoverageURL)
	hrAPI := upstream("hr", cfg.HRURL)
	menusAPI := upstream("menus", cfg.MenusURL)
	purchasesAPI := upstream("purchases", cfg.PurchasesURL)

	// ── Repositories ─────────────────────────────────────────────────────────
	coverageRepos := repository.NewCoverageRepositories(coverageAPI)
	hrRepos := repository.NewHRRepositories(hrAPI)
	menusRepos := repository.NewMenusRepositories(menusAPI)
	purchasesRepos := repository.NewPurchasesRepositories(purchasesAPI)

	// ── Services ─────────────────────────────────────────────────────────────
	var auditor service.Auditor
	var auditSvc *service.AuditService
	if db != nil {
		auditSvc = service.NewAuditService(repository.NewAuditRepository(db))
		auditor = auditSvc
	}

	var mailer service.EmailEnqueuer
	if jobs != nil {
		mailer = worker.NewDispatcher(jobs)
	}

	stale := cfg.CacheStale()
	coverageSvc := service.NewCoverageServices(coverageRepos, store, stale, auditor)
	hrSvc := service.NewHRServices(hrRepos, store, stale, auditor)
	menusSvc := service.NewMenusServices(menusRepos, store, stale, auditor)
	purchasesSvc := service.NewPurchasesServices(purchasesRepos, store, stale, auditor, service.PurchasesDeps{
		Institutions:   coverageSvc.Institutions,
		Mailer:         mailer,
		PDFStoragePath: cfg.PDFStoragePath,
	})

	catalogs := catalog.NewRegistry()
	service.RegisterRemoteCatalogs(catalogs, store, coverageRepos.Catalogs, hrRepos.Catalogs)
	if cfg.CatalogFixturesPath != "" {
		n, err := catalog.LoadFixtures(cfg.CatalogFixturesPath, catalogs)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.CatalogFixturesPath).Msg("catalog fixtures not loaded")
		} else {
			log.Info().Int("catalogs", n).Msg("catalog fixtures loaded")
		}
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	resourcesH := handler.NewResourcesHandler(handler.Deps{
		Coverage:       coverageSvc,
		HR:             hrSvc,
		Menus:          menusSvc,
		Purchases:      purchasesSvc,
		Catalogs:       catalogs,
		NameCheckDelay: cfg.NameCheckDebounce(),
	})

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, coverageAPI, hrAPI, menusAPI, purchasesAPI))

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1")

	if db != nil {
		authSvc := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)
		authH := handler.NewAuthHandler(authSvc)
		usuariosH := handler.NewUsuariosHandler(authSvc)
		auditH := handler.NewAuditHandler(auditSvc)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", loginLimiter.Middleware("Demasiados intentos de login. Intente en 1 minuto."), authH.Login)
			auth.POST("/refresh", authH.Refresh)
		}

		usuarios := v1.Group("/usuarios", jwtMW, middleware.RequireRole(model.RolAdministrador))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		v1.GET("/auditoria", jwtMW, middleware.RequireRole(model.RolAdministrador), auditH.Listar)
	} else {
		log.Warn().Msg("no database configured: login, operators and audit log disabled")
	}

	// Protected resource routes: every role reads, coordinators and
	// administrators write.
	protected := v1.Group("", jwtMW, middleware.RequireRole(readRoles...))
	resourcesH.Register(protected, middleware.RequireRole(writeRoles...))

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

func newStore(cfg *config.Config, rdb *redis.Client) *cache.Store {
	if cfg.CacheBackend == "redis" {
		if rdb != nil {
			log.Info().Msg("query cache: redis")
			return cache.New(cache.NewRedis(rdb)).SetFetchTimeout(cfg.HTTPTimeout())
		}
		log.Warn().Msg("CACHE_BACKEND=redis but redis is unavailable, using memory")
	}
	return cache.NewMemoryStore().SetFetchTimeout(cfg.HTTPTimeout())
}
