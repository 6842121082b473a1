package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/config"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/handler"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/infra"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/middleware"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/repository"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/service"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	listaRepo := repository.NewListaPrecioRepository(db)
	revisionRepo := repository.NewRevisionPrecioRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, categoriaRepo, proveedorRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	listaSvc := service.NewListaPrecioService(listaRepo, rdb)
	precioSvc := service.NewPrecioService(productoRepo, listaRepo, rdb)
	revisionSvc := service.NewRevisionService(revisionRepo, productoRepo, listaRepo, categoriaRepo, proveedorRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	listasH := handler.NewListasPreciosHandler(listaSvc)
	revisionesH := handler.NewRevisionesHandler(revisionSvc)
	consultaH := handler.NewConsultaPreciosHandler(precioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required, read-only
	r.GET("/v1/precio/:barcode", consultaH.GetPrecioPorBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Productos — all authenticated roles can read (catalog sync)
		v1.GET("/productos", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.Obtener)
		// Write operations — administrador only
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		// Categorias — administrador can write, all authenticated can read
		v1.GET("/categorias", middleware.RequireRole("cajero", "supervisor", "administrador"), categoriasH.Listar)
		categorias := v1.Group("/categorias", middleware.RequireRole("administrador"))
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}

		prov := v1.Group("/proveedores", middleware.RequireRole("administrador"))
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.Obtener)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Desactivar)
		}

		// Listas de precios — supervisors can read, administrador writes
		v1.GET("/listas-precios", middleware.RequireRole("supervisor", "administrador"), listasH.Listar)
		v1.GET("/listas-precios/:id", middleware.RequireRole("supervisor", "administrador"), listasH.Obtener)
		listas := v1.Group("/listas-precios", middleware.RequireRole("administrador"))
		{
			listas.POST("", listasH.Crear)
			listas.PUT("/:id", listasH.Actualizar)
			listas.DELETE("/:id", listasH.Eliminar)
		}

		// Revisiones masivas — apply/revert are administrador-only
		v1.GET("/revisiones-precios", middleware.RequireRole("supervisor", "administrador"), revisionesH.Listar)
		v1.GET("/revisiones-precios/:id", middleware.RequireRole("supervisor", "administrador"), revisionesH.Obtener)
		revisiones := v1.Group("/revisiones-precios", middleware.RequireRole("administrador"))
		{
			revisiones.POST("", revisionesH.Aplicar)
			revisiones.POST("/preview", revisionesH.Previsualizar)
			revisiones.POST("/:id/revertir", revisionesH.Revertir)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
