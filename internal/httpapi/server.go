package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/camachodev/courtfile/internal/booking"
	"github.com/camachodev/courtfile/internal/catalog"
	"github.com/camachodev/courtfile/internal/identity"
	"github.com/camachodev/courtfile/pkg/flatfile"
)

// Run boots the HTTP daemon using the supplied configuration.
func Run(ctx context.Context, cfg Config) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("zap init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	handler, err := newHandler(cfg, logger, time.Now)
	if err != nil {
		return err
	}
	if err := handler.initStores(ctx); err != nil {
		return fmt.Errorf("store init: %w", err)
	}

	router := setupRouter(cfg, handler)
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("courtfiled listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("data_dir", cfg.DataDir))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func setupRouter(cfg Config, handler *httpHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	router.GET("/", handler.handleRoot)
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/register", handler.handleRegister)
	router.POST("/login", handler.handleLogin)
	router.GET("/users", handler.handleListUsers)

	router.GET("/courts", handler.handleListCourts)
	router.GET("/courts/:sport_id", handler.handleCourtsBySport)

	router.POST("/reservations", handler.handleCreateReservation)
	router.GET("/reservations", handler.handleListReservations)
	router.GET("/reservations/user/:user_id", handler.handleUserReservations)
	router.GET("/reservations/:court_id/:date", handler.handleCourtReservations)
	router.DELETE("/reservations/:id", handler.handleCancelReservation)

	api := router.Group("/api")
	api.POST("/register", handler.handleSessionRegister)
	api.POST("/login", handler.handleSessionLogin)
	api.GET("/verify", handler.handleVerify)
	api.GET("/stats", handler.handleStats)

	api.POST("/products", handler.handleCreateProduct)
	api.GET("/products", handler.handleListProducts)
	api.GET("/products/:id", handler.handleGetProduct)
	api.PUT("/products/:id", handler.handleUpdateProduct)
	api.DELETE("/products/:id", handler.handleDeleteProduct)

	return router
}

func corsConfig(cfg Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Origin", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = cfg.AllowedOrigins
	corsCfg.AllowCredentials = true
	return corsCfg
}

// newHandler builds the five stores and the three domain services over them.
func newHandler(cfg Config, logger *zap.Logger, now func() time.Time) (*httpHandler, error) {
	users, err := flatfile.NewStore(flatfile.Config{
		Path:   filepath.Join(cfg.DataDir, "users.csv"),
		Schema: identity.UserSchema,
	})
	if err != nil {
		return nil, err
	}
	sessions, err := flatfile.NewStore(flatfile.Config{
		Path:   filepath.Join(cfg.DataDir, "sessions.csv"),
		Schema: identity.SessionSchema,
	})
	if err != nil {
		return nil, err
	}
	courts, err := flatfile.NewStore(flatfile.Config{
		Path:   filepath.Join(cfg.DataDir, "courts.csv"),
		Schema: booking.CourtSchema,
	})
	if err != nil {
		return nil, err
	}
	reservations, err := flatfile.NewStore(flatfile.Config{
		Path:   filepath.Join(cfg.DataDir, "reservations.csv"),
		Schema: booking.ReservationSchema,
	})
	if err != nil {
		return nil, err
	}
	products, err := flatfile.NewStore(flatfile.Config{
		Path:   filepath.Join(cfg.DataDir, "products.csv"),
		Schema: catalog.ProductSchema,
	})
	if err != nil {
		return nil, err
	}

	identityService, err := identity.NewService(users, sessions, now,
		identity.WithOperationLogger(identityZapLogger{logger: logger}))
	if err != nil {
		return nil, err
	}
	bookingService, err := booking.NewService(courts, reservations, now,
		booking.WithOperationLogger(bookingZapLogger{logger: logger}))
	if err != nil {
		return nil, err
	}
	catalogService, err := catalog.NewService(products, now)
	if err != nil {
		return nil, err
	}

	return &httpHandler{
		logger:   logger,
		identity: identityService,
		booking:  bookingService,
		catalog:  catalogService,
		stores:   []*flatfile.Store{users, sessions, courts, reservations, products},
	}, nil
}

func (handler *httpHandler) initStores(ctx context.Context) error {
	for _, store := range handler.stores {
		if err := store.EnsureInitialized(); err != nil {
			return err
		}
	}
	return handler.booking.SeedCourts(ctx)
}

// identityZapLogger forwards identity operation logs to zap.
type identityZapLogger struct {
	logger *zap.Logger
}

func (adapter identityZapLogger) LogOperation(ctx context.Context, entry identity.OperationLog) {
	adapter.logger.Info("identity operation",
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
		zap.String("user_id", entry.UserID),
		zap.Error(entry.Error))
}

// bookingZapLogger forwards booking operation logs to zap.
type bookingZapLogger struct {
	logger *zap.Logger
}

func (adapter bookingZapLogger) LogOperation(ctx context.Context, entry booking.OperationLog) {
	adapter.logger.Info("booking operation",
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
		zap.String("reservation_id", entry.ReservationID),
		zap.String("court_id", entry.CourtID),
		zap.String("date", entry.Date),
		zap.Error(entry.Error))
}
