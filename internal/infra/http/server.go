package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"itemsapi/internal/config"
	"itemsapi/internal/domain"
	"itemsapi/internal/infra/db"
	"itemsapi/internal/infra/policyopa"
	"itemsapi/internal/infra/ratelimit"
	"itemsapi/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout  = 10 * time.Second
	redisPingTimeout = 2 * time.Second
)

type Server struct {
	cfg config.Config
	r   *gin.Engine

	items  ItemService
	health Pinger

	rateLimiter         domain.RateLimiter
	rateLimitRequests   int
	rateLimitWindow     time.Duration
	rateLimitFailClosed bool

	initErr error
}

type ServerDeps struct {
	Items       ItemService
	Health      Pinger
	RateLimiter domain.RateLimiter
}

// NewServer wires the item service over store. Configuration problems are
// reported by Run before any listener is bound.
func NewServer(cfg config.Config, store *db.Store) *Server {
	deps := ServerDeps{Health: store}
	var initErr error

	var policy usecase.AdmissionPolicy
	if engine, err := policyopa.NewEngine(context.Background(), cfg.ItemPolicyPath); err != nil {
		initErr = err
	} else {
		policy = engine
	}
	var repo usecase.ItemRepository
	if store != nil {
		repo = db.NewItemRepository(store.DB)
	}
	deps.Items = usecase.NewItemService(repo, policy)

	deps.RateLimiter = newRedisRateLimiter(cfg)

	s := NewServerWithDeps(cfg, deps)
	if s.initErr == nil {
		s.initErr = initErr
	}
	return s
}

// newRedisRateLimiter returns nil when Redis is not configured or not
// reachable, leaving the memory limiter in place.
func newRedisRateLimiter(cfg config.Config) domain.RateLimiter {
	if cfg.RateLimitRequests <= 0 || cfg.RedisAddr == "" {
		return nil
	}
	limiter, err := ratelimit.NewRedisLimiter(ratelimit.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Printf("redis rate limiter unavailable, using memory: %v", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := limiter.Ping(ctx); err != nil {
		log.Printf("redis rate limiter unreachable at %s, using memory: %v", cfg.RedisAddr, err)
		_ = limiter.Close()
		return nil
	}
	return limiter
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	if cfg.Debug() {
		r.Use(gin.LoggerWithConfig(gin.LoggerConfig{SkipPaths: []string{"/healthz"}}))
	}
	r.Use(gin.Recovery())

	s := &Server{
		cfg:    cfg,
		r:      r,
		items:  deps.Items,
		health: deps.Health,
	}
	// ClientIP keys the rate limiter, so forwarded headers count only from listed proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		s.initErr = fmt.Errorf("trusted proxies: %w", err)
	}
	if err := s.initCORS(); err != nil && s.initErr == nil {
		s.initErr = err
	}
	s.initRateLimit(deps.RateLimiter)
	registerValidatorTagNames()
	s.routes()
	return s
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	s.rateLimiter = override
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
			MaxKeys: s.cfg.RateLimitMaxKeys,
		})
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	s.rateLimitWindow = s.cfg.RateLimitWindow
	if s.rateLimitWindow <= 0 {
		s.rateLimitWindow = time.Minute
	}
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
}

func (s *Server) routes() {
	s.r.GET("/", s.handleRoot)
	s.r.GET("/healthz", s.handleHealth)
	s.r.GET("/items", s.handleListItems)
	s.r.POST("/item", s.rateLimit(routeItemCreate), s.handleCreateItem)

	s.r.NoRoute(s.handleNoRoute)
}

func (s *Server) Handler() http.Handler {
	return s.r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	if s.initErr != nil {
		return s.initErr
	}
	addr := s.cfg.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("items api listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if closer, ok := s.rateLimiter.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	return nil
}
