package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/shopswift/storefront/awsclient"
	"github.com/shopswift/storefront/catalog"
	"github.com/shopswift/storefront/controllers"
	"github.com/shopswift/storefront/database"
	"github.com/shopswift/storefront/events"
	"github.com/shopswift/storefront/logger"
	"github.com/shopswift/storefront/middleware"
	"github.com/shopswift/storefront/models"
	"github.com/shopswift/storefront/repository"
	"github.com/shopswift/storefront/routes"
	"github.com/shopswift/storefront/services"
	"github.com/shopswift/storefront/session"
)

const serviceName = "storefront"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	var awsCfg *sdkaws.Config
	if cfg.NeedsAWS() {
		loaded, err := awsclient.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			log.Fatalf("Failed to load AWS config: %v", err)
		}
		awsCfg = &loaded
	}

	var shipper io.Writer
	if cfg.CloudWatch {
		w, err := awsclient.NewCloudWatchLogsWriter(ctx, *awsCfg, cfg.CloudWatchGroup, serviceName)
		if err != nil {
			log.Printf("CloudWatch Logs unavailable, logging to stdout only: %v", err)
		} else {
			shipper = w
		}
	}

	logr, err := logger.New(cfg.Env, shipper)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.AWSUseSecrets {
		if err := cfg.ApplySecrets(ctx, awsclient.NewSecretsClient(*awsCfg)); err != nil {
			logr.Warn("Secrets Manager override failed, using environment credentials", zap.Error(err))
		}
	}

	// Session store
	var store session.Store
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, logr, cfg.RedisURL)
		if err != nil {
			logr.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close() //nolint:errcheck
		store = session.NewRedisStore(redisClient, cfg.SessionTTL)
	} else {
		logr.Warn("REDIS_URL not set, sessions are kept in memory")
		store = session.NewMemoryStore()
	}

	// Order archive
	var orders repository.OrderRepository
	var db *gorm.DB
	if cfg.Postgres.Enabled() {
		db, err = database.ConnectPostgres(logr, cfg.Postgres, &models.OrderRecord{}, &models.OrderLineRecord{})
		if err != nil {
			logr.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer database.Close(db) //nolint:errcheck
		orders = repository.NewGormOrderRepository(db)
	} else {
		logr.Warn("POSTGRES_HOST not set, orders are not archived")
	}

	publisher, err := newPublisher(cfg, awsCfg)
	if err != nil {
		logr.Fatal("Failed to create order event publisher", zap.Error(err))
	}
	defer publisher.Close() //nolint:errcheck

	var metrics *awsclient.MetricsClient
	if awsCfg != nil {
		metrics = awsclient.NewMetricsClient(*awsCfg, cfg.MetricsNS, cfg.CloudWatch)
	} else {
		metrics = awsclient.NewMetricsClientWithAPI(nil, cfg.MetricsNS, false)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logr.Fatal("Failed to load catalog", zap.Error(err))
	}

	// DI chain
	storefront := services.NewStorefrontService(store, cat, orders, publisher, metrics, logr)
	catalogService := services.NewCatalogService(cat)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	limiter := middleware.NewRateLimiter(rate.Every(time.Minute/100), 50, 5*time.Minute)
	defer limiter.Stop()

	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		logger.RequestLogger(logr),
		middleware.SecurityHeaders(),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
		limiter.Middleware(),
		middleware.MetricsMiddleware(metrics, serviceName),
		middleware.Timeout(cfg.RequestTimeout),
	)

	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "healthy", "service": serviceName}
		if redisClient != nil {
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "service": serviceName, "redis": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, status)
	})

	identity := middleware.Identity(middleware.IdentityConfig{
		JWTSecret:       []byte(cfg.JWTSecret),
		CookieMaxAge:    cfg.SessionTTL,
		SecureCookie:    cfg.SecureCookies,
		TrustUserHeader: cfg.TrustGatewayHeaders,
	})
	routes.RegisterProductRoutes(r, controllers.NewProductController(catalogService))
	routes.RegisterCartRoutes(r, controllers.NewCartController(storefront), identity)
	routes.RegisterCheckoutRoutes(r, controllers.NewCheckoutController(storefront), identity)
	routes.RegisterOrderRoutes(r, controllers.NewOrderController(storefront), identity)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("Server failed", zap.Error(err))
		}
	}()

	logr.Info("Storefront service started",
		zap.String("port", cfg.Port),
		zap.String("events", cfg.EventsBackend),
		zap.Bool("archive", orders != nil),
	)
	<-quit
	logr.Info("Shutting down storefront service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("Server forced to shutdown", zap.Error(err))
	}
	logr.Info("Server exited cleanly")
}

func newPublisher(cfg *Config, awsCfg *sdkaws.Config) (events.Publisher, error) {
	switch cfg.EventsBackend {
	case "sns":
		return events.NewSNSPublisher(awsclient.NewSNSClient(*awsCfg), cfg.OrderSNSTopic), nil
	case "kafka":
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return events.NoopPublisher{}, nil
	}
}
