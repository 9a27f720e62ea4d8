package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mobile-shop/internal/catalog"
	"mobile-shop/internal/config"
	"mobile-shop/internal/heartbeat"
	apphttp "mobile-shop/internal/http"
	"mobile-shop/internal/repository"
	"mobile-shop/internal/repository/mongodb"
	"mobile-shop/internal/repository/sqlite"
	"mobile-shop/internal/service"
	"mobile-shop/internal/storage"
)

// stores groups the repositories of whichever backend is configured.
type stores struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	close    func()
}

func main() {
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer st.close()

	if err := st.users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := st.products.Init(ctx); err != nil {
		logger.Fatalf("init product repository: %v", err)
	}
	if err := st.orders.Init(ctx); err != nil {
		logger.Fatalf("init order repository: %v", err)
	}

	if cfg.Catalog.SeedFile != "" {
		if _, err := catalog.SeedFile(ctx, cfg.Catalog.SeedFile, st.products, logger); err != nil {
			logger.Fatalf("seed catalog: %v", err)
		}
	}

	photos, err := buildPhotoResolver(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	tokens, err := service.NewTokenService(service.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})
	if err != nil {
		logger.Fatalf("token service: %v", err)
	}

	userService := service.NewUserService(st.users, service.NewBcryptHasher(0), tokens)
	var resolver service.PhotoResolver
	if photos != nil {
		resolver = photos
	}
	catalogService := service.NewCatalogService(st.products, resolver, logger)
	cartService := service.NewCartService(st.users, st.orders, catalogService)

	probe := heartbeat.New(heartbeat.Config{
		Interval: cfg.Heartbeat.Interval,
		Logger:   logger,
	}, st.users)
	probe.Start(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, cartService, catalogService, probe, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	probe.Shutdown()

	logger.Info("bye")
}

func openStores(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, err := mongodb.Open(ctx, cfg.Database.URI)
		if err != nil {
			return nil, err
		}
		logger.Infof("using mongodb database %s", cfg.Database.Name)
		return &stores{
			users:    mongodb.NewUserRepository(client, cfg.Database.Name),
			products: mongodb.NewProductRepository(client, cfg.Database.Name),
			orders:   mongodb.NewOrderRepository(client, cfg.Database.Name),
			close: func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(disconnectCtx); err != nil {
					logger.Warnf("mongodb disconnect: %v", err)
				}
			},
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)
		return &stores{
			users:    sqlite.NewUserRepository(db),
			products: sqlite.NewProductRepository(db),
			orders:   sqlite.NewOrderRepository(db),
			close:    func() { _ = db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// buildPhotoResolver returns nil when no bucket is configured; photo references
// are then served as stored.
func buildPhotoResolver(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*storage.PhotoResolver, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("no storage bucket configured, photo references served as stored")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewPhotoResolver(storage.NewS3Service(client), cfg.Storage.Bucket, cfg.Storage.KeyPrefix, cfg.Storage.PresignTTL)
}
