package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	authapp "github.com/dwikikusuma/storefront/internal/auth/app"
	authjwt "github.com/dwikikusuma/storefront/internal/auth/infra/jwt"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartmemory "github.com/dwikikusuma/storefront/internal/cart/infra/memory"

	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	catalogmemory "github.com/dwikikusuma/storefront/internal/catalog/infra/memory"

	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	checkoutcache "github.com/dwikikusuma/storefront/internal/checkout/infra/cache"
	checkoutgrpc "github.com/dwikikusuma/storefront/internal/checkout/infra/grpc"
	checkoutpub "github.com/dwikikusuma/storefront/internal/checkout/infra/publisher"
	checkoutrabbit "github.com/dwikikusuma/storefront/internal/checkout/infra/rabbit"

	storefronthttp "github.com/dwikikusuma/storefront/internal/storefront/http"
	"github.com/dwikikusuma/storefront/internal/storefront/http/middleware"

	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/dwikikusuma/storefront/pkg/shutdown"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type serveOptions struct {
	configDir string
	env       string
}

func serve(parent context.Context, opts serveOptions) error {
	cfg, err := config.Load(opts.configDir, opts.env)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
		File:      cfg.LogFile,
	})

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := shutdown.WithSignals(parent)
	defer cancel()

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Catalog
	catalogSvc := catalogapp.NewService(catalogmemory.NewProductRepo())
	if err := seedCatalog(ctx, catalogSvc, cfg.Catalog.Products); err != nil {
		return err
	}
	log.Info("catalog loaded", slog.Int("products", len(cfg.Catalog.Products)))

	// Cart
	cartSvc := cartapp.NewService(cartmemory.NewCartRepo())

	// Auth
	codec := authjwt.NewCodec(authjwt.Config{
		Secret:   cfg.Auth.JWTSecret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.TTL,
	})
	authSvc := authapp.NewService(codec, cfg.Auth.Users)

	// Checkout
	pub, closePub, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePub()

	idem, closeIdem, err := newIdempotencyStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeIdem()

	cartReader := checkoutadapter.NewCartServiceReader(cartSvc)
	checkoutSvc := checkoutapp.NewService(cartReader, pub, idem, log.With("component", "checkout"))

	// HTTP
	session := middleware.NewSession(authSvc, cfg.AppEnv == "prod")
	products := storefronthttp.NewProductHandler(catalogSvc, cartSvc)
	router := storefronthttp.NewRouter(
		log.With("component", "http"),
		session,
		storefronthttp.NewCartHandler(cartSvc, products, checkoutSvc, session, cfg.Checkout.Timeout),
		products,
		storefronthttp.NewLoginHandler(authSvc, session, cfg.Auth.TTL),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.Any("err", err))
		return err
	}
	log.Info("bye")
	return nil
}

func seedCatalog(ctx context.Context, svc *catalogapp.Service, seeds []config.ProductSeed) error {
	for i, seed := range seeds {
		price, err := decimal.NewFromString(seed.Price)
		if err != nil {
			return fmt.Errorf("catalog.products[%d]: price %q: %w", i, seed.Price, err)
		}
		_, err = svc.CreateProduct(ctx, catalogapp.NewProduct{
			Name:        seed.Name,
			Description: seed.Description,
			Price:       price,
			Image:       seed.Image,
			Sizes:       seed.Sizes,
		})
		if err != nil {
			return fmt.Errorf("catalog.products[%d] %q: %w", i, seed.Name, err)
		}
	}
	return nil
}

func newPublisher(cfg config.Config, log *slog.Logger) (checkoutapp.Publisher, func(), error) {
	switch cfg.Checkout.Publisher {
	case "amqp":
		conn, err := amqp.Dial(cfg.Rabbit.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
		}
		pub, err := checkoutrabbit.NewPublisher(ch)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return pub, func() {
			_ = ch.Close()
			_ = conn.Close()
		}, nil

	case "grpc":
		conn, err := checkoutgrpc.Dial(cfg.GRPC.Target, cfg.GRPC.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("grpc dial: %w", err)
		}
		return checkoutgrpc.NewPublisher(conn), func() { _ = conn.Close() }, nil

	default:
		return checkoutpub.NewLogPublisher(log.With("component", "checkout-publisher")), func() {}, nil
	}
}

func newIdempotencyStore(ctx context.Context, cfg config.Config) (checkoutapp.IdempotencyStore, func(), error) {
	if cfg.Redis.Addr == "" {
		return checkoutcache.NewMemoryIdempotencyStore(cfg.Checkout.IdempotencyTTL), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return checkoutcache.NewRedisIdempotencyStore(rdb, cfg.Checkout.IdempotencyTTL), func() { _ = rdb.Close() }, nil
}
