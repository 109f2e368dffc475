package cmd

import (
	"context"
	"fmt"
	"net/http"

	"storefront/api"
	adminctl "storefront/api/admin"
	authctl "storefront/api/auth"
	cartctl "storefront/api/cart"
	"storefront/api/health"
	orderctl "storefront/api/order"
	paymentctl "storefront/api/payment"
	userctl "storefront/api/user"
	adminapp "storefront/application/admin"
	authapp "storefront/application/auth"
	cartapp "storefront/application/cart"
	checkoutapp "storefront/application/checkout"
	orderapp "storefront/application/order"
	paymentapp "storefront/application/payment"
	userapp "storefront/application/user"
	"storefront/config"
	"storefront/domain/cart"
	orderdomain "storefront/domain/order"
	"storefront/domain/shared"
	userdomain "storefront/domain/user"
	"storefront/infrastructure/auth"
	"storefront/infrastructure/cartstore"
	"storefront/infrastructure/gateway"
	"storefront/infrastructure/messaging"
	"storefront/infrastructure/persistence/gormstore"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/persistence/retry"
	"storefront/infrastructure/realtime"
	"storefront/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SeedPassword 示例数据中邮箱账户的登录密码（仅内存存储）
const SeedPassword = "password123"

// AppBuilder wires repositories, services and controllers from config.
type AppBuilder struct {
	cfg     *config.Config
	bus     *shared.EventBus
	checks  map[string]health.CheckFunc
	closers []func() error

	userRepo   userdomain.Repository
	orderRepo  orderdomain.Repository
	uowFactory shared.UnitOfWorkFactory
	carts      cart.Store
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:    cfg,
		bus:    shared.NewEventBus(),
		checks: make(map[string]health.CheckFunc),
	}
}

// Build creates the App instance. The logger must already be initialised.
func (b *AppBuilder) Build(ctx context.Context) (app *App, err error) {
	defer func() {
		if err != nil {
			b.close()
		}
	}()

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env))

	tokens, err := auth.NewTokenManager(b.cfg.Auth.JWTSecret, b.cfg.Auth.Issuer)
	if err != nil {
		return nil, err
	}
	hasher := auth.NewHasher(b.cfg.Auth.BcryptCost)
	retryConfig := retry.FromAppConfig(b.cfg)

	if err := b.initPersistence(ctx, hasher, retryConfig); err != nil {
		return nil, err
	}
	b.initCarts()

	// 实时订单推送：总线上的所有事件都广播给已连接的管理后台
	hub := realtime.NewHub(b.cfg.CORS.AllowOrigins)
	if err := b.bus.Subscribe(shared.Wildcard, hub); err != nil {
		return nil, err
	}
	b.closers = append(b.closers, func() error { hub.Close(); return nil })

	mutator := orderapp.NewMutator(b.orderRepo, b.uowFactory, retryConfig)
	gatewayClient := gateway.NewClient(b.cfg.Gateway)

	authService := authapp.NewService(b.userRepo, b.uowFactory, tokens, hasher, authapp.Settings{
		UserTokenTTL:      b.cfg.Auth.UserTokenTTL,
		AdminTokenTTL:     b.cfg.Auth.AdminTokenTTL,
		AdminUsername:     b.cfg.Auth.AdminUsername,
		AdminPasswordHash: b.cfg.Auth.AdminPasswordHash,
	})
	checkoutService := checkoutapp.NewService(b.orderRepo, b.userRepo, b.uowFactory, checkoutapp.GatewaySettings{
		ClientKey: b.cfg.Gateway.ClientKey,
		ReturnURL: b.cfg.Storefront.BaseURL + "/api/payment/callback",
	})
	paymentService := paymentapp.NewService(b.orderRepo, mutator, b.carts, gatewayClient, paymentapp.Options{
		ConfirmPayments: b.cfg.Gateway.ConfirmPayments,
		StorefrontURL:   b.cfg.Storefront.BaseURL,
	})

	router := api.NewRouter(b.cfg, tokens, api.Controllers{
		Health: health.NewController(b.cfg, b.checks),
		Auth: authctl.NewController(authService, authctl.CookieSettings{
			UserCookie:  b.cfg.Auth.UserCookie,
			AdminCookie: b.cfg.Auth.AdminCookie,
			Secure:      b.cfg.IsProduction(),
		}),
		User:    userctl.NewController(userapp.NewApplicationService(b.userRepo, b.uowFactory, retryConfig)),
		Cart:    cartctl.NewController(cartapp.NewService(b.carts)),
		Order:   orderctl.NewController(orderapp.NewApplicationService(b.orderRepo)),
		Payment: paymentctl.NewController(checkoutService, paymentService),
		Admin:   adminctl.NewController(adminapp.NewService(b.orderRepo, b.userRepo, mutator, b.uowFactory, retryConfig), hub),
	})
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:  b.cfg,
		router:  router,
		server:  server,
		closers: b.closers,
	}, nil
}

func (b *AppBuilder) initPersistence(ctx context.Context, hasher *auth.Hasher, retryConfig retry.Config) error {
	switch b.cfg.Database.Type {
	case "mysql", "postgres":
		return b.initDatabase(ctx, retryConfig)
	default:
		return b.initMemory(ctx, hasher)
	}
}

func (b *AppBuilder) initDatabase(ctx context.Context, retryConfig retry.Config) error {
	logger.Info("Using GORM persistence layer", zap.String("driver", b.cfg.Database.Type))

	dbConfig := gormstore.FromAppConfig(b.cfg.Database)
	db, err := dbConfig.Connect()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	b.closers = append(b.closers, sqlDB.Close)

	if err := gormstore.Ping(ctx, db); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if b.cfg.Database.AutoMigrate {
		if err := gormstore.AutoMigrate(ctx, db); err != nil {
			return fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	// 事件随事务写入 outbox，由 cmd/worker 投递到 Kafka；提交后再通知进程内总线
	b.userRepo = gormstore.NewUserRepository(db)
	b.orderRepo = gormstore.NewOrderRepository(db)
	b.uowFactory = gormstore.NewUnitOfWorkFactory(db, retryConfig, b.bus)
	b.checks["database"] = func(ctx context.Context) error { return gormstore.Ping(ctx, db) }
	return nil
}

func (b *AppBuilder) initMemory(ctx context.Context, hasher *auth.Hasher) error {
	logger.Info("Using in-memory persistence layer")

	users := memory.NewUserRepository()
	orders := memory.NewOrderRepository()
	b.userRepo = users
	b.orderRepo = orders
	b.uowFactory = memory.NewUnitOfWorkFactory(b.bus)

	// 内存模式没有 outbox，配置了 Kafka 时直接从总线转发
	if len(b.cfg.Kafka.Brokers) > 0 {
		publisher, err := messaging.NewKafkaPublisher(b.cfg.Kafka)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, publisher.Close)
		if err := b.bus.Subscribe(shared.Wildcard, messaging.NewEventHandler(publisher)); err != nil {
			return err
		}
	}

	if !b.cfg.Database.Seed {
		return nil
	}
	hash, err := hasher.Hash(SeedPassword)
	if err != nil {
		return err
	}
	data, err := memory.Seed(ctx, users, orders, hash)
	if err != nil {
		return err
	}
	logger.Info("Sample data loaded",
		zap.Int("users", len(data.Users)),
		zap.Int("orders", len(data.Orders)),
		zap.String("login", data.Users[0].Email().Value()))
	return nil
}

func (b *AppBuilder) initCarts() {
	if b.cfg.Redis.Addr == "" {
		b.carts = cartstore.NewMemoryStore()
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     b.cfg.Redis.Addr,
		Password: b.cfg.Redis.Password,
		DB:       b.cfg.Redis.DB,
	})
	store := cartstore.NewRedisStore(client, b.cfg.Redis.CartTTL)
	b.carts = store
	b.checks["redis"] = store.Ping
	b.closers = append(b.closers, client.Close)
	logger.Info("Cart mirror backed by Redis", zap.String("addr", b.cfg.Redis.Addr))
}

func (b *AppBuilder) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			logger.Warn("Cleanup failed", zap.Error(err))
		}
	}
	b.closers = nil
}
