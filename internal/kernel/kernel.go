// Package kernel boots the shop: it opens every backing store, builds the
// repositories and services on top of them and assembles the HTTP handler.
//
//	k, err := kernel.Boot(ctx)
//	if err != nil { ... }
//	defer k.Close(context.Background())
//	http.ListenAndServe(":8080", k.Handler())
package kernel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/honeyshop/app/controllers"
	"github.com/shashiranjanraj/honeyshop/app/jobs"
	"github.com/shashiranjanraj/honeyshop/app/listeners"
	"github.com/shashiranjanraj/honeyshop/app/repositories"
	"github.com/shashiranjanraj/honeyshop/app/routes"
	"github.com/shashiranjanraj/honeyshop/app/schema"
	"github.com/shashiranjanraj/honeyshop/app/services"
	"github.com/shashiranjanraj/honeyshop/config"
	"github.com/shashiranjanraj/honeyshop/database/seeders"
	"github.com/shashiranjanraj/honeyshop/pkg/auth"
	"github.com/shashiranjanraj/honeyshop/pkg/cache"
	"github.com/shashiranjanraj/honeyshop/pkg/database"
	"github.com/shashiranjanraj/honeyshop/pkg/docstore"
	"github.com/shashiranjanraj/honeyshop/pkg/event"
	"github.com/shashiranjanraj/honeyshop/pkg/graphql"
	"github.com/shashiranjanraj/honeyshop/pkg/logger"
	"github.com/shashiranjanraj/honeyshop/pkg/mail"
	"github.com/shashiranjanraj/honeyshop/pkg/metrics"
	"github.com/shashiranjanraj/honeyshop/pkg/middleware"
	"github.com/shashiranjanraj/honeyshop/pkg/notification"
	"github.com/shashiranjanraj/honeyshop/pkg/queue"
	"github.com/shashiranjanraj/honeyshop/pkg/reqid"
	"github.com/shashiranjanraj/honeyshop/pkg/router"
	"github.com/shashiranjanraj/honeyshop/pkg/schedule"
	"github.com/shashiranjanraj/honeyshop/pkg/storage"
	"github.com/shashiranjanraj/honeyshop/pkg/workerpool"
	"github.com/shashiranjanraj/honeyshop/pkg/ws"
)

// Kernel owns every long-lived dependency of the process.
type Kernel struct {
	DB     *gorm.DB
	Docs   *docstore.Store
	Redis  *redis.Client
	Disk   storage.Disk
	Pool   *workerpool.Pool
	Events *event.Bus
	Queue  *queue.Manager
	Hub    *ws.Hub
	Tokens *auth.Issuer
	Cron   *schedule.Scheduler

	Users     *repositories.UserRepository
	Accounts  *services.AccountService
	Addresses *services.AddressService
	Catalog   *services.CatalogService
	Reviews   *services.ReviewService
	Carts     *services.CartService
	Orders    *services.OrderService

	logSink *logger.MongoHandler
	closers []io.Closer
	handler http.Handler
}

// Boot connects to the configured stores and wires the application. On
// error everything opened so far is closed again.
func Boot(ctx context.Context) (*Kernel, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}

	k := &Kernel{}
	if err := k.connect(ctx); err != nil {
		k.Close(context.Background())
		return nil, err
	}
	if err := k.wire(); err != nil {
		k.Close(context.Background())
		return nil, err
	}
	return k, nil
}

func (k *Kernel) connect(ctx context.Context) error {
	db, err := database.Connect()
	if err != nil {
		return err
	}
	k.DB = db

	docs, err := docstore.Connect(ctx, config.MongoURI(), config.MongoDB())
	if err != nil {
		return err
	}
	k.Docs = docs
	if err := docs.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("kernel: mongo indexes: %w", err)
	}

	if config.Bool("LOG_MONGO") {
		logs := docs.Collection(docstore.Logs)
		if err := logger.EnsureLogIndex(ctx, logs); err != nil {
			logger.Warn("kernel: log index", "error", err)
		}
		k.logSink = logger.NewMongoHandler(logs, slog.LevelInfo)
		logger.Use(k.logSink)
	}

	rdb, err := cache.Connect(ctx)
	if err != nil {
		logger.Warn("kernel: redis unavailable, caching disabled", "error", err)
	} else {
		k.Redis = rdb
	}

	disk, err := storage.FromConfig(ctx)
	if err != nil {
		return err
	}
	k.Disk = disk
	return nil
}

func (k *Kernel) wire() error {
	k.Pool = workerpool.New(config.Int("EVENT_POOL_SIZE", 8))
	k.Events = event.NewBus(k.Pool)
	driver, err := k.queueDriver()
	if err != nil {
		return err
	}
	k.Queue = queue.NewManager(driver)
	k.Queue.UseDB(k.DB)
	k.Hub = ws.NewHub(allowedOrigin)
	k.Tokens = auth.NewIssuer(config.JWTSecret(), config.JWTTTL())

	c := cache.New(k.Redis, "honeyshop:")
	ttl := config.CatalogCacheTTL()
	pricer := services.Pricer{Shipping: config.ShippingFlat(), Tax: config.TaxFlat()}

	k.Users = repositories.NewUserRepository(k.DB)
	addresses := repositories.NewAddressRepository(k.DB)
	products := repositories.NewProductRepository(k.Docs)
	categories := repositories.NewCategoryRepository(k.Docs)
	carts := repositories.NewCartRepository(k.Docs)
	orders := repositories.NewOrderRepository(k.Docs)
	reviews := repositories.NewReviewRepository(k.Docs)

	k.Accounts = services.NewAccountService(k.Users, k.Tokens)
	k.Addresses = services.NewAddressService(addresses)
	k.Catalog = services.NewCatalogService(products, categories, k.Disk, c, ttl)
	k.Reviews = services.NewReviewService(reviews, products, c, ttl)
	k.Carts = services.NewCartService(carts, products, pricer)
	k.Orders = services.NewOrderService(orders, carts, products, addresses, pricer, k.Events)

	notifier := notification.New(mail.NewSMTPSender(mail.ConfigFromEnv()), config.Get("SLACK_WEBHOOK_URL", ""))
	jobs.Register(k.Queue, notifier)
	(&listeners.Orders{Users: k.Users, Orders: orders, Jobs: k.Queue, Push: k.Hub}).Register(k.Events)

	k.Cron = schedule.New()
	if err := k.Cron.Daily().Name("carts:purge-abandoned").WithoutOverlapping().Run(k.purgeAbandonedCarts); err != nil {
		return err
	}

	gql, err := schema.New(k.Catalog)
	if err != nil {
		return fmt.Errorf("kernel: graphql schema: %w", err)
	}
	r := NewRouter(routes.API{
		Tokens:   k.Tokens,
		Accounts: controllers.NewAccountController(k.Accounts),
		Address:  controllers.NewAddressController(k.Addresses),
		Catalog:  controllers.NewCatalogController(k.Catalog, k.Reviews),
		Reviews:  controllers.NewReviewController(k.Catalog, k.Reviews),
		Cart:     controllers.NewCartController(k.Carts),
		Orders:   controllers.NewOrderController(k.Orders),
		Stream:   controllers.NewOrderStreamController(k.Hub),
		GraphQL:  graphql.Handler(gql),
	}, k.Disk)
	k.handler = r.Handler()
	return nil
}

func (k *Kernel) queueDriver() (queue.Driver, error) {
	switch driver := strings.ToLower(config.Get("QUEUE_DRIVER", "memory")); driver {
	case "redis":
		if k.Redis != nil {
			return queue.NewRedisDriver(k.Redis, "default"), nil
		}
		logger.Warn("kernel: QUEUE_DRIVER=redis but redis is down, using memory queue")
	case "kafka":
		d, err := queue.NewKafkaDriver(queue.KafkaConfig{
			Brokers: config.List("KAFKA_BROKERS"),
			Topic:   config.Get("KAFKA_TOPIC", "honeyshop.jobs"),
			Group:   config.Get("KAFKA_GROUP", "honeyshop-workers"),
		})
		if err != nil {
			return nil, err
		}
		k.closers = append(k.closers, d)
		return d, nil
	case "memory":
	default:
		return nil, fmt.Errorf("kernel: unknown QUEUE_DRIVER %q (memory, redis, kafka)", driver)
	}
	return queue.NewMemoryDriver(config.Int("QUEUE_BUFFER", 1000)), nil
}

func (k *Kernel) purgeAbandonedCarts(ctx context.Context) error {
	n, err := k.Carts.PurgeAbandoned(ctx)
	if err != nil {
		return err
	}
	logger.Info("carts: purged abandoned", "count", n)
	return nil
}

// NewRouter applies the global middleware stack, outermost first, and
// registers /metrics, the local storage mount and the API.
func NewRouter(api routes.API, disk storage.Disk) *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSFromConfig()))
	r.Use(middleware.RateLimit(config.Int("RATE_LIMIT_PER_MINUTE", 120), time.Minute))

	r.Get("/metrics", "metrics", metrics.Handler())

	if local, ok := disk.(*storage.LocalDisk); ok {
		r.Mount("/storage", http.StripPrefix("/storage", http.FileServer(http.Dir(local.Root()))))
	}

	routes.RegisterAPI(r, api)
	return r
}

// Handler is the fully wired HTTP handler.
func (k *Kernel) Handler() http.Handler { return k.handler }

// SeedDeps hands the seeders the services they write through.
func (k *Kernel) SeedDeps() seeders.Deps {
	return seeders.Deps{
		Catalog:       k.Catalog,
		Accounts:      k.Accounts,
		Users:         k.Users,
		AdminUsername: config.Get("ADMIN_USERNAME", "admin"),
		AdminEmail:    config.Get("ADMIN_EMAIL", "admin@honeyshop.local"),
		AdminPassword: config.Get("ADMIN_PASSWORD", ""),
	}
}

// PingSQL and PingMongo back the gRPC health checks.
func (k *Kernel) PingSQL(ctx context.Context) error {
	sqlDB, err := k.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (k *Kernel) PingMongo(ctx context.Context) error { return k.Docs.Ping(ctx) }

// Close releases everything Boot opened. It is safe on a partially booted
// kernel.
func (k *Kernel) Close(ctx context.Context) {
	for _, c := range k.closers {
		if err := c.Close(); err != nil {
			logger.Warn("kernel: close", "error", err)
		}
	}
	if k.Pool != nil {
		k.Pool.Shutdown()
	}
	if k.logSink != nil {
		k.logSink.Close()
	}
	if k.Redis != nil {
		_ = k.Redis.Close()
	}
	if k.Docs != nil {
		if err := k.Docs.Close(ctx); err != nil {
			logger.Warn("kernel: mongo close", "error", err)
		}
	}
	if err := database.Close(k.DB); err != nil {
		logger.Warn("kernel: database close", "error", err)
	}
}

// allowedOrigin accepts websocket upgrades from the CORS origin list.
func allowedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return middleware.CORSFromConfig().AllowsOrigin(origin)
}
