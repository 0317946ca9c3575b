package app

import (
	"bitwise74/media-api/app/activity"
	"bitwise74/media-api/app/media"
	"bitwise74/media-api/app/root"
	"bitwise74/media-api/app/user"
	"bitwise74/media-api/aws"
	"bitwise74/media-api/config"
	"bitwise74/media-api/db"
	"bitwise74/media-api/internal"
	actlog "bitwise74/media-api/internal/activity"
	"bitwise74/media-api/internal/repository"
	"bitwise74/media-api/internal/service"
	"bitwise74/media-api/internal/storage"
	"bitwise74/media-api/pkg/middleware"
	"bitwise74/media-api/pkg/security"
	"context"
	"fmt"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewRouter wires every dependency from the loaded config and returns the
// ready to run engine. Background work started for the router stops with ctx
func NewRouter(ctx context.Context) (*gin.Engine, error) {
	setupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	d := &internal.Deps{
		Variant:       config.Variant(),
		JWTSecret:     []byte(viper.GetString("security.jwt_secret")),
		TokenTTL:      viper.GetDuration("security.token_ttl"),
		MaxUploadSize: viper.GetInt64("upload.max_size"),
		SecureCookies: viper.GetBool("host.ssl.enabled"),
		Activity:      actlog.New(viper.GetDuration("activity.ttl")),
	}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = database

	store, err := newObjectStore(setupCtx, d)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store, %w", err)
	}

	d.Media = repository.NewMediaRepo(database)
	d.Auth = service.NewAuthenticator(database, security.New(), d.Activity)
	d.Uploader = service.NewUploader(store, d.Media, d.Variant, d.Activity)

	cacheStore, err := newCacheStore(setupCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize response cache, %w", err)
	}

	zap.L().Info("Dependencies ready",
		zap.String("variant", d.Variant.Name),
		zap.String("storage", viper.GetString("storage.type")),
		zap.String("db", viper.GetString("db.driver")),
	)

	return Routes(ctx, d, cacheStore, viper.GetStringSlice("host.cors_origins"), viper.GetInt("security.rate_limit")), nil
}

// Routes registers every endpoint on a new engine
func Routes(ctx context.Context, d *internal.Deps, cacheStore persist.CacheStore, origins []string, rateLimit int) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		ginzap.RecoveryWithZap(zap.L(), true),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	jwt := middleware.NewJWTMiddleware(d.JWTSecret, d.DB)
	turnstile := middleware.NewTurnstileMiddleware()
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		Context:           ctx,
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
		CleanupInterval:   time.Minute,
	})

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates a JWT token
		m.GET("/validate", jwt, root.Validate)

		// GET /api/options		-> Lists the buckets, visibilities and categories on offer
		m.GET("/options", cache.CacheByRequestURI(cacheStore, 5*time.Minute), func(c *gin.Context) { root.Options(c, d) })
	}

	u := m.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users		-> Returns the basic info of a user
		u.GET("", jwt, func(c *gin.Context) { user.UserFetch(c, d) })

		// POST /api/users 		-> Registers a new user
		u.POST("", turnstile, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/users/login 	-> Signs in with email and password and returns a JWT token
		u.POST("/login", turnstile, func(c *gin.Context) { user.UserLogin(c, d) })
	}

	md := m.Group("/media", jwt)
	{
		// GET /api/media		-> Returns a user's media in bulk
		md.GET("", func(c *gin.Context) { media.MediaFetchBulk(c, d) })

		// POST /api/media         	-> Uploads a file and writes its media_files row
		md.POST("", middleware.BodySizeLimiter(d.MaxUploadSize+multipartOverhead), func(c *gin.Context) { media.MediaUpload(c, d) })
	}

	// GET /api/activity		-> Returns the user's activity log
	m.GET("/activity", jwt, func(c *gin.Context) { activity.ActivityFetch(c, d) })

	return router
}

// Room for the form fields and multipart boundaries on top of the file itself
const multipartOverhead = 1 << 20

func newObjectStore(ctx context.Context, d *internal.Deps) (service.ObjectStore, error) {
	switch viper.GetString("storage.type") {
	case "s3":
		client, err := aws.NewS3(ctx)
		if err != nil {
			return nil, err
		}

		return storage.NewS3Store(ctx, client, config.Buckets(d.Variant))
	default:
		return storage.NewLocalStore(viper.GetString("storage.local_root"))
	}
}

func newCacheStore(ctx context.Context) (persist.CacheStore, error) {
	ttl := viper.GetDuration("cache.ttl")

	if viper.GetString("cache.type") != "redis" {
		return persist.NewMemoryStore(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("cache.redis_addr"),
		Password: viper.GetString("cache.redis_password"),
		DB:       viper.GetInt("cache.redis_db"),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis, %w", err)
	}

	return persist.NewRedisStore(client), nil
}
