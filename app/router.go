// Package app wires the endpoints, middleware and dependencies into a
// runnable router
package app

import (
	"fmt"
	"time"

	"studysprint/study-api/app/preferences"
	"studysprint/study-api/app/root"
	"studysprint/study-api/app/topic"
	"studysprint/study-api/app/user"
	"studysprint/study-api/db"
	"studysprint/study-api/internal"
	"studysprint/study-api/internal/service"
	"studysprint/study-api/pkg/middleware"
	"studysprint/study-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	d := &internal.Deps{}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = conn

	makeLogger()

	d.Argon = security.NewArgon()
	d.Tokens = security.NewCodec()
	d.Sessions = service.NewSessionManager(conn, d.Tokens)

	router := gin.New()

	rateLimit := viper.GetInt("security.rate_limit")

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Device-Info"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
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

				return fields
			},
		}),
		middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: rateLimit,
			Burst:             rateLimit * 2,
			CleanupInterval:   time.Second,
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	auth := middleware.NewAuthMiddleware(d.Sessions)

	m := router.Group("/api/v1", middleware.BodySizeLimiter(1<<20))
	{
		// HEAD /api/v1/heartbeat		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/v1/validate			-> Validates an access token
		m.GET("/validate", auth, root.Validate)
	}

	u := m.Group("/users")
	{
		// POST /api/v1/users/register		-> Registers a new user
		u.POST("/register", func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/v1/users/login		-> Logs in a user and returns a token pair
		u.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/v1/users/refresh-token	-> Trades a refresh token for a new pair
		u.POST("/refresh-token", func(c *gin.Context) { user.UserRefresh(c, d) })

		// POST /api/v1/users/logout		-> Revokes the calling session (or all)
		u.POST("/logout", auth, func(c *gin.Context) { user.UserLogout(c, d) })

		// GET /api/v1/users/me			-> Returns the profile with preferences
		u.GET("/me", auth, func(c *gin.Context) { user.UserFetch(c, d) })

		// PUT /api/v1/users/me			-> Updates email/username/full name
		u.PUT("/me", auth, func(c *gin.Context) { user.UserUpdate(c, d) })

		// POST /api/v1/users/change-password	-> Rotates the password, kills all sessions
		u.POST("/change-password", auth, func(c *gin.Context) { user.UserChangePassword(c, d) })

		// POST /api/v1/users/deactivate	-> Soft-disables the account
		u.POST("/deactivate", auth, func(c *gin.Context) { user.UserDeactivate(c, d) })

		// GET /api/v1/users/sessions		-> Lists active sessions
		u.GET("/sessions", auth, func(c *gin.Context) { user.UserSessions(c, d) })

		// DELETE /api/v1/users/sessions/:id	-> Revokes a single session
		u.DELETE("/sessions/:id", auth, func(c *gin.Context) { user.UserSessionRevoke(c, d) })

		// GET /api/v1/users/check-email/:email	-> Email availability
		u.GET("/check-email/:email", cacheFor(30), func(c *gin.Context) { user.CheckEmail(c, d) })

		// GET /api/v1/users/check-username/:username -> Username availability
		u.GET("/check-username/:username", cacheFor(30), func(c *gin.Context) { user.CheckUsername(c, d) })

		// GET /api/v1/users/preferences	-> Returns (and lazily creates) preferences
		u.GET("/preferences", auth, func(c *gin.Context) { preferences.PreferencesFetch(c, d) })

		// PUT /api/v1/users/preferences	-> Scalar overwrite + JSON group merge
		u.PUT("/preferences", auth, func(c *gin.Context) { preferences.PreferencesUpdate(c, d) })

		// POST /api/v1/users/preferences/reset	-> Restores the default document
		u.POST("/preferences/reset", auth, func(c *gin.Context) { preferences.PreferencesReset(c, d) })
	}

	t := m.Group("/topics", auth)
	{
		// POST /api/v1/topics			-> Creates a topic
		t.POST("", func(c *gin.Context) { topic.TopicCreate(c, d) })

		// GET /api/v1/topics			-> Lists topics (parent filter, sorting)
		t.GET("", func(c *gin.Context) { topic.TopicList(c, d) })

		// GET /api/v1/topics/search		-> Substring search over name/description
		t.GET("/search", func(c *gin.Context) { topic.TopicSearch(c, d) })

		// GET /api/v1/topics/:id		-> Returns a topic with subtopics
		t.GET("/:id", func(c *gin.Context) { topic.TopicFetch(c, d) })

		// PUT /api/v1/topics/:id		-> Updates a topic
		t.PUT("/:id", func(c *gin.Context) { topic.TopicUpdate(c, d) })

		// DELETE /api/v1/topics/:id		-> Deletes a topic and its subtree
		t.DELETE("/:id", func(c *gin.Context) { topic.TopicDelete(c, d) })

		// POST /api/v1/topics/:id/toggle-completion -> Flips completion state
		t.POST("/:id/toggle-completion", func(c *gin.Context) { topic.TopicToggleCompletion(c, d) })

		// GET /api/v1/topics/:id/stats		-> Cached aggregates + live counts
		t.GET("/:id/stats", func(c *gin.Context) { topic.TopicStats(c, d) })

		// POST /api/v1/topics/:id/goals	-> Creates a goal on a topic
		t.POST("/:id/goals", func(c *gin.Context) { topic.GoalCreate(c, d) })

		// GET /api/v1/topics/:id/goals		-> Lists goals of a topic
		t.GET("/:id/goals", func(c *gin.Context) { topic.GoalList(c, d) })

		// PUT /api/v1/topics/goals/:goalID/progress -> Updates goal progress
		t.PUT("/goals/:goalID/progress", func(c *gin.Context) { topic.GoalUpdateProgress(c, d) })
	}

	// Dead session rows get purged long after they stop mattering
	retention := time.Duration(viper.GetInt("security.session_retention_days")) * 24 * time.Hour
	service.SessionCleanup(time.Hour*24, retention, conn)

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
