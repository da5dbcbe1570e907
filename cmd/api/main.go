// cmd/api/main.go

package main

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/gorilla/mux"
    "github.com/jmoiron/sqlx"
    "github.com/joho/godotenv"
    "github.com/prometheus/client_golang/prometheus/promhttp"

    "github.com/emberlyapp/emberly-backend/internal/auth"
    "github.com/emberlyapp/emberly-backend/internal/chat"
    "github.com/emberlyapp/emberly-backend/internal/common/database"
    "github.com/emberlyapp/emberly-backend/internal/config"
    "github.com/emberlyapp/emberly-backend/internal/feed"
    "github.com/emberlyapp/emberly-backend/internal/interactions"
    "github.com/emberlyapp/emberly-backend/internal/matches"
    "github.com/emberlyapp/emberly-backend/internal/notifications"
    "github.com/emberlyapp/emberly-backend/internal/users"
)

var startTime = time.Now()

func main() {
    log.Println("========================================")
    log.Println("🚀 Starting Emberly Match Engine API")
    log.Println("========================================")

    // Step 1: Environment
    log.Println("📁 Step 1: Loading .env file...")
    if err := godotenv.Load(); err != nil {
        log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
    } else {
        log.Println("✅ .env file loaded successfully")
    }

    // Step 2: Configuration
    log.Println("\n📋 Step 2: Loading configuration...")
    cfg := config.Load()
    if err := cfg.Validate(); err != nil {
        log.Fatalf("❌ Invalid configuration: %v", err)
    }
    log.Println("✅ Configuration loaded and valid")

    // Step 3: PostgreSQL
    log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
    db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
    if err != nil {
        log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
    }
    defer db.Close()
    log.Println("✅ Connected to PostgreSQL successfully")

    // Step 4: Redis
    log.Println("\n📮 Step 4: Connecting to Redis...")
    redisClient, err := database.NewRedisClientFromURL(cfg.RedisURL)
    if err != nil {
        log.Fatalf("❌ Failed to connect to Redis: %v", err)
    }
    defer redisClient.Close()
    log.Println("✅ Connected to Redis successfully")

    // Step 5: Migrations
    log.Println("\n🔨 Step 5: Running database migrations...")
    if err := runMigrations(db); err != nil {
        log.Fatalf("❌ Migration error: %v", err)
    }
    log.Println("✅ Database migrations completed")

    // Step 6: Authentication
    log.Println("\n🔐 Step 6: Initializing authentication...")
    authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
    log.Println("✅ Authentication initialized")

    // Step 7: Notification channels
    log.Println("\n🔔 Step 7: Initializing notification channels...")
    tokenRepo := notifications.NewPostgresTokenRepository(db)
    userStore := users.NewPostgresStore(db)

    var pushService notifications.PushService
    if cfg.EnablePushNotifications {
        pushService, err = notifications.NewFCMPushService(context.Background(), cfg.FCMCredentialsFile)
        if err != nil {
            log.Fatalf("❌ Failed to initialize FCM: %v", err)
        }
        log.Println("   ✅ Using FCM for push notifications")
    } else {
        log.Println("   ⚠️  Push notifications disabled")
    }

    var emailService notifications.EmailService
    if cfg.EnableEmailNotifications {
        emailService, err = notifications.NewSendGridEmailService(cfg.SendGridAPIKey, cfg.EmailFrom)
        if err != nil {
            log.Fatalf("❌ Failed to initialize SendGrid: %v", err)
        }
        log.Println("   ✅ Using SendGrid for match emails")
    }

    var smsService notifications.SMSService
    if cfg.EnableSMSNotifications {
        smsService, err = notifications.NewTwilioSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
        if err != nil {
            log.Fatalf("❌ Failed to initialize Twilio: %v", err)
        }
        log.Println("   ✅ Using Twilio for match SMS")
    }

    dispatcher := notifications.NewDispatcher(pushService, emailService, smsService, tokenRepo, userStore)
    notificationHandler := notifications.NewHandler(tokenRepo)
    log.Println("✅ Notification channels initialized")

    // Step 8: Interaction feed
    log.Println("\n🧵 Step 8: Initializing interaction feed...")
    interactionFeed := feed.NewRedisFeed(redisClient, cfg.FeedStream, cfg.FeedGroup, cfg.FeedConsumer)
    deadLetterFeed := feed.NewRedisFeed(redisClient, cfg.FeedDeadLetter, cfg.FeedGroup, cfg.FeedConsumer)
    log.Printf("✅ Feed ready (stream=%s group=%s)", cfg.FeedStream, cfg.FeedGroup)

    // Step 9: Interactions module
    log.Println("\n💘 Step 9: Initializing interactions module...")
    interactionRepo := interactions.NewPostgresRepository(db)
    rateLimiter := interactions.NewRedisRateLimiter(redisClient, cfg.LikeLimitMax, cfg.LikeLimitWindow)
    interactionService := interactions.NewService(interactionRepo, rateLimiter, interactionFeed)
    interactionHandler := interactions.NewHandler(interactionService)
    log.Printf("✅ Interactions module initialized (limit=%d per %s)", cfg.LikeLimitMax, cfg.LikeLimitWindow)

    // Step 10: Matches module
    log.Println("\n💞 Step 10: Initializing matches module...")
    matchRepo := matches.NewPostgresRepository(db)
    matchService := matches.NewService(matchRepo)
    matchHandler := matches.NewHandler(matchService)
    worker := matches.NewWorker(interactionFeed, deadLetterFeed, interactionRepo, matchRepo, dispatcher, cfg.WorkerMaxAttempts)
    log.Println("✅ Matches module initialized")

    // Step 11: Chat module
    log.Println("\n💬 Step 11: Initializing chat module...")
    hub := chat.NewHub()
    go hub.Run()

    chatRepo := chat.NewPostgresRepository(db)
    chatService := chat.NewService(chatRepo, matchRepo, hub, dispatcher, cfg.MessagePreviewLength)
    chatHandler := chat.NewHandler(chatService, hub)
    log.Println("✅ Chat module initialized")

    // Step 12: Routes
    log.Println("\n🌐 Step 12: Setting up routes...")
    router := mux.NewRouter()
    router.Use(loggingMiddleware)
    router.Use(corsMiddleware)

    router.HandleFunc("/health", healthCheck).Methods("GET")
    router.Handle("/metrics", promhttp.Handler()).Methods("GET")

    authFunc := authMiddleware.Authenticate
    interactions.RegisterRoutes(router, interactionHandler, authFunc)
    matches.RegisterRoutes(router, matchHandler, authFunc)
    chat.RegisterRoutes(router, chatHandler, authFunc)
    notifications.RegisterRoutes(router, notificationHandler, authFunc)
    log.Println("✅ Routes registered")

    // Step 13: Match worker
    log.Println("\n⚙️  Step 13: Starting match worker...")
    workerCtx, stopWorker := context.WithCancel(context.Background())
    workerDone := make(chan struct{})
    go func() {
        defer close(workerDone)
        if err := worker.Run(workerCtx); err != nil && workerCtx.Err() == nil {
            log.Printf("❌ Match worker exited: %v", err)
        }
    }()
    log.Println("✅ Match worker running")

    // Step 14: HTTP server
    server := &http.Server{
        Addr:         ":" + cfg.Port,
        Handler:      router,
        ReadTimeout:  15 * time.Second,
        WriteTimeout: 15 * time.Second,
        IdleTimeout:  60 * time.Second,
    }

    go func() {
        log.Printf("\n🚀 Server listening on port %s", cfg.Port)
        if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("❌ Server failed: %v", err)
        }
    }()

    // Graceful shutdown
    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit

    log.Println("\n🛑 Shutting down server...")

    stopWorker()
    <-workerDone
    hub.Shutdown()

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer cancel()
    if err := server.Shutdown(shutdownCtx); err != nil {
        log.Printf("❌ Server forced to shutdown: %v", err)
    }

    log.Println("✅ Server stopped")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
    response := map[string]interface{}{
        "status":    "healthy",
        "timestamp": time.Now().Format(time.RFC3339),
        "uptime":    time.Since(startTime).String(),
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusOK)
    json.NewEncoder(w).Encode(response)
}

// Middleware functions

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()

        wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
        next.ServeHTTP(wrapped, r)

        duration := time.Since(start)
        log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
    })
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
    http.ResponseWriter
    statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
    rw.statusCode = code
    rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

        if r.Method == "OPTIONS" {
            w.WriteHeader(http.StatusOK)
            return
        }

        next.ServeHTTP(w, r)
    })
}

// runMigrations executes database migrations
func runMigrations(db *sqlx.DB) error {
    log.Println("   - Creating/updating tables...")

    migrations := []string{
        // Users table is owned by the identity service; created here so the
        // engine can run standalone in development
        `CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            name VARCHAR(100) NOT NULL,
            email VARCHAR(255) UNIQUE,
            phone VARCHAR(20) UNIQUE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        // Append-only log of likes and passes
        `CREATE TABLE IF NOT EXISTS interactions (
            id BIGSERIAL PRIMARY KEY,
            from_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            to_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            kind VARCHAR(10) NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        // Matches keyed by the canonical sorted pair id
        `CREATE TABLE IF NOT EXISTS matches (
            id TEXT PRIMARY KEY,
            user_a BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            user_b BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            last_message TEXT,
            last_message_at TIMESTAMP,
            unread_a INTEGER NOT NULL DEFAULT 0,
            unread_b INTEGER NOT NULL DEFAULT 0,
            hidden_a BOOLEAN NOT NULL DEFAULT FALSE,
            hidden_b BOOLEAN NOT NULL DEFAULT FALSE
        )`,

        // Messages cascade when the match is deleted
        `CREATE TABLE IF NOT EXISTS messages (
            id TEXT PRIMARY KEY,
            match_id TEXT NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
            sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            read BOOLEAN NOT NULL DEFAULT FALSE
        )`,

        `CREATE TABLE IF NOT EXISTS push_tokens (
            token TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            platform VARCHAR(20) NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`,

        // Indexes
        `CREATE INDEX IF NOT EXISTS idx_interactions_reciprocal ON interactions(from_user_id, to_user_id, kind)`,
        `CREATE INDEX IF NOT EXISTS idx_interactions_created_at ON interactions(created_at DESC)`,
        `CREATE INDEX IF NOT EXISTS idx_matches_user_a ON matches(user_a)`,
        `CREATE INDEX IF NOT EXISTS idx_matches_user_b ON matches(user_b)`,
        `CREATE INDEX IF NOT EXISTS idx_messages_match_id ON messages(match_id, created_at DESC)`,
        `CREATE INDEX IF NOT EXISTS idx_push_tokens_user_id ON push_tokens(user_id)`,
    }

    for i, migration := range migrations {
        if _, err := db.Exec(migration); err != nil {
            return fmt.Errorf("migration %d failed: %w", i+1, err)
        }
    }

    return nil
}
