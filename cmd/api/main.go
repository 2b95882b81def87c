package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"memepool/internal/config"
	"memepool/internal/database"
	"memepool/internal/handler"
	"memepool/internal/middleware"
	"memepool/internal/notify"
	"memepool/internal/pool"
	"memepool/internal/vault"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg := config.Load()

	if cfg.Solana.ProgramID == "" {
		log.Fatal("PROGRAM_ID is required")
	}
	programID, err := solana.PublicKeyFromBase58(cfg.Solana.ProgramID)
	if err != nil {
		log.Fatalf("Invalid PROGRAM_ID: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Connect to the ledger
	rpcClient := rpc.New(cfg.Solana.RPCURL)
	wsClient, err := ws.Connect(context.Background(), cfg.Solana.WSURL)
	if err != nil {
		log.Fatalf("Failed to connect websocket: %v", err)
	}
	defer wsClient.Close()

	// Load the signer; without one the service runs read-only
	var signer *solana.PrivateKey
	if cfg.Solana.KeypairPath != "" {
		key, err := solana.PrivateKeyFromSolanaKeygenFile(cfg.Solana.KeypairPath)
		if err != nil {
			log.Fatalf("Failed to load keypair: %v", err)
		}
		signer = &key
		log.Printf("Signer loaded: %s", key.PublicKey())
	} else {
		log.Println("No keypair configured, running read-only")
	}

	vaultClient := vault.NewClient(rpcClient, wsClient, programID, signer)

	// Load pool registry
	pools, err := pool.LoadRegistry(cfg.Pools.Path)
	if err != nil {
		log.Printf("No pool registry loaded: %v", err)
	}
	accountant := pool.NewAccountant(rpcClient, vaultClient.Vault(), pools)

	// Initialize notifier (disabled without a token)
	notifier, err := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.Fatalf("Failed to initialize notifier: %v", err)
	}
	if notifier.Enabled() {
		log.Println("Telegram notifications enabled")
	}

	// Initialize handler
	h := handler.NewHandler(db, vaultClient, accountant, notifier, cfg.Solana.ConfirmTimeout)

	// Initialize router
	router := setupRouter(h)

	// Create rate limiter
	rateLimiter := middleware.NewIPRateLimiter(cfg.RateLimit)
	router.Use(rateLimiter.RateLimit())

	// Configure server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	log.Printf("Server starting on port %s\n", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v\n", err)
	}
}

func setupRouter(h *handler.Handler) *gin.Engine {
	// Create default gin router
	router := gin.Default()

	// Add basic middleware
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.Cors())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/vault", h.GetVaultInfo)
		v1.GET("/balance/:pub_key", h.GetBalance)
		v1.GET("/token-balance/:pub_key", h.GetTokenBalance)
		v1.GET("/withdraw-requests/:pub_key", h.GetWithdrawRequests)
		v1.GET("/operations/:pub_key", h.GetOperations)

		// Vault write operations, signed by the service signer
		v1.POST("/vault/deposit", h.Deposit)
		v1.POST("/vault/request-withdraw", h.RequestWithdraw)
		v1.POST("/vault/finalize-withdraw", h.FinalizeWithdraw)

		// Pool share accounting
		v1.GET("/pools", h.GetPools)
		v1.GET("/pools/:name", h.GetPool)
	}

	return router
}
