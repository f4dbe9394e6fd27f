package main

import (
	"buzz/internal/cache"
	"buzz/internal/config"
	"buzz/internal/repository"
	"buzz/internal/service"
	"buzz/internal/transport/rest"
	"buzz/internal/transport/ws"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := config.NewLogger(cfg.Env)
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Error("failed to ping MongoDB", "error", err)
		os.Exit(1)
	}
	log.Info("connected to MongoDB", "db", cfg.MongoDB)
	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Error("failed to ping Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis", "addr", cfg.RedisAddr)

	// Connection registry
	wsHub := ws.NewHub(log)

	// Repositories and caches
	roomRepo := repository.NewRoomRepo(db)
	userRepo := repository.NewUserRepo(db)
	gameRepo := repository.NewGameRepo(db)
	roomCache := cache.NewRoomCache(rdb)
	gameCache := cache.NewGameCache(rdb)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	gameSvc := service.NewGameService(gameRepo, gameCache, log)
	roomSvc := service.NewRoomService(
		roomRepo,
		userRepo,
		gameSvc,
		roomCache,
		service.NewMafiaEngine(),
		service.NewSpyfallEngine(cfg.SpyfallRoundMinutes),
		log,
	)
	roomSvc.SetBroadcaster(wsHub)

	wsHandler := ws.NewHandler(wsHub, authSvc, roomSvc, log)

	router := rest.NewRouter(&rest.Container{
		AuthService: authSvc,
		GameService: gameSvc,
		RoomService: roomSvc,
		WSHub:       wsHub,
		WSHandler:   wsHandler,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server exited")
}
