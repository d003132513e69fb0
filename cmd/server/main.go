package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/web-auth-service/internal/cache"
	"github.com/iliyamo/web-auth-service/internal/config"
	"github.com/iliyamo/web-auth-service/internal/cookie"
	"github.com/iliyamo/web-auth-service/internal/database"
	"github.com/iliyamo/web-auth-service/internal/handler"
	"github.com/iliyamo/web-auth-service/internal/queue"
	"github.com/iliyamo/web-auth-service/internal/repository"
	"github.com/iliyamo/web-auth-service/internal/router"
	"github.com/iliyamo/web-auth-service/internal/service"
	"github.com/iliyamo/web-auth-service/internal/token"
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = database.EnsureSchema(ctx, db)
	cancel()
	if err != nil {
		log.Fatalf("schema: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis not configured; user lookup cache disabled")
	}
	userCache := cache.NewUserCache(rdb)

	users := repository.NewUserRepo(db, cfg.BcryptCost)
	tokens := token.NewService(cfg.JWTSecret)

	auth := service.NewAuthService(users, tokens)
	auth.Events = queue.Publish

	h := handler.NewAuthHandler(auth, cookie.Policy{Secure: cfg.IsProd()})

	e := echo.New()
	router.Register(e, h, tokens, users, userCache, cfg.CORSOrigin)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
