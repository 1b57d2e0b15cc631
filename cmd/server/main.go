package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chama_fund/internal/auth"
	"chama_fund/internal/config"
	"chama_fund/internal/logger"
	"chama_fund/internal/routes"
)

func main() {
	logger.Setup()

	db, err := config.OpenDB()
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer config.CloseDB(db)

	tm, err := auth.NewTokenManagerFromEnv()
	if err != nil {
		log.Fatalf("token manager: %v", err)
	}

	if err := config.SeedAdmin(db); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	addr := ":" + port()
	srv := &http.Server{
		Addr:    addr,
		Handler: routes.SetupRouter(db, tm),
	}

	go func() {
		log.Printf("server running at %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
