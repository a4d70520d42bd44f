package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "github.com/knexpress/dev-kn-system-sub001/internal/config"
	router "github.com/knexpress/dev-kn-system-sub001/internal/http"
	"github.com/knexpress/dev-kn-system-sub001/internal/repositories"
	"github.com/knexpress/dev-kn-system-sub001/internal/services"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	ensureTables()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outbox := services.OutboxService{
		Store:    repositories.OutboxRepo{DB: intconfig.DB},
		Sync:     services.HTTPSyncClient{Endpoint: env.BillingSyncURL},
		Notifier: services.HTTPNotifier{Endpoint: env.NotifyURL},
		Interval: env.OutboxInterval,
	}
	outbox.Start(ctx)

	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}

func ensureTables() {
	db := intconfig.DB
	if err := (repositories.UserRepo{DB: db}).EnsureTable(); err != nil {
		log.Printf("warning: ensure users table: %v", err)
	}
	if err := (repositories.BookingRepo{DB: db}).EnsureTable(); err != nil {
		log.Printf("warning: ensure bookings table: %v", err)
	}
	if err := (repositories.BillingRepo{DB: db}).EnsureTable(); err != nil {
		log.Printf("warning: ensure billing_requests table: %v", err)
	}
	if err := (repositories.OutboxRepo{DB: db}).EnsureTable(); err != nil {
		log.Printf("warning: ensure outbox_messages table: %v", err)
	}
}
