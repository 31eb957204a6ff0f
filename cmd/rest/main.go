package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stockflow/internal/bootstrap"
	"stockflow/internal/config"
	"stockflow/internal/repository/memory"
	"stockflow/internal/repository/unitofwork"
	"stockflow/internal/server"
	"stockflow/internal/tracer"
	"stockflow/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Tracing)
	defer shutdownTracer(context.Background())

	// 3. Initialize Storage
	var uowFactory unitofwork.RepositoryFactory
	if cfg.Database.Connection != "" {
		gormDB, err := database.Open(cfg.Database.Connection, database.DefaultPool, !cfg.IsProduction())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		uowFactory = unitofwork.NewRepositoryFactory(gormDB)
	} else {
		log.Println("[WARN] DB_CONNECTION_STRING is not set, keeping documents in memory")
		uowFactory = unitofwork.NewMemoryRepositoryFactory(memory.NewStore())
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(uowFactory, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start Background Services
	if err := container.Start(ctx); err != nil {
		log.Panicf("Unable to start consumers: %v", err)
	}

	// 6. Run Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
