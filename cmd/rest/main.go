package main

import (
	"context"
	"log"

	"support-chat-be/internal/bootstrap"
	"support-chat-be/internal/config"
	"support-chat-be/internal/server"
	"support-chat-be/internal/tracer"
	"support-chat-be/pkg/database"
)

func main() {
	// 0. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Configuration
	cfg := config.Load()

	// 2. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Dependency container
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Audit trail consumer
	if err := container.AuditService.Consume(context.Background()); err != nil {
		log.Printf("Background audit consumer error: %v", err)
	}

	// 5. HTTP + websocket server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
