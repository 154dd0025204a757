package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"feveo/taskmanager/broker"
	"feveo/taskmanager/config"
	"feveo/taskmanager/database"
	"feveo/taskmanager/routes"
	"feveo/taskmanager/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "taskmanager",
		Short:         "Task manager API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd())

	// Running without a subcommand starts the server.
	rootCmd.RunE = serveCmd().RunE

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Setup(config.Load())
			if err != nil {
				return err
			}
			db.Close()
			return nil
		},
	}
}

func serve(cfg config.Config) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Setup(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	userService := services.NewUserService(authService)
	taskService := services.NewTaskService()

	webSocketService := services.NewWebSocketService(splitOrigins(cfg.AllowedOrigins))
	defer webSocketService.Stop()

	producer, closeBroker := setupBroker(cfg, webSocketService)
	defer closeBroker()

	eventHandlerService := services.NewEventHandlerService(db, producer, cfg.EventDispatchInterval)
	eventHandlerService.Start()
	defer eventHandlerService.Stop()

	retentionService := services.NewRetentionService(db, cfg.EventRetention, cfg.EventRetentionJob)
	if err := retentionService.Start(); err != nil {
		return err
	}
	defer retentionService.Stop()

	router := routes.SetupRouter(db, routes.Services{
		Auth:      authService,
		Users:     userService,
		Tasks:     taskService,
		WebSocket: webSocketService,
	}, cfg.AllowedOrigins, cfg.IsDevelopment())

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("API server is running on port %s", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

// setupBroker publishes events through NATS when a server is reachable and
// falls back to delivering them in-process otherwise.
func setupBroker(cfg config.Config, webSocketService *services.WebSocketService) (broker.Producer, func()) {
	if cfg.NatsURL == "" {
		log.Println("NATS_URL is empty, delivering events in-process")
		return broker.NewLocalProducer(webSocketService.HandleMessage), func() {}
	}

	natsProducer, err := broker.InitProducer(cfg.NatsURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to NATS: %v", err)
		log.Println("The application will continue, delivering events in-process")
		return broker.NewLocalProducer(webSocketService.HandleMessage), func() {}
	}

	consumer, err := broker.StartConsumer(natsProducer.Conn(),
		[]string{broker.TaskSubjects, broker.UserSubjects},
		webSocketService.HandleMessage,
	)
	if err != nil {
		log.Printf("Warning: Failed to subscribe to NATS: %v", err)
		natsProducer.Close()
		return broker.NewLocalProducer(webSocketService.HandleMessage), func() {}
	}

	return natsProducer, func() {
		consumer.Close()
		natsProducer.Close()
	}
}

func splitOrigins(origins string) []string {
	var out []string
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
