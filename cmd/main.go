package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equiptrack/internal/config"
	"equiptrack/internal/handlers"
	"equiptrack/internal/logger"
	"equiptrack/internal/models"
	"equiptrack/internal/repository"
	"equiptrack/internal/repository/db"
	"equiptrack/internal/server"
	"equiptrack/internal/service"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var configDir string

// rootCmd starts the HTTP service when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "equiptrack",
	Short: "Equipment test tracking service",
	Long: `equiptrack tracks network devices (ONUs, routers) through their test
lifecycle: registration, test results, status history and printable
reports, with per-role access and an append-only application log.`,
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the SQLite schema and the bootstrap admin account",
	RunE:  runInitDB,
}

var (
	newUserName     string
	newUserPassword string
	newUserRole     string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account directly in the database",
	Long: `Creates an account without going through the API. Useful for
provisioning before the first start or for recovering access.`,
	RunE: runCreateUser,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "Directory holding config.yml")

	createUserCmd.Flags().StringVar(&newUserName, "username", "", "Account username (required)")
	createUserCmd.Flags().StringVar(&newUserPassword, "password", "", "Account password (required)")
	createUserCmd.Flags().StringVar(&newUserRole, "role", "", "Role: admin, scheduler or support (default support)")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(createUserCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase opens the SQLite file from cfg and wires the repositories.
func openDatabase(cfg *config.Config) (*sql.DB, *repository.Repository, error) {
	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("init sqlite at %q: %w", cfg.DBPath, err)
	}
	return database, repository.NewRepository(database), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}
	log := logger.Get(cfg.LogLevel)

	database, repos, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	created, err := service.EnsureBootstrapAdmin(cmd.Context(), repos.Users, repos.Audit)
	if err != nil {
		return fmt.Errorf("seed bootstrap admin: %w", err)
	}
	if created {
		log.Infow("bootstrap admin account created", "username", models.BootstrapUsername)
	}

	services := service.NewService(repos, cfg.SigningKey)
	apiHandler := handlers.NewHandler(services, log)

	srv := &server.Server{}
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run(cfg.Addr(), apiHandler.InitRoutes())
	}()
	log.Infow("server started", "addr", cfg.Addr(), "db", cfg.DBPath)

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server stopped: %w", err)
	case <-quit:
	}

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Infow("server stopped")
	return nil
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	database, repos, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	created, err := service.EnsureBootstrapAdmin(cmd.Context(), repos.Users, repos.Audit)
	if err != nil {
		return fmt.Errorf("seed bootstrap admin: %w", err)
	}

	fmt.Printf("database ready at %s\n", cfg.DBPath)
	if created {
		fmt.Printf("bootstrap account %q created\n", models.BootstrapUsername)
	}
	return nil
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	database, repos, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	services := service.NewService(repos, cfg.SigningKey)
	u, err := services.Users.Create(cmd.Context(), service.Identity{Username: "cli"}, service.NewUserInput{
		Username: newUserName,
		Password: newUserPassword,
		Role:     newUserRole,
	})
	if err != nil {
		return err
	}

	fmt.Printf("user %q created with id %d and role %s\n", u.Username, u.ID, u.Role)
	return nil
}
