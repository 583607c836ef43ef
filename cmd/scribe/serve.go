package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/scribe/internal/ingest"
	httpAdapter "github.com/aretw0/scribe/pkg/adapters/http"
	"github.com/aretw0/scribe/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/scribe/pkg/adapters/redis"
	"github.com/aretw0/scribe/pkg/observability"
	"github.com/aretw0/scribe/pkg/persistence/middleware"
	"github.com/aretw0/scribe/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	redisBackend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ingestion HTTP server",
	Long: `Starts the Scribe ingestion service, exposing a JSON API over HTTP:
uploads are spooled per job, /upsert builds the chunk index.

Job state lives in memory by default; pass --redis to persist it. Stored jobs
can additionally be encrypted at rest (SCRIBE_ENCRYPTION_KEY, 32 bytes hex)
and scrubbed of configured PII patterns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		spool, _ := cmd.Flags().GetString("spool")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		piiPatterns, _ := cmd.Flags().GetStringSlice("pii-pattern")

		store, locker, err := buildStore(redisAddr, redisPassword, redisDB, piiPatterns)
		if err != nil {
			return err
		}

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

		serviceOpts := []ingest.Option{
			ingest.WithLifecycleHooks(metrics.Hooks()),
		}
		if locker != nil {
			serviceOpts = append(serviceOpts, ingest.WithLocker(locker))
		}
		service := ingest.NewService(store, spool, serviceOpts...)

		handler, err := httpAdapter.NewHandler(service, httpAdapter.WithMetrics(metrics))
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Scribe Server on %s\n", srv.Addr)
			fmt.Printf("Spooling uploads to: %s\n", spool)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Scribe Server stopped gracefully")
			return nil
		}
	},
}

// buildStore assembles the job store and the optional distributed locker.
// The middleware chain wraps whichever backend is selected.
func buildStore(redisAddr, redisPassword string, redisDB int, piiPatterns []string) (ports.JobStore, ports.DistributedLocker, error) {
	var store ports.JobStore
	var locker ports.DistributedLocker

	if redisAddr != "" {
		client := redisBackend.NewClient(&redisBackend.Options{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		})
		store = redisAdapter.NewFromClient(client)
		locker = redisAdapter.NewLocker(client, "scribe:")
	} else {
		store = memory.NewStore()
	}

	var mws []middleware.Middleware
	if keyHex := os.Getenv("SCRIBE_ENCRYPTION_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, nil, fmt.Errorf("SCRIBE_ENCRYPTION_KEY must be 32 bytes hex-encoded")
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	if len(piiPatterns) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(piiPatterns))
	}

	return middleware.Chain(store, mws...), locker, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("spool", "uploaded_docs", "Directory for spooled uploads")
	serveCmd.Flags().String("redis", "", "Redis address (host:port) for persistent job state")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database number")
	serveCmd.Flags().StringSlice("pii-pattern", nil, "Regex patterns to scrub from stored job metadata")
}
