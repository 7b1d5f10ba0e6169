package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AutoCookies/pomai-htable/internal/adapter/httpadapter"
	"github.com/AutoCookies/pomai-htable/internal/engine"
	"github.com/AutoCookies/pomai-htable/shared/ds/htable"
)

func main() {
	// ============================================================
	// 0. Load Environment Variables
	// ============================================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or failed to load, relying on system env vars")
	} else {
		log.Println("Loaded environment variables from .env")
	}

	// ============================================================
	// 1. Configuration
	// ============================================================
	var (
		portEnv     = getEnv("PORT", "8080")
		shardsEnv   = getEnv("HTABLE_SHARDS", "32")
		capacityEnv = getEnv("HTABLE_CAPACITY", "1024")
		probeEnv    = getEnv("HTABLE_PROBE", "linear")
		gracefulSec = getEnv("GRACEFUL_SHUTDOWN_SEC", "10")

		// Bloom
		enableBloom = getEnv("ENABLE_BLOOM_FILTER", "true")
		bloomSize   = getEnv("BLOOM_SIZE", "1048576")
		bloomK      = getEnv("BLOOM_K", "4")

		addrFlag     = flag.String("addr", ":"+portEnv, "listen address")
		shardsFlag   = flag.Int("shards", atoiDefault(shardsEnv, 32), "shard count")
		capacityFlag = flag.Int("capacity", atoiDefault(capacityEnv, 1024), "total capacity hint (usable entries)")
		probeFlag    = flag.String("probe", probeEnv, "probe strategy: linear|quadratic|double")
		gracefulFlag = flag.Int("graceful", atoiDefault(gracefulSec, 10), "graceful shutdown seconds")
	)

	flag.Parse()

	log.Printf("🚀 Pomai HTable Server starting on %s", *addrFlag)

	// ============================================================
	// 2. Initialize Table Engine
	// ============================================================
	probe, err := htable.ParseProbeKind(*probeFlag)
	if err != nil {
		log.Fatalf("Bad probe flag: %v", err)
	}

	log.Printf("[INIT] Starting sharded store: shards=%d capacity=%d probe=%s",
		*shardsFlag, *capacityFlag, probe)
	store, err := engine.NewStore(*shardsFlag, *capacityFlag, probe)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}

	if enableBloom == "true" {
		size, _ := strconv.ParseUint(bloomSize, 10, 64)
		k, _ := strconv.ParseUint(bloomK, 10, 64)
		store.EnableBloomFilter(size, k)
	}

	// ============================================================
	// 3. Initialize HTTP Server
	// ============================================================
	srv := httpadapter.NewServer(store)

	httpSrv := &http.Server{
		Addr:         *addrFlag,
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Listen error: %v", err)
		}
	}()

	// ============================================================
	// 4. Graceful Shutdown
	// ============================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(*gracefulFlag)*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	log.Println("Bye!")
}

// Helper Functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func atoiDefault(s string, defaultValue int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return defaultValue
}
