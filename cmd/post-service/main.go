package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pulse-social/pulse/pkg/env"
	"github.com/pulse-social/pulse/pkg/tracing"
)

// Hardcoded root dir name.
const projectDir = "app"

const serviceName = "post-service"

func main() {
	if err := env.Load(projectDir); err != nil {
		log.Fatalf("Failed to load env, err: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	shutdownTracing, err := tracing.InitProvider(ctx, serviceName)
	if err != nil {
		log.Printf("Failed to initialize tracing, err: %s", err)
	}

	deps := getServiceDependencies(ctx)

	deps.Broker.Run(ctx)
	go deps.Relay.Run(ctx)

	metricsPort := os.Getenv("METRICS_PORT")
	if metricsPort == "" {
		metricsPort = "9100"
	}
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":"+metricsPort, nil); err != nil {
			deps.Logger.Log(ctx, "Metrics listener stopped", "err", err)
		}
	}()

	deps.Logger.Log(ctx, "Service running", "service", serviceName)

	sigExitC := make(chan os.Signal, 1)
	signal.Notify(sigExitC, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	<-sigExitC
	log.Println("Service shutting down")

	cancel()
	if shutdownTracing != nil {
		shutdownTracing()
	}
	deps.Close(ctx)
}
