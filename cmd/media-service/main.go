package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pulse-social/pulse/pkg/env"
	"github.com/pulse-social/pulse/pkg/event"
	"github.com/pulse-social/pulse/pkg/tracing"
)

// Hardcoded root dir name.
const projectDir = "app"

const serviceName = "media-service"

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

	dispatcher := event.MakeDispatcher()
	for eType, handlers := range deps.Media.EventHandlers() {
		for _, handler := range handlers {
			dispatcher.Register(handler, eType)
		}
	}

	if err := deps.Broker.Subscribe(ctx, serviceName+".post.deleted", event.PostDeleted, dispatcher.Dispatch); err != nil {
		deps.Logger.Log(ctx, "Failed to subscribe", "err", err, "routingKey", event.PostDeleted)
	}

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
