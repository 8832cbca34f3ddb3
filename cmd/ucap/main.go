package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pratamaditya/ucap/pkg/runner"
	"github.com/pratamaditya/ucap/pkg/ucap"
)

func main() {
	configPath := flag.String("config", "configs/ucap.yaml", "path to config file")
	flag.Parse()

	// Optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := ucap.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	engine, err := ucap.NewEngine(cfg, ucap.DefaultRegistry())
	if err != nil {
		log.Fatalf("init engine: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := runner.New(engine, runner.Hooks{}).Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
