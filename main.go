package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modulrcloud/sputnik-rpc/utils"
)

func main() {

	cfg, err := utils.LoadGatewayConfig()

	if err != nil {

		var cfgErr *utils.ConfigError

		if errors.As(err, &cfgErr) {
			utils.LogWithTime(fmt.Sprintf("Invalid configuration: %v", cfgErr), utils.RED_COLOR)
		} else {
			utils.LogWithTime(fmt.Sprintf("Failed to load configuration: %v", err), utils.RED_COLOR)
		}

		os.Exit(1)

	}

	utils.EnableFileLogging(cfg.LogFile)

	go signalHandler()

	if err := RunGateway(cfg); err != nil {

		utils.LogWithTime(fmt.Sprintf("Failed to start gateway: %v", err), utils.RED_COLOR)

		os.Exit(1)

	}

	// The listener is closed; GracefulShutdown finishes the remaining hooks and exits.
	select {}

}

func signalHandler() {

	sig := make(chan os.Signal, 1)

	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	<-sig

	utils.GracefulShutdown()

}
