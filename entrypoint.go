package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/cryptography"
	"github.com/modulrcloud/sputnik-rpc/dashboard"
	"github.com/modulrcloud/sputnik-rpc/databases"
	"github.com/modulrcloud/sputnik-rpc/evmrpc"
	"github.com/modulrcloud/sputnik-rpc/executor"
	"github.com/modulrcloud/sputnik-rpc/http_pack"
	"github.com/modulrcloud/sputnik-rpc/structures"
	"github.com/modulrcloud/sputnik-rpc/utils"
	"github.com/modulrcloud/sputnik-rpc/websocket_pack"
)

// journalDisabled as JOURNAL_PATH turns the invocation journal off.
const journalDisabled = "-"

// RunGateway wires every component from cfg and blocks serving HTTP. It returns nil when the
// server was stopped by GracefulShutdown.
func RunGateway(cfg structures.GatewayConfig) error {

	identity, err := cryptography.DeriveIdentity(cfg.IdentityMnemonic, "", cryptography.DefaultDerivePath)
	if err != nil {
		return fmt.Errorf("derive gateway identity: %w", err)
	}

	if cfg.IdentityMnemonic == "" {
		utils.LogWithTime("IDENTITY_MNEMONIC is not set, journal records are signed by an ephemeral key", utils.YELLOW_COLOR)
	}

	var journal *databases.Journal

	if cfg.JournalPath != journalDisabled {

		if err := os.MkdirAll(filepath.Dir(cfg.JournalPath), 0755); err != nil {
			return fmt.Errorf("create journal directory: %w", err)
		}

		if journal, err = databases.OpenJournal(cfg.JournalPath, identity); err != nil {
			return err
		}

		utils.OnShutdown(journal.Close)

	}

	var jwtSecret []byte

	if cfg.JwtSecretPath != "" {
		if jwtSecret, err = http_pack.LoadJwtSecret(cfg.JwtSecretPath); err != nil {
			return err
		}
	}

	// Journal outermost so the record duration covers the metrics wrapper too.
	invoker := executor.WithJournal(executor.WithMetrics(executor.NewCommandInvoker(cfg)), recorderOf(journal))

	methods := evmrpc.NewEngineMethods(cfg.ExecutorPath, executor.NewTempChannel(cfg.TempDir), invoker)

	registry := evmrpc.NewEthRegistry(methods)

	dispatcher := evmrpc.NewDispatcher(registry)

	printBanner(cfg, identity, journal != nil, len(jwtSecret) > 0)

	if cfg.WebSocketPort > 0 {

		wsServer := websocket_pack.NewWebsocketServer(cfg, dispatcher)

		utils.OnShutdown(wsServer.Close)

		go websocket_pack.CreateWebsocketServer(wsServer)

	}

	server := http_pack.NewHTTPServer(http_pack.RouterDeps{
		Dispatcher: dispatcher,
		Dashboard:  dashboard.New(cfg, identity, journal, registry.Methods()),
		Journal:    journal,
		Identity:   identity,
		Limiter:    http_pack.NewIPRateLimiter(cfg.RateLimitRps, cfg.RateLimitBurst),
		JwtSecret:  jwtSecret,
		AccessLog:  http_pack.NewAccessLogger(cfg.AccessLogFile),
	})

	utils.OnShutdown(server.Shutdown)

	return http_pack.CreateHTTPServer(cfg, server)

}

// recorderOf keeps a nil *Journal from becoming a non-nil Recorder interface.
func recorderOf(journal *databases.Journal) executor.Recorder {
	if journal == nil {
		return nil
	}
	return journal
}

func printBanner(cfg structures.GatewayConfig, identity *cryptography.Identity, journalOn, jwtOn bool) {

	utils.LogWithTime(fmt.Sprintf("%s v%s", constants.GatewayName, constants.GatewayVersion), utils.WHITE_COLOR)

	utils.LogWithTime("Executor directory: "+cfg.ExecutorPath, utils.CYAN_COLOR)

	utils.LogWithTime(fmt.Sprintf("Executor command: %v (timeout %d ms, db %s)", cfg.ExecutorCommand, cfg.ExecutorTimeoutMs, cfg.DbPath), utils.CYAN_COLOR)

	utils.LogWithTime("Gateway identity: "+identity.PubKey, utils.CYAN_COLOR)

	if cfg.DevMode {
		utils.LogWithTime("Development mode: executor output is streamed with RUST_BACKTRACE=1", utils.DEEP_YELLOW)
	}

	if !journalOn {
		utils.LogWithTime("Invocation journal is disabled", utils.YELLOW_COLOR)
	}

	if jwtOn {
		utils.LogWithTime("JWT authentication is required on the RPC endpoint", utils.CYAN_COLOR)
	}

}
