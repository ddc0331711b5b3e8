package http_pack

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/modulrcloud/sputnik-rpc/cryptography"
	"github.com/modulrcloud/sputnik-rpc/dashboard"
	"github.com/modulrcloud/sputnik-rpc/databases"
	"github.com/modulrcloud/sputnik-rpc/evmrpc"
	"github.com/modulrcloud/sputnik-rpc/http_pack/routes"
	"github.com/modulrcloud/sputnik-rpc/metrics"
	"github.com/modulrcloud/sputnik-rpc/structures"
	"github.com/modulrcloud/sputnik-rpc/utils"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// RouterDeps is everything the route table needs. A nil Journal, Identity, Limiter or Dashboard
// and an empty JwtSecret switch the matching feature off.
type RouterDeps struct {
	Dispatcher *evmrpc.Dispatcher
	Dashboard  *dashboard.Dashboard
	Journal    *databases.Journal
	Identity   *cryptography.Identity
	Limiter    *IPRateLimiter
	JwtSecret  []byte
	AccessLog  *zap.Logger
}

func createRouter(deps RouterDeps) fasthttp.RequestHandler {

	r := router.New()
	r.SaveMatchedRoutePath = true

	rpc := WithRateLimit(deps.Limiter, WithJwtAuth(deps.JwtSecret, routes.EVMRPC(deps.Dispatcher)))

	r.POST("/", rpc)
	r.OPTIONS("/", routes.Preflight)

	journalAPI := routes.NewJournalAPI(deps.Journal, deps.Identity)

	r.GET("/health", routes.GetHealth)
	r.GET("/metrics", metrics.Handler())
	r.GET("/identity", journalAPI.GetIdentity)
	r.GET("/invocations", WithJwtAuth(deps.JwtSecret, journalAPI.GetInvocations))
	r.GET("/invocation/{id}", WithJwtAuth(deps.JwtSecret, journalAPI.GetInvocationById))

	// Dashboard
	if deps.Dashboard != nil {
		r.GET("/dashboard/api/overview", deps.Dashboard.ServeOverview)
		r.GET("/dashboard/api/execution", WithJwtAuth(deps.JwtSecret, deps.Dashboard.ServeExecution))
	}

	logger := deps.AccessLog
	if logger == nil {
		logger = zap.NewNop()
	}

	return WithAccessLog(logger, r.Handler)

}

func NewHTTPServer(deps RouterDeps) *fasthttp.Server {
	return &fasthttp.Server{
		Handler: createRouter(deps),
		Name:    "sputnik-rpc",
		// Above the RPC cap so the handler can answer oversize bodies with a JSON error.
		MaxRequestBodySize: 4 << 20,
		ReadTimeout:        30 * time.Second,
		IdleTimeout:        2 * time.Minute,
	}
}

func ListenAddr(cfg structures.GatewayConfig) string {
	return net.JoinHostPort(cfg.Interface, strconv.Itoa(cfg.Port))
}

// CreateHTTPServer blocks serving the route table. It returns nil once the server is shut down.
func CreateHTTPServer(cfg structures.GatewayConfig, server *fasthttp.Server) error {

	serverAddr := ListenAddr(cfg)

	utils.LogWithTime(fmt.Sprintf("Server is starting at http://%s ...✅", serverAddr), utils.CYAN_COLOR)

	if err := server.ListenAndServe(serverAddr); err != nil {
		utils.LogWithTime(fmt.Sprintf("Error in server: %s", err), utils.RED_COLOR)
		return err
	}

	return nil

}
