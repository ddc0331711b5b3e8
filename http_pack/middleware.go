package http_pack

import (
	"strconv"
	"time"

	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/evmrpc"
	"github.com/modulrcloud/sputnik-rpc/http_pack/helpers"
	"github.com/modulrcloud/sputnik-rpc/http_pack/routes"
	"github.com/modulrcloud/sputnik-rpc/metrics"
	"github.com/modulrcloud/sputnik-rpc/utils"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// WithRateLimit answers 429 with a -32005 error once a client IP exhausts its bucket.
func WithRateLimit(limiter *IPRateLimiter, next fasthttp.RequestHandler) fasthttp.RequestHandler {

	if limiter == nil {
		return next
	}

	return func(ctx *fasthttp.RequestCtx) {

		ip := ctx.RemoteIP().String()

		if !limiter.Allow(ip, time.Now()) {
			utils.LogWithTimeThrottled("rate-limit:"+ip, 30*time.Second, "Rate limiting "+ip, utils.YELLOW_COLOR)
			helpers.WriteJSONBytes(ctx, fasthttp.StatusTooManyRequests,
				evmrpc.ErrorResponse(nil, evmrpc.NewRPCError(constants.CodeRateLimited, "Rate limit exceeded")))
			return
		}

		next(ctx)

	}

}

// WithJwtAuth requires an HS256 bearer token when secret is set.
func WithJwtAuth(secret []byte, next fasthttp.RequestHandler) fasthttp.RequestHandler {

	if len(secret) == 0 {
		return next
	}

	return func(ctx *fasthttp.RequestCtx) {

		if err := VerifyBearer(string(ctx.Request.Header.Peek("Authorization")), secret, time.Now()); err != nil {
			helpers.WriteErr(ctx, fasthttp.StatusUnauthorized, "Unauthorized")
			return
		}

		next(ctx)

	}

}

// WithAccessLog emits one access log line and one metrics sample per request.
func WithAccessLog(logger *zap.Logger, next fasthttp.RequestHandler) fasthttp.RequestHandler {

	return func(ctx *fasthttp.RequestCtx) {

		start := time.Now()

		next(ctx)

		status := ctx.Response.StatusCode()
		path := string(ctx.Path())

		metrics.ObserveHTTP(strconv.Itoa(status), routeLabel(ctx))

		rpcMethod, _ := ctx.UserValue(routes.UserValueRPCMethod).(string)

		logger.Info("",
			zap.String("httpMethod", string(ctx.Method())),
			zap.String("uri", path),
			zap.Int("status", status),
			zap.Duration("lat", time.Since(start)),
			zap.String("rpcMethod", rpcMethod),
			zap.String("remoteIp", ctx.RemoteIP().String()),
			zap.Int("bytesOut", len(ctx.Response.Body())),
		)

	}

}

// Requests that matched no route share one label.
const unmatchedRouteLabel = "other"

// routeLabel is the matched route template, so /invocation/{id} stays one series.
func routeLabel(ctx *fasthttp.RequestCtx) string {
	if route, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && route != "" {
		return route
	}
	return unmatchedRouteLabel
}
