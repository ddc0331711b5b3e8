package routes

import (
	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/evmrpc"
	"github.com/modulrcloud/sputnik-rpc/http_pack/helpers"

	"github.com/valyala/fasthttp"
)

// UserValueRPCMethod is set on the request context so the access log can name the method.
const UserValueRPCMethod = "rpcMethod"

// EVMRPC serves JSON-RPC 2.0 on POST /.
func EVMRPC(dispatcher *evmrpc.Dispatcher) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {

		body := ctx.PostBody()

		if len(body) > constants.MaxRequestBodyBytes {
			helpers.WriteJSONBytes(ctx, fasthttp.StatusRequestEntityTooLarge,
				evmrpc.ErrorResponse(nil, evmrpc.NewRPCError(constants.CodeInvalidRequest, "Request too large")))
			return
		}

		// RequestCtx is a context.Context; Done fires when the server shuts down.
		outcome := dispatcher.Dispatch(ctx, body)

		ctx.SetUserValue(UserValueRPCMethod, outcome.Method)

		if outcome.NoContent {
			helpers.WriteNoContent(ctx)
			return
		}

		helpers.WriteJSONBytes(ctx, fasthttp.StatusOK, outcome.Payload)

	}
}

// Preflight answers CORS OPTIONS requests for browser wallets.
func Preflight(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	helpers.WriteNoContent(ctx)
}
