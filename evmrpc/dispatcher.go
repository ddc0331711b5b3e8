package evmrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/executor"
	"github.com/modulrcloud/sputnik-rpc/metrics"
	"github.com/modulrcloud/sputnik-rpc/utils"
)

var nullID = json.RawMessage("null")

// Outcome is what a front door writes back. NoContent means nothing is sent (HTTP 204, no
// WebSocket frame).
type Outcome struct {
	Payload   []byte
	NoContent bool
	Method    string
}

// ExecutionErrorData is attached to -32000 errors raised by a failed executor run.
type ExecutionErrorData struct {
	ExitCode int    `json:"exitCode"`
	Stderr   string `json:"stderr,omitempty"`
}

// Dispatcher is stateless across requests; one instance serves every front door.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch parses one JSON-RPC request body and serves it.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) Outcome {

	trimmed := bytes.TrimSpace(body)

	if !json.Valid(trimmed) {
		metrics.ObserveRequest("", metrics.OutcomeError)
		return errorOutcome("", nullID, NewRPCError(constants.CodeParseError, "Parse error"))
	}

	if trimmed[0] == '[' {
		metrics.ObserveRequest("", metrics.OutcomeError)
		return errorOutcome("", nullID, NewRPCError(constants.CodeInvalidRequest, "Batch requests are not supported"))
	}

	var req Request
	if trimmed[0] != '{' || json.Unmarshal(trimmed, &req) != nil {
		metrics.ObserveRequest("", metrics.OutcomeError)
		return errorOutcome("", nullID, NewRPCError(constants.CodeInvalidRequest, "Invalid Request"))
	}

	return d.Handle(ctx, req)

}

// Handle serves an already decoded request.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (outcome Outcome) {

	replyID := req.ID
	if req.IsNotification() {
		replyID = nullID
	}

	if req.JSONRPC != "2.0" || req.Method == "" {
		metrics.ObserveRequest("", metrics.OutcomeError)
		return errorOutcome(req.Method, replyID, NewRPCError(constants.CodeInvalidRequest, "Invalid Request"))
	}

	handler, ok := d.registry.Lookup(req.Method)
	if !ok {
		metrics.ObserveRequest("", metrics.OutcomeError)
		return errorOutcome(req.Method, replyID, MethodNotFound(req.Method))
	}

	defer func() {
		if r := recover(); r != nil {
			utils.LogWithTime(fmt.Sprintf("Handler for %s panicked: %v", req.Method, r), utils.RED_COLOR)
			metrics.ObserveRequest(req.Method, metrics.OutcomeError)
			outcome = errorOutcome(req.Method, replyID, NewRPCError(constants.CodeInternalError, "Internal error"))
		}
	}()

	result, err := handler(ctx, req.Params)

	if err != nil {
		metrics.ObserveRequest(req.Method, metrics.OutcomeError)
		return errorOutcome(req.Method, replyID, toRPCError(req.Method, err))
	}

	if result == nil || req.IsNotification() {
		metrics.ObserveRequest(req.Method, metrics.OutcomeNoContent)
		return Outcome{NoContent: true, Method: req.Method}
	}

	metrics.ObserveRequest(req.Method, metrics.OutcomeResult)

	return Outcome{Payload: ResultResponse(req.ID, result), Method: req.Method}

}

func errorOutcome(method string, id json.RawMessage, rpcErr *RPCError) Outcome {
	return Outcome{Payload: ErrorResponse(id, rpcErr), Method: method}
}

func toRPCError(method string, err error) *RPCError {

	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var procErr *executor.ProcessError
	if errors.As(err, &procErr) {

		utils.LogWithTimeThrottled("exec-failed:"+method, 5*time.Second, procErr.Error(), utils.RED_COLOR)

		message := "Execution failed"
		if procErr.TimedOut {
			message = "Execution timed out"
		}

		return &RPCError{
			Code:    constants.CodeExecution,
			Message: message,
			Data: ExecutionErrorData{
				ExitCode: procErr.ExitCode,
				Stderr:   stderrTail(procErr.Stderr),
			},
		}

	}

	var ioErr *executor.IOError
	if errors.As(err, &ioErr) {
		utils.LogWithTimeThrottled("exec-output:"+method, 5*time.Second, ioErr.Error(), utils.RED_COLOR)
		return NewRPCError(constants.CodeExecution, "Execution output unavailable")
	}

	utils.LogWithTimeThrottled("internal:"+method, 5*time.Second, method+": "+err.Error(), utils.RED_COLOR)

	return NewRPCError(constants.CodeInternalError, "Internal error")

}

const maxStderrInError = 2048

func stderrTail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if len(stderr) > maxStderrInError {
		stderr = stderr[len(stderr)-maxStderrInError:]
	}
	return stderr
}
