package evmrpc

import (
	"encoding/json"
	"fmt"

	"github.com/modulrcloud/sputnik-rpc/constants"
)

// Request is a single JSON-RPC 2.0 call. ID is kept raw so it is echoed byte for byte; a
// missing ID marks a notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

func (r *Request) IsNotification() bool { return len(r.ID) == 0 }

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func NewRPCError(code int, message string) *RPCError {
	return &RPCError{Code: code, Message: message}
}

func InvalidParams(reason string) *RPCError {
	return &RPCError{Code: constants.CodeInvalidParams, Message: "Invalid params: " + reason}
}

func MethodNotFound(method string) *RPCError {
	return &RPCError{Code: constants.CodeMethodNotFound, Message: "Method not found: " + method}
}

// NotImplemented is reported for method names the gateway declares but has no behavior for.
// It shares the MethodNotFound code so clients fall back the same way.
func NotImplemented(method string) *RPCError {
	return &RPCError{Code: constants.CodeMethodNotFound, Message: "Method not implemented: " + method}
}
