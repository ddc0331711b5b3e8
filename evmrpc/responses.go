package evmrpc

import "encoding/json"

func ResultResponse(id json.RawMessage, result any) []byte {
	resp := Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return ErrorResponse(id, NewRPCError(-32603, "Internal error: unencodable result"))
	}
	return b
}

func ErrorResponse(id json.RawMessage, rpcErr *RPCError) []byte {
	resp := Response{
		JSONRPC: "2.0",
		Error:   rpcErr,
		ID:      id,
	}
	b, err := json.Marshal(resp)
	if err != nil {
		// Data was not encodable; drop it rather than the whole error.
		resp.Error = &RPCError{Code: rpcErr.Code, Message: rpcErr.Message}
		b, _ = json.Marshal(resp)
	}
	return b
}
