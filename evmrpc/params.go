package evmrpc

import (
	"bytes"
	"encoding/json"
)

// strippedCallFields are dropped from an eth_call body before it reaches the executor, which
// does not understand typed transactions.
var strippedCallFields = []string{"accessList", "type"}

// NormalizeCallParams turns eth_call params into the single call object the executor takes.
// Wallets send `[callObject, blockTag]`; some clients send the call object bare.
func NormalizeCallParams(params json.RawMessage) ([]byte, error) {

	trimmed := bytes.TrimSpace(params)

	if len(trimmed) == 0 {
		return nil, InvalidParams("expected an array or an object")
	}

	var callObject json.RawMessage

	switch trimmed[0] {

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, InvalidParams(err.Error())
		}
		if len(items) == 0 {
			return nil, InvalidParams("missing call object")
		}
		callObject = items[0]

	case '{':
		callObject = trimmed

	default:
		return nil, InvalidParams("expected an array or an object")

	}

	callObject = bytes.TrimSpace(callObject)
	if len(callObject) == 0 || callObject[0] != '{' {
		return nil, InvalidParams("call object must be a JSON object")
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(callObject, &fields); err != nil {
		return nil, InvalidParams(err.Error())
	}

	for _, name := range strippedCallFields {
		delete(fields, name)
	}

	// Map keys are marshaled sorted, so equal objects always produce the same argument.
	return json.Marshal(fields)

}

// CompactParams passes params through as one compact JSON token.
func CompactParams(params json.RawMessage) ([]byte, error) {

	trimmed := bytes.TrimSpace(params)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, InvalidParams("missing params")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, InvalidParams(err.Error())
	}

	return buf.Bytes(), nil

}
