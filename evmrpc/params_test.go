package evmrpc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/modulrcloud/sputnik-rpc/constants"
)

func TestNormalizeCallParamsShapesAgree(t *testing.T) {

	fromArray, err := NormalizeCallParams(json.RawMessage(`[{"to":"0xabc","data":"0x01"},"latest"]`))
	if err != nil {
		t.Fatalf("array form: %v", err)
	}

	fromObject, err := NormalizeCallParams(json.RawMessage(`{"data":"0x01","to":"0xabc"}`))
	if err != nil {
		t.Fatalf("object form: %v", err)
	}

	if string(fromArray) != string(fromObject) {
		t.Fatalf("array gave %s, object gave %s", fromArray, fromObject)
	}
	if string(fromArray) != `{"data":"0x01","to":"0xabc"}` {
		t.Fatalf("unexpected argument %s", fromArray)
	}

}

func TestNormalizeCallParamsStripsTypedFields(t *testing.T) {

	got, err := NormalizeCallParams(json.RawMessage(`[{"to":"0x1","type":"0x2","accessList":[],"gas":"0x5208"}]`))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if string(got) != `{"gas":"0x5208","to":"0x1"}` {
		t.Fatalf("unexpected argument %s", got)
	}

}

func TestNormalizeCallParamsRejects(t *testing.T) {

	cases := map[string]string{
		"empty":          ``,
		"number":         `42`,
		"string":         `"0x1"`,
		"null":           `null`,
		"empty array":    `[]`,
		"null element":   `[null]`,
		"string element": `["latest"]`,
	}

	for name, raw := range cases {
		_, err := NormalizeCallParams(json.RawMessage(raw))

		var rpcErr *RPCError
		if !errors.As(err, &rpcErr) || rpcErr.Code != constants.CodeInvalidParams {
			t.Fatalf("%s: expected invalid params, got %v", name, err)
		}
	}

}

func TestCompactParams(t *testing.T) {

	got, err := CompactParams(json.RawMessage("[ {\n \"from\": \"0x1\" } ]"))
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	if string(got) != `[{"from":"0x1"}]` {
		t.Fatalf("unexpected argument %s", got)
	}

	if _, err := CompactParams(nil); err == nil {
		t.Fatalf("expected an error for missing params")
	}
	if _, err := CompactParams(json.RawMessage("null")); err == nil {
		t.Fatalf("expected an error for null params")
	}

}
