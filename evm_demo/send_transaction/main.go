package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// eth_sendTransaction answers 204 on success, which the go-ethereum rpc client reads as a
// decode error, so this demo posts the request itself.
func main() {
	var fromStr, toStr, dataStr string
	flag.StringVar(&fromStr, "from", "", "sender address (0x...)")
	flag.StringVar(&toStr, "to", "", "target address (0x...)")
	flag.StringVar(&dataStr, "data", "0x", "calldata (0x...)")
	flag.Parse()

	if fromStr == "" || toStr == "" {
		log.Fatal("provide -from 0x... and -to 0x...")
	}

	calldata, err := hexutil.Decode(dataStr)
	if err != nil {
		log.Fatalf("bad -data: %v", err)
	}

	tx := map[string]any{
		"from": common.HexToAddress(fromStr),
		"to":   common.HexToAddress(toStr),
		"data": hexutil.Bytes(calldata),
	}

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "eth_sendTransaction",
		"params":  []any{tx},
	})
	if err != nil {
		log.Fatalf("encode request: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, getenv("RPC_URL", "http://localhost:8549/"), bytes.NewReader(body))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("send: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		fmt.Println("transaction applied")
		return
	}

	reply, _ := io.ReadAll(resp.Body)
	log.Fatalf("gateway answered %d: %s", resp.StatusCode, reply)
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
