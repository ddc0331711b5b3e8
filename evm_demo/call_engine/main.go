package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
)

func main() {
	var contractStr, dataStr string
	flag.StringVar(&contractStr, "contract", "", "contract address (0x...)")
	flag.StringVar(&dataStr, "data", "0x", "calldata (0x...)")
	flag.Parse()

	rpcURL := getenv("RPC_URL", "http://localhost:8549/")
	if contractStr == "" {
		contractStr = strings.TrimSpace(os.Getenv("CONTRACT"))
	}
	if contractStr == "" {
		log.Fatal("provide -contract 0x... or set CONTRACT env var")
	}
	contract := common.HexToAddress(contractStr)

	calldata, err := hexutil.Decode(dataStr)
	if err != nil {
		log.Fatalf("bad -data: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		log.Fatalf("dial rpc: %v", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		log.Fatalf("eth_chainId failed: %v", err)
	}

	out, err := client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: calldata,
		Gas:  200_000,
	}, nil)
	if err != nil {
		log.Fatalf("eth_call failed: %v", err)
	}

	fmt.Printf("chain %s, %d bytes: 0x%s\n", chainID, len(out), hex.EncodeToString(out))
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
