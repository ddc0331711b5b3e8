package evmrpc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/executor"
	"github.com/modulrcloud/sputnik-rpc/structures"
	"github.com/modulrcloud/sputnik-rpc/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// EngineMethods holds what the engine-backed handlers share. It carries no per-request state.
type EngineMethods struct {
	workingDir string
	channel    *executor.TempChannel
	invoker    executor.Invoker
}

func NewEngineMethods(workingDir string, channel *executor.TempChannel, invoker executor.Invoker) *EngineMethods {
	return &EngineMethods{
		workingDir: workingDir,
		channel:    channel,
		invoker:    invoker,
	}
}

// NewEthRegistry builds the full method table the gateway serves.
func NewEthRegistry(em *EngineMethods) *Registry {

	reg := NewRegistry()

	reg.Register(constants.MethodCall, em.Call)
	reg.Register(constants.MethodSendTransaction, em.SendTransaction)
	reg.Register(constants.MethodSendRawTransaction, notImplemented(constants.MethodSendRawTransaction))

	reg.Register(constants.MethodGetTransactionReceipt, noResult)
	reg.Register(constants.MethodGetTransactionCount, fixedResult(constants.TransactionCountHex))
	reg.Register(constants.MethodChainId, fixedResult(constants.ChainIdHex))
	reg.Register(constants.MethodGasPrice, fixedResult(constants.GasPriceHex))

	reg.Register(constants.MethodBlockNumber, notImplemented(constants.MethodBlockNumber))
	reg.Register(constants.MethodGetBalance, notImplemented(constants.MethodGetBalance))

	reg.Register(constants.MethodClientVersion, fixedResult(constants.GatewayName+"/"+constants.GatewayVersion))
	reg.Register(constants.MethodNetVersion, fixedResult(constants.NetworkIdDecimal))

	return reg

}

// Call runs the executor in read mode and returns the output file as 0x-prefixed hex.
func (em *EngineMethods) Call(ctx context.Context, params json.RawMessage) (any, error) {

	argument, err := NormalizeCallParams(params)
	if err != nil {
		return nil, err
	}

	outputPath := em.channel.Allocate()

	defer func() {
		if relErr := em.channel.Release(outputPath); relErr != nil {
			utils.LogWithTimeThrottled("temp-release", 10*time.Second, "Failed to remove "+outputPath+": "+relErr.Error(), utils.YELLOW_COLOR)
		}
	}()

	inv := structures.EngineInvocation{
		Method:     constants.MethodCall,
		Argument:   argument,
		OutputPath: outputPath,
		WorkingDir: em.workingDir,
		Mode:       structures.ModeRead,
	}

	if err := em.invoker.Invoke(ctx, inv); err != nil {
		return nil, err
	}

	output, err := em.channel.Read(outputPath)
	if err != nil {
		return nil, err
	}

	return hexutil.Encode(output), nil

}

// SendTransaction runs the executor in write mode. A successful run has no result.
func (em *EngineMethods) SendTransaction(ctx context.Context, params json.RawMessage) (any, error) {

	argument, err := CompactParams(params)
	if err != nil {
		return nil, err
	}

	inv := structures.EngineInvocation{
		Method:     constants.MethodSendTransaction,
		Argument:   argument,
		WorkingDir: em.workingDir,
		Mode:       structures.ModeWrite,
	}

	if err := em.invoker.Invoke(ctx, inv); err != nil {
		return nil, err
	}

	return nil, nil

}

func noResult(context.Context, json.RawMessage) (any, error) { return nil, nil }

func fixedResult(value string) Handler {
	return func(context.Context, json.RawMessage) (any, error) {
		return value, nil
	}
}

func notImplemented(method string) Handler {
	return func(context.Context, json.RawMessage) (any, error) {
		return nil, NotImplemented(method)
	}
}
