package constants

// Gateway identity.
const (
	GatewayName    = "sputnik-rpc"
	GatewayVersion = "0.1.0"
)

// Canned values served by the stub methods.
const (
	ChainIdHex          = "0x1A4" // 420
	NetworkIdDecimal    = "420"
	TransactionCountHex = "0x1"
	GasPriceHex         = "0x1"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeExecution      = -32000
	CodeRateLimited    = -32005
)

// Ethereum method names served by the gateway.
const (
	MethodCall                  = "eth_call"
	MethodSendTransaction       = "eth_sendTransaction"
	MethodSendRawTransaction    = "eth_sendRawTransaction"
	MethodGetTransactionReceipt = "eth_getTransactionReceipt"
	MethodGetTransactionCount   = "eth_getTransactionCount"
	MethodChainId               = "eth_chainId"
	MethodGasPrice              = "eth_gasPrice"
	MethodBlockNumber           = "eth_blockNumber"
	MethodGetBalance            = "eth_getBalance"
	MethodClientVersion         = "web3_clientVersion"
	MethodNetVersion            = "net_version"
)

// Executor command line flags.
const (
	FlagDbPath     = "--db-path"
	FlagData       = "--data"
	FlagOutputFile = "--output-file"
	FlagWrite      = "--write"
)

// Common DB key fragments/prefixes.
const (
	DBKeyPrefixInvocation      = "INVOCATION:"
	DBKeyPrefixInvocationOrder = "INVOCATION_ORDER:"
)

// Limits applied at the front doors and around the executor.
const (
	MaxRequestBodyBytes   = 1 << 20
	MaxCapturedOutput     = 64 << 10
	DefaultInvocationsAPI = 20
	MaxInvocationsAPI     = 200
	TempFilePrefix        = "sputnik-"
)
