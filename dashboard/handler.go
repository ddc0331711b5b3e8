package dashboard

import (
	"encoding/json"
	"time"

	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/cryptography"
	"github.com/modulrcloud/sputnik-rpc/databases"
	"github.com/modulrcloud/sputnik-rpc/structures"

	"github.com/valyala/fasthttp"
)

// executionWindow is how many journal records the execution summary looks back over.
const executionWindow = constants.MaxInvocationsAPI

// Dashboard serves read-only operator views. It holds no mutable state of its own.
type Dashboard struct {
	cfg       structures.GatewayConfig
	identity  *cryptography.Identity
	journal   *databases.Journal
	methods   []string
	startTime time.Time
}

func New(cfg structures.GatewayConfig, identity *cryptography.Identity, journal *databases.Journal, methods []string) *Dashboard {
	return &Dashboard{
		cfg:       cfg,
		identity:  identity,
		journal:   journal,
		methods:   methods,
		startTime: time.Now(),
	}
}

type OverviewResponse struct {
	Name           string            `json:"name"`
	Version        string            `json:"version"`
	PublicKey      string            `json:"publicKey,omitempty"`
	Uptime         string            `json:"uptime"`
	Methods        []string          `json:"methods"`
	JournalEnabled bool              `json:"journalEnabled"`
	GatewayConfig  GatewayConfigSafe `json:"gatewayConfig"`
}

// GatewayConfigSafe leaves out the mnemonic and the secret path.
type GatewayConfigSafe struct {
	Interface         string   `json:"interface"`
	Port              int      `json:"port"`
	WsPort            int      `json:"wsPort"`
	ExecutorPath      string   `json:"executorPath"`
	ExecutorCommand   []string `json:"executorCommand"`
	ExecutorTimeoutMs int      `json:"executorTimeoutMs"`
	DbPath            string   `json:"dbPath"`
	DevMode           bool     `json:"devMode"`
	RateLimitRps      float64  `json:"rateLimitRps"`
}

func (d *Dashboard) ServeOverview(ctx *fasthttp.RequestCtx) {

	resp := OverviewResponse{
		Name:           constants.GatewayName,
		Version:        constants.GatewayVersion,
		Uptime:         time.Since(d.startTime).Truncate(time.Second).String(),
		Methods:        d.methods,
		JournalEnabled: d.journal != nil,
		GatewayConfig: GatewayConfigSafe{
			Interface:         d.cfg.Interface,
			Port:              d.cfg.Port,
			WsPort:            d.cfg.WebSocketPort,
			ExecutorPath:      d.cfg.ExecutorPath,
			ExecutorCommand:   d.cfg.ExecutorCommand,
			ExecutorTimeoutMs: d.cfg.ExecutorTimeoutMs,
			DbPath:            d.cfg.DbPath,
			DevMode:           d.cfg.DevMode,
			RateLimitRps:      d.cfg.RateLimitRps,
		},
	}

	if d.identity != nil {
		resp.PublicKey = d.identity.PubKey
	}

	writeJSON(ctx, fasthttp.StatusOK, resp)

}

type MethodStats struct {
	Total         int   `json:"total"`
	Failed        int   `json:"failed"`
	TimedOut      int   `json:"timedOut"`
	AvgDurationMs int64 `json:"avgDurationMs"`
	MaxDurationMs int64 `json:"maxDurationMs"`
}

type ExecutionResponse struct {
	Window   int                          `json:"window"`
	ByMethod map[string]*MethodStats      `json:"byMethod"`
	LastRun  *structures.InvocationRecord `json:"lastRun,omitempty"`
}

// ServeExecution summarizes the most recent journal records per method.
func (d *Dashboard) ServeExecution(ctx *fasthttp.RequestCtx) {

	if d.journal == nil {
		writeJSON(ctx, fasthttp.StatusServiceUnavailable, map[string]string{"err": "Journal is disabled"})
		return
	}

	records, err := d.journal.Latest(executionWindow)
	if err != nil {
		writeJSON(ctx, fasthttp.StatusInternalServerError, map[string]string{"err": "Failed to read journal"})
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, Summarize(records))

}

// Summarize folds records (newest first) into per-method stats.
func Summarize(records []structures.InvocationRecord) ExecutionResponse {

	resp := ExecutionResponse{
		Window:   len(records),
		ByMethod: make(map[string]*MethodStats),
	}

	if len(records) > 0 {
		last := records[0]
		resp.LastRun = &last
	}

	totals := make(map[string]int64)

	for _, rec := range records {

		stats, ok := resp.ByMethod[rec.Method]
		if !ok {
			stats = &MethodStats{}
			resp.ByMethod[rec.Method] = stats
		}

		stats.Total++
		totals[rec.Method] += rec.DurationMs

		switch rec.Status {
		case structures.StatusFailed:
			stats.Failed++
		case structures.StatusTimeout:
			stats.TimedOut++
		}

		stats.MaxDurationMs = max(stats.MaxDurationMs, rec.DurationMs)

	}

	for method, stats := range resp.ByMethod {
		stats.AvgDurationMs = totals[method] / int64(stats.Total)
	}

	return resp

}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.SetContentType("application/json")
	data, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.WriteString(`{"err":"marshal failed"}`)
		return
	}
	ctx.SetStatusCode(status)
	ctx.Write(data)
}
