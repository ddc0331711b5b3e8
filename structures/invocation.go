package structures

import "strconv"

type InvocationMode string

const (
	ModeRead  InvocationMode = "read"
	ModeWrite InvocationMode = "write"
)

// EngineInvocation describes exactly one run of the executor. Handlers build a fresh one per
// call and nothing keeps it afterwards.
type EngineInvocation struct {
	Method     string
	Argument   []byte
	OutputPath string
	WorkingDir string
	Mode       InvocationMode
}

func (inv EngineInvocation) IsWrite() bool { return inv.Mode == ModeWrite }

type InvocationStatus string

const (
	StatusOk      InvocationStatus = "ok"
	StatusFailed  InvocationStatus = "failed"
	StatusTimeout InvocationStatus = "timeout"
)

type InvocationRecord struct {
	Id          string           `json:"id"`
	Method      string           `json:"method"`
	Mode        InvocationMode   `json:"mode"`
	Argument    string           `json:"argument"`
	StartedAt   int64            `json:"startedAt"`
	DurationMs  int64            `json:"durationMs"`
	Status      InvocationStatus `json:"status"`
	ExitCode    int              `json:"exitCode"`
	Error       string           `json:"error,omitempty"`
	OutputBytes int              `json:"outputBytes"`
	Signer      string           `json:"signer,omitempty"`
	Signature   string           `json:"signature,omitempty"`
}

// SigningPayload is the byte string covered by Signature: every field except the signature
// pair itself, joined in a fixed order.
func (r *InvocationRecord) SigningPayload() string {
	return r.Id + ":" + r.Method + ":" + string(r.Mode) + ":" + r.Argument + ":" +
		strconv.FormatInt(r.StartedAt, 10) + ":" + strconv.FormatInt(r.DurationMs, 10) + ":" + string(r.Status) + ":" +
		strconv.Itoa(r.ExitCode) + ":" + r.Error + ":" + strconv.Itoa(r.OutputBytes)
}
