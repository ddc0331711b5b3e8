package routes

import (
	"errors"
	"strconv"

	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/cryptography"
	"github.com/modulrcloud/sputnik-rpc/databases"
	"github.com/modulrcloud/sputnik-rpc/http_pack/helpers"
	"github.com/modulrcloud/sputnik-rpc/structures"
	"github.com/modulrcloud/sputnik-rpc/utils"

	"github.com/valyala/fasthttp"
)

type healthResponse struct {
	Status string `json:"status"`
}

type identityResponse struct {
	PubKey    string   `json:"pubKey"`
	Bip44Path []uint32 `json:"bip44Path"`
	Journal   bool     `json:"journal"`
}

type invocationsResponse struct {
	Invocations []structures.InvocationRecord `json:"invocations"`
}

// JournalAPI serves the operational read-only views of the gateway.
type JournalAPI struct {
	journal  *databases.Journal
	identity *cryptography.Identity
}

func NewJournalAPI(journal *databases.Journal, identity *cryptography.Identity) *JournalAPI {
	return &JournalAPI{journal: journal, identity: identity}
}

func GetHealth(ctx *fasthttp.RequestCtx) {
	helpers.WriteJSON(ctx, fasthttp.StatusOK, healthResponse{Status: "ok"})
}

func (api *JournalAPI) GetIdentity(ctx *fasthttp.RequestCtx) {

	if api.identity == nil {
		helpers.WriteErr(ctx, fasthttp.StatusNotFound, "Gateway has no identity")
		return
	}

	helpers.WriteJSON(ctx, fasthttp.StatusOK, identityResponse{
		PubKey:    api.identity.PubKey,
		Bip44Path: api.identity.Bip44Path,
		Journal:   api.journal != nil,
	})

}

func (api *JournalAPI) GetInvocations(ctx *fasthttp.RequestCtx) {

	if api.journal == nil {
		helpers.WriteErr(ctx, fasthttp.StatusServiceUnavailable, "Journal is disabled")
		return
	}

	limit := constants.DefaultInvocationsAPI

	if raw := ctx.QueryArgs().Peek("limit"); len(raw) > 0 {
		parsed, err := strconv.Atoi(string(raw))
		if err != nil || parsed <= 0 {
			helpers.WriteErr(ctx, fasthttp.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(parsed, constants.MaxInvocationsAPI)
	}

	records, err := api.journal.Latest(limit)
	if err != nil {
		utils.LogWithTime("Failed to read journal: "+err.Error(), utils.RED_COLOR)
		helpers.WriteErr(ctx, fasthttp.StatusInternalServerError, "Failed to read journal")
		return
	}

	helpers.WriteJSON(ctx, fasthttp.StatusOK, invocationsResponse{Invocations: records})

}

func (api *JournalAPI) GetInvocationById(ctx *fasthttp.RequestCtx) {

	if api.journal == nil {
		helpers.WriteErr(ctx, fasthttp.StatusServiceUnavailable, "Journal is disabled")
		return
	}

	id, ok := ctx.UserValue("id").(string)
	if !ok || id == "" {
		helpers.WriteErr(ctx, fasthttp.StatusBadRequest, "Invalid value")
		return
	}

	rec, err := api.journal.Get(id)
	if errors.Is(err, databases.ErrRecordNotFound) {
		helpers.WriteErr(ctx, fasthttp.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		helpers.WriteErr(ctx, fasthttp.StatusInternalServerError, "Failed to read journal")
		return
	}

	helpers.WriteJSON(ctx, fasthttp.StatusOK, rec)

}
