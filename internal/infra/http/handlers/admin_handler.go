package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/xavierca1/oxyllium-leads/internal/entity"
	"github.com/xavierca1/oxyllium-leads/internal/infra/http/middleware"
	"github.com/xavierca1/oxyllium-leads/internal/usecase"
)

type LeadLister interface {
	Execute(ctx context.Context) ([]*entity.Lead, error)
}

type LeadGetter interface {
	Execute(ctx context.Context, rowID int) (*entity.Lead, error)
}

type LeadApprover interface {
	Execute(ctx context.Context, input usecase.ApproveLeadInput) (*usecase.ApproveLeadOutput, error)
}

type LeadRejecter interface {
	Execute(ctx context.Context, input usecase.RejectLeadInput) error
}

type ClientConfigService interface {
	Get(ctx context.Context) ([]string, error)
	Save(ctx context.Context, emails []string) error
}

// AdminHandler is the single admin endpoint; the operation is chosen by ?action=.
// Authentication happens in middleware.BearerAuth before this handler runs.
type AdminHandler struct {
	List    LeadLister
	Get     LeadGetter
	Approve LeadApprover
	Reject  LeadRejecter
	Config  ClientConfigService
	Log     zerolog.Logger
}

func NewAdminHandler(list LeadLister, get LeadGetter, approve LeadApprover, reject LeadRejecter, config ClientConfigService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		List:    list,
		Get:     get,
		Approve: approve,
		Reject:  reject,
		Config:  config,
		Log:     log,
	}
}

// leadView is a lead as the admin UI reads it: every column plus _row.
type leadView struct {
	*entity.Lead
	Row int `json:"_row"`
}

func newLeadView(l *entity.Lead) leadView {
	return leadView{Lead: l, Row: l.RowID}
}

type saveConfigRequest struct {
	ClientEmails []string `json:"client_emails"`
}

func (h *AdminHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}

	action := r.URL.Query().Get("action")
	switch action {
	case "list":
		h.handleList(w, r)
	case "get":
		h.handleGet(w, r)
	case "approve":
		if requirePost(w, r) {
			h.handleApprove(w, r)
		}
	case "reject":
		if requirePost(w, r) {
			h.handleReject(w, r)
		}
	case "getConfig":
		h.handleGetConfig(w, r)
	case "saveConfig":
		if requirePost(w, r) {
			h.handleSaveConfig(w, r)
		}
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Unknown action"})
	}
}

func (h *AdminHandler) handleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.List.Execute(r.Context())
	if err != nil {
		h.fail(w, "list", err)
		return
	}

	views := make([]leadView, 0, len(leads))
	for _, l := range leads {
		views = append(views, newLeadView(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": views})
}

func (h *AdminHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	row, ok := rowParam(w, r)
	if !ok {
		return
	}

	lead, err := h.Get.Execute(r.Context(), row)
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lead": newLeadView(lead)})
}

func (h *AdminHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	row, ok := rowParam(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	input := usecase.ApproveLeadInput{
		RowID:    row,
		LeadType: firstParam(q.Get("leadType"), q.Get("lead_type")),
		PriceTTC: firstParam(q.Get("priceTTC"), q.Get("price_ttc")),
	}

	out, err := h.Approve.Execute(r.Context(), input)
	if err != nil {
		h.fail(w, "approve", err)
		return
	}

	middleware.RecordTransition(string(entity.StatusApproved))
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) handleReject(w http.ResponseWriter, r *http.Request) {
	row, ok := rowParam(w, r)
	if !ok {
		return
	}

	if err := h.Reject.Execute(r.Context(), usecase.RejectLeadInput{RowID: row}); err != nil {
		h.fail(w, "reject", err)
		return
	}

	middleware.RecordTransition(string(entity.StatusRejected))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	emails, err := h.Config.Get(r.Context())
	if err != nil {
		h.fail(w, "getConfig", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"client_emails": emails})
}

func (h *AdminHandler) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var req saveConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &usecase.DomainError{Code: usecase.CodeValidation, Message: "invalid JSON body: " + err.Error(), Err: err})
		return
	}

	if err := h.Config.Save(r.Context(), req.ClientEmails); err != nil {
		h.fail(w, "saveConfig", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) fail(w http.ResponseWriter, action string, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		h.Log.Warn().Err(err).Str("action", action).Str("code", de.Code).Msg("admin action refused")
	} else {
		h.Log.Error().Err(err).Str("action", action).Msg("admin action failed")
	}
	writeError(w, err)
}

func rowParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("row")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "row parameter required"})
		return 0, false
	}

	row, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "row must be an integer", Code: usecase.CodeValidation})
		return 0, false
	}
	return row, true
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return false
	}
	return true
}

func firstParam(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
