package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gfmarinho/absence-messaging/internal/model"
	"github.com/gfmarinho/absence-messaging/internal/repo"
)

type Dispatcher interface {
	DispatchBatch(ctx context.Context, date, series string, students []model.FlaggedStudent, tmpl string) []model.DispatchOutcome
}

type ReplyCorrelator interface {
	Correlate(ctx context.Context, rawFrom, body string) (model.CorrelationOutcome, error)
}

type Templates interface {
	Current(ctx context.Context) (string, error)
	Update(ctx context.Context, text string) error
}

type GatewayAdmin interface {
	ResetConnection(ctx context.Context) error
	QRCode(ctx context.Context) ([]byte, error)
}

type Handler struct {
	dispatcher Dispatcher
	correlator ReplyCorrelator
	records    repo.DispatchRepository
	templates  Templates
	gateway    GatewayAdmin
	log        zerolog.Logger
}

func NewHandler(d Dispatcher, c ReplyCorrelator, records repo.DispatchRepository, templates Templates, gateway GatewayAdmin, log zerolog.Logger) *Handler {
	return &Handler{
		dispatcher: d,
		correlator: c,
		records:    records,
		templates:  templates,
		gateway:    gateway,
		log:        log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type webhookRequest struct {
	From string `json:"from"`
	Body string `json:"body"`
}

// Webhook takes one inbound guardian reply from the gateway. The transport
// only cares that we accepted the payload: an unmatched reply is still a 200.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.From == "" || req.Body == "" {
		http.Error(w, "Dados inválidos", http.StatusBadRequest)
		return
	}

	out, err := h.correlator.Correlate(r.Context(), req.From, req.Body)
	if err != nil {
		h.log.Error().Err(err).Str("from", req.From).Msg("reply correlation failed")
		http.Error(w, "Erro ao registrar resposta", http.StatusInternalServerError)
		return
	}

	if out.MatchedRecordID == nil {
		h.log.Info().Str("number", out.Number).Msg("reply had no outstanding dispatch")
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Resposta registrada com sucesso"))
}

type dispatchRequest struct {
	Date     string                 `json:"date"`
	Series   string                 `json:"series"`
	Students []model.FlaggedStudent `json:"students"`
}

func (h *Handler) DispatchBatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Date == "" || req.Series == "" {
		http.Error(w, "date and series are required", http.StatusBadRequest)
		return
	}
	if len(req.Students) == 0 {
		http.Error(w, "no students flagged", http.StatusBadRequest)
		return
	}

	tmpl, err := h.templates.Current(r.Context())
	if err != nil {
		http.Error(w, "failed to load message template: "+err.Error(), http.StatusInternalServerError)
		return
	}

	outcomes := h.dispatcher.DispatchBatch(r.Context(), req.Date, req.Series, req.Students, tmpl)

	writeJSON(w, http.StatusOK, map[string]any{"outcomes": outcomes})
}

func (h *Handler) ListDispatches(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	series := r.URL.Query().Get("series")
	if date == "" || series == "" {
		http.Error(w, "date and series are required", http.StatusBadRequest)
		return
	}

	items, err := h.records.QueryByDateAndSeries(r.Context(), date, series)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": toRecordResponses(items)})
}

func (h *Handler) ListReplies(w http.ResponseWriter, r *http.Request) {
	items, err := h.records.ListReplied(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": toRecordResponses(items)})
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.templates.Current(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"template": tmpl})
}

type templateRequest struct {
	Template string `json:"template"`
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Template == "" {
		http.Error(w, "template is required", http.StatusBadRequest)
		return
	}

	if err := h.templates.Update(r.Context(), req.Template); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"template": req.Template})
}

func (h *Handler) ResetGateway(w http.ResponseWriter, r *http.Request) {
	if err := h.gateway.ResetConnection(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) GatewayQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.gateway.QRCode(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

type recordResponse struct {
	ID        int64     `json:"id"`
	Student   string    `json:"student"`
	Series    string    `json:"series"`
	Date      string    `json:"date"`
	Guardian  string    `json:"guardian"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	Reply     *string   `json:"reply"`
	CreatedAt time.Time `json:"createdAt"`
}

func toRecordResponses(records []model.DispatchRecord) []recordResponse {
	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, recordResponse{
			ID:        rec.ID,
			Student:   rec.Student,
			Series:    rec.Series,
			Date:      rec.Date,
			Guardian:  rec.Guardian,
			Phone:     rec.Phone,
			Status:    string(rec.Status),
			Reply:     rec.Reply,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
