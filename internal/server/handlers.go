package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"society-dashboard/internal/catalog"
	"society-dashboard/internal/cheque"
	stderrors "society-dashboard/internal/common/errors"
	"society-dashboard/internal/common/logger"
	"society-dashboard/internal/common/metrics"
	"society-dashboard/internal/fieldpath"
	"society-dashboard/internal/membercache"
	"society-dashboard/internal/models"
	"society-dashboard/internal/report"
	"society-dashboard/internal/wizard"
)

// MemberSource is the upstream member-records API surface the handlers need.
type MemberSource interface {
	GetMembers(ctx context.Context) ([]models.Member, error)
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
}

type Handlers struct {
	Members MemberSource
	Loans   wizard.LoanCreator
	Cache   *membercache.Cache // nil when caching is disabled
	Wizards *wizard.Manager
	Logger  logger.Logger

	PDFTitle string

	errs *stderrors.ErrorHandler
}

func New(members MemberSource, loans wizard.LoanCreator, cache *membercache.Cache, sessions *wizard.Manager, log logger.Logger, pdfTitle string) *Handlers {
	if pdfTitle == "" {
		pdfTitle = "Member Report"
	}
	return &Handlers{
		Members:  members,
		Loans:    loans,
		Cache:    cache,
		Wizards:  sessions,
		Logger:   log,
		PDFTitle: pdfTitle,
		errs:     stderrors.NewErrorHandler(log),
	}
}

func (h *Handlers) JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- member fetching (cache in front of the upstream) ----

func (h *Handlers) fetchMember(ctx context.Context, memberID string) (*models.Member, error) {
	if h.Cache != nil {
		if m, ok := h.Cache.GetMember(ctx, memberID); ok {
			return m, nil
		}
	}

	m, err := h.Members.GetMember(ctx, memberID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, stderrors.NewMemberNotFoundError(memberID)
		}
		return nil, stderrors.NewMemberFetchFailedError(err)
	}

	if h.Cache != nil {
		h.Cache.SetMember(ctx, m)
	}
	return m, nil
}

func (h *Handlers) fetchMembers(ctx context.Context) ([]models.Member, error) {
	if h.Cache != nil {
		if members, ok := h.Cache.GetMembers(ctx); ok {
			return members, nil
		}
	}

	members, err := h.Members.GetMembers(ctx)
	if err != nil {
		return nil, stderrors.NewMemberFetchFailedError(err)
	}

	if h.Cache != nil {
		h.Cache.SetMembers(ctx, members)
	}
	return members, nil
}

// ListMembers returns id, membership number and display name for every
// member, which is what the guarantor picker needs.
func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.fetchMembers(r.Context())
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	type memberSummary struct {
		ID               string `json:"id"`
		MembershipNumber string `json:"membershipNumber"`
		Name             string `json:"name"`
	}

	out := make([]memberSummary, 0, len(members))
	for _, m := range members {
		name := ""
		if v, ok := fieldpath.Resolve(m.Record, "personalDetails.nameOfMember"); ok {
			name, _ = v.(string)
		}
		out = append(out, memberSummary{
			ID:               m.ID,
			MembershipNumber: m.MembershipNumber,
			Name:             strings.TrimSpace(name),
		})
	}
	h.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// ---- wizard session endpoints ----

type wizardStateResponse struct {
	SessionID string              `json:"sessionId"`
	Stage     string              `json:"stage"`
	LastError string              `json:"lastError,omitempty"`
	Created   *models.CreatedLoan `json:"created,omitempty"`
}

func stateOf(w *wizard.Wizard) wizardStateResponse {
	return wizardStateResponse{
		SessionID: w.ID,
		Stage:     w.Stage().String(),
		LastError: w.LastError(),
		Created:   w.Created(),
	}
}

func (h *Handlers) CreateWizard(w http.ResponseWriter, r *http.Request) {
	wz := h.Wizards.Create()
	h.Logger.Info("wizard session created", map[string]interface{}{"sessionId": wz.ID})
	h.JSON(w, http.StatusCreated, stateOf(wz))
}

func (h *Handlers) WizardState(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var state wizardStateResponse
	err := h.Wizards.With(id, func(wz *wizard.Wizard) error {
		state = stateOf(wz)
		return nil
	})
	if err != nil {
		h.errs.WriteError(w, r, h.mapWizardError(id, err))
		return
	}
	h.JSON(w, http.StatusOK, state)
}

// withStage decodes the request body into form, runs fn inside the session
// lock and writes the resulting wizard state. The transition counter is only
// bumped on success.
func withStage[T any](h *Handlers, w http.ResponseWriter, r *http.Request, fn func(wz *wizard.Wizard, form T) error) {
	id := r.PathValue("id")

	var form T
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			h.errs.WriteError(w, r, stderrors.NewValidationFailedError("malformed JSON body: "+err.Error(), nil))
			return
		}
	}

	var state wizardStateResponse
	err := h.Wizards.With(id, func(wz *wizard.Wizard) error {
		from := wz.Stage().String()
		if err := fn(wz, form); err != nil {
			return err
		}
		metrics.WizardStageTransitions.WithLabelValues(from, wz.Stage().String()).Inc()
		state = stateOf(wz)
		return nil
	})
	if err != nil {
		h.errs.WriteError(w, r, h.mapWizardError(id, err))
		return
	}
	h.JSON(w, http.StatusOK, state)
}

func (h *Handlers) LoanDetails(w http.ResponseWriter, r *http.Request) {
	withStage(h, w, r, func(wz *wizard.Wizard, form wizard.LoanFormData) error {
		return wz.SubmitLoanDetails(form)
	})
}

func (h *Handlers) BankDetails(w http.ResponseWriter, r *http.Request) {
	withStage(h, w, r, func(wz *wizard.Wizard, form wizard.BankDetails) error {
		return wz.SubmitBankDetails(form)
	})
}

func (h *Handlers) PDCDetails(w http.ResponseWriter, r *http.Request) {
	withStage(h, w, r, func(wz *wizard.Wizard, form wizard.PDCInput) error {
		return wz.SubmitPDCDetails(form)
	})
}

type guarantorRequest struct {
	Guarantors []wizard.GuarantorInput `json:"guarantors"`
}

func (h *Handlers) GuarantorDetails(w http.ResponseWriter, r *http.Request) {
	members, err := h.fetchMembers(r.Context())
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	withStage(h, w, r, func(wz *wizard.Wizard, form guarantorRequest) error {
		return wz.SubmitGuarantorDetails(form.Guarantors, members)
	})
}

func (h *Handlers) Back(w http.ResponseWriter, r *http.Request) {
	withStage(h, w, r, func(wz *wizard.Wizard, _ struct{}) error {
		return wz.Back()
	})
}

func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := r.Context()

	var state wizardStateResponse
	err := h.Wizards.With(id, func(wz *wizard.Wizard) error {
		_, err := wz.Submit(ctx, h.Loans)
		state = stateOf(wz)
		return err
	})
	if err != nil {
		metrics.WizardSubmits.WithLabelValues("failure").Inc()
		h.errs.WriteError(w, r, h.mapWizardError(id, err))
		return
	}
	metrics.WizardSubmits.WithLabelValues("success").Inc()
	h.JSON(w, http.StatusCreated, state)
}

func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	withStage(h, w, r, func(wz *wizard.Wizard, _ struct{}) error {
		wz.Reset()
		return nil
	})
}

// mapWizardError translates wizard package sentinels into the standard error
// taxonomy. Submit failures from the upstream come back as opaque messages.
func (h *Handlers) mapWizardError(sessionID string, err error) error {
	var stageErr *wizard.StageError
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		return stderrors.NewWizardSessionNotFoundError(sessionID)
	case errors.As(err, &stageErr):
		return stderrors.NewValidationFailedError(stageErr.Stage.String(), stageErr.Errors)
	case errors.Is(err, wizard.ErrStageOrder):
		return stderrors.NewWizardStageOrderError(err.Error())
	case errors.Is(err, wizard.ErrSubmitInFlight):
		return stderrors.NewSubmitInFlightError(sessionID)
	case errors.Is(err, wizard.ErrGuarantorNotFound):
		return stderrors.NewGuarantorNotFoundError(strings.TrimPrefix(err.Error(), wizard.ErrGuarantorNotFound.Error()+": "))
	case strings.Contains(err.Error(), "PAYLOAD_SCHEMA_INVALID"):
		return stderrors.NewPayloadSchemaInvalidError(err.Error())
	default:
		return stderrors.NewLoanSubmitFailedError(err)
	}
}

// ---- cheque preview ----

type chequePreviewRequest struct {
	StartingChequeNumber string  `json:"startingChequeNumber"`
	NumberOfCheques      int     `json:"numberOfCheques"`
	SeriesDate           string  `json:"seriesDate"`
	Amount               float64 `json:"amount"`
}

type chequePreviewRow struct {
	ChequeNumber string  `json:"chequeNumber"`
	ChequeDate   string  `json:"chequeDate"`
	Amount       float64 `json:"amount"`
}

// ChequePreview runs the series generator without touching any wizard state,
// so the form can show the numbers and dates before the stage is committed.
func (h *Handlers) ChequePreview(w http.ResponseWriter, r *http.Request) {
	var req chequePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errs.WriteError(w, r, stderrors.NewValidationFailedError("malformed JSON body: "+err.Error(), nil))
		return
	}
	if req.StartingChequeNumber == "" || req.NumberOfCheques < 1 {
		h.errs.WriteError(w, r, stderrors.NewValidationFailedError(
			"startingChequeNumber and numberOfCheques are required", nil))
		return
	}
	base, err := cheque.ParseSeriesDate(req.SeriesDate)
	if err != nil {
		h.errs.WriteError(w, r, stderrors.NewValidationFailedError("seriesDate must be an ISO date", nil))
		return
	}

	numbers := cheque.GenerateNumbers(req.StartingChequeNumber, req.NumberOfCheques)
	dates := cheque.RolloutDates(base, req.NumberOfCheques)

	rows := make([]chequePreviewRow, 0, len(numbers))
	for i, n := range numbers {
		rows = append(rows, chequePreviewRow{
			ChequeNumber: n,
			ChequeDate:   dates[i].Format("2006-01-02"),
			Amount:       req.Amount,
		})
	}
	h.JSON(w, http.StatusOK, map[string]any{"data": rows})
}

// ---- member report ----

func (h *Handlers) Report(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")

	category, err := parseCategoryParam(r.URL.Query().Get("category"))
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	filter := catalog.ParseFilter(r.URL.Query().Get("filter"))

	m, err := h.fetchMember(r.Context(), memberID)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	entries := catalog.Project(m.Record, category, filter)
	rows := report.BuildRows(m.Record, entries, report.GridOptions())
	filled, total := report.Completion(rows)

	metrics.ReportBuilds.WithLabelValues(string(category), string(filter)).Inc()
	h.JSON(w, http.StatusOK, map[string]any{
		"memberId":         m.ID,
		"membershipNumber": m.MembershipNumber,
		"category":         category,
		"filter":           filter,
		"filled":           filled,
		"total":            total,
		"rows":             rows,
	})
}

func (h *Handlers) ReportExport(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "xlsx" {
		h.errs.WriteError(w, r, stderrors.NewValidationFailedError("format must be pdf or xlsx", nil))
		return
	}

	category, err := parseCategoryParam(r.URL.Query().Get("category"))
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	filter := catalog.ParseFilter(r.URL.Query().Get("filter"))

	m, err := h.fetchMember(r.Context(), memberID)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	entries := catalog.Project(m.Record, category, filter)
	rows := report.BuildRows(m.Record, entries, report.ExportOptions())

	title := h.PDFTitle
	if m.MembershipNumber != "" {
		title = fmt.Sprintf("%s - %s", title, m.MembershipNumber)
	}

	var data []byte
	var contentType, filename string
	switch format {
	case "xlsx":
		data, err = report.WriteXLSX(title, rows)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = fmt.Sprintf("member-%s-report.xlsx", memberID)
	default:
		data, err = report.WritePDF(title, rows)
		contentType = "application/pdf"
		filename = fmt.Sprintf("member-%s-report.pdf", memberID)
	}
	if err != nil {
		h.errs.WriteError(w, r, stderrors.NewExportRenderFailedError(format, err))
		return
	}

	metrics.ReportExports.WithLabelValues(format).Inc()
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseCategoryParam is strict where the catalog's parser is forgiving: an
// unknown non-empty category is a client error at the API boundary.
func parseCategoryParam(s string) (catalog.Category, error) {
	if s == "" {
		return catalog.CategoryAll, nil
	}
	c := catalog.ParseCategory(s)
	if c == catalog.CategoryAll && !strings.EqualFold(strings.TrimSpace(s), "all") {
		return "", stderrors.NewUnknownCategoryError(s)
	}
	return c, nil
}
