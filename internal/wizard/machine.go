// Package wizard implements the five-stage loan-creation workflow: each stage
// validates its own form, lifts it into accumulated state, and the
// confirmation stage assembles and submits the final payload. Stage state
// lives only for the wizard session and is discarded on reset or after a
// successful submit.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"society-dashboard/internal/catalog"
	"society-dashboard/internal/cheque"
	"society-dashboard/internal/fieldpath"
	"society-dashboard/internal/models"
	"society-dashboard/internal/report"
)

var (
	// ErrStageOrder rejects a stage posted out of sequence.
	ErrStageOrder = errors.New("WIZARD_STAGE_ORDER")
	// ErrValidation carries stage-local field errors.
	ErrValidation = errors.New("VALIDATION_FAILED")
	// ErrSubmitInFlight rejects a second submit while one is pending.
	ErrSubmitInFlight = errors.New("SUBMIT_IN_FLIGHT")
	// ErrGuarantorNotFound rejects a surety id absent from the member list.
	ErrGuarantorNotFound = errors.New("GUARANTOR_NOT_FOUND")
)

// StageError bundles a stage's validation failures into one error.
type StageError struct {
	Stage  Stage
	Errors []ValidationError
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%v: %s: %d field errors", ErrValidation, e.Stage, len(e.Errors))
}

func (e *StageError) Unwrap() error { return ErrValidation }

// LoanCreator is the single upstream call the wizard makes.
type LoanCreator interface {
	CreateLoan(ctx context.Context, payload map[string]interface{}) (*models.CreatedLoan, error)
}

// Wizard is one loan-creation session. Not safe for concurrent use on its
// own; the session manager serializes access per session.
type Wizard struct {
	ID    string
	stage Stage

	loan       *LoanFormData
	bank       *BankDetails
	pdc        *PDCDetails
	guarantors *GuarantorDetails

	created *models.CreatedLoan
	lastErr string

	submitMu   sync.Mutex
	submitting bool
}

func New() *Wizard {
	return &Wizard{ID: uuid.New().String(), stage: StageLoanDetails}
}

func (w *Wizard) Stage() Stage               { return w.stage }
func (w *Wizard) Created() *models.CreatedLoan { return w.created }
func (w *Wizard) LastError() string          { return w.lastErr }

// SubmitLoanDetails validates and lifts the first stage.
func (w *Wizard) SubmitLoanDetails(form LoanFormData) error {
	if w.stage != StageLoanDetails {
		return fmt.Errorf("%w: loan details already lifted at stage %s", ErrStageOrder, w.stage)
	}
	if errs := validateLoanDetails(&form); len(errs) > 0 {
		return &StageError{Stage: StageLoanDetails, Errors: errs}
	}
	w.loan = &form
	w.stage = StageBankDetails
	return nil
}

// SubmitBankDetails validates and lifts the second stage.
func (w *Wizard) SubmitBankDetails(form BankDetails) error {
	if w.stage != StageBankDetails {
		return fmt.Errorf("%w: expected stage %s, at %s", ErrStageOrder, StageBankDetails, w.stage)
	}
	if errs := validateBankDetails(&form); len(errs) > 0 {
		return &StageError{Stage: StageBankDetails, Errors: errs}
	}
	w.bank = &form
	w.stage = StagePDCDetails
	return nil
}

// SubmitPDCDetails validates the third stage and materializes the cheque
// rows, running the series generator when a generation request is posted.
// Generated rows share the bank stage's account fields.
func (w *Wizard) SubmitPDCDetails(input PDCInput) error {
	if w.stage != StagePDCDetails {
		return fmt.Errorf("%w: expected stage %s, at %s", ErrStageOrder, StagePDCDetails, w.stage)
	}
	if errs := validatePDCInput(&input); len(errs) > 0 {
		return &StageError{Stage: StagePDCDetails, Errors: errs}
	}

	rows := make([]models.ChequeRow, 0, len(input.Cheques)+input.NumberOfCheques)
	for _, row := range input.Cheques {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		if row.Status == "" {
			row.Status = models.ChequeStatusInHand
		}
		rows = append(rows, row)
	}

	if input.StartingChequeNumber != "" && input.NumberOfCheques > 0 {
		rows = append(rows, w.generateCheques(input)...)
	}

	w.pdc = &PDCDetails{Cheques: rows}
	w.stage = StageGuarantorDetails
	return nil
}

func (w *Wizard) generateCheques(input PDCInput) []models.ChequeRow {
	numbers := cheque.GenerateNumbers(input.StartingChequeNumber, input.NumberOfCheques)
	base, _ := cheque.ParseSeriesDate(input.SeriesDate) // validated above
	dates := cheque.RolloutDates(base, input.NumberOfCheques)

	rows := make([]models.ChequeRow, 0, len(numbers))
	for i, number := range numbers {
		rows = append(rows, models.ChequeRow{
			ID:            uuid.New().String(),
			ChequeNumber:  number,
			BankName:      w.bank.BankName,
			BranchName:    w.bank.BranchName,
			AccountNumber: w.bank.AccountNumber,
			IFSCCode:      w.bank.IFSCCode,
			ChequeDate:    dates[i].Format("2006-01-02"),
			Amount:        input.Amount,
			Status:        models.ChequeStatusInHand,
			SeriesDate:    input.SeriesDate,
		})
	}
	return rows
}

// SubmitGuarantorDetails resolves each surety against the member list and
// lifts the denormalized entries. The copy is point-in-time: later edits to
// the source member do not flow back into the entry.
func (w *Wizard) SubmitGuarantorDetails(inputs []GuarantorInput, members []models.Member) error {
	if w.stage != StageGuarantorDetails {
		return fmt.Errorf("%w: expected stage %s, at %s", ErrStageOrder, StageGuarantorDetails, w.stage)
	}
	if errs := validateGuarantorInputs(inputs); len(errs) > 0 {
		return &StageError{Stage: StageGuarantorDetails, Errors: errs}
	}

	byID := make(map[string]models.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	entries := make([]models.GuarantorEntry, 0, len(inputs))
	for _, in := range inputs {
		m, ok := byID[in.MemberID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrGuarantorNotFound, in.MemberID)
		}
		entries = append(entries, models.GuarantorEntry{
			MemberID:         m.ID,
			MembershipNumber: m.MembershipNumber,
			Name:             memberDisplayName(m),
			PermanentAddress: permanentAddress(m),
			Relation:         in.Relation,
		})
	}

	w.guarantors = &GuarantorDetails{Guarantors: entries}
	w.stage = StageConfirmation
	return nil
}

// Back steps to the previous stage. Not available at the initial stage, the
// terminal stage, or from Failed (which only retries or resets).
func (w *Wizard) Back() error {
	switch w.stage {
	case StageBankDetails, StagePDCDetails, StageGuarantorDetails, StageConfirmation:
		w.stage--
		return nil
	default:
		return fmt.Errorf("%w: cannot go back from %s", ErrStageOrder, w.stage)
	}
}

// Submit assembles, schema-checks and sends the final payload. Allowed from
// Confirmation and, for retries, from Failed; accumulated stage state is kept
// across failures so the user retries without re-entering stages.
func (w *Wizard) Submit(ctx context.Context, creator LoanCreator) (*models.CreatedLoan, error) {
	if w.stage != StageConfirmation && w.stage != StageFailed {
		return nil, fmt.Errorf("%w: cannot submit from %s", ErrStageOrder, w.stage)
	}

	w.submitMu.Lock()
	if w.submitting {
		w.submitMu.Unlock()
		return nil, ErrSubmitInFlight
	}
	w.submitting = true
	w.submitMu.Unlock()
	defer func() {
		w.submitMu.Lock()
		w.submitting = false
		w.submitMu.Unlock()
	}()

	payload, err := w.AssemblePayload()
	if err != nil {
		return nil, err
	}

	created, err := creator.CreateLoan(ctx, payload)
	if err != nil {
		w.stage = StageFailed
		w.lastErr = err.Error()
		return nil, err
	}

	w.stage = StageSubmitted
	w.created = created
	w.lastErr = ""
	return created, nil
}

// Reset discards all accumulated state and returns to the first stage.
func (w *Wizard) Reset() {
	w.stage = StageLoanDetails
	w.loan = nil
	w.bank = nil
	w.pdc = nil
	w.guarantors = nil
	w.created = nil
	w.lastErr = ""
}

func memberDisplayName(m models.Member) string {
	for _, e := range catalog.Fields {
		if e.Path == "personalDetails.memberName" {
			if v, ok := catalog.Value(m.Record, e); ok {
				if s, ok := v.(string); ok {
					return s
				}
			}
			break
		}
	}
	v, _ := fieldpath.Resolve(m.Record, "personalDetails.nameOfMember")
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func permanentAddress(m models.Member) string {
	v, ok := fieldpath.Resolve(m.Record, "addressDetails.permanentAddress")
	if !ok {
		return ""
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	return report.FormatAddress(obj, false)
}
