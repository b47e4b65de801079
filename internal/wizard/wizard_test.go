package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"society-dashboard/internal/models"
)

func validLoanForm() LoanFormData {
	return LoanFormData{
		MemberID:      "mem-100",
		LoanType:      models.LoanTypeLoan,
		LoanDate:      "2025-04-01",
		LoanAmount:    150000,
		PurposeOfLoan: "House repair",
		InterestRate:  11.5,
		TenureMonths:  24,
	}
}

func validLafForm() LoanFormData {
	return LoanFormData{
		MemberID:  "mem-100",
		LoanType:  models.LoanTypeLAF,
		LafDate:   "2025-04-01",
		LafAmount: 90000,
		FdrAmount: 100000,
		FdrScheme: "FDR-5Y",
	}
}

func validBankForm() BankDetails {
	return BankDetails{
		BankName:          "State Bank",
		BranchName:        "Civil Lines",
		AccountHolderName: "Ramesh Gupta",
		AccountNumber:     "123456789012",
		IFSCCode:          "SBIN0001234",
	}
}

func guarantorMembers() []models.Member {
	return []models.Member{
		{
			ID:               "mem-200",
			MembershipNumber: "MS-0042",
			Record: map[string]interface{}{
				"personalDetails": map[string]interface{}{
					"title":        "Shri",
					"nameOfMember": "Vinod Singh",
				},
				"addressDetails": map[string]interface{}{
					"permanentAddress": map[string]interface{}{
						"flatHouseNo": "12-B",
						"city":        "Kanpur",
						"pincode":     "208001",
					},
				},
			},
		},
	}
}

// advanceTo drives a fresh wizard through the named number of stages with
// valid data. loan selects the first-stage form.
func advanceTo(t *testing.T, w *Wizard, loan LoanFormData, stages int) {
	t.Helper()
	if stages >= 1 {
		require.NoError(t, w.SubmitLoanDetails(loan))
	}
	if stages >= 2 {
		require.NoError(t, w.SubmitBankDetails(validBankForm()))
	}
	if stages >= 3 {
		require.NoError(t, w.SubmitPDCDetails(PDCInput{
			StartingChequeNumber: "CHQ001",
			NumberOfCheques:      3,
			SeriesDate:           "2025-05-10",
			Amount:               5000,
		}))
	}
	if stages >= 4 {
		require.NoError(t, w.SubmitGuarantorDetails(
			[]GuarantorInput{{MemberID: "mem-200", Relation: "Brother"}},
			guarantorMembers(),
		))
	}
}

type stubCreator struct {
	mu      sync.Mutex
	calls   int
	fail    bool
	block   chan struct{}
	created *models.CreatedLoan
}

func (s *stubCreator) CreateLoan(ctx context.Context, payload map[string]interface{}) (*models.CreatedLoan, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.block != nil {
		<-s.block
	}
	if s.fail {
		return nil, errors.New("upstream rejected the loan")
	}
	if s.created != nil {
		return s.created, nil
	}
	return &models.CreatedLoan{ID: "loan-1", LoanNumber: "LN-2025-0001"}, nil
}

func TestStageOrderEnforced(t *testing.T) {
	w := New()

	err := w.SubmitBankDetails(validBankForm())
	assert.ErrorIs(t, err, ErrStageOrder)

	err = w.SubmitPDCDetails(PDCInput{StartingChequeNumber: "CHQ001", NumberOfCheques: 1, SeriesDate: "2025-05-10", Amount: 100})
	assert.ErrorIs(t, err, ErrStageOrder)

	_, err = w.Submit(context.Background(), &stubCreator{})
	assert.ErrorIs(t, err, ErrStageOrder)
}

func TestStageValidationBlocksAdvance(t *testing.T) {
	w := New()

	err := w.SubmitLoanDetails(LoanFormData{MemberID: "mem-100", LoanType: "Mortgage"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, StageLoanDetails, w.Stage())

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	codes := make(map[string]string)
	for _, ve := range stageErr.Errors {
		codes[ve.Field] = ve.Code
	}
	assert.Equal(t, "INVALID_VALUE", codes["loanType"])
}

func TestBankDetailsFormatChecks(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 1)

	bad := validBankForm()
	bad.AccountNumber = "12ab"
	bad.IFSCCode = "sbin1234"
	err := w.SubmitBankDetails(bad)
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	fields := make([]string, 0, len(stageErr.Errors))
	for _, ve := range stageErr.Errors {
		fields = append(fields, ve.Field)
	}
	assert.Contains(t, fields, "accountNumber")
	assert.Contains(t, fields, "ifscCode")
	assert.Equal(t, StageBankDetails, w.Stage())
}

func TestPDCGenerationUsesBankFields(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 3)

	require.Len(t, w.pdc.Cheques, 3)
	assert.Equal(t, "CHQ001", w.pdc.Cheques[0].ChequeNumber)
	assert.Equal(t, "CHQ003", w.pdc.Cheques[2].ChequeNumber)
	for i, c := range w.pdc.Cheques {
		assert.Equal(t, "State Bank", c.BankName)
		assert.Equal(t, "123456789012", c.AccountNumber)
		assert.Equal(t, "SBIN0001234", c.IFSCCode)
		assert.Equal(t, models.ChequeStatusInHand, c.Status)
		assert.NotEmpty(t, c.ID, "row %d has an id", i)
		assert.Equal(t, 5000.0, c.Amount)
	}
	assert.Equal(t, "2025-05-10", w.pdc.Cheques[0].ChequeDate)
	assert.Equal(t, "2025-06-10", w.pdc.Cheques[1].ChequeDate)
	assert.Equal(t, "2025-07-10", w.pdc.Cheques[2].ChequeDate)
}

func TestManualChequeRowsKept(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 2)

	err := w.SubmitPDCDetails(PDCInput{
		Cheques: []models.ChequeRow{
			{ChequeNumber: "AX9001", BankName: "HDFC", Amount: 2500, Status: models.ChequeStatusClear},
		},
	})
	require.NoError(t, err)
	require.Len(t, w.pdc.Cheques, 1)
	assert.Equal(t, "AX9001", w.pdc.Cheques[0].ChequeNumber)
	assert.Equal(t, models.ChequeStatusClear, w.pdc.Cheques[0].Status)
	assert.NotEmpty(t, w.pdc.Cheques[0].ID)
}

func TestGuarantorDenormalization(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 4)

	require.Len(t, w.guarantors.Guarantors, 1)
	g := w.guarantors.Guarantors[0]
	assert.Equal(t, "mem-200", g.MemberID)
	assert.Equal(t, "MS-0042", g.MembershipNumber)
	assert.Equal(t, "Shri Vinod Singh", g.Name)
	assert.Equal(t, "12-B, Kanpur, 208001", g.PermanentAddress)
	assert.Equal(t, "Brother", g.Relation)
}

func TestGuarantorNotFound(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 3)

	err := w.SubmitGuarantorDetails(
		[]GuarantorInput{{MemberID: "mem-999"}},
		guarantorMembers(),
	)
	assert.ErrorIs(t, err, ErrGuarantorNotFound)
	assert.Equal(t, StageGuarantorDetails, w.Stage())
}

func TestBackNavigation(t *testing.T) {
	w := New()

	assert.ErrorIs(t, w.Back(), ErrStageOrder)

	advanceTo(t, w, validLoanForm(), 4)
	require.Equal(t, StageConfirmation, w.Stage())

	require.NoError(t, w.Back())
	assert.Equal(t, StageGuarantorDetails, w.Stage())
	require.NoError(t, w.Back())
	require.NoError(t, w.Back())
	require.NoError(t, w.Back())
	assert.Equal(t, StageLoanDetails, w.Stage())
	assert.ErrorIs(t, w.Back(), ErrStageOrder)
}

func TestAssembleLoanPayload(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 4)

	payload, err := w.AssemblePayload()
	require.NoError(t, err)

	assert.Equal(t, "mem-100", payload["memberId"])
	assert.Equal(t, "Loan", payload["loanType"])
	assert.Equal(t, 150000.0, payload["loanAmount"])
	assert.Equal(t, "House repair", payload["purposeOfLoan"])
	assert.NotContains(t, payload, "lafAmount")
	assert.NotContains(t, payload, "fdrAmount")
	assert.NotContains(t, payload, "fdrScheme")

	bank, ok := payload["bankDetails"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "SBIN0001234", bank["ifscCode"])
}

func TestAssembleLafPayload(t *testing.T) {
	w := New()
	advanceTo(t, w, validLafForm(), 4)

	payload, err := w.AssemblePayload()
	require.NoError(t, err)

	assert.Equal(t, "LAF", payload["loanType"])
	assert.Equal(t, 90000.0, payload["lafAmount"])
	assert.Equal(t, 100000.0, payload["fdrAmount"])
	assert.Equal(t, "FDR-5Y", payload["fdrScheme"])
	assert.NotContains(t, payload, "loanAmount")
	assert.NotContains(t, payload, "purposeOfLoan")
}

func TestAssemblePDCExpansion(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 4)

	payload, err := w.AssemblePayload()
	require.NoError(t, err)

	pdc, ok := payload["pdcDetails"].([]interface{})
	require.True(t, ok)
	require.Len(t, pdc, 3)
	for _, raw := range pdc {
		entry := raw.(map[string]interface{})
		assert.Equal(t, "State Bank", entry["bankName"])
		assert.Equal(t, "123456789012", entry["accountNumber"])
		assert.NotEmpty(t, entry["chequeNumber"])
		assert.NotEmpty(t, entry["chequeDate"])
		assert.Equal(t, 5000.0, entry["amount"])
	}
}

func TestAssemblePlaceholderChequeEntry(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 2)
	require.NoError(t, w.SubmitPDCDetails(PDCInput{}))
	require.NoError(t, w.SubmitGuarantorDetails(
		[]GuarantorInput{{MemberID: "mem-200"}},
		guarantorMembers(),
	))

	payload, err := w.AssemblePayload()
	require.NoError(t, err)

	pdc := payload["pdcDetails"].([]interface{})
	require.Len(t, pdc, 1)
	entry := pdc[0].(map[string]interface{})
	assert.Equal(t, 0.0, entry["amount"])
	assert.Equal(t, models.ChequeStatusInHand, entry["status"])
	assert.Equal(t, "State Bank", entry["bankName"])
}

func TestSubmitSuccessAndReset(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 4)

	creator := &stubCreator{created: &models.CreatedLoan{ID: "loan-7", LoanNumber: "LN-2025-0007"}}
	created, err := w.Submit(context.Background(), creator)
	require.NoError(t, err)
	assert.Equal(t, "LN-2025-0007", created.LoanNumber)
	assert.Equal(t, StageSubmitted, w.Stage())
	assert.Equal(t, created, w.Created())

	w.Reset()
	assert.Equal(t, StageLoanDetails, w.Stage())
	assert.Nil(t, w.Created())
	assert.ErrorIs(t, w.SubmitBankDetails(validBankForm()), ErrStageOrder)
}

func TestSubmitFailureIsRetryable(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 4)

	creator := &stubCreator{fail: true}
	_, err := w.Submit(context.Background(), creator)
	require.Error(t, err)
	assert.Equal(t, StageFailed, w.Stage())
	assert.Equal(t, "upstream rejected the loan", w.LastError())

	creator.fail = false
	created, err := w.Submit(context.Background(), creator)
	require.NoError(t, err)
	assert.Equal(t, StageSubmitted, w.Stage())
	assert.Equal(t, "loan-1", created.ID)
	assert.Empty(t, w.LastError())
	assert.Equal(t, 2, creator.calls)
}

func TestSubmitInFlightGuard(t *testing.T) {
	w := New()
	advanceTo(t, w, validLoanForm(), 4)

	creator := &stubCreator{block: make(chan struct{})}
	done := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background(), creator)
		done <- err
	}()

	require.Eventually(t, func() bool {
		creator.mu.Lock()
		defer creator.mu.Unlock()
		return creator.calls == 1
	}, time.Second, 5*time.Millisecond)

	_, err := w.Submit(context.Background(), creator)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(creator.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, creator.calls)
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(time.Minute)
	w := m.Create()

	err := m.With(w.ID, func(w *Wizard) error {
		return w.SubmitLoanDetails(validLoanForm())
	})
	require.NoError(t, err)

	err = m.With("no-such-session", func(w *Wizard) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)

	m.Delete(w.ID)
	err = m.With(w.ID, func(w *Wizard) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerReapsIdleSessions(t *testing.T) {
	m := NewManager(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	stale := m.Create()
	fresh := m.Create()

	now = now.Add(30 * time.Second)
	require.NoError(t, m.With(fresh.ID, func(w *Wizard) error { return nil }))

	// fresh was touched at +30s, stale still carries the original timestamp
	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, m.Reap())
	assert.ErrorIs(t, m.With(stale.ID, func(w *Wizard) error { return nil }), ErrSessionNotFound)
	assert.NoError(t, m.With(fresh.ID, func(w *Wizard) error { return nil }))
}
