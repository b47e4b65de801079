// internal/wizard/models.go
package wizard

import (
	"regexp"

	"society-dashboard/internal/models"
)

// Stage is the wizard's position. Stages are strictly sequential; stage N's
// lifted state is the precondition for entering stage N+1.
type Stage int

const (
	StageLoanDetails Stage = iota
	StageBankDetails
	StagePDCDetails
	StageGuarantorDetails
	StageConfirmation
	StageSubmitted
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageLoanDetails:
		return "loan-details"
	case StageBankDetails:
		return "bank-details"
	case StagePDCDetails:
		return "pdc-details"
	case StageGuarantorDetails:
		return "guarantor-details"
	case StageConfirmation:
		return "confirmation"
	case StageSubmitted:
		return "submitted"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoanFormData is the first stage's form. Which of the amount/date fields are
// required depends on the loan type: Loan and LAP use the standard set, LAF
// the fixed-deposit set.
type LoanFormData struct {
	MemberID      string  `json:"memberId"`
	LoanType      string  `json:"loanType"`
	LoanDate      string  `json:"loanDate,omitempty"`
	LoanAmount    float64 `json:"loanAmount,omitempty"`
	PurposeOfLoan string  `json:"purposeOfLoan,omitempty"`
	LafDate       string  `json:"lafDate,omitempty"`
	LafAmount     float64 `json:"lafAmount,omitempty"`
	FdrAmount     float64 `json:"fdrAmount,omitempty"`
	FdrScheme     string  `json:"fdrScheme,omitempty"`
	InterestRate  float64 `json:"interestRate,omitempty"`
	TenureMonths  int     `json:"tenureMonths,omitempty"`
}

// BankDetails is the second stage: the account the cheques draw on.
type BankDetails struct {
	BankName          string `json:"bankName"`
	BranchName        string `json:"branchName"`
	AccountHolderName string `json:"accountHolderName"`
	AccountNumber     string `json:"accountNumber"`
	IFSCCode          string `json:"ifscCode"`
}

// PDCInput is the third stage's form. When StartingChequeNumber and
// NumberOfCheques are set the series generator fills the rows; manually
// entered rows may be posted in Cheques instead. An empty stage (no rows, no
// generation request) is valid; the payload then carries a placeholder entry.
type PDCInput struct {
	StartingChequeNumber string             `json:"startingChequeNumber,omitempty"`
	NumberOfCheques      int                `json:"numberOfCheques,omitempty"`
	SeriesDate           string             `json:"seriesDate,omitempty"`
	Amount               float64            `json:"amount,omitempty"`
	Cheques              []models.ChequeRow `json:"cheques,omitempty"`
}

// PDCDetails is the lifted third-stage state.
type PDCDetails struct {
	Cheques []models.ChequeRow `json:"cheques"`
}

// GuarantorInput names a member to add as surety; the wizard denormalizes the
// rest from the member list at lift time.
type GuarantorInput struct {
	MemberID string `json:"memberId"`
	Relation string `json:"relation,omitempty"`
}

// GuarantorDetails is the lifted fourth-stage state.
type GuarantorDetails struct {
	Guarantors []models.GuarantorEntry `json:"guarantors"`
}

// ValidationError reports one stage-local field failure. These never reach
// the remote API.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Predefined patterns
var (
	accountNumberRegex = regexp.MustCompile(`^[0-9]{9,18}$`)
	ifscRegex          = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	chequeStatuses     = map[string]bool{
		models.ChequeStatusClear:    true,
		models.ChequeStatusInHand:   true,
		models.ChequeStatusReturned: true,
		models.ChequeStatusReprsnt:  true,
	}
)
