// internal/models/loan.go
package models

// Loan types accepted by the wizard. LAP shares the standard loan field set;
// LAF (loan against fixed-deposit receipt) carries its own.
const (
	LoanTypeLoan = "Loan"
	LoanTypeLAP  = "LAP"
	LoanTypeLAF  = "LAF"
)

// Cheque clearance statuses tracked per post-dated cheque.
const (
	ChequeStatusClear    = "clear"
	ChequeStatusInHand   = "in_hand"
	ChequeStatusReturned = "cheque_return"
	ChequeStatusReprsnt  = "represent"
)

// ChequeRow is one post-dated cheque, generated by the series generator or
// entered manually. The ID is local to the wizard session; the server assigns
// its own identity at submit.
type ChequeRow struct {
	ID            string  `json:"id"`
	ChequeNumber  string  `json:"chequeNumber"`
	BankName      string  `json:"bankName"`
	BranchName    string  `json:"branchName"`
	AccountNumber string  `json:"accountNumber"`
	IFSCCode      string  `json:"ifscCode"`
	ChequeDate    string  `json:"chequeDate"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	SeriesDate    string  `json:"seriesDate"`
}

// GuarantorEntry is one surety on a loan. Membership number, name and the
// permanent-address string are denormalized from the member list when the
// guarantor is added; later edits to the source member are not re-resolved.
type GuarantorEntry struct {
	MemberID         string `json:"memberId"`
	MembershipNumber string `json:"membershipNumber"`
	Name             string `json:"name"`
	PermanentAddress string `json:"permanentAddress"`
	Relation         string `json:"relation,omitempty"`
}

// CreatedLoan is the remote API's acknowledgment of a loan create.
type CreatedLoan struct {
	ID         string `json:"id"`
	LoanNumber string `json:"loanNumber,omitempty"`
}
