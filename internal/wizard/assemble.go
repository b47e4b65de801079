package wizard

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"society-dashboard/internal/models"
)

// payloadSchema is checked against every assembled payload before submit.
// It pins the loan-type branch: Loan/LAP payloads carry loanDate/loanAmount/
// purposeOfLoan, LAF carries lafDate/lafAmount/fdrAmount/fdrScheme, and the
// two field sets never mix.
const payloadSchema = `{
  "type": "object",
  "required": ["memberId", "loanType", "bankDetails", "pdcDetails", "guarantorDetails"],
  "properties": {
    "memberId": {"type": "string", "minLength": 1},
    "loanType": {"enum": ["Loan", "LAP", "LAF"]},
    "bankDetails": {
      "type": "object",
      "required": ["bankName", "branchName", "accountHolderName", "accountNumber", "ifscCode"]
    },
    "pdcDetails": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["chequeNumber", "chequeDate", "amount", "status"]
      }
    },
    "guarantorDetails": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["memberId", "membershipNumber", "name"]
      }
    }
  },
  "allOf": [
    {
      "if": {"properties": {"loanType": {"enum": ["Loan", "LAP"]}}},
      "then": {
        "required": ["loanDate", "loanAmount", "purposeOfLoan"],
        "not": {"anyOf": [{"required": ["lafAmount"]}, {"required": ["fdrAmount"]}]}
      }
    },
    {
      "if": {"properties": {"loanType": {"const": "LAF"}}},
      "then": {
        "required": ["lafDate", "lafAmount", "fdrAmount", "fdrScheme"],
        "not": {"anyOf": [{"required": ["loanAmount"]}, {"required": ["purposeOfLoan"]}]}
      }
    }
  ]
}`

var compiledPayloadSchema = gojsonschema.NewStringLoader(payloadSchema)

// AssemblePayload merges all stage states into the submission body. Every
// prior stage must have produced state; the stage pointer alone is not
// trusted here because Failed re-enters assembly on retry.
func (w *Wizard) AssemblePayload() (map[string]interface{}, error) {
	if w.loan == nil || w.bank == nil || w.pdc == nil || w.guarantors == nil {
		return nil, fmt.Errorf("%w: payload assembly before all stages completed", ErrStageOrder)
	}

	payload := map[string]interface{}{
		"memberId": w.loan.MemberID,
		"loanType": w.loan.LoanType,
	}

	switch w.loan.LoanType {
	case models.LoanTypeLAF:
		payload["lafDate"] = w.loan.LafDate
		payload["lafAmount"] = w.loan.LafAmount
		payload["fdrAmount"] = w.loan.FdrAmount
		payload["fdrScheme"] = w.loan.FdrScheme
	default: // Loan, LAP
		payload["loanDate"] = w.loan.LoanDate
		payload["loanAmount"] = w.loan.LoanAmount
		payload["purposeOfLoan"] = w.loan.PurposeOfLoan
	}
	if w.loan.InterestRate > 0 {
		payload["interestRate"] = w.loan.InterestRate
	}
	if w.loan.TenureMonths > 0 {
		payload["tenureMonths"] = w.loan.TenureMonths
	}

	payload["bankDetails"] = map[string]interface{}{
		"bankName":          w.bank.BankName,
		"branchName":        w.bank.BranchName,
		"accountHolderName": w.bank.AccountHolderName,
		"accountNumber":     w.bank.AccountNumber,
		"ifscCode":          w.bank.IFSCCode,
	}

	payload["pdcDetails"] = w.pdcEntries()
	payload["guarantorDetails"] = guarantorEntries(w.guarantors.Guarantors)

	if err := checkPayload(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// pdcEntries expands one payload entry per cheque. An empty cheque list still
// emits a single zero-amount placeholder so the upstream record always has a
// pdcDetails array to attach cheques to later.
func (w *Wizard) pdcEntries() []interface{} {
	if len(w.pdc.Cheques) == 0 {
		return []interface{}{map[string]interface{}{
			"chequeNumber":  "",
			"bankName":      w.bank.BankName,
			"branchName":    w.bank.BranchName,
			"accountNumber": w.bank.AccountNumber,
			"ifscCode":      w.bank.IFSCCode,
			"chequeDate":    "",
			"amount":        0.0,
			"status":        models.ChequeStatusInHand,
		}}
	}

	entries := make([]interface{}, 0, len(w.pdc.Cheques))
	for _, c := range w.pdc.Cheques {
		entries = append(entries, map[string]interface{}{
			"chequeNumber":  c.ChequeNumber,
			"bankName":      c.BankName,
			"branchName":    c.BranchName,
			"accountNumber": c.AccountNumber,
			"ifscCode":      c.IFSCCode,
			"chequeDate":    c.ChequeDate,
			"amount":        c.Amount,
			"status":        c.Status,
		})
	}
	return entries
}

func guarantorEntries(gs []models.GuarantorEntry) []interface{} {
	entries := make([]interface{}, 0, len(gs))
	for _, g := range gs {
		entries = append(entries, map[string]interface{}{
			"memberId":         g.MemberID,
			"membershipNumber": g.MembershipNumber,
			"name":             g.Name,
			"permanentAddress": g.PermanentAddress,
			"relation":         g.Relation,
		})
	}
	return entries
}

func checkPayload(payload map[string]interface{}) error {
	result, err := gojsonschema.Validate(compiledPayloadSchema, gojsonschema.NewGoLoader(payload))
	if err != nil {
		return fmt.Errorf("PAYLOAD_SCHEMA_INVALID: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("PAYLOAD_SCHEMA_INVALID: %s: %s", first.Field(), first.Description())
	}
	return nil
}
