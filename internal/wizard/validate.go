package wizard

import (
	"fmt"
	"strings"

	"society-dashboard/internal/cheque"
	"society-dashboard/internal/models"
)

func required(errs []ValidationError, field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		errs = append(errs, ValidationError{
			Field:   field,
			Code:    "MISSING_REQUIRED",
			Message: fmt.Sprintf("%s is required", field),
		})
	}
	return errs
}

func positive(errs []ValidationError, field string, value float64) []ValidationError {
	if value <= 0 {
		errs = append(errs, ValidationError{
			Field:   field,
			Code:    "INVALID_VALUE",
			Message: fmt.Sprintf("%s must be a positive number", field),
		})
	}
	return errs
}

func validateLoanDetails(form *LoanFormData) []ValidationError {
	errs := []ValidationError{}
	errs = required(errs, "memberId", form.MemberID)

	switch form.LoanType {
	case models.LoanTypeLoan, models.LoanTypeLAP:
		errs = required(errs, "loanDate", form.LoanDate)
		errs = positive(errs, "loanAmount", form.LoanAmount)
		errs = required(errs, "purposeOfLoan", form.PurposeOfLoan)
	case models.LoanTypeLAF:
		errs = required(errs, "lafDate", form.LafDate)
		errs = positive(errs, "lafAmount", form.LafAmount)
		errs = positive(errs, "fdrAmount", form.FdrAmount)
		errs = required(errs, "fdrScheme", form.FdrScheme)
	default:
		errs = append(errs, ValidationError{
			Field:   "loanType",
			Code:    "INVALID_VALUE",
			Message: "loanType must be Loan, LAP or LAF",
		})
	}

	if form.InterestRate < 0 {
		errs = append(errs, ValidationError{
			Field:   "interestRate",
			Code:    "INVALID_VALUE",
			Message: "interestRate must not be negative",
		})
	}
	if form.TenureMonths < 0 {
		errs = append(errs, ValidationError{
			Field:   "tenureMonths",
			Code:    "INVALID_VALUE",
			Message: "tenureMonths must not be negative",
		})
	}
	return errs
}

func validateBankDetails(form *BankDetails) []ValidationError {
	errs := []ValidationError{}
	errs = required(errs, "bankName", form.BankName)
	errs = required(errs, "branchName", form.BranchName)
	errs = required(errs, "accountHolderName", form.AccountHolderName)

	if !accountNumberRegex.MatchString(strings.TrimSpace(form.AccountNumber)) {
		errs = append(errs, ValidationError{
			Field:   "accountNumber",
			Code:    "INVALID_FORMAT",
			Message: "accountNumber must be 9-18 digits",
		})
	}
	if !ifscRegex.MatchString(strings.TrimSpace(form.IFSCCode)) {
		errs = append(errs, ValidationError{
			Field:   "ifscCode",
			Code:    "INVALID_FORMAT",
			Message: "ifscCode must match the 11-character IFSC format",
		})
	}
	return errs
}

func validatePDCInput(input *PDCInput) []ValidationError {
	errs := []ValidationError{}

	generating := input.StartingChequeNumber != "" || input.NumberOfCheques > 0
	if generating {
		errs = required(errs, "startingChequeNumber", input.StartingChequeNumber)
		if input.NumberOfCheques <= 0 {
			errs = append(errs, ValidationError{
				Field:   "numberOfCheques",
				Code:    "INVALID_VALUE",
				Message: "numberOfCheques must be at least 1",
			})
		}
		errs = positive(errs, "amount", input.Amount)
		if _, err := cheque.ParseSeriesDate(input.SeriesDate); err != nil {
			errs = append(errs, ValidationError{
				Field:   "seriesDate",
				Code:    "INVALID_FORMAT",
				Message: "seriesDate must be an ISO date",
			})
		}
	}

	for i, row := range input.Cheques {
		prefix := fmt.Sprintf("cheques[%d].", i)
		errs = required(errs, prefix+"chequeNumber", row.ChequeNumber)
		errs = positive(errs, prefix+"amount", row.Amount)
		if row.Status != "" && !chequeStatuses[row.Status] {
			errs = append(errs, ValidationError{
				Field:   prefix + "status",
				Code:    "INVALID_VALUE",
				Message: "status must be clear, in_hand, cheque_return or represent",
			})
		}
	}
	return errs
}

func validateGuarantorInputs(inputs []GuarantorInput) []ValidationError {
	errs := []ValidationError{}
	for i, g := range inputs {
		errs = required(errs, fmt.Sprintf("guarantors[%d].memberId", i), g.MemberID)
	}
	return errs
}
