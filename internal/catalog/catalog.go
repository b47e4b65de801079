// Package catalog defines the member field catalog: the fixed, ordered list of
// report fields with their labels, categories and display kinds, plus the
// projection rules that select fields for a view.
package catalog

import (
	"strings"

	"society-dashboard/internal/fieldpath"
)

// FieldKind tags how a catalog field renders. The kind is assigned once here,
// at definition time, so the report assembler dispatches on the tag instead of
// re-matching path patterns per render.
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindCombinedName
	KindAddress
	KindBool
	KindDate
	KindGenericArray
	KindGenericObject
	KindPreviousAddressList
	KindGuaranteeList
	KindLoanList
	KindReferenceList
)

// Category names the field groups the report views filter by. With one
// exception every category equals its paths' leading record segment; the
// introducer fields are stored under nomineeDetails but form their own
// category and are excluded from the nominee group.
type Category string

const (
	CategoryAll          Category = "all"
	CategoryPersonal     Category = "personalDetails"
	CategoryAddress      Category = "addressDetails"
	CategoryDocuments    Category = "documents"
	CategoryProfessional Category = "professionalDetails"
	CategoryFamily       Category = "familyDetails"
	CategoryBank         Category = "bankDetails"
	CategoryGuarantee    Category = "guaranteeDetails"
	CategoryLoan         Category = "loanDetails"
	CategoryNominee      Category = "nomineeDetails"
	CategoryIntroduction Category = "introduction"
	CategoryReference    Category = "referenceDetails"
)

// ParseCategory maps a query value to a known category. Unknown values fall
// back to all, matching the dashboard's default tab.
func ParseCategory(s string) Category {
	switch Category(strings.TrimSpace(s)) {
	case CategoryPersonal, CategoryAddress, CategoryDocuments, CategoryProfessional,
		CategoryFamily, CategoryBank, CategoryGuarantee, CategoryLoan,
		CategoryNominee, CategoryIntroduction, CategoryReference:
		return Category(strings.TrimSpace(s))
	default:
		return CategoryAll
	}
}

// Entry is one catalog field. Immutable after process start.
type Entry struct {
	Path     string
	Label    string
	Category Category
	Kind     FieldKind

	// Sources holds the two stored paths a combined-name field is computed
	// from (title, name). Empty for every other kind.
	Sources [2]string
}

// Fields is the catalog in display order. Projection and report output always
// preserve this order; nothing downstream sorts or regroups.
var Fields = []Entry{
	// personal
	{Path: "personalDetails.memberName", Label: "Member Name", Category: CategoryPersonal, Kind: KindCombinedName,
		Sources: [2]string{"personalDetails.title", "personalDetails.nameOfMember"}},
	{Path: "personalDetails.fatherName", Label: "Father's Name", Category: CategoryPersonal, Kind: KindCombinedName,
		Sources: [2]string{"personalDetails.fatherTitle", "personalDetails.nameOfFather"}},
	{Path: "personalDetails.motherName", Label: "Mother's Name", Category: CategoryPersonal, Kind: KindCombinedName,
		Sources: [2]string{"personalDetails.motherTitle", "personalDetails.nameOfMother"}},
	{Path: "personalDetails.dateOfBirth", Label: "Date of Birth", Category: CategoryPersonal, Kind: KindDate},
	{Path: "personalDetails.gender", Label: "Gender", Category: CategoryPersonal, Kind: KindScalar},
	{Path: "personalDetails.maritalStatus", Label: "Marital Status", Category: CategoryPersonal, Kind: KindScalar},
	{Path: "personalDetails.nameOfSpouse", Label: "Name of Spouse", Category: CategoryPersonal, Kind: KindScalar},
	{Path: "personalDetails.mobileNumber", Label: "Mobile Number", Category: CategoryPersonal, Kind: KindScalar},
	{Path: "personalDetails.emailId", Label: "Email", Category: CategoryPersonal, Kind: KindScalar},
	{Path: "personalDetails.religion", Label: "Religion", Category: CategoryPersonal, Kind: KindScalar},
	{Path: "personalDetails.category", Label: "Category", Category: CategoryPersonal, Kind: KindScalar},

	// address
	{Path: "addressDetails.permanentAddress", Label: "Permanent Address", Category: CategoryAddress, Kind: KindAddress},
	{Path: "addressDetails.currentAddress", Label: "Current Address", Category: CategoryAddress, Kind: KindAddress},
	{Path: "addressDetails.previousAddresses", Label: "Previous Addresses", Category: CategoryAddress, Kind: KindPreviousAddressList},
	{Path: "addressDetails.yearsAtCurrentAddress", Label: "Years at Current Address", Category: CategoryAddress, Kind: KindScalar},

	// documents
	{Path: "documents.aadharNumber", Label: "Aadhar Number", Category: CategoryDocuments, Kind: KindScalar},
	{Path: "documents.panNumber", Label: "PAN Number", Category: CategoryDocuments, Kind: KindScalar},
	{Path: "documents.voterIdNumber", Label: "Voter ID", Category: CategoryDocuments, Kind: KindScalar},
	{Path: "documents.drivingLicenseNumber", Label: "Driving License", Category: CategoryDocuments, Kind: KindScalar},
	{Path: "documents.rationCardNumber", Label: "Ration Card", Category: CategoryDocuments, Kind: KindScalar},

	// professional: the first four are always shown, the class-specific
	// sub-fields are gated by the occupation rules in projector.go
	{Path: "professionalDetails.qualification", Label: "Qualification", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.occupation", Label: "Occupation", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.serviceType", Label: "Service Type", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.degreeNumber", Label: "Degree Number", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.serviceDetails.departmentName", Label: "Department", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.serviceDetails.designation", Label: "Designation", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.serviceDetails.employeeId", Label: "Employee ID", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.serviceDetails.officeAddress", Label: "Office Address", Category: CategoryProfessional, Kind: KindAddress},
	{Path: "professionalDetails.serviceDetails.monthlySalary", Label: "Monthly Salary", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.privateDetails.companyName", Label: "Company Name", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.privateDetails.designation", Label: "Designation", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.privateDetails.officeAddress", Label: "Office Address", Category: CategoryProfessional, Kind: KindAddress},
	{Path: "professionalDetails.privateDetails.monthlySalary", Label: "Monthly Salary", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.businessDetails.businessName", Label: "Business Name", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.businessDetails.businessType", Label: "Business Type", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.businessDetails.businessAddress", Label: "Business Address", Category: CategoryProfessional, Kind: KindAddress},
	{Path: "professionalDetails.businessDetails.gstNumber", Label: "GST Number", Category: CategoryProfessional, Kind: KindScalar},
	{Path: "professionalDetails.businessDetails.annualTurnover", Label: "Annual Turnover", Category: CategoryProfessional, Kind: KindScalar},

	// family
	{Path: "familyDetails.familyMembers", Label: "Family Members", Category: CategoryFamily, Kind: KindGenericArray},
	{Path: "familyDetails.numberOfDependents", Label: "Dependents", Category: CategoryFamily, Kind: KindScalar},
	{Path: "familyDetails.earningMembers", Label: "Earning Members", Category: CategoryFamily, Kind: KindScalar},

	// bank (first account sub-record)
	{Path: "bankDetails.accounts[0].bankName", Label: "Bank Name", Category: CategoryBank, Kind: KindScalar},
	{Path: "bankDetails.accounts[0].branchName", Label: "Branch", Category: CategoryBank, Kind: KindScalar},
	{Path: "bankDetails.accounts[0].accountNumber", Label: "Account Number", Category: CategoryBank, Kind: KindScalar},
	{Path: "bankDetails.accounts[0].ifscCode", Label: "IFSC Code", Category: CategoryBank, Kind: KindScalar},
	{Path: "bankDetails.accounts[0].accountType", Label: "Account Type", Category: CategoryBank, Kind: KindScalar},

	// guarantee
	{Path: "guaranteeDetails.ourSociety", Label: "Guarantees Given (Our Society)", Category: CategoryGuarantee, Kind: KindGuaranteeList},
	{Path: "guaranteeDetails.otherSociety", Label: "Guarantees Given (Other Societies)", Category: CategoryGuarantee, Kind: KindGuaranteeList},
	{Path: "guaranteeDetails.taken", Label: "Guarantees Taken", Category: CategoryGuarantee, Kind: KindGuaranteeList},

	// loan
	{Path: "loanDetails", Label: "Loan History", Category: CategoryLoan, Kind: KindLoanList},

	// nominee
	{Path: "nomineeDetails.nomineeName", Label: "Nominee Name", Category: CategoryNominee, Kind: KindScalar},
	{Path: "nomineeDetails.nomineeRelation", Label: "Nominee Relation", Category: CategoryNominee, Kind: KindScalar},
	{Path: "nomineeDetails.nomineeAge", Label: "Nominee Age", Category: CategoryNominee, Kind: KindScalar},
	{Path: "nomineeDetails.nomineeAddress", Label: "Nominee Address", Category: CategoryNominee, Kind: KindAddress},
	{Path: "nomineeDetails.isMinor", Label: "Nominee is Minor", Category: CategoryNominee, Kind: KindBool},

	// introduction: stored under nomineeDetails, surfaced as its own group
	{Path: "nomineeDetails.introducerName", Label: "Introducer Name", Category: CategoryIntroduction, Kind: KindScalar},
	{Path: "nomineeDetails.introducerMembershipNo", Label: "Introducer Membership No", Category: CategoryIntroduction, Kind: KindScalar},

	// reference
	{Path: "referenceDetails.references", Label: "References", Category: CategoryReference, Kind: KindReferenceList},
}

// Value resolves an entry's raw value against a record. Combined-name entries
// are virtual: their value is the two source fields joined by a single space
// and trimmed, present whenever either source is.
func Value(record map[string]interface{}, e Entry) (interface{}, bool) {
	if e.Kind == KindCombinedName {
		title, _ := fieldpath.Resolve(record, e.Sources[0])
		name, _ := fieldpath.Resolve(record, e.Sources[1])
		joined := strings.TrimSpace(strings.TrimSpace(asString(title)) + " " + strings.TrimSpace(asString(name)))
		if joined == "" {
			return nil, false
		}
		return joined, true
	}
	return fieldpath.Resolve(record, e.Path)
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
