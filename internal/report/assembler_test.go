package report

import (
	"strings"
	"testing"

	"society-dashboard/internal/catalog"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func reportRecord() map[string]interface{} {
	return map[string]interface{}{
		"personalDetails": map[string]interface{}{
			"title":         "Smt",
			"nameOfMember":  "Asha Devi",
			"maritalStatus": "Married",
			"dateOfBirth":   "1985-06-15",
		},
		"addressDetails": map[string]interface{}{
			"permanentAddress": map[string]interface{}{
				"flatHouseNo":      "12-B",
				"areaStreetSector": "Sector 9",
				"city":             "Kanpur",
				"state":            "Uttar Pradesh",
				"pincode":          "208001",
				"landmark":         "",
			},
			"previousAddresses": []interface{}{
				map[string]interface{}{"city": "Lucknow", "state": "Uttar Pradesh"},
				map[string]interface{}{"city": "Agra"},
			},
		},
		"guaranteeDetails": map[string]interface{}{
			"ourSociety": []interface{}{
				map[string]interface{}{
					"memberName":       "Vinod Singh",
					"membershipNumber": "MS-0042",
					"loanAmount":       float64(25000),
				},
			},
		},
		"loanDetails": []interface{}{
			map[string]interface{}{
				"loanNumber": "LN-101",
				"loanType":   "Loan",
				"loanAmount": float64(50000),
				"status":     "active",
			},
		},
		"nomineeDetails": map[string]interface{}{
			"isMinor": false,
		},
		"familyDetails": map[string]interface{}{
			"familyMembers": []interface{}{
				map[string]interface{}{"name": "Ravi", "relation": "Son"},
			},
		},
	}
}

func entryByPath(t *testing.T, path string) catalog.Entry {
	t.Helper()
	for _, e := range catalog.Fields {
		if e.Path == path {
			return e
		}
	}
	t.Fatalf("no catalog entry %s", path)
	return catalog.Entry{}
}

func buildOne(t *testing.T, path string, opts Options) Row {
	t.Helper()
	rows := BuildRows(reportRecord(), []catalog.Entry{entryByPath(t, path)}, opts)
	assert.Len(t, rows, 1)
	return rows[0]
}

// ==========================
// Missing short-circuit
// ==========================

func TestMissingShortCircuitsFormatting(t *testing.T) {
	row := buildOne(t, "documents.aadharNumber", GridOptions())
	assert.True(t, row.Missing)
	assert.Equal(t, MissingMarker, row.Value)
}

// ==========================
// Kind dispatch
// ==========================

func TestCombinedNameRow(t *testing.T) {
	row := buildOne(t, "personalDetails.memberName", GridOptions())
	assert.False(t, row.Missing)
	assert.Equal(t, "Smt Asha Devi", row.Value)
}

func TestAddressRowJoinsComponentsWithPincodePrefix(t *testing.T) {
	row := buildOne(t, "addressDetails.permanentAddress", GridOptions())
	assert.Equal(t, "12-B, Sector 9, Kanpur, Uttar Pradesh, Pincode: 208001", row.Value)
}

func TestPreviousAddressesSeparatorPerTarget(t *testing.T) {
	grid := buildOne(t, "addressDetails.previousAddresses", GridOptions())
	assert.Equal(t, "Lucknow, Uttar Pradesh\nAgra", grid.Value)

	export := buildOne(t, "addressDetails.previousAddresses", ExportOptions())
	assert.Equal(t, "Lucknow, Uttar Pradesh | Agra", export.Value)
}

func TestGuaranteeListSummary(t *testing.T) {
	row := buildOne(t, "guaranteeDetails.ourSociety", ExportOptions())
	assert.Equal(t, "Name: Vinod Singh, Membership No: MS-0042, Amount: 25000", row.Value)
}

func TestLoanListSummary(t *testing.T) {
	row := buildOne(t, "loanDetails", ExportOptions())
	assert.Equal(t, "Loan No: LN-101, Type: Loan, Amount: 50000, Status: active", row.Value)
}

func TestGenericArrayOfObjects(t *testing.T) {
	row := buildOne(t, "familyDetails.familyMembers", ExportOptions())
	assert.Equal(t, "name: Ravi, relation: Son", row.Value)
}

func TestBoolRow(t *testing.T) {
	row := buildOne(t, "nomineeDetails.isMinor", GridOptions())
	assert.False(t, row.Missing, "false is a filled value, not a missing one")
	assert.Equal(t, "No", row.Value)
}

func TestDateRowLocalizes(t *testing.T) {
	row := buildOne(t, "personalDetails.dateOfBirth", GridOptions())
	assert.Equal(t, "15 Jun 1985", row.Value)
}

// ==========================
// Formatting helpers
// ==========================

func TestFormatAddressWithoutPrefix(t *testing.T) {
	obj := map[string]interface{}{
		"city":    "Kanpur",
		"pincode": "208001",
	}
	assert.Equal(t, "Kanpur, 208001", FormatAddress(obj, false))
	assert.Equal(t, "Kanpur, Pincode: 208001", FormatAddress(obj, true))
}

func TestFormatGenericArrayOfStrings(t *testing.T) {
	got := formatGenericArray([]interface{}{"a", "b", "c"}, ExportOptions())
	assert.Equal(t, "a, b, c", got)
}

func TestFormatGenericObjectEmpty(t *testing.T) {
	assert.Equal(t, PlaceholderNotProvided, formatGenericObject(map[string]interface{}{}))
	assert.Equal(t, PlaceholderNotProvided, formatGenericObject(map[string]interface{}{"a": ""}))
}

func TestFormatDatePassThrough(t *testing.T) {
	assert.Equal(t, "not a date", formatDate("not a date"))
	assert.Equal(t, "15 Jun 1985", formatDate("1985-06-15T00:00:00Z"))
}

func TestCompletion(t *testing.T) {
	rows := []Row{{Missing: false}, {Missing: true}, {Missing: false}}
	filled, total := Completion(rows)
	assert.Equal(t, 2, filled)
	assert.Equal(t, 3, total)
}

// ==========================
// Export writers
// ==========================

func TestWriteXLSXProducesWorkbook(t *testing.T) {
	rows := BuildRows(reportRecord(), catalog.Fields, ExportOptions())
	data, err := WriteXLSX("Member Report - Asha Devi", rows)
	assert.NoError(t, err)
	// xlsx files are zip archives
	assert.True(t, len(data) > 4 && string(data[:2]) == "PK")
}

func TestWritePDFProducesDocument(t *testing.T) {
	rows := BuildRows(reportRecord(), catalog.Fields, ExportOptions())
	data, err := WritePDF("Member Report - Asha Devi", rows)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
