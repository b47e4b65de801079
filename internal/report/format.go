// Package report turns projected catalog fields into rows for the on-screen
// field grid and for PDF/Excel export.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"society-dashboard/internal/fieldpath"
)

// Placeholders used by the formatting rules.
const (
	PlaceholderDash        = "—"
	PlaceholderNotProvided = "Not Provided"
	MissingMarker          = "MISSING"
)

// Options control the target-specific rendering choices. The on-screen grid
// stacks list elements with line breaks; exports keep one line per field.
type Options struct {
	// ListJoin separates elements of array-of-object families.
	ListJoin string
	// PincodePrefix renders the address pincode as "Pincode: 110001".
	PincodePrefix bool
}

func GridOptions() Options   { return Options{ListJoin: "\n", PincodePrefix: true} }
func ExportOptions() Options { return Options{ListJoin: " | ", PincodePrefix: true} }

// addressComponents is the fixed join order for address-shaped objects.
var addressComponents = []string{
	"flatHouseNo", "areaStreetSector", "locality", "landmark",
	"city", "state", "country", "pincode",
}

// FormatAddress joins the non-empty components of an address object with
// ", ". The wizard's guarantor denormalization calls this without the
// pincode prefix; report rows use it.
func FormatAddress(obj map[string]interface{}, pincodePrefix bool) string {
	parts := make([]string, 0, len(addressComponents))
	for _, key := range addressComponents {
		v, ok := obj[key]
		if !ok || fieldpath.IsMissing(v) {
			continue
		}
		s := scalarString(v)
		if s == "" {
			continue
		}
		if key == "pincode" && pincodePrefix {
			s = "Pincode: " + s
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

// formatDate renders ISO-ish date strings in the report's display format.
// Strings that do not parse pass through unchanged.
func formatDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02 Jan 2006")
		}
	}
	return s
}

func formatBool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// scalarString renders a leaf value. JSON numbers arrive as float64; whole
// values print without a decimal tail.
func scalarString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return formatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// formatGenericArray joins string elements with ", "; object elements are
// rendered as key: value summaries and joined with the target separator.
func formatGenericArray(arr []interface{}, opts Options) string {
	allStrings := true
	for _, el := range arr {
		if _, ok := el.(string); !ok {
			allStrings = false
			break
		}
	}
	if allStrings {
		parts := make([]string, 0, len(arr))
		for _, el := range arr {
			parts = append(parts, el.(string))
		}
		return strings.Join(parts, ", ")
	}

	parts := make([]string, 0, len(arr))
	for _, el := range arr {
		if obj, ok := el.(map[string]interface{}); ok {
			parts = append(parts, formatGenericObject(obj))
			continue
		}
		parts = append(parts, scalarString(el))
	}
	return strings.Join(parts, opts.ListJoin)
}

// formatGenericObject renders key: value pairs in key order so output is
// stable across runs.
func formatGenericObject(obj map[string]interface{}) string {
	if len(obj) == 0 {
		return PlaceholderNotProvided
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		s := scalarString(obj[k])
		if s == "" {
			continue
		}
		parts = append(parts, k+": "+s)
	}
	if len(parts) == 0 {
		return PlaceholderNotProvided
	}
	return strings.Join(parts, ", ")
}

// summaryField is one labelled key of an array-of-object family summary.
type summaryField struct {
	label string
	keys  []string // first present key wins
}

var guaranteeSummary = []summaryField{
	{"Name", []string{"memberName", "nameOfMember", "name"}},
	{"Membership No", []string{"membershipNumber", "memberShipNumber"}},
	{"Loan No", []string{"loanNumber", "loanNo"}},
	{"Amount", []string{"guaranteeAmount", "loanAmount", "amount"}},
	{"Date", []string{"guaranteeDate", "date"}},
}

var loanSummary = []summaryField{
	{"Loan No", []string{"loanNumber", "loanNo"}},
	{"Type", []string{"loanType"}},
	{"Amount", []string{"loanAmount", "amount"}},
	{"Date", []string{"loanDate", "date"}},
	{"Status", []string{"status"}},
}

var referenceSummary = []summaryField{
	{"Name", []string{"name", "referenceName"}},
	{"Membership No", []string{"membershipNumber"}},
	{"Relation", []string{"relation"}},
	{"Mobile", []string{"mobileNumber", "phone"}},
}

// formatFamilyList renders each element of a known array-of-object family as
// a short label:value summary, elements joined with the target separator.
func formatFamilyList(arr []interface{}, fields []summaryField, opts Options) string {
	lines := make([]string, 0, len(arr))
	for _, el := range arr {
		obj, ok := el.(map[string]interface{})
		if !ok {
			lines = append(lines, scalarString(el))
			continue
		}
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			for _, key := range f.keys {
				if s := scalarString(obj[key]); s != "" {
					parts = append(parts, f.label+": "+s)
					break
				}
			}
		}
		if len(parts) == 0 {
			lines = append(lines, PlaceholderNotProvided)
			continue
		}
		lines = append(lines, strings.Join(parts, ", "))
	}
	return strings.Join(lines, opts.ListJoin)
}

// formatPreviousAddresses renders each element through the address join.
func formatPreviousAddresses(arr []interface{}, opts Options) string {
	lines := make([]string, 0, len(arr))
	for _, el := range arr {
		if obj, ok := el.(map[string]interface{}); ok {
			lines = append(lines, FormatAddress(obj, opts.PincodePrefix))
			continue
		}
		lines = append(lines, scalarString(el))
	}
	return strings.Join(lines, opts.ListJoin)
}
