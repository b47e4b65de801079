package catalog

import (
	"strings"

	"society-dashboard/internal/fieldpath"
)

// Filter selects which catalog fields a view keeps after resolution.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterFilled  Filter = "filled"
	FilterMissing Filter = "missing"
)

// ParseFilter defaults unknown values to all.
func ParseFilter(s string) Filter {
	switch Filter(strings.TrimSpace(s)) {
	case FilterFilled:
		return FilterFilled
	case FilterMissing:
		return FilterMissing
	default:
		return FilterAll
	}
}

// OccupationClass partitions the professional sub-fields.
type OccupationClass string

const (
	OccupationGovernment OccupationClass = "government"
	OccupationPrivate    OccupationClass = "private"
	OccupationBusiness   OccupationClass = "business"
	OccupationNone       OccupationClass = "none"
)

// professionalBase are the professional fields shown for every occupation class.
var professionalBase = map[string]bool{
	"professionalDetails.qualification": true,
	"professionalDetails.occupation":    true,
	"professionalDetails.serviceType":   true,
	"professionalDetails.degreeNumber":  true,
}

var classPrefix = map[OccupationClass]string{
	OccupationGovernment: "professionalDetails.serviceDetails.",
	OccupationPrivate:    "professionalDetails.privateDetails.",
	OccupationBusiness:   "professionalDetails.businessDetails.",
}

// ClassifyOccupation inspects the professional flags and the free-text
// occupation to pick the member's class. Explicit flags win over substrings;
// member forms have historically stored the flags as booleans or "true"/"yes"
// strings, so both shapes are accepted.
func ClassifyOccupation(record map[string]interface{}) OccupationClass {
	if truthyAt(record, "professionalDetails.inCaseOfServiceGovt") {
		return OccupationGovernment
	}
	if truthyAt(record, "professionalDetails.inCaseOfPrivate") {
		return OccupationPrivate
	}
	if truthyAt(record, "professionalDetails.inCaseOfBusiness") {
		return OccupationBusiness
	}

	occupation := strings.ToLower(stringAt(record, "professionalDetails.occupation"))
	service := strings.ToLower(stringAt(record, "professionalDetails.inCaseOfService"))

	switch {
	case strings.Contains(occupation, "govt"), strings.Contains(occupation, "government"),
		strings.Contains(service, "govt"), strings.Contains(service, "government"):
		return OccupationGovernment
	case strings.Contains(occupation, "business"):
		return OccupationBusiness
	case strings.Contains(occupation, "private"), strings.Contains(service, "private"):
		return OccupationPrivate
	case strings.Contains(occupation, "service"):
		// service with no qualifier defaults to the government field set
		return OccupationGovernment
	default:
		return OccupationNone
	}
}

// Project returns the catalog entries visible for a record under a category
// and view filter, in catalog order.
//
// Refinements applied before the filter:
//   - professional sub-fields are narrowed to the member's occupation class
//     (the four base fields always survive);
//   - personalDetails.nameOfSpouse is dropped unless maritalStatus is
//     "married" (case-insensitive).
func Project(record map[string]interface{}, category Category, filter Filter) []Entry {
	married := strings.EqualFold(strings.TrimSpace(stringAt(record, "personalDetails.maritalStatus")), "married")
	class := ClassifyOccupation(record)

	out := make([]Entry, 0, len(Fields))
	for _, e := range Fields {
		if category != CategoryAll && e.Category != category {
			continue
		}
		if !professionalVisible(e, class) {
			continue
		}
		if e.Path == "personalDetails.nameOfSpouse" && !married {
			continue
		}

		if filter != FilterAll {
			value, _ := Value(record, e)
			missing := fieldpath.IsMissing(value)
			if filter == FilterMissing && !missing {
				continue
			}
			if filter == FilterFilled && missing {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func professionalVisible(e Entry, class OccupationClass) bool {
	if e.Category != CategoryProfessional || professionalBase[e.Path] {
		return true
	}
	prefix, ok := classPrefix[class]
	if !ok {
		// OccupationNone: no class sub-fields at all
		return false
	}
	return strings.HasPrefix(e.Path, prefix)
}

func stringAt(record map[string]interface{}, path string) string {
	v, _ := fieldpath.Resolve(record, path)
	s, _ := v.(string)
	return s
}

func truthyAt(record map[string]interface{}, path string) bool {
	v, ok := fieldpath.Resolve(record, path)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "yes" || s == "1"
	default:
		return false
	}
}
