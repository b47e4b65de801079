package report

import (
	"society-dashboard/internal/catalog"
	"society-dashboard/internal/fieldpath"
)

// Row is one formatted report line.
type Row struct {
	Path    string `json:"path"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Missing bool   `json:"missing"`
}

// BuildRows formats the projected entries against a record. Missingness is
// decided first: a missing field becomes the MISSING marker row and never
// reaches the kind dispatch.
func BuildRows(record map[string]interface{}, entries []catalog.Entry, opts Options) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		value, _ := catalog.Value(record, e)
		if fieldpath.IsMissing(value) {
			rows = append(rows, Row{Path: e.Path, Label: e.Label, Value: MissingMarker, Missing: true})
			continue
		}
		rows = append(rows, Row{Path: e.Path, Label: e.Label, Value: formatValue(value, e.Kind, opts)})
	}
	return rows
}

// formatValue dispatches on the kind assigned when the catalog entry was
// defined. Order mirrors the catalog's priority: virtual names, addresses,
// known list families, generic containers, then leaf rules.
func formatValue(value interface{}, kind catalog.FieldKind, opts Options) string {
	switch kind {
	case catalog.KindCombinedName:
		s := scalarString(value)
		if s == "" {
			return PlaceholderDash
		}
		return s

	case catalog.KindAddress:
		if obj, ok := value.(map[string]interface{}); ok {
			if s := FormatAddress(obj, opts.PincodePrefix); s != "" {
				return s
			}
			return PlaceholderNotProvided
		}
		return fallbackScalar(value)

	case catalog.KindPreviousAddressList:
		if arr, ok := value.([]interface{}); ok {
			return formatPreviousAddresses(arr, opts)
		}
		return fallbackScalar(value)

	case catalog.KindGuaranteeList:
		if arr, ok := value.([]interface{}); ok {
			return formatFamilyList(arr, guaranteeSummary, opts)
		}
		return fallbackScalar(value)

	case catalog.KindLoanList:
		if arr, ok := value.([]interface{}); ok {
			return formatFamilyList(arr, loanSummary, opts)
		}
		return fallbackScalar(value)

	case catalog.KindReferenceList:
		if arr, ok := value.([]interface{}); ok {
			return formatFamilyList(arr, referenceSummary, opts)
		}
		return fallbackScalar(value)

	case catalog.KindGenericArray:
		if arr, ok := value.([]interface{}); ok {
			return formatGenericArray(arr, opts)
		}
		return fallbackScalar(value)

	case catalog.KindGenericObject:
		if obj, ok := value.(map[string]interface{}); ok {
			return formatGenericObject(obj)
		}
		return fallbackScalar(value)

	case catalog.KindBool:
		if b, ok := value.(bool); ok {
			return formatBool(b)
		}
		return fallbackScalar(value)

	case catalog.KindDate:
		if s, ok := value.(string); ok {
			return formatDate(s)
		}
		return fallbackScalar(value)

	default:
		return fallbackScalar(value)
	}
}

func fallbackScalar(value interface{}) string {
	if s := scalarString(value); s != "" {
		return s
	}
	return PlaceholderNotProvided
}

// Completion is the filled/total ratio shown on the member report header.
func Completion(rows []Row) (filled, total int) {
	for _, r := range rows {
		if !r.Missing {
			filled++
		}
	}
	return filled, len(rows)
}
