// internal/models/member.go
package models

import "encoding/json"

// Member is one society member as returned by the remote API: a couple of
// envelope fields the dashboard addresses members by, plus the full nested
// record the field catalog traverses. The record is kept as the raw document
// so path resolution sees exactly what the API stored.
type Member struct {
	ID               string                 `json:"id"`
	MembershipNumber string                 `json:"membershipNumber"`
	Record           map[string]interface{} `json:"-"`
}

// UnmarshalJSON keeps the whole document as the record while lifting the
// envelope fields. The API has emitted both "id" and "_id" over time.
func (m *Member) UnmarshalJSON(data []byte) error {
	var record map[string]interface{}
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}
	m.Record = record
	m.ID = firstString(record, "id", "_id")
	m.MembershipNumber = firstString(record, "membershipNumber", "memberShipNumber")
	return nil
}

func (m Member) MarshalJSON() ([]byte, error) {
	record := m.Record
	if record == nil {
		record = map[string]interface{}{}
	}
	if m.ID != "" {
		record["id"] = m.ID
	}
	if m.MembershipNumber != "" {
		record["membershipNumber"] = m.MembershipNumber
	}
	return json.Marshal(record)
}

func firstString(record map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := record[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Category returns one nested category object, defaulting to an empty object
// when the record is missing it. A corrupt record therefore reads as
// all-fields-missing rather than failing the caller.
func (m Member) Category(name string) map[string]interface{} {
	if m.Record == nil {
		return map[string]interface{}{}
	}
	if obj, ok := m.Record[name].(map[string]interface{}); ok {
		return obj
	}
	return map[string]interface{}{}
}
