package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func sampleRecord() map[string]interface{} {
	return map[string]interface{}{
		"personalDetails": map[string]interface{}{
			"nameOfMember":  "Ramesh Kumar",
			"maritalStatus": "Married",
			"nameOfSpouse":  "",
		},
		"bankDetails": map[string]interface{}{
			"accounts": []interface{}{
				map[string]interface{}{
					"bankName":      "State Bank",
					"accountNumber": "001122334455",
				},
				map[string]interface{}{
					"bankName": "Union Bank",
				},
			},
		},
		"loanDetails": []interface{}{
			map[string]interface{}{"loanAmount": float64(50000)},
		},
		"documents": nil,
	}
}

// ==========================
// Resolve
// ==========================

func TestResolveNestedScalar(t *testing.T) {
	v, ok := Resolve(sampleRecord(), "personalDetails.nameOfMember")
	assert.True(t, ok)
	assert.Equal(t, "Ramesh Kumar", v)
}

func TestResolveAbsentSegments(t *testing.T) {
	record := sampleRecord()

	cases := []string{
		"personalDetails.nameOfFather",
		"professionalDetails.occupation",
		"documents.aadharNumber",
		"personalDetails.nameOfMember.extra",
		"",
	}
	for _, path := range cases {
		v, ok := Resolve(record, path)
		assert.False(t, ok, "path %q should be absent", path)
		assert.Nil(t, v, "path %q should resolve to nil", path)
	}
}

func TestResolveArrayIndex(t *testing.T) {
	record := sampleRecord()

	v, ok := Resolve(record, "bankDetails.accounts[0].bankName")
	assert.True(t, ok)
	assert.Equal(t, "State Bank", v)

	v, ok = Resolve(record, "bankDetails.accounts[1].bankName")
	assert.True(t, ok)
	assert.Equal(t, "Union Bank", v)

	// second account has no accountNumber
	_, ok = Resolve(record, "bankDetails.accounts[1].accountNumber")
	assert.False(t, ok)

	// out-of-range index is absent, not an error
	_, ok = Resolve(record, "bankDetails.accounts[5].bankName")
	assert.False(t, ok)
}

func TestResolveIntermediateContainers(t *testing.T) {
	record := sampleRecord()

	v, ok := Resolve(record, "bankDetails.accounts")
	assert.True(t, ok)
	assert.Len(t, v, 2)

	v, ok = Resolve(record, "loanDetails")
	assert.True(t, ok)
	assert.IsType(t, []interface{}{}, v)
}

func TestResolveNilRecord(t *testing.T) {
	_, ok := Resolve(nil, "personalDetails.nameOfMember")
	assert.False(t, ok)
}

// ==========================
// IsMissing
// ==========================

func TestIsMissingScalars(t *testing.T) {
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(""))
	assert.True(t, IsMissing("   "))
	assert.False(t, IsMissing("x"))
	assert.False(t, IsMissing(float64(0)))
	assert.False(t, IsMissing(false))
}

// The array rule is length-only. [""] stays filled even though "" alone is
// missing; the report views depend on this exact behavior.
func TestIsMissingArrayRule(t *testing.T) {
	assert.True(t, IsMissing([]interface{}{}))
	assert.False(t, IsMissing([]interface{}{""}))
	assert.False(t, IsMissing([]interface{}{map[string]interface{}{}}))
}

func TestIsMissingObjects(t *testing.T) {
	assert.True(t, IsMissing(map[string]interface{}{}))
	assert.True(t, IsMissing(map[string]interface{}{"a": nil, "b": ""}))
	assert.True(t, IsMissing(map[string]interface{}{"a": map[string]interface{}{}}))
	assert.False(t, IsMissing(map[string]interface{}{"a": float64(1)}))
	assert.False(t, IsMissing(map[string]interface{}{
		"a": "",
		"b": map[string]interface{}{"c": ""},
	}), "one-level check: non-empty nested object keeps parent filled")
}

func TestIsMissingIdempotent(t *testing.T) {
	values := []interface{}{nil, "", "x", []interface{}{}, map[string]interface{}{"a": ""}}
	for _, v := range values {
		assert.Equal(t, IsMissing(v), IsMissing(v))
	}
}
