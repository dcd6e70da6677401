package dynamo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"patient_name": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "patient_name"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"phone":        "+15551234567",
		"patient_name": "Alice",
		"enable":       false,
	}
	ue, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	// Fields are sorted, so placeholders map to a stable order.
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue.Expr)
	assert.Equal(t, map[string]string{
		"#f0": "enable",
		"#f1": "patient_name",
		"#f2": "phone",
	}, ue.Names)
	assert.Len(t, ue.Values, 3)
}

func TestBuildUpdateExpr_Empty(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	require.Error(t, err)
}
