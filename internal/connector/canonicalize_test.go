package connector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeMarksEmptyResultList(t *testing.T) {
	raw := json.RawMessage(`{"results": [], "total_count": 0}`)
	out := Canonicalize(raw)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, true, decoded["no_results"])
	require.NotEmpty(t, decoded["message"])
}

func TestCanonicalizeLeavesNonEmptyResultsAlone(t *testing.T) {
	raw := json.RawMessage(`{"results": [{"id": "1"}]}`)
	out := Canonicalize(raw)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Nil(t, decoded["no_results"])
}

func TestCanonicalizeHandlesBareEmptyArray(t *testing.T) {
	out := Canonicalize(json.RawMessage(`[]`))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, true, decoded["no_results"])
}

func TestConfigSchemaValidateRequiresFields(t *testing.T) {
	schema := ConfigSchema{Fields: []ConfigField{
		{Name: "api_key", Required: true, Type: FieldSecret},
		{Name: "region", Required: false, Type: FieldText},
	}}

	require.Error(t, schema.Validate(map[string]string{}))
	require.NoError(t, schema.Validate(map[string]string{"api_key": "x"}))
}

func TestIsAuthAdjacent(t *testing.T) {
	require.True(t, IsAuthAdjacent("invalid TOKEN supplied"))
	require.True(t, IsAuthAdjacent("missing credential"))
	require.False(t, IsAuthAdjacent("not found"))
}
