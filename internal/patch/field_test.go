package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type updateRequest struct {
	Status  Field[string] `json:"status"`
	DueDate Field[string] `json:"due_date"`
	Note    Field[string] `json:"note"`
}

func TestField_DecodeTriState(t *testing.T) {
	var req updateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"DONE","due_date":null}`), &req))

	status, ok := req.Status.Get()
	assert.True(t, ok)
	assert.Equal(t, "DONE", status)

	assert.True(t, req.DueDate.IsPresent())
	assert.True(t, req.DueDate.IsNull())
	_, ok = req.DueDate.Get()
	assert.False(t, ok)

	assert.False(t, req.Note.IsPresent())
}

func TestField_EmptyStringIsValue(t *testing.T) {
	var req updateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":""}`), &req))

	v, ok := req.DueDate.Get()
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestField_TypeMismatch(t *testing.T) {
	var req updateRequest
	assert.Error(t, json.Unmarshal([]byte(`{"status":42}`), &req))
}

func TestField_Constructors(t *testing.T) {
	assert.False(t, Unset[int]().IsPresent())
	assert.True(t, Null[int]().IsNull())

	v, ok := Value(7).Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	out, err := json.Marshal(Value("x"))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(out))

	out, err = json.Marshal(Null[string]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
