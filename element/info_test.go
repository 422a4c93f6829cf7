package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInfo(t *testing.T) {
	raw := `{"x":10,"y":20.5,"width":300,"height":40,"visible":true,"attrs":{"id":"login","class":"btn primary"}}`
	info, err := parseInfo("#login", raw)
	require.NoError(t, err)

	assert.Equal(t, 10.0, info.X)
	assert.Equal(t, 20.5, info.Y)
	assert.Equal(t, 300.0, info.Width)
	assert.Equal(t, 40.0, info.Height)
	assert.True(t, info.Visible)
	assert.Equal(t, map[string]string{"id": "login", "class": "btn primary"}, info.Attributes)
}

func TestParseInfoGoneElement(t *testing.T) {
	info, err := parseInfo("#gone", "")
	require.Nil(t, info)
	assert.ErrorContains(t, err, "no longer present")
}

func TestParseInfoGarbagePayload(t *testing.T) {
	_, err := parseInfo("#x", "{not json")
	assert.ErrorContains(t, err, "unexpected element info payload")
}
