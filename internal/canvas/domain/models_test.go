package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayloadObject(t *testing.T) {
	raw := []byte(`{"images":[{"uri":"/data/images/a.png","x":1,"y":2,"width":100,"height":50,"rotation":0,"zIndex":1}],"settings":{"width":800,"height":600,"background":"#fff"}}`)

	payload, err := ParsePayload(raw)
	require.NoError(t, err)
	require.Len(t, payload.Images, 1)
	assert.Equal(t, "/data/images/a.png", payload.Images[0].URI)
	assert.Equal(t, 800.0, payload.Settings.Width)
}

func TestParsePayloadLegacyStringForm(t *testing.T) {
	// Older writers double-encoded the payload as a JSON string.
	raw := []byte(`"{\"images\":[],\"settings\":{\"width\":1,\"height\":1,\"background\":\"\"}}"`)

	payload, err := ParsePayload(raw)
	require.NoError(t, err)
	assert.NotNil(t, payload.Images)
	assert.Empty(t, payload.Images)
}

func TestParsePayloadRejectsUnknownShape(t *testing.T) {
	_, err := ParsePayload([]byte(`{"layers":[]}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = ParsePayload([]byte(`{"settings":{}}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = ParsePayload(nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestPayloadRefs(t *testing.T) {
	payload := Payload{
		Images: []PlacedImage{
			{URI: "a.png"},
			{URI: ""},
			{URI: "b.png"},
		},
	}
	assert.Equal(t, []string{"a.png", "b.png"}, payload.Refs())
}

func TestPayloadEncodeRoundTrip(t *testing.T) {
	payload := Payload{
		Images:   []PlacedImage{{URI: "x.png", X: 10, Y: 20, Width: 30, Height: 40, Rotation: 90, ZIndex: 2}},
		Settings: CanvasSettings{Width: 640, Height: 480, Background: "#000"},
	}

	encoded, err := payload.Encode()
	require.NoError(t, err)

	decoded, err := ParsePayload(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}
