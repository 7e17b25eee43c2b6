package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidID      = errors.New("invalid id")
	ErrInvalidName    = errors.New("invalid name")
	ErrInvalidPayload = errors.New("invalid canvas payload")
)

// Canvas is a saved design: an ordered list of placed images plus canvas
// settings, serialized into the data column.
type Canvas struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Data      datatypes.JSON `gorm:"not null" json:"data"`
	Thumbnail *string        `json:"thumbnail"`
	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`
}

func (Canvas) TableName() string { return "canvases" }

// PlacedImage is one image on the canvas with its transform.
type PlacedImage struct {
	URI      string  `json:"uri"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ZIndex   int     `json:"zIndex"`
}

type CanvasSettings struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Background string  `json:"background"`
}

// Payload is the typed shape of Canvas.Data. It is validated at the store
// boundary; unknown shapes are rejected instead of being passed through.
type Payload struct {
	Images   []PlacedImage  `json:"images"`
	Settings CanvasSettings `json:"settings"`
}

// ParsePayload decodes raw canvas data. Legacy writers stored the payload as
// a JSON-encoded string rather than an object, so both forms are accepted.
func ParsePayload(raw []byte) (Payload, error) {
	var payload Payload
	if len(raw) == 0 {
		return payload, fmt.Errorf("%w: empty data", ErrInvalidPayload)
	}

	data := raw
	if data[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return payload, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		data = []byte(unquoted)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if payload.Images == nil {
		return payload, fmt.Errorf("%w: missing images", ErrInvalidPayload)
	}
	return payload, nil
}

// Encode serializes a payload back into the stored column form.
func (p Payload) Encode() (datatypes.JSON, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// Refs returns every blob reference inside the payload.
func (p Payload) Refs() []string {
	refs := make([]string, 0, len(p.Images))
	for _, image := range p.Images {
		if image.URI != "" {
			refs = append(refs, image.URI)
		}
	}
	return refs
}
