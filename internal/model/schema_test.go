package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocumentJSONAcceptsSerializedDocument(t *testing.T) {
	b, err := json.Marshal(sampleDocument())
	require.NoError(t, err)
	assert.NoError(t, ValidateDocumentJSON(b))
}

func TestValidateDocumentJSONRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"missing theme": `{"album_id":"a","title":"t","elements":[]}`,
		"negative x": `{"album_id":"a","title":"t","theme":{"backgroundColor":"#fff","textColor":"#000","accentColor":"#f00"},
			"elements":[{"id":"e","type":"text","position":{"x":-1,"y":0},"size":{"width":1,"height":1},"properties":{}}]}`,
		"zero width": `{"album_id":"a","title":"t","theme":{"backgroundColor":"#fff","textColor":"#000","accentColor":"#f00"},
			"elements":[{"id":"e","type":"text","position":{"x":0,"y":0},"size":{"width":0,"height":1},"properties":{}}]}`,
		"text font size not a number": `{"album_id":"a","title":"t","theme":{"backgroundColor":"#fff","textColor":"#000","accentColor":"#f00"},
			"elements":[{"id":"e","type":"text","position":{"x":0,"y":0},"size":{"width":1,"height":1},"properties":{"fontSize":"big"}}]}`,
		"button link not a string": `{"album_id":"a","title":"t","theme":{"backgroundColor":"#fff","textColor":"#000","accentColor":"#f00"},
			"elements":[{"id":"e","type":"button","position":{"x":0,"y":0},"size":{"width":1,"height":1},"properties":{"link":42}}]}`,
		"not json": `{"album_id":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateDocumentJSON([]byte(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestValidateDocumentJSONAllowsForeignTypes(t *testing.T) {
	body := `{"album_id":"a","title":"t","theme":{"backgroundColor":"#fff","textColor":"#000","accentColor":"#f00"},
		"elements":[{"id":"e","type":"sparkles","position":{"x":0,"y":0},"size":{"width":1,"height":1},"properties":{"n":3}}]}`
	assert.NoError(t, ValidateDocumentJSON([]byte(body)))
}
