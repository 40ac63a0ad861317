package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

func TestCreateElementDefaults(t *testing.T) {
	want := map[model.ElementType]model.Properties{
		model.ElementText:        model.TextProperties{Content: "Enter your text", FontSize: 16, FontWeight: "normal"},
		model.ElementImage:       model.ImageProperties{Src: "", Alt: "Image"},
		model.ElementMusicPlayer: model.MusicPlayerProperties{TrackID: ""},
		model.ElementVideo:       model.VideoProperties{VideoID: ""},
		model.ElementButton:      model.ButtonProperties{Text: "Click me", Link: ""},
	}
	for _, typ := range model.ElementTypes {
		t.Run(string(typ), func(t *testing.T) {
			el, err := CreateElement(typ)
			require.NoError(t, err)
			assert.Equal(t, typ, el.Type)
			assert.Equal(t, want[typ], el.Properties)
			assert.Equal(t, DefaultPosition, el.Position)
			assert.Equal(t, DefaultSize, el.Size)
			assert.NotEmpty(t, el.ID)
		})
	}
}

func TestCreateElementUniqueIDs(t *testing.T) {
	a, err := CreateElement(model.ElementText)
	require.NoError(t, err)
	b, err := CreateElement(model.ElementText)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateElementRejectsUnknownType(t *testing.T) {
	_, err := CreateElement("carousel")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownElementType)
}

func TestPaletteListsEveryType(t *testing.T) {
	entries := Palette()
	require.Len(t, entries, len(model.ElementTypes))
	for i, e := range entries {
		assert.Equal(t, model.ElementTypes[i], e.Type)
		assert.NotEmpty(t, e.Label)
		assert.NotEmpty(t, e.Description)
	}

	entries[0].Label = "changed"
	assert.Equal(t, "Text", Palette()[0].Label)
}

func TestAddElementOnEmptyDocument(t *testing.T) {
	doc := model.NewDocument("album-1", "Landing")
	require.Empty(t, doc.Elements)

	out, el, err := AddElement(doc, model.ElementText)
	require.NoError(t, err)

	require.Len(t, out.Elements, 1)
	assert.Empty(t, doc.Elements)
	assert.Equal(t, el, out.Elements[0])
	props := out.Elements[0].Properties.(model.TextProperties)
	assert.Equal(t, "Enter your text", props.Content)
	assert.Equal(t, float64(16), props.FontSize)
	assert.Equal(t, "normal", props.FontWeight)
}

func TestAddElementAppendsOnTop(t *testing.T) {
	doc := model.NewDocument("album-1", "Landing")
	doc, first, err := AddElement(doc, model.ElementImage)
	require.NoError(t, err)
	doc, second, err := AddElement(doc, model.ElementButton)
	require.NoError(t, err)

	require.Len(t, doc.Elements, 2)
	assert.Equal(t, first.ID, doc.Elements[0].ID)
	assert.Equal(t, second.ID, doc.Elements[1].ID)
}
