package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

type recorder struct {
	id string
	u  model.ElementUpdate
	n  int
}

func (r *recorder) onUpdate(id string, u model.ElementUpdate) {
	r.id, r.u = id, u
	r.n++
}

func mustCreate(t *testing.T, typ model.ElementType) model.Element {
	t.Helper()
	el, err := CreateElement(typ)
	require.NoError(t, err)
	return el
}

func TestEditTextAppliesImmediatelyAndKeepsOtherFields(t *testing.T) {
	el := mustCreate(t, model.ElementText)
	rec := &recorder{}

	require.NoError(t, Edit(el, "fontWeight", "bold", rec.onUpdate))

	assert.Equal(t, 1, rec.n)
	assert.Equal(t, el.ID, rec.id)
	assert.Nil(t, rec.u.Position)
	assert.Equal(t, model.TextProperties{Content: "Enter your text", FontSize: 16, FontWeight: "bold"}, rec.u.Properties)
}

func TestEditTextFontSize(t *testing.T) {
	el := mustCreate(t, model.ElementText)
	rec := &recorder{}

	require.NoError(t, Edit(el, "fontSize", "32.5", rec.onUpdate))
	assert.Equal(t, 32.5, rec.u.Properties.(model.TextProperties).FontSize)

	for _, bad := range []string{"", "big", "0", "-4"} {
		err := Edit(el, "fontSize", bad, rec.onUpdate)
		assert.True(t, IsValidation(err), "value %q", bad)
	}
	assert.Equal(t, 1, rec.n)
}

func TestEditRejectsForeignKey(t *testing.T) {
	el := mustCreate(t, model.ElementImage)
	err := Edit(el, "trackId", "t1", (&recorder{}).onUpdate)
	assert.True(t, IsValidation(err))
}

func TestEditUnknownTypeFails(t *testing.T) {
	el := model.Element{ID: "x", Type: "mystery"}
	err := Edit(el, "a", "b", (&recorder{}).onUpdate)
	assert.ErrorIs(t, err, ErrUnknownElementType)
}

func TestButtonLinkValidation(t *testing.T) {
	el := mustCreate(t, model.ElementButton)
	rec := &recorder{}

	require.NoError(t, Edit(el, "link", "https://tickets.example.com/show", rec.onUpdate))
	assert.Equal(t, model.ButtonProperties{Text: "Click me", Link: "https://tickets.example.com/show"}, rec.u.Properties)

	require.NoError(t, Edit(el, "link", "", rec.onUpdate))
	assert.Equal(t, "", rec.u.Properties.(model.ButtonProperties).Link)

	assert.True(t, IsValidation(Edit(el, "link", "not a url", rec.onUpdate)))
}

func TestMusicPlayerFieldsUseTrackListing(t *testing.T) {
	el := mustCreate(t, model.ElementMusicPlayer)
	ed, err := EditorFor(model.ElementMusicPlayer)
	require.NoError(t, err)

	fields := ed.Fields(el, MediaOptions{Tracks: []model.Track{{ID: "t1", Title: "Intro"}, {ID: "t2", Title: "Outro"}}})
	require.Len(t, fields, 1)
	assert.Equal(t, FieldSelect, fields[0].Kind)
	assert.Equal(t, []Option{{Value: "t1", Label: "Intro"}, {Value: "t2", Label: "Outro"}}, fields[0].Options)
	assert.Empty(t, fields[0].Empty)

	empty := ed.Fields(el, MediaOptions{})
	assert.Equal(t, "No tracks available", empty[0].Empty)
}

func TestVideoFieldsEmptyState(t *testing.T) {
	el := mustCreate(t, model.ElementVideo)
	ed, err := EditorFor(model.ElementVideo)
	require.NoError(t, err)

	fields := ed.Fields(el, MediaOptions{Tracks: []model.Track{{ID: "t1"}}})
	assert.Equal(t, "No videos available", fields[0].Empty)

	rec := &recorder{}
	require.NoError(t, Edit(el, "videoId", "v9", rec.onUpdate))
	assert.Equal(t, model.VideoProperties{VideoID: "v9"}, rec.u.Properties)
}

func TestTextFields(t *testing.T) {
	el := mustCreate(t, model.ElementText)
	ed, err := EditorFor(model.ElementText)
	require.NoError(t, err)

	fields := ed.Fields(el, MediaOptions{})
	require.Len(t, fields, 3)
	assert.Equal(t, "content", fields[0].Key)
	assert.Equal(t, "16", fields[1].Value)
	assert.Equal(t, "normal", fields[2].Value)
}

func TestResize(t *testing.T) {
	el := mustCreate(t, model.ElementImage)
	rec := &recorder{}

	require.NoError(t, Resize(el, 320, 240, rec.onUpdate))
	assert.Equal(t, &model.Size{Width: 320, Height: 240}, rec.u.Size)

	assert.True(t, IsValidation(Resize(el, 0, 10, rec.onUpdate)))
	assert.True(t, IsValidation(Resize(el, 10, -1, rec.onUpdate)))
	assert.Equal(t, 1, rec.n)
}

func TestEditorFallsBackToDefaultsOnMismatchedVariant(t *testing.T) {
	el := model.Element{ID: "x", Type: model.ElementButton, Properties: model.TextProperties{Content: "wrong"}}
	rec := &recorder{}

	require.NoError(t, Edit(el, "text", "Tickets", rec.onUpdate))
	assert.Equal(t, model.ButtonProperties{Text: "Tickets", Link: ""}, rec.u.Properties)
}
