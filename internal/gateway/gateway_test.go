package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/fancard/internal/builder"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

type failingStore struct {
	*MemoryStore
	err   error
	calls int
}

func (f *failingStore) UpsertLandingPage(context.Context, model.Document) (string, error) {
	f.calls++
	return "", f.err
}

func (f *failingStore) FindLandingPageByAlbum(context.Context, string) (*model.Document, error) {
	f.calls++
	return nil, f.err
}

type memCache struct {
	docs        map[string]model.Document
	hits        int
	invalidated []string
}

func newMemCache() *memCache { return &memCache{docs: map[string]model.Document{}} }

func (c *memCache) GetPublished(_ context.Context, albumID string) (*model.Document, bool, error) {
	doc, ok := c.docs[albumID]
	if ok {
		c.hits++
	}
	return &doc, ok, nil
}

func (c *memCache) PutPublished(_ context.Context, doc model.Document) error {
	c.docs[doc.AlbumID] = doc
	return nil
}

func (c *memCache) Invalidate(_ context.Context, albumID string) error {
	delete(c.docs, albumID)
	c.invalidated = append(c.invalidated, albumID)
	return nil
}

type event struct {
	albumID, documentID string
	published           bool
}

type recordingNotifier struct{ events []event }

func (n *recordingNotifier) LandingPagePublished(_ context.Context, albumID, documentID string, published bool) error {
	n.events = append(n.events, event{albumID, documentID, published})
	return nil
}

func textElement(id string) model.Element {
	return model.Element{
		ID:         id,
		Type:       model.ElementText,
		Position:   model.Position{X: 50, Y: 50},
		Size:       model.Size{Width: 200, Height: 100},
		Properties: model.TextProperties{Content: "Hello", FontSize: 16, FontWeight: model.FontWeightNormal},
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	g := New(NewMemoryStore())
	doc, err := g.Load(context.Background(), "album-1")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemoryStore())

	doc := model.NewDocument("album-1", "Tour")
	doc.Elements = []model.Element{textElement("el-1")}

	id, err := g.Save(ctx, doc)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	loaded, err := g.Load(ctx, "album-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, id, loaded.ID)
	assert.Equal(t, doc.Elements, loaded.Elements)
	assert.Equal(t, doc.Theme, loaded.Theme)

	loaded.Title = "Tour 2"
	again, err := g.Save(ctx, *loaded)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	fresh := model.NewDocument("album-1", "Overwrite")
	third, err := g.Save(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, id, third, "one landing page per album")
}

func TestSaveValidation(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore(), err: errors.New("boom")}
	g := New(store)

	_, err := g.Save(context.Background(), model.NewDocument("", "Title"))
	assert.True(t, builder.IsValidation(err))

	_, err = g.Save(context.Background(), model.NewDocument("album-1", "   "))
	assert.True(t, builder.IsValidation(err))

	assert.Zero(t, store.calls)
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	g := New(&failingStore{MemoryStore: NewMemoryStore(), err: cause})

	_, err := g.Save(context.Background(), model.NewDocument("album-1", "Title"))
	require.Error(t, err)
	assert.True(t, IsGatewayError(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, builder.IsValidation(err))

	_, err = g.Load(context.Background(), "album-1")
	assert.True(t, IsGatewayError(err))
}

// Save a new document, publish it, reload: same elements and now published.
func TestPublishLifecycle(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	g := New(NewMemoryStore(), WithNotifier(notifier))

	doc := model.NewDocument("album-1", "Tour")
	doc.Elements = []model.Element{textElement("el-1"), textElement("el-2")}

	id, err := g.Save(ctx, doc)
	require.NoError(t, err)

	pub, err := g.LoadPublished(ctx, "album-1")
	require.NoError(t, err)
	assert.Nil(t, pub)

	require.NoError(t, g.SetPublished(ctx, id, true))
	require.NoError(t, g.SetPublished(ctx, id, true))

	loaded, err := g.Load(ctx, "album-1")
	require.NoError(t, err)
	assert.True(t, loaded.IsPublished)
	assert.Equal(t, doc.Elements, loaded.Elements)

	pub, err = g.LoadPublished(ctx, "album-1")
	require.NoError(t, err)
	require.NotNil(t, pub)
	assert.Equal(t, id, pub.ID)

	require.Len(t, notifier.events, 2)
	assert.Equal(t, event{"album-1", id, true}, notifier.events[0])
}

func TestSetPublishedUnknownDocument(t *testing.T) {
	g := New(NewMemoryStore())
	err := g.SetPublished(context.Background(), "nope", true)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.True(t, builder.IsValidation(g.SetPublished(context.Background(), "", true)))
}

func TestPublishedCache(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	g := New(NewMemoryStore(), WithCache(cache))

	id, err := g.Save(ctx, model.NewDocument("album-1", "Tour"))
	require.NoError(t, err)
	require.NoError(t, g.SetPublished(ctx, id, true))

	_, err = g.LoadPublished(ctx, "album-1")
	require.NoError(t, err)
	assert.Zero(t, cache.hits)
	_, err = g.LoadPublished(ctx, "album-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	require.NoError(t, g.SetPublished(ctx, id, false))
	assert.NotContains(t, cache.docs, "album-1")

	pub, err := g.LoadPublished(ctx, "album-1")
	require.NoError(t, err)
	assert.Nil(t, pub)
	assert.Contains(t, cache.invalidated, "album-1")
}

// racingStore runs onRead once, right after the first published-page read,
// to interleave a writer between the read and the cache fill.
type racingStore struct {
	*MemoryStore
	onRead func()
}

func (r *racingStore) FindPublishedLandingPage(ctx context.Context, albumID string) (*model.Document, error) {
	doc, err := r.MemoryStore.FindPublishedLandingPage(ctx, albumID)
	if f := r.onRead; f != nil {
		r.onRead = nil
		f()
	}
	return doc, err
}

func TestUnpublishDuringCacheFill(t *testing.T) {
	ctx := context.Background()
	store := &racingStore{MemoryStore: NewMemoryStore()}
	cache := newMemCache()
	g := New(store, WithCache(cache))

	id, err := g.Save(ctx, model.NewDocument("album-1", "Tour"))
	require.NoError(t, err)
	require.NoError(t, g.SetPublished(ctx, id, true))

	store.onRead = func() {
		require.NoError(t, g.SetPublished(ctx, id, false))
	}

	pub, err := g.LoadPublished(ctx, "album-1")
	require.NoError(t, err)
	assert.Nil(t, pub)
	assert.NotContains(t, cache.docs, "album-1")

	pub, err = g.LoadPublished(ctx, "album-1")
	require.NoError(t, err)
	assert.Nil(t, pub)
	assert.Zero(t, cache.hits)
}
