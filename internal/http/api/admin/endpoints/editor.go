package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/builder"
	"github.com/Nixie-Tech-LLC/fancard/internal/db"
	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
	"github.com/Nixie-Tech-LLC/fancard/internal/render"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
	saveTimeout    = 15 * time.Second
	outboxSize     = 64
)

type EditorController struct {
	store    db.Store
	pages    *gateway.Gateway
	upgrader websocket.Upgrader
}

func newEditorController(store db.Store, pages *gateway.Gateway, checkOrigin func(*http.Request) bool) *EditorController {
	return &EditorController{
		store: store,
		pages: pages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

// EditorModule mounts the live editing websocket. checkOrigin may be nil to
// accept same-origin requests only.
func EditorModule(store db.Store, pages *gateway.Gateway, checkOrigin func(*http.Request) bool) api.Module {
	ctl := newEditorController(store, pages, checkOrigin)
	return api.ModuleFunc(func(c *api.Controller) {
		c.STREAM("/albums/:albumId/landing-page/editor", ctl.openEditor)
	})
}

func (c *EditorController) openEditor(ctx *gin.Context, user *model.User) {
	album, apiErr := ownedAlbum(ctx, c.store, user)
	if apiErr != nil {
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	doc, _, err := loadOrDefault(ctx, c.pages, album)
	if err != nil {
		apiErr := api.FromError(err)
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	media, err := albumMedia(ctx.Request.Context(), c.store, album)
	if err != nil {
		log.Error().Err(err).Str("album_id", album.ID).Msg("[editor] media lookup failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not list media"})
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[editor] websocket upgrade failed")
		return
	}
	log.Info().Str("album_id", album.ID).Int("user", user.ID).Msg("[editor] session opened")

	ed := newEditorConn(doc, media, c.pages)
	ed.serve(ctx.Request.Context(), conn)

	log.Info().Str("album_id", album.ID).Int("user", user.ID).Msg("[editor] session closed")
}

// editorConn binds one websocket to one editing session. Messages from the
// client are handled one at a time by the read loop; saves and publishes run
// on their own goroutines and report back through the outbox.
type editorConn struct {
	session *builder.Session
	media   render.Media
	outbox  chan packets.EditorEvent
	done    chan struct{}
	once    sync.Once
	jobs    sync.WaitGroup
}

// captureBinder tells the client when to attach document-level pointer
// listeners, which it keeps only while a drag is in progress.
type captureBinder struct{ ed *editorConn }

func (b captureBinder) BindDrag()   { b.ed.send(captureEvent(true)) }
func (b captureBinder) UnbindDrag() { b.ed.send(captureEvent(false)) }

func captureEvent(active bool) packets.EditorEvent {
	return packets.EditorEvent{Type: packets.EditorCapture, Capture: &active}
}

func newEditorConn(doc model.Document, media builder.MediaOptions, gw builder.Gateway) *editorConn {
	ed := &editorConn{
		media:  render.NewMedia(media.Tracks, media.Videos),
		outbox: make(chan packets.EditorEvent, outboxSize),
		done:   make(chan struct{}),
	}
	ed.session = builder.NewSession(doc, media, gw, captureBinder{ed})
	return ed
}

func (e *editorConn) send(ev packets.EditorEvent) {
	select {
	case e.outbox <- ev:
	case <-e.done:
	}
}

func (e *editorConn) close() { e.once.Do(func() { close(e.done) }) }

func (e *editorConn) sendError(err error) {
	ev := packets.EditorEvent{Type: packets.EditorError}
	var v *builder.ValidationError
	if errors.As(err, &v) {
		ev.Error, ev.Field = v.Message, v.Field
	} else {
		ev.Error = api.FromError(err).Message
	}
	e.send(ev)
}

// sendState pushes the full editor view: document, selection, the selected
// element's property form and the rendered canvas.
func (e *editorConn) sendState() {
	snap := e.session.Snapshot()
	ev := packets.EditorEvent{
		Type:  packets.EditorState,
		State: &snap,
		HTML:  string(render.Canvas(snap.Document, e.media, render.ModeEditor, snap.Selected)),
	}
	if snap.Selected != "" {
		if fields, err := e.session.Fields(snap.Selected); err == nil {
			ev.Fields = fields
		}
	}
	e.send(ev)
}

// handle applies one client message.
func (e *editorConn) handle(ctx context.Context, msg packets.EditorMessage) {
	if err := binding.Validator.ValidateStruct(&msg); err != nil {
		e.send(packets.EditorEvent{Type: packets.EditorError, Error: "unknown message type"})
		return
	}

	var err error
	switch msg.Type {
	case "pointer_down":
		e.session.PointerDown(msg.Point())
	case "pointer_move":
		e.session.PointerMove(msg.Point())
	case "pointer_up":
		e.session.PointerUp()
	case "click":
		e.session.Click(msg.Point())
	case "add_element":
		_, err = e.session.AddElement(msg.ElementType)
	case "edit_property":
		err = e.session.EditProperty(msg.ID, msg.Key, msg.Value)
	case "resize":
		err = e.session.Resize(msg.ID, msg.Width, msg.Height)
	case "delete_element":
		err = e.session.DeleteElement(msg.ID)
	case "set_title":
		e.session.SetTitle(msg.Title)
	case "set_theme":
		if msg.Theme == nil {
			err = &builder.ValidationError{Field: "theme", Message: "is required"}
		} else {
			err = e.session.SetTheme(*msg.Theme)
		}
	case "save":
		e.async(ctx, e.save)
		return
	case "publish":
		if msg.IsPublished == nil {
			err = &builder.ValidationError{Field: "is_published", Message: "is required"}
			break
		}
		value := *msg.IsPublished
		e.async(ctx, func(ctx context.Context) { e.publish(ctx, value) })
		return
	}
	if err != nil {
		e.sendError(err)
		return
	}
	e.sendState()
}

func (e *editorConn) async(ctx context.Context, job func(context.Context)) {
	e.jobs.Add(1)
	go func() {
		defer e.jobs.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer cancel()
		job(ctx)
	}()
}

func (e *editorConn) save(ctx context.Context) {
	id, err := e.session.Save(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("[editor] save failed")
		e.sendError(err)
		return
	}
	e.send(packets.EditorEvent{Type: packets.EditorSaved, ID: id})
	e.sendState()
}

func (e *editorConn) publish(ctx context.Context, value bool) {
	if err := e.session.Publish(ctx, value); err != nil {
		log.Warn().Err(err).Bool("value", value).Msg("[editor] publish failed")
		e.sendError(err)
		return
	}
	snap := e.session.Snapshot()
	e.send(packets.EditorEvent{Type: packets.EditorPublished, ID: snap.Document.ID, IsPublished: &value})
	e.sendState()
}

// serve runs the connection until the client goes away.
func (e *editorConn) serve(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		e.writeLoop(conn)
	}()

	e.sendState()
	e.readLoop(ctx, conn)

	e.jobs.Wait()
	e.close()
	<-writerDone
}

func (e *editorConn) readLoop(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("[editor] read failed")
			}
			return
		}
		var msg packets.EditorMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			e.send(packets.EditorEvent{Type: packets.EditorError, Error: "malformed message"})
			continue
		}
		e.handle(ctx, msg)
	}
}

func (e *editorConn) writeLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-e.outbox:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Warn().Err(err).Msg("[editor] write failed")
				e.close()
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				e.close()
				conn.Close()
				return
			}
		case <-e.done:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
