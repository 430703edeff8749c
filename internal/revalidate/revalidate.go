package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/mykafka"
	"github.com/Skotchmaster/med_clinic/internal/tokens"
)

// Event is broadcast on the cache topic so peers drop the same tags.
type Event struct {
	Origin   string   `json:"origin"`
	Mutation Mutation `json:"mutation"`
	Tags     []Tag    `json:"tags"`
}

type Revalidator struct {
	store    *Store
	pub      mykafka.Publisher
	instance string
}

func New(store *Store, pub mykafka.Publisher) *Revalidator {
	if pub == nil {
		pub = mykafka.Nop{}
	}
	return &Revalidator{store: store, pub: pub, instance: uuid.NewString()}
}

func (r *Revalidator) Store() *Store { return r.store }

// Revalidate invalidates the tags mapped to m locally and tells peers to do the same.
// A nil Revalidator is a no-op.
func (r *Revalidator) Revalidate(ctx context.Context, m Mutation) {
	if r == nil {
		return
	}
	tags := TagsFor(m)
	if len(tags) == 0 {
		return
	}
	n := r.store.Invalidate(tags...)

	l := logging.FromContext(ctx)
	l.Debug("cache_revalidated", "mutation", m, "entries", n)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	ev := Event{Origin: r.instance, Mutation: m, Tags: tags}
	if err := r.pub.PublishEvent(pubCtx, mykafka.TopicCache, string(m), ev); err != nil {
		l.Error("cache_event_publish_failed", "mutation", m, "error", err)
	}
}

// HandleEvent applies an invalidation published by another instance.
func (r *Revalidator) HandleEvent(ctx context.Context, value []byte) error {
	var ev Event
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	if ev.Origin == r.instance {
		return nil
	}
	tags := ev.Tags
	if len(tags) == 0 {
		tags = TagsFor(ev.Mutation)
	}
	r.store.Invalidate(tags...)
	return nil
}

// Cache serves anonymous GET requests from the store and fills it on 200 responses.
func (r *Revalidator) Cache(tags ...Tag) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if r == nil || req.Method != http.MethodGet || hasSession(req) {
				return next(c)
			}

			key := req.URL.RequestURI()
			if e, ok := r.store.Get(key); ok {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(e.Status, e.ContentType, e.Body)
			}

			res := c.Response()
			rec := &bodyRecorder{ResponseWriter: res.Writer}
			res.Writer = rec
			res.Header().Set("X-Cache", "MISS")
			err := next(c)
			res.Writer = rec.ResponseWriter

			if err == nil && res.Status == http.StatusOK {
				r.store.Set(key, Entry{
					Status:      res.Status,
					ContentType: res.Header().Get(echo.HeaderContentType),
					Body:        rec.buf.Bytes(),
				}, tags)
			}
			return err
		}
	}
}

func hasSession(req *http.Request) bool {
	for _, name := range []string{tokens.AccessCookie, tokens.RefreshCookie} {
		if ck, err := req.Cookie(name); err == nil && ck.Value != "" {
			return true
		}
	}
	return false
}

type bodyRecorder struct {
	http.ResponseWriter
	buf bytes.Buffer
}

func (b *bodyRecorder) Write(p []byte) (int, error) {
	b.buf.Write(p)
	return b.ResponseWriter.Write(p)
}
