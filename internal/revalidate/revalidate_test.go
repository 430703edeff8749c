package revalidate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/med_clinic/internal/mykafka"
)

func TestStore_InvalidateByTag(t *testing.T) {
	s := NewStore(time.Minute)
	s.Set("/api/banners", Entry{Status: 200, Body: []byte("a")}, []Tag{TagBanners, TagHome})
	s.Set("/api/notices", Entry{Status: 200, Body: []byte("b")}, []Tag{TagNotices})

	assert.Equal(t, 1, s.Invalidate(TagHome))
	_, ok := s.Get("/api/banners")
	assert.False(t, ok)
	_, ok = s.Get("/api/notices")
	assert.True(t, ok)
	assert.Equal(t, 0, s.Invalidate(TagBanners))
}

func TestStore_Expires(t *testing.T) {
	s := NewStore(time.Second)
	now := time.Now()
	s.now = func() time.Time { return now }
	s.Set("k", Entry{Status: 200}, []Tag{TagPosts})

	_, ok := s.Get("k")
	require.True(t, ok)

	s.now = func() time.Time { return now.Add(2 * time.Second) }
	_, ok = s.Get("k")
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestRules_EveryMutationHasTags(t *testing.T) {
	for m, tags := range Rules {
		assert.NotEmpty(t, tags, string(m))
	}
	assert.ElementsMatch(t, []Tag{TagBanners, TagHome}, TagsFor(BannerReordered))
}

func TestRevalidate_PublishesAndIgnoresOwnEcho(t *testing.T) {
	rec := &mykafka.Recorder{}
	rv := New(NewStore(time.Minute), rec)
	rv.Store().Set("/api/banners", Entry{Status: 200}, []Tag{TagBanners})

	rv.Revalidate(context.Background(), BannerReordered)
	assert.Zero(t, rv.Store().Len())

	events := rec.Topic(mykafka.TopicCache)
	require.Len(t, events, 1)
	assert.Equal(t, string(BannerReordered), events[0]["mutation"])

	rv.Store().Set("/api/banners", Entry{Status: 200}, []Tag{TagBanners})
	require.NoError(t, rv.HandleEvent(context.Background(), rec.Messages[0].Value))
	assert.Equal(t, 1, rv.Store().Len(), "own events are ignored")

	peer := New(NewStore(time.Minute), nil)
	peer.Store().Set("/api/banners", Entry{Status: 200}, []Tag{TagBanners})
	require.NoError(t, peer.HandleEvent(context.Background(), rec.Messages[0].Value))
	assert.Zero(t, peer.Store().Len())
}

func TestCacheMiddleware(t *testing.T) {
	rv := New(NewStore(time.Minute), nil)
	calls := 0

	e := echo.New()
	e.GET("/api/banners", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]int{"calls": calls})
	}, rv.Cache(TagBanners))

	get := func(cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/banners", nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := get()
	second := get()
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	get(&http.Cookie{Name: "accessToken", Value: "x"})
	assert.Equal(t, 2, calls, "sessions bypass the cache")

	rv.Revalidate(context.Background(), BannerUpdated)
	third := get()
	var body map[string]int
	require.NoError(t, json.Unmarshal(third.Body.Bytes(), &body))
	assert.Equal(t, 3, body["calls"])
}
