package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/repo"
	"github.com/Skotchmaster/med_clinic/internal/revalidate"
	"github.com/Skotchmaster/med_clinic/internal/service"
	"github.com/Skotchmaster/med_clinic/internal/transport"
)

type ForumHTTP struct {
	Svc   *service.ForumService
	Cache *revalidate.Revalidator
}

func (h *ForumHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forum.list_categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "forum_category_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(cats))
}

func (h *ForumHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forum.create_category")

	var req transport.ForumCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "forum_category_create_error", "invalid body", err)
	}
	cat, err := h.Svc.CreateCategory(ctx, service.ForumCategoryInput(req))
	if err != nil {
		return fail(l, "forum_category_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.ForumCategoryChanged)

	l.Info("forum_category_create_success", "slug", cat.Slug)
	return c.JSON(http.StatusCreated, transport.OK(cat))
}

func (h *ForumHTTP) CategoryPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forum.category_page")

	p := pageOf(c)
	page, err := h.Svc.CategoryPage(ctx, actorOf(c), c.Param("slug"), p.Offset, p.Limit)
	if err != nil {
		return fail(l, "forum_category_page_error", err)
	}

	return c.JSON(http.StatusOK, transport.Paged(map[string]any{
		"category": page.Category,
		"topics":   page.Topics,
	}, p.Meta(page.Total)))
}

func (h *ForumHTTP) ListTopics(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forum.list_topics")

	f := repo.TopicFilter{Query: c.QueryParam("q")}
	if slug := c.QueryParam("category"); slug != "" {
		cat, err := h.Svc.CategoryBySlug(ctx, slug)
		if err != nil {
			return fail(l, "forum_topic_list_error", err)
		}
		f.CategoryID = &cat.ID
	}

	p := pageOf(c)
	total, topics, err := h.Svc.ListTopics(ctx, actorOf(c), f, p.Offset, p.Limit)
	if err != nil {
		return fail(l, "forum_topic_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.Paged(topics, p.Meta(total)))
}

func (h *ForumHTTP) CreateTopic(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forum.create_topic")

	var req transport.TopicRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "forum_topic_create_error", "invalid body", err)
	}
	t, err := h.Svc.CreateTopic(ctx, actorOf(c), service.TopicInput(req))
	if err != nil {
		return fail(l, "forum_topic_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.ForumTopicChanged)

	l.Info("forum_topic_create_success", "slug", t.Slug)
	return c.JSON(http.StatusCreated, transport.OK(t))
}

func (h *ForumHTTP) Thread(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forum.thread")

	th, err := h.Svc.Thread(ctx, actorOf(c), c.Param("slug"))
	if err != nil {
		return fail(l, "forum_thread_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(th))
}

func (h *ForumHTTP) Moderate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forum.moderate")

	var req transport.ModerateTopicRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "forum_moderate_error", "invalid body", err)
	}
	t, err := h.Svc.Moderate(ctx, c.Param("slug"), req.IsPinned, req.IsLocked)
	if err != nil {
		return fail(l, "forum_moderate_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.ForumTopicChanged)

	l.Info("forum_moderate_success", "slug", t.Slug, "pinned", t.IsPinned, "locked", t.IsLocked)
	return c.JSON(http.StatusOK, transport.OK(t))
}

func (h *ForumHTTP) Reply(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forum.reply")

	var req transport.ForumPostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "forum_reply_error", "invalid body", err)
	}
	post, err := h.Svc.Reply(ctx, actorOf(c), c.Param("slug"), service.ForumPostInput(req))
	if err != nil {
		return fail(l, "forum_reply_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.ForumPostChanged)

	l.Info("forum_reply_success", "post_id", post.ID)
	return c.JSON(http.StatusCreated, transport.OK(post))
}

func (h *ForumHTTP) Accept(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forum.accept")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "forum_accept_error", "id is not a uuid", err)
	}
	post, err := h.Svc.Accept(ctx, actorOf(c), id)
	if err != nil {
		return fail(l, "forum_accept_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.ForumPostChanged)

	l.Info("forum_accept_success", "post_id", post.ID)
	return c.JSON(http.StatusOK, transport.OK(post))
}

func (h *ForumHTTP) Vote(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forum.vote")

	var req transport.VoteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "forum_vote_error", "invalid body", err)
	}
	tally, err := h.Svc.Vote(ctx, actorOf(c), service.VoteInput(req))
	if err != nil {
		return fail(l, "forum_vote_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.ForumVoted)

	l.Info("forum_vote_success", "target_id", req.TargetID, "net", tally.NetVotes)
	return c.JSON(http.StatusOK, transport.OK(tally))
}
