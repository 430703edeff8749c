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

type BlogHTTP struct {
	Svc   *service.BlogService
	Cache *revalidate.Revalidator
}

func (h *BlogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "category_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(cats))
}

func (h *BlogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "category_get_error", "id is not a uuid", err)
	}
	cat, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return fail(l, "category_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(cat))
}

func (h *BlogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "category_create_error", "invalid body", err)
	}
	cat, err := h.Svc.CreateCategory(ctx, service.CategoryInput(req))
	if err != nil {
		return fail(l, "category_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.CategoryChanged)

	l.Info("category_create_success", "slug", cat.Slug)
	return c.JSON(http.StatusCreated, transport.OK(cat))
}

func (h *BlogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "category_update_error", "id is not a uuid", err)
	}
	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "category_update_error", "invalid body", err)
	}
	cat, err := h.Svc.UpdateCategory(ctx, id, service.CategoryInput(req))
	if err != nil {
		return fail(l, "category_update_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.CategoryChanged)

	l.Info("category_update_success", "slug", cat.Slug)
	return c.JSON(http.StatusOK, transport.OK(cat))
}

func (h *BlogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "category_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "category_delete_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.CategoryChanged)

	l.Info("category_delete_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *BlogHTTP) ListTags(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.list")

	tags, err := h.Svc.ListTags(ctx)
	if err != nil {
		return fail(l, "tag_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(tags))
}

func (h *BlogHTTP) CreateTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.create")

	var req transport.TagRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "tag_create_error", "invalid body", err)
	}
	tag, err := h.Svc.CreateTag(ctx, req.Name, req.Slug)
	if err != nil {
		return fail(l, "tag_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.TagChanged)

	l.Info("tag_create_success", "slug", tag.Slug)
	return c.JSON(http.StatusCreated, transport.OK(tag))
}

func (h *BlogHTTP) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.list")

	a := actorOf(c)
	drafts := c.QueryParam("all") == "true" && (a.IsAdmin() || a.IsDoctor())

	p := pageOf(c)
	f := repo.PostFilter{
		CategorySlug: c.QueryParam("category"),
		TagSlug:      c.QueryParam("tag"),
		Query:        c.QueryParam("q"),
	}
	total, posts, err := h.Svc.ListPosts(ctx, f, drafts, p.Offset, p.Limit)
	if err != nil {
		return fail(l, "post_list_error", err)
	}

	return c.JSON(http.StatusOK, transport.Paged(posts, p.Meta(total)))
}

func (h *BlogHTTP) GetPost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.get")

	post, err := h.Svc.GetPost(ctx, actorOf(c), c.Param("slug"))
	if err != nil {
		return fail(l, "post_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(post))
}

func (h *BlogHTTP) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.create")

	var req transport.PostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "post_create_error", "invalid body", err)
	}
	post, err := h.Svc.CreatePost(ctx, actorOf(c), service.PostInput(req))
	if err != nil {
		return fail(l, "post_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.PostChanged)

	l.Info("post_create_success", "slug", post.Slug)
	return c.JSON(http.StatusCreated, transport.OK(post))
}

func (h *BlogHTTP) UpdatePost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.update")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "post_update_error", "id is not a uuid", err)
	}
	var req transport.PostRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "post_update_error", "invalid body", err)
	}
	post, err := h.Svc.UpdatePost(ctx, actorOf(c), id, service.PostInput(req))
	if err != nil {
		return fail(l, "post_update_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.PostChanged)

	l.Info("post_update_success", "slug", post.Slug)
	return c.JSON(http.StatusOK, transport.OK(post))
}

func (h *BlogHTTP) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "post_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.DeletePost(ctx, actorOf(c), id); err != nil {
		return fail(l, "post_delete_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.PostChanged)

	l.Info("post_delete_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}
