package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/revalidate"
	"github.com/Skotchmaster/med_clinic/internal/service"
	"github.com/Skotchmaster/med_clinic/internal/transport"
)

type CommentHTTP struct {
	Svc   *service.CommentService
	Cache *revalidate.Revalidator
}

func (h *CommentHTTP) Tree(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.tree")

	postID, err := uuid.Parse(c.QueryParam("postId"))
	if err != nil {
		return badRequest(l, "comment_tree_error", "postId is not a uuid", err)
	}
	tree, err := h.Svc.Tree(ctx, postID)
	if err != nil {
		return fail(l, "comment_tree_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(tree))
}

func (h *CommentHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.create")

	var req transport.CommentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "comment_create_error", "invalid body", err)
	}
	cm, err := h.Svc.Create(ctx, actorOf(c), service.CommentInput(req))
	if err != nil {
		return fail(l, "comment_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.CommentChanged)

	l.Info("comment_create_success", "comment_id", cm.ID)
	return c.JSON(http.StatusCreated, transport.OK(cm))
}

func (h *CommentHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "comment.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "comment_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.Delete(ctx, actorOf(c), id); err != nil {
		return fail(l, "comment_delete_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.CommentChanged)

	l.Info("comment_delete_success", "comment_id", id)
	return c.NoContent(http.StatusNoContent)
}
