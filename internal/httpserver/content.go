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

type ContentHTTP struct {
	Svc   *service.ContentService
	Cache *revalidate.Revalidator
}

func (h *ContentHTTP) ListGalleries(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gallery.list")

	items, err := h.Svc.ListGalleries(ctx, wantsAll(c, actorOf(c)))
	if err != nil {
		return fail(l, "gallery_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(items))
}

func (h *ContentHTTP) CreateGallery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gallery.create")

	var req transport.GalleryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "gallery_create_error", "invalid body", err)
	}
	g, err := h.Svc.CreateGallery(ctx, service.GalleryInput(req))
	if err != nil {
		return fail(l, "gallery_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.GalleryChanged)

	l.Info("gallery_create_success", "gallery_id", g.ID)
	return c.JSON(http.StatusCreated, transport.OK(g))
}

func (h *ContentHTTP) DeleteGallery(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "gallery.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "gallery_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.DeleteGallery(ctx, id); err != nil {
		return fail(l, "gallery_delete_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.GalleryChanged)

	l.Info("gallery_delete_success", "gallery_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHTTP) ListBanners(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "banner.list")

	items, err := h.Svc.ListBanners(ctx, wantsAll(c, actorOf(c)))
	if err != nil {
		return fail(l, "banner_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(items))
}

func (h *ContentHTTP) GetBanner(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "banner.get")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "banner_get_error", "id is not a uuid", err)
	}
	b, err := h.Svc.GetBanner(ctx, id)
	if err != nil {
		return fail(l, "banner_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(b))
}

func (h *ContentHTTP) CreateBanner(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "banner.create")

	var req transport.BannerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "banner_create_error", "invalid body", err)
	}
	b, err := h.Svc.CreateBanner(ctx, service.BannerInput(req))
	if err != nil {
		return fail(l, "banner_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.BannerCreated)

	l.Info("banner_create_success", "banner_id", b.ID)
	return c.JSON(http.StatusCreated, transport.OK(b))
}

func (h *ContentHTTP) UpdateBanner(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "banner.update")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "banner_update_error", "id is not a uuid", err)
	}
	var req transport.BannerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "banner_update_error", "invalid body", err)
	}
	b, err := h.Svc.UpdateBanner(ctx, id, service.BannerInput(req))
	if err != nil {
		return fail(l, "banner_update_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.BannerUpdated)

	l.Info("banner_update_success", "banner_id", id)
	return c.JSON(http.StatusOK, transport.OK(b))
}

func (h *ContentHTTP) DeleteBanner(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "banner.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "banner_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.DeleteBanner(ctx, id); err != nil {
		return fail(l, "banner_delete_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.BannerDeleted)

	l.Info("banner_delete_success", "banner_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHTTP) ReorderBanners(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "banner.reorder")

	var req []transport.BannerOrderItem
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "banner_reorder_error", "invalid body", err)
	}
	orders := make([]repo.BannerOrder, 0, len(req))
	for _, it := range req {
		orders = append(orders, repo.BannerOrder{ID: it.ID, Order: it.Order})
	}

	banners, err := h.Svc.ReorderBanners(ctx, orders)
	if err != nil {
		return fail(l, "banner_reorder_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.BannerReordered)

	l.Info("banner_reorder_success", "count", len(orders))
	return c.JSON(http.StatusOK, transport.OK(banners))
}

func (h *ContentHTTP) ListNotices(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notice.list")

	p := pageOf(c)
	total, items, err := h.Svc.ListNotices(ctx, wantsAll(c, actorOf(c)), p.Offset, p.Limit)
	if err != nil {
		return fail(l, "notice_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.Paged(items, p.Meta(total)))
}

func (h *ContentHTTP) GetNotice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notice.get")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "notice_get_error", "id is not a uuid", err)
	}
	n, err := h.Svc.GetNotice(ctx, actorOf(c), id)
	if err != nil {
		return fail(l, "notice_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(n))
}

func (h *ContentHTTP) CreateNotice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notice.create")

	var req transport.NoticeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "notice_create_error", "invalid body", err)
	}
	n, err := h.Svc.CreateNotice(ctx, service.NoticeInput(req))
	if err != nil {
		return fail(l, "notice_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.NoticeChanged)

	l.Info("notice_create_success", "notice_id", n.ID)
	return c.JSON(http.StatusCreated, transport.OK(n))
}

func (h *ContentHTTP) UpdateNotice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notice.update")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "notice_update_error", "id is not a uuid", err)
	}
	var req transport.NoticeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "notice_update_error", "invalid body", err)
	}
	n, err := h.Svc.UpdateNotice(ctx, id, service.NoticeInput(req))
	if err != nil {
		return fail(l, "notice_update_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.NoticeChanged)

	l.Info("notice_update_success", "notice_id", id)
	return c.JSON(http.StatusOK, transport.OK(n))
}

func (h *ContentHTTP) DeleteNotice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "notice.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "notice_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.DeleteNotice(ctx, id); err != nil {
		return fail(l, "notice_delete_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.NoticeChanged)

	l.Info("notice_delete_success", "notice_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHTTP) ListStudents(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.list")

	p := pageOf(c)
	total, items, err := h.Svc.ListStudents(ctx, c.QueryParam("q"), p.Offset, p.Limit)
	if err != nil {
		return fail(l, "student_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.Paged(items, p.Meta(total)))
}

func (h *ContentHTTP) GetStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.get")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "student_get_error", "id is not a uuid", err)
	}
	st, err := h.Svc.GetStudent(ctx, id)
	if err != nil {
		return fail(l, "student_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(st))
}

func (h *ContentHTTP) CreateStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.create")

	var req transport.StudentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "student_create_error", "invalid body", err)
	}
	st, err := h.Svc.CreateStudent(ctx, service.StudentInput(req))
	if err != nil {
		return fail(l, "student_create_error", err)
	}

	l.Info("student_create_success", "student_id", st.ID)
	return c.JSON(http.StatusCreated, transport.OK(st))
}

func (h *ContentHTTP) UpdateStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.update")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "student_update_error", "id is not a uuid", err)
	}
	var req transport.StudentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "student_update_error", "invalid body", err)
	}
	st, err := h.Svc.UpdateStudent(ctx, id, service.StudentInput(req))
	if err != nil {
		return fail(l, "student_update_error", err)
	}

	l.Info("student_update_success", "student_id", id)
	return c.JSON(http.StatusOK, transport.OK(st))
}

func (h *ContentHTTP) DeleteStudent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "student.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "student_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.DeleteStudent(ctx, id); err != nil {
		return fail(l, "student_delete_error", err)
	}

	l.Info("student_delete_success", "student_id", id)
	return c.NoContent(http.StatusNoContent)
}
