package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/revalidate"
	"github.com/Skotchmaster/med_clinic/internal/service"
	"github.com/Skotchmaster/med_clinic/internal/transport"
)

type CourseHTTP struct {
	Svc   *service.CourseService
	Cache *revalidate.Revalidator
}

func (h *CourseHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.list")

	p := pageOf(c)
	total, courses, err := h.Svc.List(ctx, wantsAll(c, actorOf(c)), p.Offset, p.Limit)
	if err != nil {
		return fail(l, "course_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.Paged(courses, p.Meta(total)))
}

func (h *CourseHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.get")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "course_get_error", "id is not a uuid", err)
	}
	course, err := h.Svc.Get(ctx, actorOf(c), id)
	if err != nil {
		return fail(l, "course_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(course))
}

func (h *CourseHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.create")

	var req transport.CourseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "course_create_error", "invalid body", err)
	}
	course, err := h.Svc.Create(ctx, service.CourseInput(req))
	if err != nil {
		return fail(l, "course_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.CourseChanged)

	l.Info("course_create_success", "course_id", course.ID)
	return c.JSON(http.StatusCreated, transport.OK(course))
}

func (h *CourseHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.update")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "course_update_error", "id is not a uuid", err)
	}
	var req transport.CourseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "course_update_error", "invalid body", err)
	}
	course, err := h.Svc.Update(ctx, id, service.CourseInput(req))
	if err != nil {
		return fail(l, "course_update_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.CourseChanged)

	l.Info("course_update_success", "course_id", id)
	return c.JSON(http.StatusOK, transport.OK(course))
}

func (h *CourseHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "course_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "course_delete_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.CourseChanged)

	l.Info("course_delete_success", "course_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CourseHTTP) Order(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.order")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "course_order_error", "id is not a uuid", err)
	}
	var req transport.CourseOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "course_order_error", "invalid body", err)
	}
	order, err := h.Svc.Order(ctx, actorOf(c), id, service.CourseOrderInput(req))
	if err != nil {
		return fail(l, "course_order_error", err)
	}

	l.Info("course_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.OK(order))
}

func (h *CourseHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.list_orders")

	p := pageOf(c)
	total, orders, err := h.Svc.ListOrders(ctx, actorOf(c), c.QueryParam("status"), p.Offset, p.Limit)
	if err != nil {
		return fail(l, "course_order_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.Paged(orders, p.Meta(total)))
}

func (h *CourseHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.update_order_status")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "course_order_status_error", "id is not a uuid", err)
	}
	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "course_order_status_error", "invalid body", err)
	}
	order, err := h.Svc.UpdateOrderStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "course_order_status_error", err)
	}

	l.Info("course_order_status_success", "order_id", id, "status", order.Status)
	return c.JSON(http.StatusOK, transport.OK(order))
}
