package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/repo"
	"github.com/Skotchmaster/med_clinic/internal/service"
	"github.com/Skotchmaster/med_clinic/internal/transport"
)

type AppointmentHTTP struct {
	Svc *service.AppointmentService
}

func (h *AppointmentHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "appointment.create")

	var req transport.CreateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "appointment_create_error", "invalid body", err)
	}

	appt, err := h.Svc.Book(ctx, sessionUserID(c), service.AppointmentInput{
		PatientName: req.PatientName,
		Phone:       req.Phone,
		Email:       req.Email,
		Age:         req.Age,
		Gender:      req.Gender,
		Date:        req.Date,
		TimeSlot:    req.TimeSlot,
		DoctorName:  req.DoctorName,
		Department:  req.Department,
		Reason:      req.Reason,
	})
	if err != nil {
		return fail(l, "appointment_create_error", err)
	}

	l.Info("appointment_create_success", "serial", appt.Serial)
	return c.JSON(http.StatusCreated, transport.OK(appt))
}

func (h *AppointmentHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "appointment.list")

	p := pageOf(c)
	f := repo.AppointmentFilter{
		Status:     c.QueryParam("status"),
		DoctorName: c.QueryParam("doctor"),
		Date:       c.QueryParam("date"),
		Query:      c.QueryParam("q"),
	}
	total, items, err := h.Svc.List(ctx, actorOf(c), f, p.Offset, p.Limit)
	if err != nil {
		return fail(l, "appointment_list_error", err)
	}

	l.Info("appointment_list_success", "total", total)
	return c.JSON(http.StatusOK, transport.Paged(items, p.Meta(total)))
}

func (h *AppointmentHTTP) ListOwn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "appointment.list_own")

	p := pageOf(c)
	total, items, err := h.Svc.ListOwn(ctx, actorOf(c).ID, p.Offset, p.Limit)
	if err != nil {
		return fail(l, "appointment_list_own_error", err)
	}

	return c.JSON(http.StatusOK, transport.Paged(items, p.Meta(total)))
}

func (h *AppointmentHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "appointment.get")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "appointment_get_error", "id is not a uuid", err)
	}

	appt, err := h.Svc.Get(ctx, actorOf(c), id)
	if err != nil {
		return fail(l, "appointment_get_error", err)
	}

	return c.JSON(http.StatusOK, transport.OK(appt))
}

func (h *AppointmentHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "appointment.patch")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "appointment_patch_error", "id is not a uuid", err)
	}
	var req transport.PatchAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "appointment_patch_error", "invalid body", err)
	}

	appt, err := h.Svc.Update(ctx, id, service.AppointmentUpdate{
		Status:     req.Status,
		DoctorName: req.DoctorName,
		Notes:      req.Notes,
	})
	if err != nil {
		return fail(l, "appointment_patch_error", err)
	}

	l.Info("appointment_patch_success", "id", id, "status", appt.Status)
	return c.JSON(http.StatusOK, transport.OK(appt))
}

func (h *AppointmentHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "appointment.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "appointment_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "appointment_delete_error", err)
	}

	l.Info("appointment_delete_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}
