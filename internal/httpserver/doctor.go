package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/repo"
	"github.com/Skotchmaster/med_clinic/internal/revalidate"
	"github.com/Skotchmaster/med_clinic/internal/service"
	"github.com/Skotchmaster/med_clinic/internal/transport"
)

type DoctorHTTP struct {
	Svc   *service.DoctorService
	Auth  *AuthHTTP
	Cache *revalidate.Revalidator
}

func doctorInput(req transport.DoctorRequest) service.DoctorInput {
	return service.DoctorInput{
		Name:           req.Name,
		Specialization: req.Specialization,
		Qualification:  req.Qualification,
		Experience:     req.Experience,
		Fee:            req.Fee,
		AvailableDays:  req.AvailableDays,
		AvailableTime:  req.AvailableTime,
		Bio:            req.Bio,
		Image:          req.Image,
		IsActive:       req.IsActive,
	}
}

func (h *DoctorHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "doctor.list")

	p := pageOf(c)
	f := repo.DoctorFilter{
		Specialization: c.QueryParam("specialization"),
		Query:          c.QueryParam("q"),
	}
	total, items, err := h.Svc.List(ctx, f, p.Offset, p.Limit)
	if err != nil {
		return fail(l, "doctor_list_error", err)
	}

	return c.JSON(http.StatusOK, transport.Paged(items, p.Meta(total)))
}

func (h *DoctorHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "doctor.get")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "doctor_get_error", "id is not a uuid", err)
	}
	d, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "doctor_get_error", err)
	}

	return c.JSON(http.StatusOK, transport.OK(d))
}

// Onboard creates the caller's doctor profile and refreshes their cookies with the new role.
func (h *DoctorHTTP) Onboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "doctor.onboard")

	var req transport.DoctorRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "doctor_onboard_error", "invalid body", err)
	}

	a := actorOf(c)
	d, err := h.Svc.Onboard(ctx, a, doctorInput(req))
	if err != nil {
		return fail(l, "doctor_onboard_error", err)
	}
	if a.Role != models.RoleAdmin && h.Auth != nil {
		if err := h.Auth.reissue(c, a.ID); err != nil {
			l.Error("doctor_onboard_reissue_error", "error", err)
		}
	}
	h.Cache.Revalidate(ctx, revalidate.DoctorChanged)

	l.Info("doctor_onboard_success", "doctor_id", d.ID)
	return c.JSON(http.StatusCreated, transport.OK(d))
}

func (h *DoctorHTTP) UpdateOwn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "doctor.update_own")

	var req transport.DoctorRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "doctor_update_error", "invalid body", err)
	}
	d, err := h.Svc.UpdateOwn(ctx, actorOf(c), doctorInput(req))
	if err != nil {
		return fail(l, "doctor_update_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.DoctorChanged)

	l.Info("doctor_update_success", "doctor_id", d.ID)
	return c.JSON(http.StatusOK, transport.OK(d))
}

func (h *DoctorHTTP) ListScopes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "scope.list")

	var doctorID *uuid.UUID
	if raw := c.QueryParam("doctorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(l, "scope_list_error", "doctorId is not a uuid", err)
		}
		doctorID = &id
	}
	scopes, err := h.Svc.ListScopes(ctx, doctorID)
	if err != nil {
		return fail(l, "scope_list_error", err)
	}

	return c.JSON(http.StatusOK, transport.OK(scopes))
}

func (h *DoctorHTTP) CreateScope(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "scope.create")

	var req transport.ScopeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "scope_create_error", "invalid body", err)
	}
	s, err := h.Svc.CreateScope(ctx, actorOf(c), req.DoctorID, service.ScopeInput{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		return fail(l, "scope_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.ScopeChanged)

	l.Info("scope_create_success", "scope_id", s.ID)
	return c.JSON(http.StatusCreated, transport.OK(s))
}

func (h *DoctorHTTP) DeleteScope(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "scope.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "scope_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.DeleteScope(ctx, actorOf(c), id); err != nil {
		return fail(l, "scope_delete_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.ScopeChanged)

	l.Info("scope_delete_success", "scope_id", id)
	return c.NoContent(http.StatusNoContent)
}
