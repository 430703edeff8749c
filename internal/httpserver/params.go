package httpserver

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/middleware/auth"
	"github.com/Skotchmaster/med_clinic/internal/service"
	"github.com/Skotchmaster/med_clinic/internal/util"
)

// actorOf returns the caller resolved by the auth middleware. The zero Actor means anonymous.
func actorOf(c echo.Context) service.Actor {
	id, role, ok := auth.Identity(c)
	if !ok {
		return service.Actor{}
	}
	return service.Actor{ID: id, Role: role}
}

// sessionUserID is the caller's id on routes where the session is optional.
func sessionUserID(c echo.Context) *uuid.UUID {
	id, _, ok := auth.Identity(c)
	if !ok {
		return nil
	}
	return &id
}

func pageOf(c echo.Context) util.Page {
	return util.NewPage(
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize),
	)
}

func idParam(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// wantsAll reports whether a privileged caller asked to include hidden rows.
func wantsAll(c echo.Context, a service.Actor) bool {
	return c.QueryParam("all") == "true" && a.IsAdmin()
}
