package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/service"
	"github.com/Skotchmaster/med_clinic/internal/transport"
)

type UploadHTTP struct {
	Svc *service.UploadService
}

func (h *UploadHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.upload")

	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, service.MaxUploadBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(l, "upload_error", "file is required", err)
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(l, "upload_error", "cannot read file", err)
	}
	defer f.Close()

	url, err := h.Svc.Upload(ctx, service.UploadInput{
		File:     f,
		Filename: fh.Filename,
		Size:     fh.Size,
		Folder:   c.FormValue("folder"),
	})
	if err != nil {
		return fail(l, "upload_error", err)
	}

	l.Info("upload_success", "size", fh.Size)
	return c.JSON(http.StatusOK, transport.UploadResponse{Success: true, URL: url})
}

type SearchHTTP struct {
	Svc *service.SearchService
}

func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.search")

	kind := c.QueryParam("type")
	if kind == "" {
		kind = service.SearchPosts
	}

	p := pageOf(c)
	res, err := h.Svc.Search(ctx, kind, c.QueryParam("q"), p.Offset, p.Limit)
	if err != nil {
		return fail(l, "search_error", err)
	}

	l.Info("search_success", "type", res.Type, "source", res.Source, "total", res.Total)
	return c.JSON(http.StatusOK, transport.Paged(res, p.Meta(res.Total)))
}

type MailHTTP struct {
	Svc *service.MailService
}

func (h *MailHTTP) SendTest(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "mail.send_test")

	var req transport.MailTestRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "mail_test_error", "invalid body", err)
	}
	if err := h.Svc.SendTest(ctx, req.To); err != nil {
		return fail(l, "mail_test_error", err)
	}

	l.Info("mail_test_success")
	return c.JSON(http.StatusOK, transport.Done("test mail sent"))
}
