// AngelaMos | 2026
// handler.go

package project

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/volunteer-hub/internal/core"
	"github.com/carterperez-dev/volunteer-hub/internal/middleware"
)

const (
	maxJSONBodyBytes   = 1 << 20
	multipartMemory    = 8 << 20
	multipartOverhead  = 1 << 20
	imageFormFieldName = "image"
)

type Handler struct {
	service        *Service
	maxUploadBytes int64
}

func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{projectID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/my", h.ListMine)
			r.With(middleware.RequireOrganizer).Post("/", h.Create)
			r.Put("/{projectID}", h.Update)
			r.Delete("/{projectID}", h.Delete)
			r.Post("/{projectID}/participate", h.Join)
			r.Delete("/{projectID}/participate", h.Leave)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	details, err := h.service.List(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToResponseList(details, h.service.ImageURL))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToResponseList(details, h.service.ImageURL))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToResponse(detail, h.service.ImageURL))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, upload, cleanup, err := h.readForm(w, r)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	defer cleanup()

	identity := middleware.GetIdentity(r.Context())
	detail, err := h.service.Create(r.Context(), identity, form, upload)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("project created",
		"project_id", detail.ID,
		"organizer_id", detail.OrganizerID,
	)

	core.Created(w, ToResponse(detail, h.service.ImageURL))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	form, upload, cleanup, err := h.readForm(w, r)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	defer cleanup()

	identity := middleware.GetIdentity(r.Context())
	detail, err := h.service.Update(
		r.Context(),
		identity,
		chi.URLParam(r, "projectID"),
		form,
		upload,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToResponse(detail, h.service.ImageURL))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	identity := middleware.GetIdentity(r.Context())

	if err := h.service.Delete(r.Context(), identity, id); err != nil {
		writeError(w, err)
		return
	}

	slog.Info("project deleted",
		"project_id", id,
		"deleted_by", identity.UserID,
	)

	core.OK(w, DeleteResponse{Message: "Project deleted", ID: id})
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	joined, err := h.service.Join(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "projectID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	msg := "Joined project"
	if !joined {
		msg = "Already participating"
	}
	core.OK(w, JoinResponse{Message: msg, Joined: joined})
}

func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	left, err := h.service.Leave(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "projectID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	msg := "Left project"
	if !left {
		msg = "Not a participant"
	}
	core.OK(w, LeaveResponse{Message: msg, Left: left})
}

// readForm accepts multipart/form-data with an optional image part, or a
// JSON object. cleanup releases any temporary multipart files.
func (h *Handler) readForm(
	w http.ResponseWriter,
	r *http.Request,
) (Form, *Upload, func(), error) {
	noop := func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		form, err := FormFromJSON(io.LimitReader(r.Body, maxJSONBodyBytes))
		if err != nil {
			return Form{}, nil, noop, core.BadRequestError("invalid request body")
		}
		return form, nil, noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Form{}, nil, noop, core.ValidationError([]core.FieldError{{
				Field:   imageFormFieldName,
				Message: "image is too large",
			}})
		}
		return Form{}, nil, noop, core.BadRequestError("invalid multipart body")
	}

	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Warn("failed to remove multipart temp files", "error", err)
		}
	}

	form := FormFromValues(r.MultipartForm.Value)

	file, header, err := r.FormFile(imageFormFieldName)
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return Form{}, nil, noop, core.BadRequestError("invalid image upload")
	}

	upload := &Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}

	return form, upload, func() {
		//nolint:errcheck // read-only multipart part
		_ = file.Close()
		cleanup()
	}, nil
}

func parseListQuery(r *http.Request) (ListQuery, error) {
	var q ListQuery
	values := r.URL.Query()

	if v := values.Get("urgent"); v != "" {
		urgent, err := strconv.ParseBool(v)
		if err != nil {
			return q, core.BadRequestError("urgent must be true or false")
		}
		q.Urgent = urgent
	}

	if v := values.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return q, core.BadRequestError("limit must be a positive integer")
		}
		q.Limit = limit
	}

	return q, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "project")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "only the organizer or an admin can modify this project")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid project data")
	default:
		core.InternalServerError(w, err)
	}
}
