package show

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agendashows/service/internal/response"
	"github.com/agendashows/service/internal/storage"
)

// Handler holds HTTP handlers for show endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new show Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListPublic godoc
//
//	@Summary		Public show listing
//	@Description	Returns upcoming shows with data_fim defaulted, expired shows removed, sorted by date, city and artist.
//	@Tags			shows
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]Show}
//	@Failure		500	{object}	response.Envelope
//	@Router			/shows [get]
func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	shows, err := h.svc.Listing(r.Context(), time.Now())
	if err != nil {
		response.InternalError(w, "failed to load shows")
		return
	}
	response.OK(w, shows)
}

// ListAdmin godoc
//
//	@Summary		Admin show list
//	@Description	Returns every show row, past and future, ordered by start date. A read failure degrades to an empty list.
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]Show}
//	@Failure		401	{object}	response.Envelope
//	@Router			/admin/shows [get]
func (h *Handler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	shows, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("show: admin list: %v", err)
		shows = []Show{}
	}
	response.OK(w, shows)
}

// Create godoc
//
//	@Summary		Create show
//	@Description	Creates a show from multipart form fields, uploading the optional flyer image first.
//	@Tags			admin
//	@Accept			mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Param			artista		formData	string	true	"Artist or band name"
//	@Param			data_inicio	formData	string	true	"Start date (YYYY-MM-DD)"
//	@Param			data_fim	formData	string	false	"End date (YYYY-MM-DD)"
//	@Param			local		formData	string	true	"Venue"
//	@Param			cidade		formData	string	true	"City"
//	@Param			flyer_url	formData	string	false	"Flyer URL to keep when no file is sent"
//	@Param			flyer		formData	file	false	"Flyer image (JPG, PNG, WEBP or GIF, max 5MB)"
//	@Success		201	{object}	response.Envelope{data=Show}
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Router			/admin/shows [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.parseSaveForm(w, r)
	if !ok {
		return
	}
	defer closeUpload(in.File)

	created, err := h.svc.Save(r.Context(), in)
	if err != nil {
		writeSaveError(w, err)
		return
	}
	response.Created(w, created)
}

// Update godoc
//
//	@Summary		Update show
//	@Description	Rewrites a show's fields. A replacement flyer removes the previous image object before uploading the new one.
//	@Tags			admin
//	@Accept			mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		string	true	"Show ID"
//	@Param			artista		formData	string	true	"Artist or band name"
//	@Param			data_inicio	formData	string	true	"Start date (YYYY-MM-DD)"
//	@Param			data_fim	formData	string	false	"End date (YYYY-MM-DD)"
//	@Param			local		formData	string	true	"Venue"
//	@Param			cidade		formData	string	true	"City"
//	@Param			flyer_url	formData	string	false	"Current flyer URL, kept when no replacement file is sent"
//	@Param			flyer		formData	file	false	"Replacement flyer image"
//	@Success		200	{object}	response.Envelope{data=Show}
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		502	{object}	response.Envelope
//	@Router			/admin/shows/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.parseSaveForm(w, r)
	if !ok {
		return
	}
	defer closeUpload(in.File)
	in.ID = chi.URLParam(r, "id")

	updated, err := h.svc.Save(r.Context(), in)
	if err != nil {
		writeSaveError(w, err)
		return
	}
	response.OK(w, updated)
}

// Delete godoc
//
//	@Summary		Delete show
//	@Description	Deletes a show and its flyer object. Requires confirm=true; without it nothing happens.
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Show ID"
//	@Param			confirm	query	bool	true	"Operator confirmation"
//	@Success		200	{object}	response.Envelope
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/admin/shows/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	confirmed := r.URL.Query().Get("confirm") == "true"

	err := h.svc.Delete(r.Context(), id, confirmed)
	switch {
	case errors.Is(err, ErrConfirmationRequired):
		response.BadRequest(w, "confirmation required")
		return
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "show not found")
		return
	case err != nil:
		response.InternalError(w, err.Error())
		return
	}
	response.OK(w, map[string]string{"message": "show deleted"})
}

// parseSaveForm reads the multipart admin form into a SaveInput. The flyer
// file, when present, is checked against the MIME and size limits before any
// backend call is made.
func (h *Handler) parseSaveForm(w http.ResponseWriter, r *http.Request) (SaveInput, bool) {
	if err := r.ParseMultipartForm(MaxUploadSize + 1<<20); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return SaveInput{}, false
	}

	in := SaveInput{
		Artista:    r.FormValue("artista"),
		DataInicio: r.FormValue("data_inicio"),
		DataFim:    r.FormValue("data_fim"),
		Local:      r.FormValue("local"),
		Cidade:     r.FormValue("cidade"),
		Flyer:      r.FormValue("flyer_url"),
	}

	file, header, err := r.FormFile("flyer")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.BadRequest(w, "invalid flyer upload")
		return SaveInput{}, false
	}
	if err == nil {
		upload := &Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		}
		if err := ValidateUpload(upload); err != nil {
			response.BadRequest(w, err.Error())
			return SaveInput{}, false
		}
		in.File = upload
	}

	return in, true
}

// closeUpload releases the multipart file backing an upload, if any.
func closeUpload(u *Upload) {
	if u == nil {
		return
	}
	if c, ok := u.Reader.(io.Closer); ok {
		_ = c.Close()
	}
}

func writeSaveError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	var upErr *storage.UploadError
	switch {
	case errors.As(err, &vErr):
		response.BadRequest(w, vErr.Error())
	case errors.As(err, &upErr):
		response.BadGateway(w, "flyer upload failed")
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "show not found")
	default:
		response.InternalError(w, err.Error())
	}
}
