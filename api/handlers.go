package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-jobboard/resource"
	"go.uber.org/zap"
)

// resourceHandler exposes one resource service over HTTP.
type resourceHandler[T resource.Entity, F resource.Filter, A any] struct {
	svc    *resource.Service[T, F, A]
	root   string
	logger *zap.Logger
}

func (h *resourceHandler[T, F, A]) routes(r chi.Router) {
	r.Get("/", h.index)
	r.Post("/", h.create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.show)
		r.Patch("/", h.update)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
	})
}

func (h *resourceHandler[T, F, A]) index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	res, err := h.svc.Index(r.Context(), resource.IndexRequest{
		Page:     query.Get("page"),
		PageSize: firstPresent(query.Get("per_page"), query.Get("page_size"), query.Get("pageSize")),
		Params:   query,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dataEnvelope{Data: res.Data, Meta: &res.Meta})
}

func (h *resourceHandler[T, F, A]) show(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Show(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, data)
}

func (h *resourceHandler[T, F, A]) create(w http.ResponseWriter, r *http.Request) {
	attrs, err := decodeAttrs[A](w, r, h.root)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	data, err := h.svc.Create(r.Context(), attrs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusCreated, data)
}

func (h *resourceHandler[T, F, A]) update(w http.ResponseWriter, r *http.Request) {
	attrs, err := decodeAttrs[A](w, r, h.root)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	data, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), attrs)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, http.StatusOK, data)
}

func (h *resourceHandler[T, F, A]) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func firstPresent(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
