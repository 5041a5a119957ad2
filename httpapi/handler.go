// Package httpapi exposes a store.Store as a small REST API.
//
//	GET    /config            whole document
//	GET    /config/{key...}   value at key, 404 when absent
//	PUT    /config/{key...}   JSON body stored at key
//	DELETE /config/{key...}   remove key, 404 when nothing was removed
//	PATCH  /config            RFC 6902 or RFC 7386 patch, chosen by Content-Type
//	GET    /export/{name}     value under export.<name>
//	GET    /healthz           {"ready": bool}
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/0xalexb/mtx-config/store"
)

const (
	// ContentTypeJSONPatch selects RFC 6902 for PATCH /config.
	ContentTypeJSONPatch = "application/json-patch+json"
	// ContentTypeMergePatch selects RFC 7386 for PATCH /config.
	ContentTypeMergePatch = "application/merge-patch+json"
)

type errorBody struct {
	Error string `json:"error"`
}

type healthBody struct {
	Ready bool `json:"ready"`
}

type handler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewHandler returns the routes for st.
func NewHandler(st *store.Store, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &handler{store: st, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /config", h.getAll)
	mux.HandleFunc("GET /config/{key...}", h.get)
	mux.HandleFunc("PUT /config/{key...}", h.put)
	mux.HandleFunc("DELETE /config/{key...}", h.remove)
	mux.HandleFunc("PATCH /config", h.patch)
	mux.HandleFunc("GET /export/{name}", h.export)
	mux.HandleFunc("GET /healthz", h.health)

	return mux
}

func (h *handler) getAll(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, http.StatusOK, h.store.All())
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if !h.store.Has(key) {
		h.fail(w, http.StatusNotFound, "key not found: "+key)

		return
	}

	h.respond(w, http.StatusOK, h.store.Get(key, nil))
}

func (h *handler) put(w http.ResponseWriter, r *http.Request) {
	var value any

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		h.bodyError(w, err)

		return
	}

	h.store.Set(r.PathValue("key"), value)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if !h.store.Delete(key) {
		h.fail(w, http.StatusNotFound, "key not found: "+key)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) patch(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	var apply func([]byte) error

	switch mediaType {
	case ContentTypeJSONPatch:
		apply = h.store.Patch
	case ContentTypeMergePatch, "application/json":
		apply = h.store.MergePatch
	default:
		h.fail(w, http.StatusUnsupportedMediaType, "unsupported content type: "+r.Header.Get("Content-Type"))

		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.bodyError(w, err)

		return
	}

	err = apply(body)
	if err != nil {
		h.fail(w, http.StatusUnprocessableEntity, err.Error())

		return
	}

	h.respond(w, http.StatusOK, h.store.All())
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	value, ok := h.store.Export(name)
	if !ok {
		h.fail(w, http.StatusNotFound, "export not found: "+name)

		return
	}

	h.respond(w, http.StatusOK, value)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, http.StatusOK, healthBody{Ready: h.store.Ready()})
}

func (h *handler) bodyError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.fail(w, http.StatusRequestEntityTooLarge, err.Error())

		return
	}

	h.fail(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
}

func (h *handler) fail(w http.ResponseWriter, status int, msg string) {
	h.respond(w, status, errorBody{Error: msg})
}

func (h *handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}
