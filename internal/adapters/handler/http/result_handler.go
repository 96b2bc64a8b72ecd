package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
)

type ResultHandler struct {
	service ports.ResultService
}

func NewResultHandler(service ports.ResultService) *ResultHandler {
	return &ResultHandler{
		service: service,
	}
}

func (h *ResultHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing result id", http.StatusBadRequest)
		return
	}

	result, err := h.service.GetResult(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	// Other creators' results are reported as missing.
	if _, ok := readableCreator(r.Context(), result.Creator); !ok {
		writeError(w, domain.ErrResultNotFound)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ResultHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	creator, ok := readableCreator(r.Context(), r.URL.Query().Get("creator"))
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		var err error
		page, err = strconv.Atoi(p)
		if err != nil {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
	}

	results, err := h.service.ListResults(r.Context(), ports.ListResultsInput{Creator: creator, Page: page})
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []*domain.PollResult{}
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *ResultHandler) Summary(w http.ResponseWriter, r *http.Request) {
	creator, ok := readableCreator(r.Context(), r.URL.Query().Get("creator"))
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	summary, err := h.service.Summarize(r.Context(), creator)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidResultID), errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrResultNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
