package activity

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rachmanhakim/hr-management/internal/transport"
	"github.com/rachmanhakim/hr-management/pkg/logger"
)

type ServiceAPI interface {
	List(filter ListFilter) ([]*ActivityLog, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Action: r.URL.Query().Get("action"),
		Entity: r.URL.Query().Get("entity"),
	}
	filter.UserID, _ = strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.From = &t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.To = &t
		}
	}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.Service.List(filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"activities": entries})
}
