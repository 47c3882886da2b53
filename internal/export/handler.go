package export

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rachmanhakim/hr-management/internal/transport"
	"github.com/rachmanhakim/hr-management/pkg/logger"
)

type ServiceAPI interface {
	Export(dataType, format string, filters Filters) (*Result, error)
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

// Download generates the export and streams it back in one request.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("type")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatCSV
	}

	filters := Filters{
		Status: r.URL.Query().Get("status"),
		Action: r.URL.Query().Get("action"),
	}
	if v := r.URL.Query().Get("department_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.DepartmentID = &id
		}
	}
	filters.UserID, _ = strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.From = &t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.To = &t
		}
	}

	result, err := h.Service.Export(dataType, format, filters)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	http.ServeFile(w, r, result.FilePath)
}
