package payroll

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/rachmanhakim/hr-management/internal/transport"
	"github.com/rachmanhakim/hr-management/pkg/logger"
)

type ServiceAPI interface {
	Generate(dto GeneratePayrollDTO) (*Payroll, error)
	GetByID(id int64) (*Payroll, error)
	List(filter ListFilter) ([]*Payroll, error)
	Finalize(id int64) (*Payroll, error)
	MarkPaid(id int64) (*Payroll, error)
	IssuePayslip(payrollID int64) (*Payslip, error)
	PayslipFile(payrollID int64) (*Payslip, error)
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

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var dto GeneratePayrollDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Generate(dto)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	p, err := h.Service.GetByID(id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Status: r.URL.Query().Get("status")}
	filter.PeriodYear, _ = strconv.Atoi(r.URL.Query().Get("year"))
	filter.PeriodMonth, _ = strconv.Atoi(r.URL.Query().Get("month"))
	filter.UserID, _ = strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	payrolls, err := h.Service.List(filter)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"payrolls": payrolls})
}

func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.Service.Finalize)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.Service.MarkPaid)
}

func (h *Handler) statusAction(w http.ResponseWriter, r *http.Request, action func(id int64) (*Payroll, error)) {
	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	p, err := action(id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) IssuePayslip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	slip, err := h.Service.IssuePayslip(id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, slip)
}

func (h *Handler) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid payroll id")
		return
	}

	slip, err := h.Service.PayslipFile(id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+slip.PayslipNumber+`.pdf"`)
	http.ServeFile(w, r, slip.PDFPath)
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	if vErr, ok := err.(ValidationError); ok {
		h.WriteError(w, http.StatusBadRequest, vErr.Error())
		return
	}
	h.HandleServiceError(w, err)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
