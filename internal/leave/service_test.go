package leave_test

import (
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rachmanhakim/hr-management/internal/leave"
)

type mockLeaveRepository struct {
	requests map[int64]*leave.LeaveRequest
	emails   map[int64]string
	nextID   int64
}

func newMockLeaveRepository() *mockLeaveRepository {
	return &mockLeaveRepository{
		requests: make(map[int64]*leave.LeaveRequest),
		emails:   map[int64]string{1: "emp@company.com"},
		nextID:   1,
	}
}

func (m *mockLeaveRepository) Create(req *leave.LeaveRequest) error {
	req.ID = m.nextID
	m.nextID++
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	m.requests[req.ID] = req
	return nil
}

func (m *mockLeaveRepository) GetByID(id int64) (*leave.LeaveRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (m *mockLeaveRepository) ListByUser(userID int64, limit, offset int) ([]*leave.LeaveRequest, error) {
	var out []*leave.LeaveRequest
	for _, req := range m.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockLeaveRepository) ListPending(limit, offset int) ([]*leave.LeaveRequest, error) {
	var out []*leave.LeaveRequest
	for _, req := range m.requests {
		if req.Status == leave.StatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockLeaveRepository) Review(id int64, status string, reviewerID int64, note string, reviewedAt time.Time) (bool, error) {
	req, ok := m.requests[id]
	if !ok || req.Status != leave.StatusPending {
		return false, nil
	}
	req.Status = status
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &reviewedAt
	if note != "" {
		req.ReviewNote = &note
	}
	return true, nil
}

func (m *mockLeaveRepository) UserEmail(userID int64) (string, error) {
	return m.emails[userID], nil
}

var _ = Describe("LeaveService", func() {
	var (
		repo    *mockLeaveRepository
		service *leave.Service
	)

	validDTO := func() leave.SubmitLeaveDTO {
		return leave.SubmitLeaveDTO{
			LeaveType: leave.TypeAnnual,
			StartDate: "2026-09-07",
			EndDate:   "2026-09-09",
			Reason:    "family event",
		}
	}

	BeforeEach(func() {
		repo = newMockLeaveRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = leave.NewService(repo, nil, logger)
	})

	Describe("Submit", func() {
		It("creates a pending request spanning the given days", func() {
			req, err := service.Submit(1, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(leave.StatusPending))
			Expect(req.Days()).To(Equal(3))
		})

		It("rejects an end date before the start date", func() {
			dto := validDTO()
			dto.EndDate = "2026-09-01"
			_, err := service.Submit(1, dto)
			Expect(err).To(BeAssignableToTypeOf(leave.ValidationError{}))
		})

		It("rejects an unknown leave type", func() {
			dto := validDTO()
			dto.LeaveType = "sabbatical"
			_, err := service.Submit(1, dto)
			Expect(err).To(BeAssignableToTypeOf(leave.ValidationError{}))
		})
	})

	Describe("Approve", func() {
		It("records the reviewer and note", func() {
			req, _ := service.Submit(1, validDTO())

			approved, err := service.Approve(req.ID, 2, "enjoy")
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(leave.StatusApproved))
			Expect(*approved.ReviewedBy).To(Equal(int64(2)))
			Expect(*approved.ReviewNote).To(Equal("enjoy"))
			Expect(approved.ReviewedAt).NotTo(BeNil())
		})

		It("refuses to approve twice", func() {
			req, _ := service.Submit(1, validDTO())
			_, err := service.Approve(req.ID, 2, "")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Approve(req.ID, 3, "")
			Expect(err).To(Equal(leave.ErrNotPending))
		})

		It("refuses to approve a rejected request", func() {
			req, _ := service.Submit(1, validDTO())
			_, err := service.Reject(req.ID, 2, "short staffed")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Approve(req.ID, 3, "")
			Expect(err).To(Equal(leave.ErrNotPending))
		})

		It("returns not found for an unknown request", func() {
			_, err := service.Approve(99, 2, "")
			Expect(err).To(Equal(leave.ErrRequestNotFound))
		})
	})

	Describe("ListPending", func() {
		It("excludes reviewed requests", func() {
			a, _ := service.Submit(1, validDTO())
			_, err := service.Submit(1, validDTO())
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Approve(a.ID, 2, "")
			Expect(err).NotTo(HaveOccurred())

			pending, err := service.ListPending(0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
		})
	})
})
