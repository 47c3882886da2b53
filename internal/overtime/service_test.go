package overtime_test

import (
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rachmanhakim/hr-management/internal/overtime"
)

type mockOvertimeRepository struct {
	requests map[int64]*overtime.OvertimeRequest
	nextID   int64
}

func newMockOvertimeRepository() *mockOvertimeRepository {
	return &mockOvertimeRepository{
		requests: make(map[int64]*overtime.OvertimeRequest),
		nextID:   1,
	}
}

func (m *mockOvertimeRepository) Create(req *overtime.OvertimeRequest) error {
	req.ID = m.nextID
	m.nextID++
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	m.requests[req.ID] = req
	return nil
}

func (m *mockOvertimeRepository) GetByID(id int64) (*overtime.OvertimeRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (m *mockOvertimeRepository) ListByUser(userID int64, limit, offset int) ([]*overtime.OvertimeRequest, error) {
	var out []*overtime.OvertimeRequest
	for _, req := range m.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockOvertimeRepository) ListPending(limit, offset int) ([]*overtime.OvertimeRequest, error) {
	var out []*overtime.OvertimeRequest
	for _, req := range m.requests {
		if req.Status == overtime.StatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *mockOvertimeRepository) Review(id int64, status string, reviewerID int64, note string, reviewedAt time.Time) (bool, error) {
	req, ok := m.requests[id]
	if !ok || req.Status != overtime.StatusPending {
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

func (m *mockOvertimeRepository) SumApprovedHours(userID int64, from, to time.Time) (float64, error) {
	var total float64
	for _, req := range m.requests {
		if req.UserID == userID && req.Status == overtime.StatusApproved &&
			!req.WorkDate.Before(from) && !req.WorkDate.After(to) {
			total += req.Hours
		}
	}
	return total, nil
}

func (m *mockOvertimeRepository) UserEmail(userID int64) (string, error) {
	return "emp@company.com", nil
}

var _ = Describe("OvertimeService", func() {
	var (
		repo    *mockOvertimeRepository
		service *overtime.Service
	)

	validDTO := func() overtime.SubmitOvertimeDTO {
		return overtime.SubmitOvertimeDTO{
			WorkDate: "2026-08-28",
			Hours:    3,
			Reason:   "release deployment",
		}
	}

	BeforeEach(func() {
		repo = newMockOvertimeRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = overtime.NewService(repo, nil, logger)
	})

	Describe("Submit", func() {
		It("creates a pending request", func() {
			req, err := service.Submit(1, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Status).To(Equal(overtime.StatusPending))
			Expect(req.Hours).To(Equal(3.0))
		})

		It("caps hours per request", func() {
			dto := validDTO()
			dto.Hours = 12.5
			_, err := service.Submit(1, dto)
			Expect(err).To(BeAssignableToTypeOf(overtime.ValidationError{}))
		})

		It("allows exactly the cap", func() {
			dto := validDTO()
			dto.Hours = 12
			_, err := service.Submit(1, dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects zero and negative hours", func() {
			dto := validDTO()
			dto.Hours = 0
			_, err := service.Submit(1, dto)
			Expect(err).To(BeAssignableToTypeOf(overtime.ValidationError{}))
		})
	})

	Describe("Review", func() {
		It("approves a pending request once", func() {
			req, _ := service.Submit(1, validDTO())

			approved, err := service.Approve(req.ID, 2, "verified")
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(overtime.StatusApproved))

			_, err = service.Reject(req.ID, 2, "")
			Expect(err).To(Equal(overtime.ErrNotPending))
		})

		It("only approved hours count toward the payroll sum", func() {
			a, _ := service.Submit(1, validDTO())
			b, _ := service.Submit(1, validDTO())
			_, err := service.Approve(a.ID, 2, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Reject(b.ID, 2, "not needed")
			Expect(err).NotTo(HaveOccurred())

			from, _ := time.Parse("2006-01-02", "2026-08-01")
			to, _ := time.Parse("2006-01-02", "2026-08-31")
			total, err := repo.SumApprovedHours(1, from, to)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(3.0))
		})
	})
})
