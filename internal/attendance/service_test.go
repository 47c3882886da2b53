package attendance_test

import (
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rachmanhakim/hr-management/internal/attendance"
)

type mockAttendanceRepository struct {
	records map[int64]*attendance.Attendance
	nextID  int64
}

func newMockAttendanceRepository() *mockAttendanceRepository {
	return &mockAttendanceRepository{
		records: make(map[int64]*attendance.Attendance),
		nextID:  1,
	}
}

func (m *mockAttendanceRepository) Create(att *attendance.Attendance) error {
	att.ID = m.nextID
	m.nextID++
	att.CreatedAt = time.Now()
	att.UpdatedAt = time.Now()
	m.records[att.ID] = att
	return nil
}

func (m *mockAttendanceRepository) GetOpenByUserAndDate(userID int64, workDate time.Time) (*attendance.Attendance, error) {
	for _, rec := range m.records {
		if rec.UserID == userID && rec.WorkDate.Equal(workDate) && rec.ClockOut == nil {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAttendanceRepository) Close(id int64, clockOut time.Time, notes string) (bool, error) {
	rec, ok := m.records[id]
	if !ok || rec.ClockOut != nil {
		return false, nil
	}
	rec.ClockOut = &clockOut
	if notes != "" {
		rec.Notes = notes
	}
	return true, nil
}

func (m *mockAttendanceRepository) ListByUser(filter attendance.ListFilter) ([]*attendance.Attendance, error) {
	var out []*attendance.Attendance
	for _, rec := range m.records {
		if rec.UserID != filter.UserID {
			continue
		}
		if filter.From != nil && rec.WorkDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && rec.WorkDate.After(*filter.To) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *mockAttendanceRepository) ListAll(filter attendance.ListFilter) ([]*attendance.Attendance, error) {
	var out []*attendance.Attendance
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

var _ = Describe("AttendanceService", func() {
	var (
		repo    *mockAttendanceRepository
		service *attendance.Service
	)

	BeforeEach(func() {
		repo = newMockAttendanceRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = attendance.NewService(repo, logger)
	})

	Describe("ClockIn", func() {
		It("opens a record for today", func() {
			att, err := service.ClockIn(1, attendance.ClockInDTO{Notes: "on site"})
			Expect(err).NotTo(HaveOccurred())
			Expect(att.IsOpen()).To(BeTrue())
			Expect(att.WorkDate.Hour()).To(BeZero())
			Expect(att.Notes).To(Equal("on site"))
		})

		It("refuses a second clock-in while the first is open", func() {
			_, err := service.ClockIn(1, attendance.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ClockIn(1, attendance.ClockInDTO{})
			Expect(err).To(Equal(attendance.ErrAlreadyClockedIn))
		})

		It("keeps users independent", func() {
			_, err := service.ClockIn(1, attendance.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ClockIn(2, attendance.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ClockOut", func() {
		It("closes the open record", func() {
			_, err := service.ClockIn(1, attendance.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())

			att, err := service.ClockOut(1, attendance.ClockOutDTO{Notes: "done"})
			Expect(err).NotTo(HaveOccurred())
			Expect(att.IsOpen()).To(BeFalse())
			Expect(att.Notes).To(Equal("done"))
		})

		It("fails without an open record", func() {
			_, err := service.ClockOut(1, attendance.ClockOutDTO{})
			Expect(err).To(Equal(attendance.ErrNotClockedIn))
		})

		It("fails on a doubled clock-out", func() {
			_, err := service.ClockIn(1, attendance.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ClockOut(1, attendance.ClockOutDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ClockOut(1, attendance.ClockOutDTO{})
			Expect(err).To(Equal(attendance.ErrNotClockedIn))
		})

		It("allows clocking in again after closing the day", func() {
			_, err := service.ClockIn(1, attendance.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ClockOut(1, attendance.ClockOutDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ClockIn(1, attendance.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ListOwn", func() {
		It("returns only the user's records", func() {
			_, err := service.ClockIn(1, attendance.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ClockIn(2, attendance.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())

			records, err := service.ListOwn(1, nil, nil, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].UserID).To(Equal(int64(1)))
		})
	})
})
