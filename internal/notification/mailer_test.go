package notification_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rachmanhakim/hr-management/internal/core/events"
	"github.com/rachmanhakim/hr-management/internal/notification"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []notification.EmailJob
}

func (r *recordingSender) Send(job notification.EmailJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, job)
	return nil
}

func (r *recordingSender) all() []notification.EmailJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.EmailJob, len(r.sent))
	copy(out, r.sent)
	return out
}

var _ = Describe("Mailer", func() {
	var (
		sender *recordingSender
		mailer *notification.Mailer
		logger *slog.Logger
	)

	BeforeEach(func() {
		sender = &recordingSender{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mailer = notification.NewMailer(sender, notification.MailerConfig{MaxWorkers: 2, QueueSize: 10}, logger)
	})

	AfterEach(func() {
		mailer.Shutdown()
	})

	It("delivers enqueued jobs through the pool", func() {
		mailer.Enqueue(notification.EmailJob{To: "a@b.com", Subject: "hi", Body: "body"})
		mailer.Enqueue(notification.EmailJob{To: "c@d.com", Subject: "hi2", Body: "body2"})

		Eventually(func() int { return len(sender.all()) }, time.Second, 10*time.Millisecond).Should(Equal(2))
	})

	It("does not block the caller", func() {
		done := make(chan struct{})
		go func() {
			for i := 0; i < 50; i++ {
				mailer.Enqueue(notification.EmailJob{To: "x@y.com", Subject: "bulk"})
			}
			close(done)
		}()
		Eventually(done, time.Second).Should(BeClosed())
	})
})

var _ = Describe("Subscriber", func() {
	var (
		sender *recordingSender
		mailer *notification.Mailer
		bus    *events.EventBus
	)

	BeforeEach(func() {
		sender = &recordingSender{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mailer = notification.NewMailer(sender, notification.MailerConfig{MaxWorkers: 1, QueueSize: 10}, logger)
		bus = events.NewEventBus(logger)
		notification.NewSubscriber(mailer, "https://hr.example.com", logger).Register(bus)
	})

	AfterEach(func() {
		mailer.Shutdown()
	})

	It("mails the invitee with the accept link on invitation.created", func() {
		event := events.NewInvitationCreatedEvent("new@company.com", "tok123", "employee", time.Now().AddDate(0, 0, 7))
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Eventually(func() []notification.EmailJob { return sender.all() }, time.Second, 10*time.Millisecond).
			Should(HaveLen(1))
		mail := sender.all()[0]
		Expect(mail.To).To(Equal("new@company.com"))
		Expect(mail.Body).To(ContainSubstring("token=tok123"))
		Expect(mail.Body).To(ContainSubstring("employee"))
	})

	It("mails the requester on a leave review", func() {
		event := events.NewLeaveReviewedEvent("emp@company.com", 7, "approved", "enjoy")
		Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

		Eventually(func() []notification.EmailJob { return sender.all() }, time.Second, 10*time.Millisecond).
			Should(HaveLen(1))
		mail := sender.all()[0]
		Expect(mail.Subject).To(ContainSubstring("leave"))
		Expect(mail.Body).To(ContainSubstring("approved"))
		Expect(mail.Body).To(ContainSubstring("enjoy"))
	})
})
