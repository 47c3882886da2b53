package notification

import (
	"context"
	"log/slog"
	"sync"
)

type worker struct {
	id         int
	workerPool chan chan EmailJob
	jobChannel chan EmailJob
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan EmailJob, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan EmailJob),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, process func(EmailJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.workerPool <- w.jobChannel

			select {
			case job := <-w.jobChannel:
				w.logger.Debug("mail worker processing job", "worker_id", w.id, "to", job.To)
				process(job)
			case <-ctx.Done():
				w.logger.Debug("mail worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

// Mailer fans EmailJobs out over a fixed worker pool. Enqueue never blocks
// the caller: a full queue drops the mail with a log line.
type Mailer struct {
	sender Sender
	logger *slog.Logger

	jobQueue   chan EmailJob
	workerPool chan chan EmailJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type MailerConfig struct {
	MaxWorkers int
	QueueSize  int
}

func NewMailer(sender Sender, config MailerConfig, logger *slog.Logger) *Mailer {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	m := &Mailer{
		sender:     sender,
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan EmailJob, queueSize),
		workerPool: make(chan chan EmailJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	m.startWorkerPool()
	return m
}

func (m *Mailer) startWorkerPool() {
	m.once.Do(func() {
		for i := 0; i < m.maxWorkers; i++ {
			w := newWorker(i, m.workerPool, m.logger)
			w.start(m.ctx, &m.wg, m.process)
		}

		m.wg.Add(1)
		go m.dispatch()

		m.logger.Info("mailer worker pool started",
			"max_workers", m.maxWorkers,
			"queue_size", cap(m.jobQueue))
	})
}

func (m *Mailer) dispatch() {
	defer m.wg.Done()

	for {
		select {
		case job := <-m.jobQueue:
			select {
			case jobChannel := <-m.workerPool:
				select {
				case jobChannel <- job:
				case <-m.ctx.Done():
					return
				}
			case <-m.ctx.Done():
				return
			}
		case <-m.ctx.Done():
			return
		}
	}
}

func (m *Mailer) process(job EmailJob) {
	if err := m.sender.Send(job); err != nil {
		m.logger.Error("email delivery failed", "to", job.To, "subject", job.Subject, "error", err)
		return
	}
	m.logger.Info("email sent", "to", job.To, "subject", job.Subject)
}

// Enqueue hands the job to the pool without waiting for delivery.
func (m *Mailer) Enqueue(job EmailJob) {
	select {
	case m.jobQueue <- job:
	default:
		m.logger.Warn("mail queue full, dropping message", "to", job.To, "subject", job.Subject)
	}
}

func (m *Mailer) Shutdown() {
	m.logger.Info("shutting down mailer")
	m.cancel()
	m.wg.Wait()
	m.logger.Info("mailer shutdown complete")
}
