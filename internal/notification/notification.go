package notification

// EmailJob is one outbound message. Sends are fire-and-forget: a failed job
// is logged and dropped, never retried into the request path.
type EmailJob struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message.
type Sender interface {
	Send(job EmailJob) error
}
