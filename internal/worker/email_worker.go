package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// Sender delivers one email. *infra.Mailer implements it.
type Sender interface {
	Send(to, subject, body, attachmentPath string) error
}

// EmailWorker sends purchase orders to providers.
type EmailWorker struct {
	sender  Sender
	release func(path string) error
}

func NewEmailWorker(sender Sender) *EmailWorker {
	return &EmailWorker{sender: sender}
}

// WithAttachmentCleanup sets the function that disposes of the attachment
// once the email is delivered. Failed sends keep the file for the retry.
func (w *EmailWorker) WithAttachmentCleanup(release func(path string) error) *EmailWorker {
	w.release = release
	return w
}

// Process is a Handler for JobEmail.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %v: %w", err, ErrPermanent)
	}
	if payload.ToEmail == "" {
		return fmt.Errorf("email_worker: empty to_email: %w", ErrPermanent)
	}
	if err := w.sender.Send(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		return err
	}
	log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: email sent")
	if w.release != nil && payload.PDFPath != "" {
		if err := w.release(payload.PDFPath); err != nil {
			log.Warn().Err(err).Str("path", payload.PDFPath).Msg("email_worker: attachment cleanup failed")
		}
	}
	return nil
}
