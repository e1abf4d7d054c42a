// Package email defines the outbound notification capability used to deliver
// two-factor codes. Real delivery is an external collaborator; this package
// carries the interface and a logging mock.
package email

import (
	"context"
	"log"

	userdomain "auth-service/internal/user/domain"
)

// Client sends a message to a recipient out of band. A failure aborts the
// login attempt that triggered it.
type Client interface {
	Send(ctx context.Context, recipient userdomain.Email, subject, content string) error
}

// MockClient logs the message instead of delivering it. Used in tests and
// local deployments without a mail provider.
type MockClient struct{}

// Send logs recipient, subject, and content and always succeeds.
func (MockClient) Send(ctx context.Context, recipient userdomain.Email, subject, content string) error {
	log.Printf("sending email to %s with subject %q: %s", recipient, subject, content)
	return nil
}
