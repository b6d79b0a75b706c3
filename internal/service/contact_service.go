package service

import (
	"context"
	"strings"

	"devfolio/internal/domain"
)

// Notifier delivers a contact form submission to the site owner.
type Notifier interface {
	Notify(ctx context.Context, msg domain.ContactMessage) error
}

type ContactService interface {
	Submit(ctx context.Context, msg domain.ContactMessage) error
}

type contactService struct {
	notifier Notifier
}

func NewContactService(notifier Notifier) ContactService {
	return &contactService{notifier: notifier}
}

func (s *contactService) Submit(ctx context.Context, msg domain.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.ProjectType = strings.TrimSpace(msg.ProjectType)

	verr := &domain.ValidationError{}
	requireText(verr, "name", msg.Name)
	requireText(verr, "email", msg.Email)
	requireText(verr, "message", msg.Message)
	if err := verr.OrNil(); err != nil {
		return err
	}

	return domain.Upstream("send contact message", s.notifier.Notify(ctx, msg))
}
