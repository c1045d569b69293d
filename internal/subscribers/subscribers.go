// Package subscribers implements the newsletter sign-up flow.
package subscribers

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/alsafar-partners/legal-web/internal/cms"
)

// Locale keys for the messages shown under the form.
const (
	MessageSuccess       = "footer.subscribeSuccess"
	MessageAlready       = "footer.subscribeError"
	MessageEmailRequired = "footer.emailRequired"
	MessageEmailInvalid  = "footer.emailInvalid"
)

var (
	ErrEmailRequired     = errors.New("subscribers: email is required")
	ErrEmailInvalid      = errors.New("subscribers: invalid email address")
	ErrAlreadySubscribed = errors.New("subscribers: email already subscribed")
)

// MessageKey maps a Subscribe error to the locale key shown to the visitor.
func MessageKey(err error) string {
	switch {
	case err == nil:
		return MessageSuccess
	case errors.Is(err, ErrEmailRequired):
		return MessageEmailRequired
	case errors.Is(err, ErrEmailInvalid):
		return MessageEmailInvalid
	default:
		return MessageAlready
	}
}

// Remote submits a subscription to the CMS. A nil envelope means it did not get through.
type Remote interface {
	Subscribe(ctx context.Context, email string) (*cms.Envelope, error)
}

// Outcome describes an accepted subscription.
type Outcome struct {
	Email string
	// Persisted is set when the CMS was unreachable and the email was recorded locally instead.
	Persisted bool
	// Cause explains why the CMS submission failed, when it did.
	Cause error
}

// Service validates, de-duplicates and submits subscriptions.
type Service struct {
	remote Remote
	store  *Store
	logger *zap.Logger
}

// NewService constructs a Service. store may be nil, in which case nothing is persisted.
func NewService(remote Remote, store *Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{remote: remote, store: store, logger: logger}
}

// Subscribe validates email and rejects addresses already in submitted or the persisted list
// before any network call. A CMS failure is still reported as success: the email is recorded
// locally and Outcome.Persisted is set.
func (s *Service) Subscribe(ctx context.Context, email string, submitted []string) (Outcome, error) {
	email, err := Validate(email)
	if err != nil {
		return Outcome{}, err
	}
	if containsFold(submitted, email) {
		return Outcome{}, ErrAlreadySubscribed
	}
	if s.store != nil {
		known, err := s.store.Contains(email)
		if err != nil {
			s.logger.Warn("subscriber list unreadable", zap.Error(err))
		} else if known {
			return Outcome{}, ErrAlreadySubscribed
		}
	}

	out := Outcome{Email: email}
	var env *cms.Envelope
	if s.remote != nil {
		env, out.Cause = s.remote.Subscribe(ctx, email)
	} else {
		out.Cause = cms.ErrNotConfigured
	}
	if env != nil {
		out.Cause = nil
		s.logger.Info("subscriber created")
		return out, nil
	}

	if s.store != nil {
		if err := s.store.Append(email); err != nil {
			s.logger.Error("persist subscriber failed", zap.Error(err))
			return out, nil
		}
		out.Persisted = true
	}
	s.logger.Warn("subscription not delivered to cms, recorded locally", zap.Bool("persisted", out.Persisted), zap.Error(out.Cause))
	return out, nil
}

// Validate trims email and checks it is a single bare RFC 5322 address.
func Validate(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", ErrEmailInvalid
	}
	return email, nil
}
