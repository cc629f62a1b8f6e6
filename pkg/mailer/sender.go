package mailer

import (
	"context"
	"errors"
	"net"
)

// Sender defines the minimal interface that email providers must implement.
// It accepts a fully-prepared Email and handles the actual delivery.
type Sender interface {
	// Send delivers an email message and returns the provider message ID.
	// Implementations make exactly one outbound call and never retry.
	// Errors wrap ErrProvider or ErrNetwork.
	Send(ctx context.Context, email *Email) (string, error)
}

// Verifier is implemented by senders that can check their configuration
// without delivering a message.
type Verifier interface {
	Verify(ctx context.Context) error
}

// NotConfigured returns a Sender whose every call fails with err.
// Use it when provider construction failed at startup so the service can
// still boot and report the misconfiguration on first use.
func NotConfigured(err error) Sender {
	if err == nil {
		err = ErrProviderNotConfigured
	}
	return notConfigured{err: err}
}

type notConfigured struct{ err error }

func (n notConfigured) Send(context.Context, *Email) (string, error) { return "", n.err }
func (n notConfigured) Verify(context.Context) error                { return n.err }

// ClassifyError wraps a provider client error with ErrNetwork when it is a
// transport failure and with ErrProvider otherwise.
// Errors already carrying one of the sentinels are returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrProvider) || errors.Is(err, ErrProviderNotConfigured) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Join(ErrNetwork, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return errors.Join(ErrNetwork, err)
	}
	return errors.Join(ErrProvider, err)
}
