// Package relay posts sanction notifications to a Discord-compatible
// webhook as a single embed.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/sanctionlog/internal/common"
	"github.com/dmitrijs2005/sanctionlog/internal/logging"
	"github.com/dmitrijs2005/sanctionlog/internal/netx"
	"github.com/dmitrijs2005/sanctionlog/internal/server/models"
)

const (
	embedTitle      = "Sanction record"
	emptyValue      = "—"
	noEvidenceValue = "No evidence"
)

// DeliveryError is returned when the webhook could not be reached or
// answered with a non-2xx status. It matches common.ErrWebhookDelivery.
type DeliveryError struct {
	Reason string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s: %s", common.ErrWebhookDelivery, e.Reason)
}

func (e *DeliveryError) Is(target error) bool { return target == common.ErrWebhookDelivery }

func (e *DeliveryError) Unwrap() error { return e.Err }

// Relay sends one POST per sanction. It never retries.
type Relay struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  logging.Logger
	now     func() time.Time
}

// New returns a Relay for url. An empty url yields a disabled relay whose
// Notify always fails with common.ErrWebhookDisabled.
func New(url string, timeout time.Duration, logger logging.Logger) *Relay {
	return &Relay{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With("module", "relay"),
		now:     time.Now,
	}
}

// Enabled reports whether a webhook URL is configured.
func (r *Relay) Enabled() bool { return r.url != "" }

// Notify posts s to the webhook. target is the display form of the
// sanctioned user (it may contain a mention).
func (r *Relay) Notify(ctx context.Context, s *models.Sanction, target string) error {
	if !r.Enabled() {
		return common.ErrWebhookDisabled
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	payload := BuildPayload(s, target, r.now())

	start := time.Now()
	err := netx.PostJSON(ctx, r.client, r.url, payload)
	if err != nil {
		r.logger.Warn(ctx, "webhook delivery failed", "id", s.ID, "error", err, "elapsed", time.Since(start))
		return &DeliveryError{Reason: reason(err), Err: err}
	}

	r.logger.Debug(ctx, "webhook delivered", "id", s.ID, "elapsed", time.Since(start))
	return nil
}

func reason(err error) string {
	var se *netx.StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return err.Error()
}
