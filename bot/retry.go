package bot

import (
	"context"
	"errors"
	"time"

	"github.com/Brawl345/invitebot/model"
	"github.com/avast/retry-go/v4"
)

type RetryOpts struct {
	Attempts uint
	Delay    time.Duration
}

func (o RetryOpts) options(ctx context.Context, op string) []retry.Option {
	attempts := o.Attempts
	if attempts == 0 {
		attempts = 1
	}

	var delayType retry.DelayTypeFunc = retry.BackOffDelay
	jitter := o.Delay / 5
	if jitter > 0 {
		delayType = retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)
	}

	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(o.Delay),
		retry.MaxJitter(jitter),
		retry.DelayType(delayType),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Str("op", op).Msg("Retrying store operation")
		}),
	}
}

// Only storage failures are worth another try, a timed out or canceled
// command must give up.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return model.IsStorageError(err)
}

// retryingUserService retries all calls, they are idempotent.
type retryingUserService struct {
	model.AuthorizedUserService
	opts RetryOpts
}

func NewRetryingUserService(service model.AuthorizedUserService, opts RetryOpts) model.AuthorizedUserService {
	return &retryingUserService{AuthorizedUserService: service, opts: opts}
}

func (s *retryingUserService) Add(ctx context.Context, userID int64) (bool, error) {
	return retry.DoWithData(func() (bool, error) {
		return s.AuthorizedUserService.Add(ctx, userID)
	}, s.opts.options(ctx, "add authorized user")...)
}

func (s *retryingUserService) Remove(ctx context.Context, userID int64) (bool, error) {
	return retry.DoWithData(func() (bool, error) {
		return s.AuthorizedUserService.Remove(ctx, userID)
	}, s.opts.options(ctx, "remove authorized user")...)
}

func (s *retryingUserService) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	return retry.DoWithData(func() (bool, error) {
		return s.AuthorizedUserService.IsAuthorized(ctx, userID)
	}, s.opts.options(ctx, "check authorized user")...)
}

func (s *retryingUserService) List(ctx context.Context) ([]int64, error) {
	return retry.DoWithData(func() ([]int64, error) {
		return s.AuthorizedUserService.List(ctx)
	}, s.opts.options(ctx, "list authorized users")...)
}

// retryingLinkService only retries reads. Add has no idempotency key, a
// retry could store the same submission twice.
type retryingLinkService struct {
	model.InviteLinkService
	opts RetryOpts
}

func NewRetryingLinkService(service model.InviteLinkService, opts RetryOpts) model.InviteLinkService {
	return &retryingLinkService{InviteLinkService: service, opts: opts}
}

func (s *retryingLinkService) List(ctx context.Context) ([]model.InviteLink, error) {
	return retry.DoWithData(func() ([]model.InviteLink, error) {
		return s.InviteLinkService.List(ctx)
	}, s.opts.options(ctx, "list invite links")...)
}
