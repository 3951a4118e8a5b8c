package access

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockstream7000-backend/internal/deliver"
	"github.com/goodnatureofminers/blockstream7000-backend/internal/subject"
	"golang.org/x/time/rate"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// Not allowed.
var (
	ErrScopeDenied     = errors.New("scope does not permit this subscription")
	ErrHistoricalLimit = errors.New("requested height is beyond the historical limit")
	ErrPatternTooBroad = errors.New("subject pattern is too broad")
)

// Too many right now.
var (
	ErrRateLimited          = errors.New("rate limit exceeded")
	ErrTooManySubscriptions = errors.New("too many concurrent subscriptions")
)

type (
	// Metrics counts gate decisions.
	Metrics interface {
		ObserveDecision(check string, err error)
	}
)

// pruneInterval is also the time a drained rate limiter needs to refill.
const pruneInterval = time.Minute

// Gate authorizes subscriptions and tracks per-credential usage.
type Gate struct {
	metrics Metrics
	now     func() time.Time

	mu        sync.Mutex
	usage     map[string]*usage
	lastPrune time.Time
}

type usage struct {
	limiter *rate.Limiter
	active  int
}

// NewGate builds a gate reporting to metrics.
func NewGate(metrics Metrics) (*Gate, error) {
	if metrics == nil {
		return nil, errors.New("gate metrics is required")
	}
	return &Gate{metrics: metrics, now: time.Now, usage: make(map[string]*usage)}, nil
}

// Authorize checks scope and pattern breadth for the policy.
func (g *Gate) Authorize(cred Credential, policy deliver.Policy, subj *subject.Subject) (err error) {
	defer func() {
		g.metrics.ObserveDecision("authorize", err)
	}()

	switch {
	case policy.IsHistorical() && !cred.Has(HistoricalData):
		return fmt.Errorf("%s requires %s: %w", policy, HistoricalData, ErrScopeDenied)
	case !policy.IsHistorical() && !cred.Has(LiveData):
		return fmt.Errorf("%s requires %s: %w", policy, LiveData, ErrScopeDenied)
	}

	if limit := cred.Limits.MaxOpenFields; limit > 0 && subj.Open() > limit {
		return fmt.Errorf("%s leaves %d fields open, limit %d: %w", subj.Wildcard(), subj.Open(), limit, ErrPatternTooBroad)
	}
	return nil
}

// CheckLookback verifies a replay does not reach further back than the credential allows.
func (g *Gate) CheckLookback(cred Credential, policy deliver.Policy, nowHeight uint64) (err error) {
	defer func() {
		g.metrics.ObserveDecision("lookback", err)
	}()

	height, ok := policy.Height()
	limit := cred.Limits.HistoricalLimit
	if !ok || limit == 0 || height >= nowHeight {
		return nil
	}
	if nowHeight-height > limit {
		return fmt.Errorf("from %d at height %d exceeds %d blocks: %w", height, nowHeight, limit, ErrHistoricalLimit)
	}
	return nil
}

// Acquire reserves one subscription slot. The returned release is safe to call more than once.
func (g *Gate) Acquire(cred Credential) (release func(), err error) {
	defer func() {
		g.metrics.ObserveDecision("acquire", err)
	}()

	key := cred.Identity()
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	u := g.entry(cred, now)
	if limit := cred.Limits.MaxSubscriptions; limit > 0 && u.active >= limit {
		return nil, fmt.Errorf("%s has %d active: %w", key, u.active, ErrTooManySubscriptions)
	}
	if !u.limiter.AllowN(now, 1) {
		return nil, fmt.Errorf("%s: %w", key, ErrRateLimited)
	}
	u.active++

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			u.active--
		})
	}, nil
}

// AuthorizeQuery checks a one-shot historical query and spends one rate token on it.
func (g *Gate) AuthorizeQuery(cred Credential, subj *subject.Subject) (err error) {
	defer func() {
		g.metrics.ObserveDecision("query", err)
	}()

	if !cred.Has(RestAPI) {
		return fmt.Errorf("queries require %s: %w", RestAPI, ErrScopeDenied)
	}
	if limit := cred.Limits.MaxOpenFields; limit > 0 && subj.Open() > limit {
		return fmt.Errorf("%s leaves %d fields open, limit %d: %w", subj.Wildcard(), subj.Open(), limit, ErrPatternTooBroad)
	}

	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.entry(cred, now).limiter.AllowN(now, 1) {
		return fmt.Errorf("%s: %w", cred.Identity(), ErrRateLimited)
	}
	return nil
}

// Active returns the number of open subscriptions of the credential.
func (g *Gate) Active(cred Credential) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if u, ok := g.usage[cred.Identity()]; ok {
		return u.active
	}
	return 0
}

// entry returns the usage of cred, creating it on first sight. g.mu must be held.
func (g *Gate) entry(cred Credential, now time.Time) *usage {
	g.prune(now)

	key := cred.Identity()
	u, ok := g.usage[key]
	if !ok {
		u = &usage{limiter: newLimiter(cred.Limits.RatePerMinute)}
		g.usage[key] = u
	}
	return u
}

// prune drops idle credentials whose limiter has refilled. g.mu must be held.
func (g *Gate) prune(now time.Time) {
	if now.Sub(g.lastPrune) < pruneInterval {
		return
	}
	g.lastPrune = now
	for key, u := range g.usage {
		if u.active > 0 {
			continue
		}
		if u.limiter.Limit() == rate.Inf || u.limiter.TokensAt(now) >= float64(u.limiter.Burst()) {
			delete(g.usage, key)
		}
	}
}

// IsDenied reports whether err means the request is not allowed at all.
func IsDenied(err error) bool {
	return errors.Is(err, ErrScopeDenied) || errors.Is(err, ErrHistoricalLimit) || errors.Is(err, ErrPatternTooBroad)
}

// IsThrottled reports whether err means the request may succeed later.
func IsThrottled(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTooManySubscriptions)
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
}
