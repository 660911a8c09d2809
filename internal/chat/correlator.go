package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avelarde/chatbridge/internal/observability"
	"github.com/avelarde/chatbridge/internal/session"
	"github.com/avelarde/chatbridge/internal/upstream"
)

// Turn is one inbound user message, already normalized by the webhook layer.
type Turn struct {
	UserKey string
	Text    string
}

var errEmptyUserKey = errors.New("chat: empty user key")

// Correlator keeps the upstream conversation thread coherent across turns
// from the same user and orchestrates the single outbound call per turn.
// Turns for the same user key are handled one at a time; different users
// proceed in parallel.
type Correlator struct {
	store   session.Store
	locks   *session.KeyedMutex
	client  upstream.Client
	metrics *observability.Metrics
	timeout time.Duration
}

func NewCorrelator(store session.Store, client upstream.Client, metrics *observability.Metrics, timeout time.Duration) *Correlator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Correlator{
		store:   store,
		locks:   session.NewKeyedMutex(),
		client:  client,
		metrics: metrics,
		timeout: timeout,
	}
}

// HandleTurn resolves the user's session, makes exactly one blocking upstream
// call, and returns the reply text. A failed call never mutates the session;
// an empty answer is a valid outcome mapped to EmptyAnswerMessage, not an
// error.
func (c *Correlator) HandleTurn(ctx context.Context, turn Turn) (string, error) {
	if strings.TrimSpace(turn.UserKey) == "" {
		return "", errEmptyUserKey
	}
	if strings.TrimSpace(turn.Text) == "" {
		// Callers short-circuit blank turns already; keep the guarantee here
		// so an upstream call can never be issued for empty input.
		return PromptMessage, nil
	}

	turnID := uuid.NewString()

	c.locks.Lock(turn.UserKey)
	defer c.locks.Unlock(turn.UserKey)

	sess, _, err := c.store.Get(ctx, turn.UserKey)
	if err != nil {
		c.metrics.TurnsTotal.WithLabelValues("store_error").Inc()
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	res, err := c.client.SendTurn(callCtx, upstream.TurnRequest{
		UserKey:        turn.UserKey,
		Query:          turn.Text,
		ConversationID: sess.ConversationID,
	})
	c.metrics.ObserveUpstreamLatency(time.Since(start))

	if err != nil {
		kind := "unknown"
		var ue *upstream.Error
		if errors.As(err, &ue) {
			kind = string(ue.Kind)
		}
		c.metrics.TurnsTotal.WithLabelValues("error").Inc()
		c.metrics.UpstreamErrors.WithLabelValues(c.client.Provider(), kind).Inc()
		log.Printf("[turn %s] upstream call failed for user %s: %v", turnID, turn.UserKey, err)
		return "", err
	}

	if res.ConversationID != "" && res.ConversationID != sess.ConversationID {
		if err := c.store.SetConversationID(ctx, turn.UserKey, res.ConversationID); err != nil {
			// The answer is good even if the correlation write failed; the
			// next turn simply starts a fresh upstream thread.
			log.Printf("[turn %s] session update failed for user %s: %v", turnID, turn.UserKey, err)
		} else if n, err := c.store.Count(ctx); err == nil {
			c.metrics.TrackedSessions.Set(float64(n))
		}
	}

	answer := strings.TrimSpace(StripDetails(res.Answer))
	if answer == "" {
		c.metrics.TurnsTotal.WithLabelValues("empty").Inc()
		log.Printf("[turn %s] empty answer from %s for user %s", turnID, c.client.Provider(), turn.UserKey)
		return EmptyAnswerMessage, nil
	}

	c.metrics.TurnsTotal.WithLabelValues("ok").Inc()
	return answer, nil
}
