// Package transport converts an asynchronous remote call into the
// script-injection request/callback cycle the remote endpoint requires. The
// endpoint only answers callback-wrapped GET requests, not arbitrary CORS, so
// every call serializes its parameters into a query string, registers a
// one-shot callback identifier, and settles on whichever of the delivered
// callback, a transport failure, or the timeout fires first.
package transport

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	apperrors "github.com/misexecutive/minda-corp/internal/errors"
)

const (
	// DefaultTimeout bounds a call when no explicit budget is configured.
	DefaultTimeout = 20 * time.Second

	callbackPrefix   = "mindacorp_jsonp"
	maxResponseBytes = 4 << 20
)

// Params maps query keys to primitive values. Nil values are omitted from the
// serialized query string entirely rather than being sent as "null".
type Params map[string]any

// Bridge owns the pending-callback registry and issues calls against a single
// configured base endpoint. Calls may overlap arbitrarily; each carries an
// independent callback identifier and timer. The registry is the only shared
// mutable state and is guarded for multi-goroutine use.
type Bridge struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration

	counter atomic.Uint64

	mu      sync.Mutex
	pending map[string]chan json.RawMessage
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithHTTPClient replaces the HTTP client used for script fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(b *Bridge) {
		b.client = client
	}
}

// WithTimeout sets the per-call settlement budget.
func WithTimeout(timeout time.Duration) Option {
	return func(b *Bridge) {
		if timeout > 0 {
			b.timeout = timeout
		}
	}
}

// New creates a Bridge for the given base endpoint. An empty endpoint is
// tolerated here and rejected on the first call, mirroring the configuration
// contract: absence surfaces on first request attempt, not at startup.
func New(endpoint string, options ...Option) *Bridge {
	b := &Bridge{
		endpoint: endpoint,
		client:   http.DefaultClient,
		timeout:  DefaultTimeout,
		pending:  make(map[string]chan json.RawMessage),
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Call issues one request and blocks until settlement. Exactly one of four
// events settles the call: the endpoint invokes the registered callback, the
// transport fails, the timeout elapses, or ctx is cancelled. Whichever fires
// first wins; the rest become no-ops. The registry entry and the in-flight
// fetch are released on every settlement path.
func (b *Bridge) Call(ctx context.Context, params Params) (json.RawMessage, error) {
	if strings.TrimSpace(b.endpoint) == "" {
		return nil, apperrors.ErrConfiguration
	}

	callbackName, err := b.nextCallbackName()
	if err != nil {
		return nil, errors.Wrap(err, "[Bridge.Call] callback name generation")
	}

	requestURL := b.buildURL(callbackName, params)

	delivered := b.register(callbackName)
	defer b.deregister(callbackName)

	// Cancelling fetchCtx on settlement is the analogue of removing the
	// injected script element: the in-flight fetch is abandoned.
	fetchCtx, cancelFetch := context.WithCancel(ctx)
	defer cancelFetch()

	fetchErr := make(chan error, 1)
	go func() {
		fetchErr <- b.fetch(fetchCtx, requestURL)
	}()

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case raw := <-delivered:
		return raw, nil
	case err := <-fetchErr:
		if err != nil {
			return nil, errors.Wrap(apperrors.ErrNetwork, err.Error())
		}
		// The script loaded but never invoked our callback. Wait out the
		// remaining budget in case the response was dispatched concurrently.
		select {
		case raw := <-delivered:
			return raw, nil
		case <-timer.C:
			return nil, apperrors.ErrTimeout
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	case <-timer.C:
		return nil, apperrors.ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// PendingCalls reports the number of registered in-flight callbacks. A settled
// call must no longer be counted; anything else is a registry leak.
func (b *Bridge) PendingCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Bridge) nextCallbackName() (string, error) {
	random := make([]byte, 4)
	if _, err := rand.Read(random); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%d_%s", callbackPrefix, b.counter.Add(1), hex.EncodeToString(random)), nil
}

func (b *Bridge) buildURL(callbackName string, params Params) string {
	query := url.Values{}
	for key, value := range params {
		if value == nil {
			continue
		}
		query.Set(key, fmt.Sprint(value))
	}
	query.Set("callback", callbackName)

	separator := "?"
	if strings.Contains(b.endpoint, "?") {
		separator = "&"
	}
	return b.endpoint + separator + query.Encode()
}

func (b *Bridge) register(callbackName string) chan json.RawMessage {
	ch := make(chan json.RawMessage, 1)
	b.mu.Lock()
	b.pending[callbackName] = ch
	b.mu.Unlock()
	return ch
}

func (b *Bridge) deregister(callbackName string) {
	b.mu.Lock()
	delete(b.pending, callbackName)
	b.mu.Unlock()
}

// dispatch hands a response to whichever call registered the invoked
// identifier. Responses for unknown identifiers are stale (their call already
// settled) and are always safe to discard.
func (b *Bridge) dispatch(callbackName string, raw json.RawMessage) {
	b.mu.Lock()
	ch, ok := b.pending[callbackName]
	b.mu.Unlock()
	if !ok {
		log.Debug().Str("callback", callbackName).Msg("discarding stale response")
		return
	}
	select {
	case ch <- raw:
	default:
	}
}

func (b *Bridge) fetch(ctx context.Context, requestURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return errors.Wrap(err, "[Bridge.fetch] build request")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "[Bridge.fetch] request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Wrap(err, "[Bridge.fetch] read body")
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("[Bridge.fetch] unexpected status %d", resp.StatusCode)
	}

	callbackName, raw, err := parseScript(string(body))
	if err != nil {
		return errors.Wrap(err, "[Bridge.fetch] parse response")
	}

	b.dispatch(callbackName, raw)
	return nil
}

// parseScript extracts the invoked identifier and its JSON argument from a
// script body of the form `identifier(<json>);`, tolerating comment padding
// and a trailing semicolon.
func parseScript(body string) (string, json.RawMessage, error) {
	trimmed := strings.TrimSpace(body)
	trimmed = strings.TrimPrefix(trimmed, "/**/")
	trimmed = strings.TrimSpace(trimmed)

	open := strings.Index(trimmed, "(")
	closing := strings.LastIndex(trimmed, ")")
	if open <= 0 || closing < open {
		return "", nil, errors.New("response is not a callback invocation")
	}

	name := strings.TrimSpace(trimmed[:open])
	if !isCallbackIdentifier(name) {
		return "", nil, errors.Errorf("invalid callback identifier %q", name)
	}

	payload := strings.TrimSpace(trimmed[open+1 : closing])
	if !json.Valid([]byte(payload)) {
		return "", nil, errors.New("callback argument is not valid JSON")
	}

	return name, json.RawMessage(payload), nil
}

func isCallbackIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
