package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"golang.org/x/sync/singleflight"
)

// DefaultExpiryWindow is how long before expiry cached credentials are
// replaced, so a request is never signed with credentials about to lapse.
const DefaultExpiryWindow = time.Minute

// RefreshTimeout bounds one shared refresh, independent of any caller.
const RefreshTimeout = 30 * time.Second

// Credentials is the credential context handed to every API-calling
// function. It caches temporary credentials and refreshes them at most once
// at a time, however many callers find them expired.
type Credentials struct {
	sessions  SessionStore
	provider  IdentityProvider
	exchanger CredentialExchanger
	window    time.Duration
	now       func() time.Time

	mu      sync.Mutex
	current aws.Credentials
	flight  singleflight.Group
}

var _ aws.CredentialsProvider = (*Credentials)(nil)

// NewCredentials builds the credential context. provider may be nil, in
// which case an expired session cannot be renewed.
func NewCredentials(sessions SessionStore, provider IdentityProvider, exchanger CredentialExchanger) *Credentials {
	return &Credentials{
		sessions:  sessions,
		provider:  provider,
		exchanger: exchanger,
		window:    DefaultExpiryWindow,
		now:       time.Now,
	}
}

// Retrieve returns usable temporary credentials, exchanging the current
// session for new ones when the cached set is missing or expiring. A caller
// whose ctx ends stops waiting; the shared refresh keeps running for the
// others.
func (c *Credentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	if creds, ok := c.cached(); ok {
		return creds, nil
	}

	ch := c.flight.DoChan("refresh", func() (any, error) {
		// another flight may have finished between the check and DoChan
		if creds, ok := c.cached(); ok {
			return creds, nil
		}
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RefreshTimeout)
		defer cancel()
		creds, err := c.refresh(flightCtx)
		if err != nil {
			return aws.Credentials{}, err
		}
		c.mu.Lock()
		c.current = creds
		c.mu.Unlock()
		return creds, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return aws.Credentials{}, res.Err
		}
		return res.Val.(aws.Credentials), nil
	case <-ctx.Done():
		return aws.Credentials{}, ctx.Err()
	}
}

// Invalidate drops the cached credentials, e.g. on sign-out.
func (c *Credentials) Invalidate() {
	c.mu.Lock()
	c.current = aws.Credentials{}
	c.mu.Unlock()
}

func (c *Credentials) cached() (aws.Credentials, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current.HasKeys() {
		return aws.Credentials{}, false
	}
	if c.current.CanExpire && !c.now().Add(c.window).Before(c.current.Expires) {
		return aws.Credentials{}, false
	}
	return c.current, true
}

func (c *Credentials) refresh(ctx context.Context) (aws.Credentials, error) {
	session, err := c.sessions.Load()
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return aws.Credentials{}, authError("no session", ErrNotAuthenticated)
		}
		return aws.Credentials{}, authError("load session", err)
	}

	if !session.Valid(c.now()) {
		if session.RefreshToken == "" || c.provider == nil {
			return aws.Credentials{}, authError("cannot renew session", ErrSessionExpired)
		}
		renewed, err := c.provider.Refresh(ctx, session.RefreshToken)
		if err != nil {
			return aws.Credentials{}, err
		}
		if renewed.RefreshToken == "" {
			renewed.RefreshToken = session.RefreshToken
		}
		if err := c.sessions.Save(renewed); err != nil {
			return aws.Credentials{}, authError("save renewed session", err)
		}
		session = renewed
	}

	creds, err := c.exchanger.Exchange(ctx, session.IDToken)
	if err != nil {
		return aws.Credentials{}, authError("credential exchange failed", err)
	}
	if !creds.HasKeys() {
		return aws.Credentials{}, authError("credential exchange returned no keys", nil)
	}
	return creds, nil
}
