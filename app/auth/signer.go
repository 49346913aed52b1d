package auth

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// HeaderSource produces the headers an outgoing API call must carry.
type HeaderSource interface {
	SignedHeaders(ctx context.Context, method, rawURL string, body []byte) (http.Header, error)
}

// Signer signs requests with SigV4 under a fixed service and region scope.
type Signer struct {
	creds   aws.CredentialsProvider
	signer  *v4.Signer
	region  string
	service string
	now     func() time.Time
}

// NewSigner creates a Signer drawing credentials from creds.
func NewSigner(creds aws.CredentialsProvider, region, service string) *Signer {
	return &Signer{
		creds:   creds,
		signer:  v4.NewSigner(),
		region:  region,
		service: service,
		now:     time.Now,
	}
}

// SignedHeaders returns the header set for a call to rawURL. The caller
// attaches it verbatim to the request it sends with the same method, URL
// and body.
func (s *Signer) SignedHeaders(ctx context.Context, method, rawURL string, body []byte) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, authError("build request to sign", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := s.Sign(ctx, req, body); err != nil {
		return nil, err
	}
	return req.Header.Clone(), nil
}

// Sign adds SigV4 headers to req, whose body must equal body.
func (s *Signer) Sign(ctx context.Context, req *http.Request, body []byte) error {
	creds, err := s.creds.Retrieve(ctx)
	if err != nil {
		return err
	}

	sum := sha256.Sum256(body)
	payloadHash := hex.EncodeToString(sum[:])
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)

	if err := s.signer.SignHTTP(ctx, creds, req, payloadHash, s.service, s.region, s.now().UTC()); err != nil {
		return authError("sign request", err)
	}
	return nil
}

// Unsigned is the HeaderSource for a development server, which checks
// nothing.
type Unsigned struct{}

// SignedHeaders returns only the content type.
func (Unsigned) SignedHeaders(context.Context, string, string, []byte) (http.Header, error) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h, nil
}
