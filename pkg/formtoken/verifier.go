package formtoken

import (
	"context"
	"time"
)

// Verifier validates tokens produced by an Issuer sharing the same secret.
type Verifier struct {
	cfg   Config
	store SingleUseStore
}

// Request is the submission context a token is checked against.
type Request struct {
	Token     string
	Route     string // route the handler is mounted at
	UserAgent string
	Fields    Fields // nil skips the payload binding check
}

// Result is the outcome of a verification. Reason is empty when Valid.
type Result struct {
	Valid  bool
	Reason string

	// JTI and IssuedAt are populated once the token has been parsed.
	JTI      string
	IssuedAt time.Time

	// UserAgentMismatch is advisory: mobile browsers change their UA between
	// render and submit, so a mismatch is reported but never fails the token.
	UserAgentMismatch bool
}

func NewVerifier(cfg Config, store SingleUseStore) (*Verifier, error) {
	cfg, err := cfg.normalise()
	if err != nil {
		return nil, err
	}
	return &Verifier{cfg: cfg, store: store}, nil
}

func fail(reason string, res Result) Result {
	res.Valid = false
	res.Reason = reason
	return res
}

// Verify runs the checks in order and stops at the first failure:
// format, signature, expiry, route, payload binding, single use.
// Only a fully valid token consumes its jti.
func (v *Verifier) Verify(ctx context.Context, req Request) Result {
	if req.Token == "" {
		return fail(ReasonInvalidFormat, Result{})
	}

	tok, err := Parse(req.Token)
	if err != nil {
		return fail(ReasonInvalidFormat, Result{})
	}
	res := Result{JTI: tok.JTI, IssuedAt: tok.IssuedAt}

	if !signatureMatches(v.cfg.Secret, tok.signingInput(), tok.Signature) {
		return fail(ReasonInvalidSignature, res)
	}

	now := v.cfg.Now()
	age := now.Sub(tok.IssuedAt)
	if age > v.cfg.TTL || age < -maxClockSkew {
		return fail(ReasonExpired, res)
	}

	if tok.Route != req.Route {
		return fail(ReasonRouteMismatch, res)
	}

	res.UserAgentMismatch = tok.UserAgent != UserAgentPrefix(req.UserAgent)

	if req.Fields != nil && tok.HasPayload() && HashFields(req.Fields) != tok.PayloadHash {
		return fail(ReasonPayloadMismatch, res)
	}

	if v.store == nil {
		return fail(ReasonJTICheckError, res)
	}
	check, err := v.store.CheckAndMark(ctx, tok.JTI, tok.Route, tok.IssuedAt.Add(v.cfg.TTL))
	if err != nil {
		return fail(ReasonJTICheckError, res)
	}
	if !check.Valid {
		reason := check.Reason
		if reason == "" {
			reason = ReasonReplayed
		}
		return fail(reason, res)
	}

	res.Valid = true
	res.Reason = ""
	return res
}
