package relay

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
)

// AuthState is a state of the authentication pipeline.
type AuthState string

const (
	StateStart                    AuthState = "start"
	StateIPChecked                AuthState = "ip_checked"
	StateCredentialChecked        AuthState = "credential_checked"
	StateRejectedIP               AuthState = "rejected_ip"
	StateRejectedConfig           AuthState = "rejected_config"
	StateRejectedMissingSignature AuthState = "rejected_missing_signature"
	StateRejectedSignature        AuthState = "rejected_signature"
	StateAuthenticated            AuthState = "authenticated"
)

// Status maps a terminal state to its HTTP status code. Non-terminal states map to 0.
func (s AuthState) Status() int {
	switch s {
	case StateAuthenticated:
		return http.StatusOK
	case StateRejectedMissingSignature:
		return http.StatusUnauthorized
	case StateRejectedIP, StateRejectedSignature:
		return http.StatusForbidden
	case StateRejectedConfig:
		return http.StatusInternalServerError
	default:
		return 0
	}
}

// AuthConfig is the raw, process-wide authentication configuration.
type AuthConfig struct {
	Environment  Environment
	PermittedIPs []string
	// PublicKey is the base64 DER SPKI verification key. Required.
	PublicKey string
	// PrivateKey is an optional base64 DER PKCS #8 key, only honoured in development
	// to log the signature the server expects for each body.
	PrivateKey string
}

// Credentials is the imported, immutable form of AuthConfig.
type Credentials struct {
	env          Environment
	permittedIPs []string
	publicKey    *VerificationKey
	keyErr       error
	signingKey   *SigningKey
}

// NewCredentials imports the configured keys. Import failures are kept rather than
// returned so that requests fail with a configuration error instead of the process
// refusing to start; use Err to surface them at startup.
func NewCredentials(cfg AuthConfig) *Credentials {
	c := &Credentials{
		env:          cfg.Environment,
		permittedIPs: slices.Clone(cfg.PermittedIPs),
	}

	if cfg.PublicKey == "" {
		c.keyErr = &KeyImportError{Kind: "public", Err: errors.New("public key is not configured")}
	} else {
		c.publicKey, c.keyErr = ImportPublicKey(cfg.PublicKey)
	}

	if cfg.PrivateKey != "" && cfg.Environment == EnvDevelopment {
		key, err := ImportPrivateKey(cfg.PrivateKey)
		if err != nil {
			slog.Error("private key ignored", "err", err)
		} else {
			c.signingKey = key
		}
	}

	return c
}

// Err returns the public key import error, if any.
func (c *Credentials) Err() error {
	return c.keyErr
}

// AuthRequest carries the parts of an inbound request the authenticator looks at.
type AuthRequest struct {
	SourceIP     string
	Signature    string
	HasSignature bool
	Body         []byte
}

// AuthResult is the terminal state of one authentication.
type AuthResult struct {
	State  AuthState
	Status int
}

// OK reports whether the request was authenticated.
func (r AuthResult) OK() bool {
	return r.State == StateAuthenticated
}

// Err returns nil for an authenticated request and an *AuthError otherwise.
func (r AuthResult) Err() error {
	if r.OK() {
		return nil
	}
	return &AuthError{State: r.State, Status: r.Status}
}

// AuthError is a rejected authentication. It matches ErrConfiguration when the
// keys are unusable and ErrUnauthorized for every other rejection.
type AuthError struct {
	State  AuthState
	Status int
}

func (e *AuthError) Error() string {
	return "authentication rejected: " + string(e.State)
}

func (e *AuthError) Is(target error) bool {
	if e.State == StateRejectedConfig {
		return target == ErrConfiguration
	}
	return target == ErrUnauthorized
}

// Authenticator runs the IP gate and then the signature check.
// It only ever sees raw body bytes and is independent of method and payload shape.
type Authenticator struct {
	creds *Credentials
}

func NewAuthenticator(creds *Credentials) *Authenticator {
	return &Authenticator{creds: creds}
}

// Authenticate drives a request through the state machine. The IP gate always runs
// before any cryptographic work.
func (a *Authenticator) Authenticate(req AuthRequest) AuthResult {
	if !IsAllowed(req.SourceIP, a.creds.permittedIPs, a.creds.env) {
		return a.finish(StateRejectedIP, req)
	}

	if a.creds.keyErr != nil {
		slog.Error("public key unavailable", "err", a.creds.keyErr)
		return a.finish(StateRejectedConfig, req)
	}

	if a.creds.signingKey != nil {
		a.logExpectedSignature(req.Body)
	}

	// A present but empty header is a signature that fails to verify.
	if !req.HasSignature {
		return a.finish(StateRejectedMissingSignature, req)
	}

	if !a.creds.publicKey.Verify(req.Signature, req.Body) {
		return a.finish(StateRejectedSignature, req)
	}

	return a.finish(StateAuthenticated, req)
}

func (a *Authenticator) finish(state AuthState, req AuthRequest) AuthResult {
	if state == StateAuthenticated {
		slog.Debug("request authenticated", "ip", req.SourceIP)
	} else {
		slog.Info("request rejected", "state", state, "ip", req.SourceIP)
	}
	return AuthResult{State: state, Status: state.Status()}
}

func (a *Authenticator) logExpectedSignature(body []byte) {
	sig, err := a.creds.signingKey.Sign(body)
	if err != nil {
		slog.Error("generate diagnostic signature", "err", err)
		return
	}
	slog.Info("expected signature for body", "signature", sig)
}
