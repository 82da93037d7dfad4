package meetup

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenAudience is the fixed audience claim the authorization server expects
// on signed assertions.
const TokenAudience = "api.meetup.com"

// AssertionTTL is how long a signed assertion stays valid after generation.
const AssertionTTL = 1200 * time.Second

// AssertionBuilder builds time-boxed signed identity assertions from static
// OAuth credentials. Assertions are single-use: callers generate a fresh one
// per authorization attempt and never persist it.
type AssertionBuilder struct {
	clientKey  string
	memberID   string
	signingKid string
	privateKey *rsa.PrivateKey
	now        func() time.Time
}

type AssertionBuilderArgs struct {
	ClientKey      string
	MemberID       string
	SigningKeyID   string
	PrivateKeyPath string

	// Now overrides the clock used for the expiry claim. Nil means time.Now.
	Now func() time.Time
}

func NewAssertionBuilder(args AssertionBuilderArgs) (*AssertionBuilder, error) {
	if args.ClientKey == "" {
		return nil, &ConfigurationError{Reason: "no client key provided"}
	}

	if args.MemberID == "" {
		return nil, &ConfigurationError{Reason: "no authorized member id provided"}
	}

	if args.SigningKeyID == "" {
		return nil, &ConfigurationError{Reason: "no signing key id provided"}
	}

	privateKey, err := LoadSigningKey(args.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	now := args.Now
	if now == nil {
		now = time.Now
	}

	return &AssertionBuilder{
		clientKey:  args.ClientKey,
		memberID:   args.MemberID,
		signingKid: args.SigningKeyID,
		privateKey: privateKey,
		now:        now,
	}, nil
}

// SignedAssertion returns a fresh RS256-signed assertion whose expiry is
// exactly AssertionTTL after generation time. The signing-key id rides in the
// header so the verifier can select the matching public key.
func (b *AssertionBuilder) SignedAssertion() (string, error) {
	claims := jwt.MapClaims{
		"sub": b.memberID,
		"iss": b.clientKey,
		"aud": TokenAudience,
		"exp": b.now().Add(AssertionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = b.signingKid

	signed, err := token.SignedString(b.privateKey)
	if err != nil {
		return "", fmt.Errorf("could not sign assertion: %w", err)
	}

	return signed, nil
}
