package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aitutor/academy/internal/apperror"
)

var testPayload = TokenPayload{
	UserID: "8b0f2a52-3c9e-4d1a-9a57-2f6f0c1d4e11",
	Email:  "alice@example.com",
	Role:   RoleUser,
	Name:   "Alice",
}

// fixedClock returns an issuer clock that can be moved forward.
func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.Issue(testPayload, 15*time.Minute)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testPayload, *got)
}

func TestTokenIssuer_RoundTripWithoutName(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	p := testPayload
	p.Name = ""
	p.Role = RoleAdmin

	token, err := issuer.Issue(p, time.Minute)
	require.NoError(t, err)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestTokenIssuer_ZeroExpiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.Issue(testPayload, 0)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.TypeInvalidToken))
}

func TestTokenIssuer_ExpiresAfterClockAdvance(t *testing.T) {
	now, advance := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewTokenIssuer("test-secret")
	issuer.now = now

	token, err := issuer.Issue(testPayload, 15*time.Minute)
	require.NoError(t, err)

	advance(14 * time.Minute)
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	advance(time.Minute)
	_, err = issuer.Verify(token)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.TypeInvalidToken))
}

func TestTokenIssuer_IssuedAtAndExpiry(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now, _ := fixedClock(start)
	issuer := NewTokenIssuer("test-secret")
	issuer.now = now

	token, err := issuer.Issue(testPayload, 7*24*time.Hour)
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, start, claims.IssuedAt.Time.UTC())
	assert.Equal(t, start.Add(7*24*time.Hour), claims.ExpiresAt.Time.UTC())
	assert.Equal(t, testPayload.UserID, claims.Subject)
}

func TestTokenIssuer_TamperedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	token, err := issuer.Issue(testPayload, time.Minute)
	require.NoError(t, err)

	// Swap the payload for one claiming ADMIN, keeping the old signature.
	forged := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testPayload.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: testPayload.Email,
		Role:  RoleAdmin,
	}
	forgedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, forged).SignedString([]byte("other"))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forgedToken, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = issuer.Verify(tampered)
	assert.True(t, apperror.Is(err, apperror.TypeInvalidToken))
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a").Issue(testPayload, time.Minute)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b").Verify(token)
	assert.True(t, apperror.Is(err, apperror.TypeInvalidToken))
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testPayload.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenIssuer("test-secret").Verify(none)
	assert.True(t, apperror.Is(err, apperror.TypeInvalidToken))

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = NewTokenIssuer("test-secret").Verify(hs512)
	assert.True(t, apperror.Is(err, apperror.TypeInvalidToken))
}

func TestTokenIssuer_Malformed(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	for _, token := range []string{"", "abc", "a.b.c", "not a token at all"} {
		_, err := issuer.Verify(token)
		assert.True(t, apperror.Is(err, apperror.TypeInvalidToken), "token %q", token)
	}
}

func TestTokenIssuer_MissingExpiry(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: testPayload.UserID}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("test-secret").Verify(token)
	assert.True(t, apperror.Is(err, apperror.TypeInvalidToken))
}
