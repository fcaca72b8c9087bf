package auth

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"katok/internal/config"
	apperrors "katok/internal/errors"
)

const (
	testSecret = "s3cr3t"
	testBody   = `{"event":"payment.succeeded","object":{"id":"2c8f1a9e"}}`
	// Эталонный HMAC-SHA256 от testBody с ключом testSecret
	testDigest = "12de427e12b08b0beccaf4c171c3e1cecb134075f24ab5488632297fdb28aa04"
)

func headerRequest(key, value string) *Request {
	h := http.Header{}
	if key != "" {
		h.Set(key, value)
	}
	return &Request{Header: h, Query: url.Values{}}
}

func TestHeaderSecret(t *testing.T) {
	a := NewHeaderSecret("testkey")

	assert.NoError(t, a.Authenticate(headerRequest(HeaderAPIKey, "testkey")))

	// Случайные пробелы вокруг значения не мешают сравнению
	assert.NoError(t, a.Authenticate(headerRequest(HeaderAPIKey, "  testkey ")))

	assert.ErrorIs(t, a.Authenticate(headerRequest(HeaderAPIKey, "wrong")), apperrors.ErrAuthFailed)
	assert.ErrorIs(t, a.Authenticate(headerRequest("", "")), apperrors.ErrAuthFailed)
}

func TestHeaderSecretEmptyConfigFailsClosed(t *testing.T) {
	a := NewHeaderSecret("")
	assert.ErrorIs(t, a.Authenticate(headerRequest(HeaderAPIKey, "")), apperrors.ErrAuthFailed)
}

func TestQuerySecret(t *testing.T) {
	a := NewQuerySecret("testkey")

	ok := &Request{Header: http.Header{}, Query: url.Values{QueryAPIKey: {"testkey"}}}
	assert.NoError(t, a.Authenticate(ok))

	bad := &Request{Header: http.Header{}, Query: url.Values{QueryAPIKey: {"wrong"}}}
	assert.ErrorIs(t, a.Authenticate(bad), apperrors.ErrAuthFailed)

	missing := &Request{Header: http.Header{}, Query: url.Values{}}
	assert.ErrorIs(t, a.Authenticate(missing), apperrors.ErrAuthFailed)
}

func TestHMACSignatureReferenceDigest(t *testing.T) {
	a := NewHMACSignature(testSecret)

	assert.Equal(t, testDigest, a.Digest([]byte(testBody)))
}

func TestHMACSignatureAccepts(t *testing.T) {
	a := NewHMACSignature(testSecret)

	req := headerRequest(HeaderSignature, testDigest)
	req.Body = []byte(testBody)
	assert.NoError(t, a.Authenticate(req))

	// Hex-дайджест сверяется без учета регистра
	req = headerRequest(HeaderSignature, strings.ToUpper(testDigest))
	req.Body = []byte(testBody)
	assert.NoError(t, a.Authenticate(req))
}

func TestHMACSignatureRejectsMutatedBody(t *testing.T) {
	a := NewHMACSignature(testSecret)

	mutated := strings.Replace(testBody, "2c8f1a9e", "2c8f1a9f", 1)
	assert.NotEqual(t, testDigest, a.Digest([]byte(mutated)))

	req := headerRequest(HeaderSignature, testDigest)
	req.Body = []byte(mutated)
	assert.ErrorIs(t, a.Authenticate(req), apperrors.ErrInvalidSignature)
}

func TestHMACSignatureRejectsMissingHeader(t *testing.T) {
	a := NewHMACSignature(testSecret)

	req := headerRequest("", "")
	req.Body = []byte(testBody)
	assert.ErrorIs(t, a.Authenticate(req), apperrors.ErrInvalidSignature)
}

func TestHMACSignatureEmptySecretFailsClosed(t *testing.T) {
	a := NewHMACSignature("")

	req := headerRequest(HeaderSignature, testDigest)
	req.Body = []byte(testBody)
	assert.ErrorIs(t, a.Authenticate(req), apperrors.ErrInvalidSignature)
}

func TestFromConfig(t *testing.T) {
	a, err := FromConfig(config.AuthConfig{Mode: config.AuthModeHeader, APIKey: "k"})
	assert.NoError(t, err)
	assert.IsType(t, &HeaderSecret{}, a)

	a, err = FromConfig(config.AuthConfig{Mode: config.AuthModeQuery, APIKey: "k"})
	assert.NoError(t, err)
	assert.IsType(t, &QuerySecret{}, a)

	a, err = FromConfig(config.AuthConfig{Mode: config.AuthModeHMAC, WebhookSecret: "k"})
	assert.NoError(t, err)
	assert.IsType(t, &HMACSignature{}, a)

	_, err = FromConfig(config.AuthConfig{Mode: "basic"})
	assert.Error(t, err)
}
