package httpapi

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villa-app/villa/internal/common"
	"github.com/villa-app/villa/internal/identity"
	"github.com/villa-app/villa/internal/logging"
	"github.com/villa-app/villa/internal/server/auth"
	"github.com/villa-app/villa/internal/server/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeKV is an in-memory KeyValueStore.
type fakeKV struct {
	data map[string][]byte
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string][]byte{}} }

func (f *fakeKV) Put(_ context.Context, address, key string, value []byte) error {
	f.data[address+"/"+key] = value
	return nil
}

func (f *fakeKV) Get(_ context.Context, address, key string) ([]byte, error) {
	v, ok := f.data[address+"/"+key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return v, nil
}

func (f *fakeKV) Delete(_ context.Context, address, key string) error {
	delete(f.data, address+"/"+key)
	return nil
}

func (f *fakeKV) GetPresignedPutUrl(context.Context) (string, string, error) {
	return "store/2026/1/1/key", "http://signed.example/upload", nil
}

// fakeDirectory is an in-memory NicknameDirectory.
type fakeDirectory struct {
	byAddress map[string]string
	claimErr  error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{byAddress: map[string]string{}}
}

func (d *fakeDirectory) Lookup(_ context.Context, address string) (string, error) {
	return d.byAddress[address], nil
}

func (d *fakeDirectory) Check(_ context.Context, nickname string) (bool, string, error) {
	if err := identity.ValidateNickname(nickname); err != nil {
		return false, "", err
	}
	for _, n := range d.byAddress {
		if n == nickname {
			return false, nickname + "42", nil
		}
	}
	return true, "", nil
}

func (d *fakeDirectory) Claim(_ context.Context, address, nickname string) error {
	if d.claimErr != nil {
		return d.claimErr
	}
	d.byAddress[address] = nickname
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeKV, *fakeDirectory, *config.Config) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		ChallengeTTL:                5 * time.Minute,
	}

	kv := newFakeKV()
	dir := newFakeDirectory()
	h := NewHandler(cfg, logging.Nop(), auth.NewChallengeStore(rdb, cfg.ChallengeTTL), kv, dir)
	return h.Router(), kv, dir, cfg
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if raw, ok := body.([]byte); ok {
		reader = bytes.NewReader(raw)
	} else if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// handshake walks the full challenge/session exchange and returns the token.
func handshake(t *testing.T, r *gin.Engine) (string, string) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	address := identity.DeriveAddress(pub)

	w := doJSON(t, r, http.MethodPost, "/v1/auth/challenge", gin.H{"address": address}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var challengeBody struct {
		Challenge string `json:"challenge"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &challengeBody))
	require.NotEmpty(t, challengeBody.Challenge)

	signature := ed25519.Sign(priv, []byte(challengeBody.Challenge))
	w = doJSON(t, r, http.MethodPost, "/v1/auth/session", gin.H{
		"address":   address,
		"challenge": challengeBody.Challenge,
		"signature": signature,
		"publicKey": []byte(pub),
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sessionBody struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sessionBody))
	require.NotEmpty(t, sessionBody.AccessToken)

	return sessionBody.AccessToken, address
}

func TestHandshake_MintsUsableToken(t *testing.T) {
	r, _, _, cfg := newTestRouter(t)

	token, address := handshake(t, r)

	got, err := auth.GetAddressFromToken(token, []byte(cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, address, got)
}

func TestHandshake_ChallengeIsSingleUse(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	address := identity.DeriveAddress(pub)

	w := doJSON(t, r, http.MethodPost, "/v1/auth/challenge", gin.H{"address": address}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Challenge string `json:"challenge"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	signature := ed25519.Sign(priv, []byte(body.Challenge))
	session := gin.H{"address": address, "challenge": body.Challenge,
		"signature": signature, "publicKey": []byte(pub)}

	w = doJSON(t, r, http.MethodPost, "/v1/auth/session", session, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/v1/auth/session", session, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "replayed challenge must fail")
}

func TestHandshake_ForeignKeyRejected(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	_, otherPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	address := identity.DeriveAddress(pub)

	w := doJSON(t, r, http.MethodPost, "/v1/auth/challenge", gin.H{"address": address}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Challenge string `json:"challenge"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	// signed by a key that does not derive to address
	signature := ed25519.Sign(otherPriv, []byte(body.Challenge))
	w = doJSON(t, r, http.MethodPost, "/v1/auth/session", gin.H{
		"address": address, "challenge": body.Challenge,
		"signature": signature, "publicKey": []byte(pub)}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStore_RequiresAuth(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/v1/store/identity", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/store/identity", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStore_PutGetDelete(t *testing.T) {
	r, kv, _, _ := newTestRouter(t)
	token, address := handshake(t, r)

	w := doJSON(t, r, http.MethodPut, "/v1/store/identity", []byte(`{"nickname":"alice"}`), token)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, kv.data, address+"/identity", "value is namespaced by the token's address")

	w = doJSON(t, r, http.MethodGet, "/v1/store/identity", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"nickname":"alice"}`, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/v1/store/identity", nil, token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/v1/store/identity", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStore_Presign(t *testing.T) {
	r, _, _, _ := newTestRouter(t)
	token, _ := handshake(t, r)

	w := doJSON(t, r, http.MethodPost, "/v1/store/presign", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Key)
	assert.NotEmpty(t, body.URL)
}

func TestNicknames_LookupCheckClaim(t *testing.T) {
	r, _, dir, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/v1/nicknames/address/0xabc", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/v1/nicknames/claim", gin.H{"address": "0xabc", "nickname": "alice"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", dir.byAddress["0xabc"])

	w = doJSON(t, r, http.MethodGet, "/v1/nicknames/address/0xabc", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"nickname":"alice"}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/v1/nicknames/check?nickname=alice", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var checkBody struct {
		Available  bool   `json:"available"`
		Suggestion string `json:"suggestion"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &checkBody))
	assert.False(t, checkBody.Available)
	assert.NotEmpty(t, checkBody.Suggestion)
}

func TestNicknames_ClaimConflicts(t *testing.T) {
	r, _, dir, _ := newTestRouter(t)

	dir.claimErr = common.ErrNicknameTaken
	w := doJSON(t, r, http.MethodPost, "/v1/nicknames/claim", gin.H{"address": "0xdef", "nickname": "alice"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	dir.claimErr = common.ErrNicknameChangeLimit
	w = doJSON(t, r, http.MethodPost, "/v1/nicknames/claim", gin.H{"address": "0xdef", "nickname": "bob"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNicknames_CheckRejectsInvalid(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/v1/nicknames/check?nickname=ab", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
