// Package httpapi exposes the server over HTTP/JSON: the auth handshake, the
// per-address key/value store and the nickname directory.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/villa-app/villa/internal/common"
	"github.com/villa-app/villa/internal/logging"
	"github.com/villa-app/villa/internal/server/auth"
	"github.com/villa-app/villa/internal/server/config"
)

// Challenges is the auth-challenge surface the API consumes.
// *auth.ChallengeStore satisfies it.
type Challenges interface {
	Issue(ctx context.Context, address string) (string, error)
	Redeem(ctx context.Context, address, challenge string) error
}

// KeyValueStore is the store-service surface the API consumes.
// *store.Service satisfies it.
type KeyValueStore interface {
	Put(ctx context.Context, address, key string, value []byte) error
	Get(ctx context.Context, address, key string) ([]byte, error)
	Delete(ctx context.Context, address, key string) error
	GetPresignedPutUrl(ctx context.Context) (string, string, error)
}

// NicknameDirectory is the directory surface the API consumes.
// *nicknames.Service satisfies it.
type NicknameDirectory interface {
	Lookup(ctx context.Context, address string) (string, error)
	Check(ctx context.Context, nickname string) (bool, string, error)
	Claim(ctx context.Context, address, nickname string) error
}

// Handler holds the request handlers and their collaborators.
type Handler struct {
	config     *config.Config
	logger     logging.Logger
	challenges Challenges
	store      KeyValueStore
	directory  NicknameDirectory
}

func NewHandler(config *config.Config, logger logging.Logger, challenges Challenges, store KeyValueStore, directory NicknameDirectory) *Handler {
	return &Handler{
		config:     config,
		logger:     logger,
		challenges: challenges,
		store:      store,
		directory:  directory,
	}
}

type challengeRequest struct {
	Address string `json:"address" binding:"required"`
}

type sessionRequest struct {
	Address   string `json:"address" binding:"required"`
	Challenge string `json:"challenge" binding:"required"`
	Signature []byte `json:"signature" binding:"required"`
	PublicKey []byte `json:"publicKey" binding:"required"`
}

type claimRequest struct {
	Address  string `json:"address" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
}

func (h *Handler) postChallenge(c *gin.Context) {
	var input challengeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge, err := h.challenges.Issue(c.Request.Context(), input.Address)
	if err != nil {
		h.logger.Error(c.Request.Context(), "challenge issue failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue challenge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenge": challenge})
}

func (h *Handler) postSession(c *gin.Context) {
	var input sessionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	if err := h.challenges.Redeem(ctx, input.Address, input.Challenge); err != nil {
		if errors.Is(err, common.ErrInvalidChallenge) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired challenge"})
			return
		}
		h.logger.Error(ctx, "challenge redeem failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify challenge"})
		return
	}

	if err := auth.VerifyHandshake(input.Address, input.Challenge, input.Signature, input.PublicKey); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature verification failed"})
		return
	}

	token, err := auth.GenerateToken(input.Address, []byte(h.config.SecretKey), h.config.AccessTokenValidityDuration)
	if err != nil {
		h.logger.Error(ctx, "token minting failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mint token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}

func (h *Handler) putValue(c *gin.Context) {
	address := c.GetString(addressContextKey)
	key := c.Param("key")

	value, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if err := h.store.Put(c.Request.Context(), address, key, value); err != nil {
		h.logger.Error(c.Request.Context(), "store put failed", "key", key, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store value"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) getValue(c *gin.Context) {
	address := c.GetString(addressContextKey)
	key := c.Param("key")

	value, err := h.store.Get(c.Request.Context(), address, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logger.Error(c.Request.Context(), "store get failed", "key", key, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read value"})
		return
	}

	c.Data(http.StatusOK, "application/json", value)
}

func (h *Handler) deleteValue(c *gin.Context) {
	address := c.GetString(addressContextKey)
	key := c.Param("key")

	if err := h.store.Delete(c.Request.Context(), address, key); err != nil {
		h.logger.Error(c.Request.Context(), "store delete failed", "key", key, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete value"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) postPresign(c *gin.Context) {
	key, url, err := h.store.GetPresignedPutUrl(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "presign failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not presign upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}

func (h *Handler) getNicknameByAddress(c *gin.Context) {
	address := c.Param("address")

	nickname, err := h.directory.Lookup(c.Request.Context(), address)
	if err != nil {
		h.logger.Error(c.Request.Context(), "nickname lookup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not look up nickname"})
		return
	}
	if nickname == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no nickname for address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nickname": nickname})
}

func (h *Handler) getNicknameCheck(c *gin.Context) {
	nickname := c.Query("nickname")

	available, suggestion, err := h.directory.Check(c.Request.Context(), nickname)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available, "suggestion": suggestion})
}

func (h *Handler) postNicknameClaim(c *gin.Context) {
	var input claimRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.directory.Claim(c.Request.Context(), input.Address, input.Nickname)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"claimed": true})
	case errors.Is(err, common.ErrNicknameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "nickname already taken"})
	case errors.Is(err, common.ErrNicknameChangeLimit):
		c.JSON(http.StatusForbidden, gin.H{"error": "nickname change limit reached"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
