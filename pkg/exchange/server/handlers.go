package server

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/yago-123/wg-rekey/pkg/exchange/kem"
	"github.com/yago-123/wg-rekey/pkg/exchange/store"
	"github.com/yago-123/wg-rekey/pkg/exchange/types"
)

type Handler struct {
	store  store.Store
	logger *logrus.Logger
}

func NewHandler(s store.Store, logger *logrus.Logger) *Handler {
	return &Handler{store: s, logger: logger}
}

// NegotiateHandler godoc
// @Summary      Negotiate an ephemeral peer
// @Description  Registers a fresh ephemeral peer for the session and, for quantum-resistant requests, returns a KEM ciphertext from which both sides derive the PSK
// @Tags         exchange
// @Accept       json
// @Produce      json
// @Param        negotiateRequest body types.NegotiateRequest true "Ephemeral peer request"
// @Success      200  {object}  types.NegotiateResponse
// @Failure      400  {string}  string "invalid request body or keys"
// @Failure      500  {string}  string "failed to register ephemeral peer"
// @Router       /v1/ephemeral-peer [post]
func (h *Handler) NegotiateHandler(c *gin.Context) {
	var req types.NegotiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}

	wgPublicKey, err := wgtypes.ParseKey(req.WgPublicKey)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid wg_public_key")
		return
	}

	ephemeralKey, err := wgtypes.ParseKey(req.EphemeralPublicKey)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid ephemeral_public_key")
		return
	}

	negotiation := types.Negotiation{
		EphemeralPublicKey: ephemeralKey,
		DAITA:              req.DAITA,
		CreatedAt:          time.Now(),
	}

	var resp types.NegotiateResponse
	if req.KemPublicKey != "" {
		kemPub, errKey := base64.StdEncoding.DecodeString(req.KemPublicKey)
		if errKey != nil || len(kemPub) != kem.PublicKeySize {
			c.String(http.StatusBadRequest, "invalid kem_public_key")
			return
		}

		ciphertext, psk, errKEM := kem.Encapsulate(kemPub)
		if errKEM != nil {
			h.logger.WithError(errKEM).Error("KEM encapsulation failed")
			c.String(http.StatusInternalServerError, "failed to negotiate psk")
			return
		}

		negotiation.PresharedKey = &psk
		resp.KemCiphertext = base64.StdEncoding.EncodeToString(ciphertext)
	}

	if errStore := h.store.Register(wgPublicKey.String(), negotiation); errStore != nil {
		h.logger.WithError(errStore).Error("Failed to register ephemeral peer")
		c.String(http.StatusInternalServerError, "failed to register ephemeral peer")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"session": wgPublicKey.String(),
		"daita":   req.DAITA,
		"pq":      req.KemPublicKey != "",
	}).Info("Registered ephemeral peer")

	c.JSON(http.StatusOK, resp)
}

// LookupHandler godoc
// @Summary      Look up the ephemeral peer of a session
// @Description  Fetch the currently registered ephemeral peer by session public key
// @Tags         exchange
// @Produce      json
// @Param        wg_public_key path string true "Session WireGuard public key"
// @Success      200 {object} map[string]any
// @Failure      404 {string} string "no ephemeral peer for session"
// @Router       /v1/ephemeral-peer/{wg_public_key} [get]
func (h *Handler) LookupHandler(c *gin.Context) {
	wgPublicKey := c.Param("wg_public_key")

	n, ok := h.store.Lookup(wgPublicKey)
	if !ok {
		c.String(http.StatusNotFound, "no ephemeral peer for session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ephemeral_public_key": n.EphemeralPublicKey.String(),
		"daita":                n.DAITA,
		"has_psk":              n.PresharedKey != nil,
		"created_at":           n.CreatedAt,
	})
}
