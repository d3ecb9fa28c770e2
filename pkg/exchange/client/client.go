package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"

	circlkem "github.com/cloudflare/circl/kem"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	errors "github.com/yago-123/wg-rekey/pkg/error"
	"github.com/yago-123/wg-rekey/pkg/exchange/kem"
	"github.com/yago-123/wg-rekey/pkg/exchange/types"
)

// Request is one ephemeral peer exchange against the gateway reachable inside
// the tunnel.
type Request struct {
	Gateway            net.IP
	WgPublicKey        wgtypes.Key
	EphemeralPublicKey wgtypes.Key
	QuantumResistant   bool
	DAITA              bool
}

// PeerExchanger performs a single request/response exchange with a gateway.
// The caller bounds its latency through the context; an exchanger never
// retries on its own.
type PeerExchanger interface {
	RequestEphemeralPeer(ctx context.Context, req Request) (*wgtypes.Key, error)
}

type Client struct {
	port   int
	client *http.Client
}

func New(opts ...Option) *Client {
	cfg := newDefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		port: cfg.gatewayPort,
		// No fixed client timeout: the deadline comes from the caller's context.
		client: cfg.httpClient,
	}
}

// RequestEphemeralPeer negotiates one ephemeral peer. The returned PSK is nil
// when the exchange succeeded without negotiating one, which is the normal
// outcome for non-quantum-resistant sessions.
func (c *Client) RequestEphemeralPeer(ctx context.Context, req Request) (*wgtypes.Key, error) {
	wireReq := types.NegotiateRequest{
		WgPublicKey:        req.WgPublicKey.String(),
		EphemeralPublicKey: req.EphemeralPublicKey.String(),
		DAITA:              req.DAITA,
	}

	var kemPriv circlkem.PrivateKey
	if req.QuantumResistant {
		pubBytes, priv, err := kem.GenerateKeypair()
		if err != nil {
			return nil, errors.Wrap(errors.ErrKEM, err)
		}
		wireReq.KemPublicKey = base64.StdEncoding.EncodeToString(pubBytes)
		kemPriv = priv
	}

	resp, err := c.send(ctx, req.Gateway, wireReq)
	if err != nil {
		return nil, err
	}

	if !req.QuantumResistant {
		return nil, nil
	}

	ciphertext, err := base64.StdEncoding.DecodeString(resp.KemCiphertext)
	if err != nil {
		return nil, errors.Wrap(errors.ErrExchangeDecode, err)
	}
	if len(ciphertext) != kem.CiphertextSize {
		return nil, errors.Wrap(errors.ErrExchangeDecode, fmt.Errorf("unexpected ciphertext size %d", len(ciphertext)))
	}

	psk, err := kem.Decapsulate(kemPriv, ciphertext)
	if err != nil {
		return nil, errors.Wrap(errors.ErrKEM, err)
	}

	return &psk, nil
}

func (c *Client) send(ctx context.Context, gateway net.IP, req types.NegotiateRequest) (*types.NegotiateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrExchangeRequest, err)
	}

	url := fmt.Sprintf("http://%s/v1/ephemeral-peer", net.JoinHostPort(gateway.String(), strconv.Itoa(c.port)))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrExchangeRequest, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.ErrExchangeRequest, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(errors.ErrExchangeResponse, fmt.Errorf("gateway returned %s", httpResp.Status))
	}

	var resp types.NegotiateResponse
	if errJSON := json.NewDecoder(httpResp.Body).Decode(&resp); errJSON != nil {
		return nil, errors.Wrap(errors.ErrExchangeDecode, errJSON)
	}

	return &resp, nil
}
