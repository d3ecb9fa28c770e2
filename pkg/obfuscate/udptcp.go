package obfuscate

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/go-logr/logr"

	"github.com/yago-123/wg-rekey/pkg/tunnel"
)

const maxDatagramSize = 65535

// UDPOverTCP reframes WireGuard UDP datagrams as length-prefixed records on a
// TCP stream to a fixed obfuscation endpoint. Applying it rewrites the tunnel
// configuration's first-hop endpoint to a local UDP listener.
type UDPOverTCP struct {
	remote string
	logger logr.Logger
}

func NewUDPOverTCP(remote string, logger logr.Logger) *UDPOverTCP {
	return &UDPOverTCP{
		remote: remote,
		logger: logger,
	}
}

func (o *UDPOverTCP) Apply(ctx context.Context, cfg *tunnel.Config, closed chan<- error) (Handle, error) {
	var dialer net.Dialer
	stream, err := dialer.DialContext(ctx, "tcp", o.remote)
	if err != nil {
		return nil, fmt.Errorf("failed to dial obfuscation endpoint %s: %w", o.remote, err)
	}

	local, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to bind local relay socket: %w", err)
	}

	cfg.FirstHop().Endpoint = local.LocalAddr().(*net.UDPAddr)

	h := &udpOverTCPHandle{
		stream: stream,
		local:  local,
		closed: closed,
		logger: o.logger,
	}
	go h.forwardOutbound()
	go h.forwardInbound()

	o.logger.Info("Obfuscation transport started", "local", local.LocalAddr(), "remote", o.remote)
	return h, nil
}

type udpOverTCPHandle struct {
	stream net.Conn
	local  *net.UDPConn
	closed chan<- error
	logger logr.Logger

	mu      sync.Mutex
	client  *net.UDPAddr
	aborted bool
}

// forwardOutbound relays datagrams from the local WireGuard socket onto the
// TCP stream, prefixing each with its length.
func (h *udpOverTCPHandle) forwardOutbound() {
	buf := make([]byte, maxDatagramSize+2)
	for {
		n, addr, err := h.local.ReadFromUDP(buf[2:])
		if err != nil {
			h.fail(err)
			return
		}

		h.mu.Lock()
		h.client = addr
		h.mu.Unlock()

		binary.BigEndian.PutUint16(buf[:2], uint16(n))
		if _, err := h.stream.Write(buf[:2+n]); err != nil {
			h.fail(err)
			return
		}
	}
}

// forwardInbound relays framed records from the TCP stream back to the most
// recent local sender.
func (h *udpOverTCPHandle) forwardInbound() {
	header := make([]byte, 2)
	buf := make([]byte, maxDatagramSize)
	for {
		if _, err := io.ReadFull(h.stream, header); err != nil {
			h.fail(err)
			return
		}
		n := int(binary.BigEndian.Uint16(header))
		if _, err := io.ReadFull(h.stream, buf[:n]); err != nil {
			h.fail(err)
			return
		}

		h.mu.Lock()
		client := h.client
		h.mu.Unlock()
		if client == nil {
			// No datagram has passed outbound yet; nowhere to deliver.
			continue
		}

		if _, err := h.local.WriteToUDP(buf[:n], client); err != nil {
			h.fail(err)
			return
		}
	}
}

// fail reports an asynchronous transport failure exactly once, unless the
// handle was aborted deliberately.
func (h *udpOverTCPHandle) fail(err error) {
	h.mu.Lock()
	aborted := h.aborted
	h.aborted = true
	h.mu.Unlock()
	if aborted || errors.Is(err, net.ErrClosed) {
		return
	}

	h.logger.Error(err, "Obfuscation transport failed")
	select {
	case h.closed <- err:
	default:
	}
}

func (h *udpOverTCPHandle) Abort() {
	h.mu.Lock()
	h.aborted = true
	h.mu.Unlock()
	h.stream.Close()
	h.local.Close()
}
