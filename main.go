package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/sirupsen/logrus"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	stderrors "errors"

	errpkg "github.com/yago-123/wg-rekey/pkg/error"
	"github.com/yago-123/wg-rekey/pkg/exchange/client"
	"github.com/yago-123/wg-rekey/pkg/obfuscate"
	"github.com/yago-123/wg-rekey/pkg/peer"
	"github.com/yago-123/wg-rekey/pkg/rekey"
	"github.com/yago-123/wg-rekey/pkg/tunnel"
	"github.com/yago-123/wg-rekey/pkg/util"
)

const (
	WGIfaceName         = "wg0"
	WGListenPort        = 51820
	WGKeepAliveInterval = 25 * time.Second
	WGMTUSize           = 1420

	RotationInterval = 4 * time.Hour
	STUNTimeout      = 5 * time.Second

	ExitPeerPubKey   = "HhvuS5kX7kuqhlwnvbX7UjdFrjABQFShZ1q9qRSX9xI="
	ExitPeerEndpoint = "192.0.2.10:51820"
	InTunnelGateway  = "10.64.0.1"
)

func main() {
	logger := logrus.New()
	log := funcr.New(func(prefix, args string) {
		logger.Info(prefix, " ", args)
	}, funcr.Options{Verbosity: 2})

	// Diagnostics only: knowing the public endpoint helps debug failed
	// negotiations behind NAT.
	stunCtx, cancelSTUN := context.WithTimeout(context.Background(), STUNTimeout)
	if endpoint, err := util.GetPublicEndpoint(stunCtx, []string{"stun.l.google.com:19302", "stun1.l.google.com:19302"}); err == nil {
		logger.Infof("public endpoint: %s", endpoint)
	} else {
		logger.WithError(err).Warn("could not determine public endpoint")
	}
	cancelSTUN()

	privKey, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		logger.Fatalf("failed to generate private key: %v", err)
	}

	exitPubKey, err := wgtypes.ParseKey(ExitPeerPubKey)
	if err != nil {
		logger.Fatalf("failed to parse exit peer key: %v", err)
	}

	exitEndpoint, err := net.ResolveUDPAddr("udp", ExitPeerEndpoint)
	if err != nil {
		logger.Fatalf("failed to resolve exit endpoint: %v", err)
	}

	_, defaultRoute, _ := net.ParseCIDR("0.0.0.0/0")

	cfg := tunnel.Config{
		PrivateKey:       privKey,
		IPv4Gateway:      net.ParseIP(InTunnelGateway),
		MTU:              WGMTUSize,
		QuantumResistant: true,
		ExitPeer: peer.Config{
			PublicKey:  exitPubKey,
			Endpoint:   exitEndpoint,
			AllowedIPs: []net.IPNet{*defaultRoute},
		},
	}

	kernel := tunnel.NewKernel(&tunnel.KernelConfig{
		Iface:             WGIfaceName,
		ListenPort:        WGListenPort,
		KeepAliveInterval: WGKeepAliveInterval,
	}, log)
	if err := kernel.SetMTU(WGMTUSize); err != nil {
		logger.WithError(err).Warn("could not set interface MTU")
	}
	tun := tunnel.NewSlot(kernel)
	obfs := obfuscate.NewSlot(nil)

	rekeyer := rekey.New(client.New(), rekey.WithLogger(log))

	// Later, asynchronous obfuscation failures arrive here, outside any
	// rotation cycle's call path.
	closed := make(chan error, 1)
	go func() {
		err := <-closed
		logger.WithError(err).Error("obfuscation transport failed; tearing down tunnel")
		if t := tun.Clear(); t != nil {
			_ = t.Stop(context.Background())
		}
		os.Exit(1)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(RotationInterval)
	defer ticker.Stop()

	rotate := func() {
		for attempt := uint32(0); ; attempt++ {
			err := rekeyer.ConfigEphemeralPeers(context.Background(), tun, obfs, &cfg, attempt, closed)
			if err == nil {
				logger.Info("rotated ephemeral peer")
				return
			}
			if stderrors.Is(err, errpkg.ErrNegotiationTimeout) {
				logger.WithError(err).Warnf("negotiation timed out, retrying (attempt %d)", attempt+1)
				continue
			}

			// Anything else leaves the tunnel in an indeterminate state; tear
			// the session down instead of retrying on it.
			logger.WithError(err).Error("rotation failed; tearing down tunnel")
			if t := tun.Clear(); t != nil {
				_ = t.Stop(context.Background())
			}
			os.Exit(1)
		}
	}

	rotate()
	for {
		select {
		case <-ticker.C:
			rotate()
		case sig := <-sigCh:
			logger.Infof("received %s, shutting down", sig)
			if t := tun.Clear(); t != nil {
				_ = t.Stop(context.Background())
			}
			return
		}
	}
}
