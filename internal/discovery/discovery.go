// Package discovery announces the pad on the local network and builds the
// URL browsers use to reach it.
package discovery

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_sketchpad._tcp"

// Advertiser owns a running mDNS responder.
type Advertiser struct {
	server *mdns.Server
}

// Advertise publishes instance (the hostname when empty) as ServiceType on
// port. info becomes the TXT record.
func Advertise(instance string, port int, info []string) (*Advertiser, error) {
	if port <= 0 {
		return nil, fmt.Errorf("advertise: invalid port %d", port)
	}
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("could not get hostname: %w", err)
		}
		instance = host
	}

	// Empty domain and host name pick ".local" and the OS hostname; nil IPs
	// are resolved from the hostname.
	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mDNS server: %w", err)
	}
	return &Advertiser{server: server}, nil
}

func (a *Advertiser) Shutdown() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}

// Peer is a pad found on the network.
type Peer struct {
	Name string
	Addr string
	Info []string
}

func (p Peer) URL() string { return "http://" + p.Addr + "/" }

// Browse queries for pads until timeout and returns what answered.
func Browse(ctx context.Context, timeout time.Duration) ([]Peer, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	var peers []Peer
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			peers = append(peers, Peer{
				Name: e.Name,
				Addr: net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port)),
				Info: e.InfoFields,
			})
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := queryContext(ctx, params)
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("mDNS query: %w", err)
	}
	return peers, nil
}

func queryContext(ctx context.Context, params *mdns.QueryParam) error {
	errCh := make(chan error, 1)
	go func() { errCh <- mdns.Query(params) }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		// The query ends on its own at params.Timeout; wait so the entries
		// channel is not closed under it.
		<-errCh
		return ctx.Err()
	}
}
