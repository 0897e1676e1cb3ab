// Package discovery announces canvas servers on the local network over mDNS
// so clients on the same LAN can find a board without knowing its address.
package discovery

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_canvas._tcp"

// Server is a running mDNS announcement.
type Server struct {
	mdns *mdns.Server
}

// Advertise announces this host as a canvas server on port. An empty
// instance uses the hostname.
func Advertise(instance string, port int) (*Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("get hostname: %w", err)
	}
	if instance == "" {
		instance = host
	}

	service, err := newService(instance, host, port, localIPv4())
	if err != nil {
		return nil, err
	}
	srv, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mdns server: %w", err)
	}
	return &Server{mdns: srv}, nil
}

func (s *Server) Shutdown() error {
	return s.mdns.Shutdown()
}

func newService(instance, host string, port int, ips []net.IP) (*mdns.MDNSService, error) {
	if !strings.HasSuffix(host, ".") {
		host += ".local."
	}
	service, err := mdns.NewMDNSService(instance, ServiceType, "", host, port, ips, []string{"canvas"})
	if err != nil {
		return nil, fmt.Errorf("create mdns service: %w", err)
	}
	return service, nil
}

// localIPv4 lists the addresses of up, non-loopback interfaces so the
// announcement does not depend on resolving our own hostname.
func localIPv4() []net.IP {
	var ips []net.IP
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				ips = append(ips, ipnet.IP.To4())
			}
		}
	}
	if len(ips) == 0 {
		ips = append(ips, net.IPv4(127, 0, 0, 1))
	}
	return ips
}

// Peer is a canvas server found on the network.
type Peer struct {
	Name string
	Addr string
}

// Browse queries the network for canvas servers for up to timeout.
func Browse(timeout time.Duration) ([]Peer, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	var peers []Peer
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			peers = append(peers, Peer{Name: e.Name, Addr: fmt.Sprintf("%s:%d", e.AddrV4, e.Port)})
		}
	}()

	err := mdns.Query(&mdns.QueryParam{
		Service:     ServiceType,
		Timeout:     timeout,
		Entries:     entries,
		DisableIPv6: true,
	})
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("mdns query: %w", err)
	}
	return peers, nil
}
