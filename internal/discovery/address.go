package discovery

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// OutgoingIP finds the address other hosts on the LAN can reach us at.
// No packet is sent; dialing UDP only selects a route.
func OutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// Offline networks have no default route; check interfaces instead.
		return localIPFallback()
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return localIPFallback()
	}
	return addr.IP.String(), nil
}

func localIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String(), nil
		}
	}
	return "", errors.New("no non-loopback IPv4 address")
}

// ListenPort extracts the port from a listen address such as ":80" or
// "0.0.0.0:8080".
func ListenPort(listenAddr string) (int, error) {
	_, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return 0, fmt.Errorf("listen address %q: %w", listenAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("listen address %q: invalid port", listenAddr)
	}
	return port, nil
}

// PadURL builds the browser URL for ip and port, omitting the default port.
func PadURL(ip string, port int) string {
	host := ip
	if port != 80 {
		host = net.JoinHostPort(ip, strconv.Itoa(port))
	} else if parsed := net.ParseIP(ip); parsed != nil && parsed.To4() == nil {
		host = "[" + ip + "]"
	}
	return "http://" + host + "/"
}
