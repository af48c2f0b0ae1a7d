package server

import (
	"fmt"
	"net"
)

// resolveIPv4 maps an empty address to the wildcard address.
func resolveIPv4(address string) (net.IP, error) {
	if address == "" {
		return net.IPv4zero.To4(), nil
	}
	addr, err := net.ResolveIPAddr("ip4", address)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", address, err)
	}
	ip := addr.IP.To4()
	if ip == nil {
		return nil, fmt.Errorf("resolve %s: not an IPv4 address", address)
	}
	return ip, nil
}
