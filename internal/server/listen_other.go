//go:build !unix

package server

import (
	"fmt"
	"net"
	"strconv"
)

// listen falls back to net.Listen; the backlog is left to the platform.
func listen(address string, port, _ int) (net.Listener, error) {
	ip, err := resolveIPv4(address)
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp4", net.JoinHostPort(ip.String(), strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return ln, nil
}
