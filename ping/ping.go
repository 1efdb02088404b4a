/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package ping measures the round trip time to game server hosts.
package ping

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const DefaultTimeout = 2 * time.Second

// protocolICMP is the IANA protocol number ICMP replies are parsed with.
const protocolICMP = 1

type Pinger interface {
	Ping(ctx context.Context, host string) (time.Duration, error)
}

// ICMPPinger sends a single ICMP echo per call. Unprivileged mode uses a
// datagram ICMP socket (on linux this needs net.ipv4.ping_group_range to
// include our gid); Privileged uses a raw socket.
type ICMPPinger struct {
	Timeout    time.Duration
	Privileged bool

	seq atomic.Uint32
}

var ErrNoIPv4 = errors.New("no IPv4 address for host")

func (p *ICMPPinger) Ping(ctx context.Context, host string) (time.Duration, error) {
	ip, err := resolveIPv4(ctx, host)
	if err != nil {
		return 0, err
	}

	network := "udp4"
	var dst net.Addr = &net.UDPAddr{IP: ip}
	if p.Privileged {
		network = "ip4:icmp"
		dst = &net.IPAddr{IP: ip}
	}

	conn, err := icmp.ListenPacket(network, "0.0.0.0")
	if err != nil {
		return 0, fmt.Errorf("opening icmp socket: %w", err)
	}
	defer conn.Close()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return 0, err
	}

	// unblock the read below if ctx is cancelled first
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	id := os.Getpid() & 0xffff
	seq := int(p.seq.Add(1) & 0xffff)
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: id, Seq: seq, Data: []byte("uqlt-ping")},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return 0, fmt.Errorf("marshalling echo: %w", err)
	}

	start := time.Now()
	if _, err := conn.WriteTo(wb, dst); err != nil {
		return 0, fmt.Errorf("sending echo to %v: %w", host, err)
	}

	rb := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(rb)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			return 0, fmt.Errorf("waiting for echo reply from %v: %w", host, err)
		}
		rtt := time.Since(start)

		if !samePeer(peer, ip) {
			continue
		}
		reply, err := icmp.ParseMessage(protocolICMP, rb[:n])
		if err != nil || reply.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		echo, ok := reply.Body.(*icmp.Echo)
		// the kernel rewrites the id of datagram sockets, so only raw
		// sockets can check it
		if !ok || echo.Seq != seq || (p.Privileged && echo.ID != id) {
			continue
		}
		return rtt, nil
	}
}

func samePeer(peer net.Addr, ip net.IP) bool {
	switch a := peer.(type) {
	case *net.UDPAddr:
		return a.IP.Equal(ip)
	case *net.IPAddr:
		return a.IP.Equal(ip)
	default:
		return false
	}
}

func resolveIPv4(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
		return nil, fmt.Errorf("%v: %w", host, ErrNoIPv4)
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("resolving %v: %w", host, err)
	}
	for _, a := range addrs {
		if ip4 := a.IP.To4(); ip4 != nil {
			return ip4, nil
		}
	}
	return nil, fmt.Errorf("%v: %w", host, ErrNoIPv4)
}

// HostOnly strips the port from a server's advertised address.
func HostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
