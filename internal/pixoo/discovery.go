package pixoo

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// DiscoveredDevice represents a found Pixoo device.
type DiscoveredDevice struct {
	Name string
	IP   string
}

// ProgressFunc is called during scanning to report progress.
type ProgressFunc func(current, total int)

// Scan limits.
const (
	scanParallelism = 50
	probeTimeout    = 500 * time.Millisecond
	subnetHosts     = 254
)

// ScanForDevices probes every host of the local /24 subnet.
func ScanForDevices(ctx context.Context, onProgress ProgressFunc) ([]DiscoveredDevice, error) {
	subnet, err := getLocalSubnet()
	if err != nil {
		return nil, err
	}
	return scanSubnet(ctx, subnet, DefaultPort, onProgress)
}

func scanSubnet(ctx context.Context, subnet string, port int, onProgress ProgressFunc) ([]DiscoveredDevice, error) {
	var (
		mu      sync.Mutex
		devices []DiscoveredDevice
		done    atomic.Int32
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanParallelism)
	for i := 1; i <= subnetHosts; i++ {
		ip := fmt.Sprintf("%s.%d", subnet, i)
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if probePixoo(ctx, ip, port) {
				mu.Lock()
				devices = append(devices, DiscoveredDevice{Name: "Pixoo", IP: ip})
				mu.Unlock()
			}
			n := done.Add(1)
			if onProgress != nil {
				onProgress(int(n), subnetHosts)
			}
			return nil
		})
	}
	err := g.Wait()
	return devices, err
}

// getLocalSubnet returns the first three octets of the first non-loopback
// IPv4 address, e.g. "192.168.1".
func getLocalSubnet() (string, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("failed to get network interfaces: %w", err)
	}

	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP.To4()
			if ip == nil || ip.IsLoopback() {
				continue
			}
			return fmt.Sprintf("%d.%d.%d", ip[0], ip[1], ip[2]), nil
		}
	}

	return "", fmt.Errorf("could not determine local network")
}

// probePixoo checks if an IP hosts a Pixoo device.
func probePixoo(ctx context.Context, ip string, port int) bool {
	client := NewClientWithPort(ip, port)
	client.HTTPClient.Timeout = probeTimeout

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := client.sendCommand(probeCtx, "Channel/GetIndex", PixooCommand{Command: "Channel/GetIndex"})
	return err == nil
}
