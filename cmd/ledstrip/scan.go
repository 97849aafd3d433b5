package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jwulff/ledstrip-go/internal/pixoo"
)

func scanCommand() error {
	fmt.Println("Scanning for Pixoo devices on local network...")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	devices, err := pixoo.ScanForDevices(ctx, func(current, total int) {
		pct := current * 100 / total
		bar := strings.Repeat("█", pct/5) + strings.Repeat("░", 20-pct/5)
		fmt.Printf("\r  [%s] %d%% (%d/%d)", bar, pct, current, total)
	})
	fmt.Println()
	return reportScan(os.Stdout, devices, err)
}

// reportScan prints the devices found, even when the scan was cut short, and
// then returns the scan error.
func reportScan(w io.Writer, devices []pixoo.DiscoveredDevice, scanErr error) error {
	fmt.Fprintln(w)
	if len(devices) == 0 {
		if scanErr != nil {
			return scanErr
		}
		fmt.Fprintln(w, "No Pixoo devices found.")
		return nil
	}

	if scanErr != nil {
		fmt.Fprintf(w, "Scan interrupted, found %d device(s) so far:\n", len(devices))
	} else {
		fmt.Fprintf(w, "Found %d device(s):\n", len(devices))
	}
	fmt.Fprintln(w)
	for i, device := range devices {
		fmt.Fprintf(w, "  %d. %s - %s\n", i+1, device.Name, device.IP)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "To use it, set in the configuration:")
	fmt.Fprintln(w, "  output:")
	fmt.Fprintln(w, "    kind: pixoo")
	fmt.Fprintln(w, "    pixoo:")
	fmt.Fprintf(w, "      ip: %s\n", devices[0].IP)
	return scanErr
}
