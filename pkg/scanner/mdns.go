package scanner

import (
	"context"
	"net"

	"github.com/enbility/zeroconf/v3"

	"github.com/homevault-project/homevault-go/pkg/model"
)

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	// Interface specifies which network interface to browse on.
	// Empty string means all interfaces.
	Interface string
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(iface string) *MDNSBrowser {
	return &MDNSBrowser{Interface: iface}
}

// Browse opens one zeroconf browse subscription for serviceType.
// Observations are converted to Entry values and handed to handler until
// the context is cancelled. Removal announcements are drained and ignored:
// a scan is a census, not a live view.
func (b *MDNSBrowser) Browse(ctx context.Context, serviceType string, handler func(Entry), errHandler func(error)) error {
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := b.browserOptions()

	go func(entries, removed chan *zeroconf.ServiceEntry) {
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				handler(entryToObservation(entry))

			case _, ok := <-removed:
				if !ok {
					removed = nil
				}

			case <-ctx.Done():
				return
			}
		}
	}(entries, removed)

	go func() {
		err := zeroconf.Browse(ctx, serviceType, model.Domain, entries, removed, opts...)
		if err != nil && ctx.Err() == nil && errHandler != nil {
			errHandler(err)
		}
	}()

	return nil
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.Interface != "" {
		iface, err := net.InterfaceByName(b.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToObservation converts a zeroconf entry to an Entry.
func entryToObservation(entry *zeroconf.ServiceEntry) Entry {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return Entry{
		Instance: entry.Instance,
		Host:     entry.HostName,
		Port:     uint16(entry.Port),
		Text:     entry.Text,
		Addrs:    addrs,
	}
}

// NetResolver implements Resolver using the system DNS/mDNS resolver.
type NetResolver struct{}

// Resolve looks up the entry's hostname, preferring IPv4 addresses.
// The lookup is bounded by the context deadline.
func (NetResolver) Resolve(ctx context.Context, entry Entry) (string, uint16, error) {
	host := entry.Host
	for len(host) > 0 && host[len(host)-1] == '.' {
		host = host[:len(host)-1]
	}
	if host == "" {
		return "", 0, ErrNoEndpoint
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return "", 0, err
	}
	if len(ips) == 0 {
		return "", 0, ErrNoEndpoint
	}

	for _, ip := range ips {
		if v4 := ip.IP.To4(); v4 != nil {
			return v4.String(), entry.Port, nil
		}
	}
	return ips[0].IP.String(), entry.Port, nil
}

// Compile-time interface satisfaction checks.
var (
	_ Browser  = (*MDNSBrowser)(nil)
	_ Resolver = NetResolver{}
)
