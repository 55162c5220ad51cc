// Package privacy reduces client identifiers before they reach logs.
package privacy

import "net/netip"

// AnonymizeIP truncates an address to its /24 (IPv4) or /48 (IPv6)
// network. Unparseable input yields "invalid".
func AnonymizeIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	bits := 48
	if addr.Is4() || addr.Is4In6() {
		addr = addr.Unmap()
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.String()
}
