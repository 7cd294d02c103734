package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Unknown is recorded when no valid public address can be determined.
const Unknown = "Unknown"

// headerSources lists forwarding headers in priority order, the direct peer
// address is consulted last.
var headerSources = []string{
	"Client-Ip",
	"X-Forwarded-For",
	"X-Forwarded",
	"X-Cluster-Client-Ip",
	"Forwarded-For",
	"Forwarded",
}

// FromRequest returns the viewer's public IP address, or Unknown. Private and
// reserved ranges never identify a viewer and are skipped.
func FromRequest(r *http.Request) string {
	if r == nil {
		return Unknown
	}

	for _, header := range headerSources {
		if ip := firstPublicIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := firstPublicIP(host); ip != "" {
		return ip
	}

	return Unknown
}

func firstPublicIP(value string) string {
	for _, candidate := range strings.Split(value, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		ip := net.ParseIP(candidate)
		if ip == nil {
			continue
		}
		if isPublic(ip) {
			return candidate
		}
	}
	return ""
}

func isPublic(ip net.IP) bool {
	return !(ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified())
}
