package utils

import (
	"fmt"
	"net"
	"os"
	"sync"
)

var (
	hostname     string
	hostnameOnce sync.Once
)

// GetHostname returns the cached "<hostname>/<first address>" of this machine,
// or just the hostname when it does not resolve.
func GetHostname() string {
	hostnameOnce.Do(func() {
		hostname = findHostname()
	})
	return hostname
}

func findHostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	addrs, err := net.LookupHost(name)
	if err == nil && len(addrs) > 0 {
		return fmt.Sprintf("%s/%s", name, addrs[0])
	}
	return name
}
