package proxy

import (
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
)

// DefaultUserAgent is used when no user agents are configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// Manager handles the rotation of proxies and user agents for both the
// static fetcher and the browser sessions.
type Manager struct {
	proxies    []string
	userAgents []string
	mu         sync.Mutex
	proxyIndex int
}

func NewManager(proxies, userAgents []string) *Manager {
	if len(userAgents) == 0 {
		userAgents = []string{DefaultUserAgent}
	}
	return &Manager{
		proxies:    proxies,
		userAgents: userAgents,
	}
}

// GetProxy returns a proxy URL from the list, rotating sequentially.
func (m *Manager) GetProxy() string {
	if m == nil || len(m.proxies) == 0 {
		return "" // No proxy
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	proxy := m.proxies[m.proxyIndex]
	m.proxyIndex = (m.proxyIndex + 1) % len(m.proxies)
	return proxy
}

// GetUserAgent returns a random user agent string.
func (m *Manager) GetUserAgent() string {
	if m == nil || len(m.userAgents) == 0 {
		return DefaultUserAgent
	}
	return m.userAgents[rand.IntN(len(m.userAgents))]
}

// HTTPProxy is usable as http.Transport.Proxy. Without configured proxies it
// honours HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
func (m *Manager) HTTPProxy(req *http.Request) (*url.URL, error) {
	p := m.GetProxy()
	if p == "" {
		return http.ProxyFromEnvironment(req)
	}
	return url.Parse(p)
}
