package fetcher

import "net/http"

// defaultUserAgents seeds the pool when the configuration supplies none.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// RotatingIdentityPool implements catalog.IdentityPool by cycling through a
// fixed list of user agents. Pick is a pure function of the attempt number,
// so rotation behavior is deterministic under test.
type RotatingIdentityPool struct {
	userAgents []string
}

// NewRotatingIdentityPool builds a pool from the configured user agents,
// falling back to a builtin list when empty.
func NewRotatingIdentityPool(userAgents []string) *RotatingIdentityPool {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &RotatingIdentityPool{userAgents: append([]string(nil), userAgents...)}
}

// Pick returns the header set for the nth request.
func (p *RotatingIdentityPool) Pick(n int) http.Header {
	if n < 0 {
		n = -n
	}
	h := http.Header{}
	h.Set("User-Agent", p.userAgents[n%len(p.userAgents)])
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	return h
}
