package normalize

import (
	"net/url"
	"strings"
)

// unreliableImageHosts are CDN classes that systematically refuse to serve
// images without session cookies. URLs on these hosts are kept but flagged.
var unreliableImageHosts = []string{
	"cdninstagram.com",
	"fbcdn.net",
	"tiktokcdn.com",
	"tiktokcdn-us.com",
}

func isUnreliableImageHost(imageURL string) bool {
	u, err := url.Parse(imageURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range unreliableImageHosts {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
