package fetch

import "math/rand"

// Identity is the browser persona presented on a single request.
type Identity struct {
	UserAgent      string
	AcceptLanguage string
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36 Edg/123.0.0.0",
}

var acceptLanguages = []string{
	"zh-CN,zh;q=0.9,en;q=0.8",
	"en-US,en;q=0.9,zh-CN;q=0.8",
	"zh-CN,zh;q=0.9",
	"en-GB,en;q=0.9,zh;q=0.7",
	"zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7",
}

// RandomIdentity picks a user agent and accept-language uniformly from
// fixed tables.
func RandomIdentity() Identity {
	return Identity{
		UserAgent:      userAgents[rand.Intn(len(userAgents))],
		AcceptLanguage: acceptLanguages[rand.Intn(len(acceptLanguages))],
	}
}
