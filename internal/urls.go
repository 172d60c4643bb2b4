package internal

import (
	"net/url"
	"strings"
)

const (
	routeResult   = "redsys/result"
	routeOkResult = "redsys/okresult"
	routeKoResult = "redsys/koresult"
)

// Urls builds absolute storefront URLs from a base address.
type Urls struct {
	base string
}

func NewUrls(base string) *Urls {
	return &Urls{base: strings.TrimRight(base, "/")}
}

func (u *Urls) GetUrl(route string, params map[string]string) string {
	link := u.base + "/" + strings.Trim(route, "/")
	if len(params) == 0 {
		return link
	}
	query := url.Values{}
	for key, value := range params {
		query.Set(key, value)
	}
	return link + "?" + query.Encode()
}
