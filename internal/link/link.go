// Package link builds and reads shareable estimate URLs. The query string
// carries view, rate and buffer; the fragment optionally carries a draft
// token as draft=<token>.
package link

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/alexanderramin/estimo/internal/domain"
)

const (
	paramView   = "view"
	paramRate   = "rate"
	paramBuffer = "buffer"
	draftKey    = "draft="
)

// Link is the parsed form of a share URL. Rate and Buffer are nil when
// the URL does not carry a usable value.
type Link struct {
	View       domain.Role
	Rate       *float64
	Buffer     *float64
	DraftToken string
}

// Pricing overlays the link parameters on top of defaults.
func (l Link) Pricing(defaults domain.PricingConfig) domain.PricingConfig {
	p := defaults
	if l.Rate != nil {
		if withRate, err := p.WithRate(*l.Rate); err == nil {
			p = withRate
		}
	}
	if l.Buffer != nil {
		p = p.WithBuffer(*l.Buffer)
	}
	return p
}

// Parse reads a share URL. Unparseable numbers are dropped rather than
// rejected so that a mangled link still opens.
func Parse(raw string) (Link, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Link{}, fmt.Errorf("parsing link: %w", err)
	}
	q := u.Query()
	l := Link{
		View:       domain.ParseRole(q.Get(paramView)),
		Rate:       parsePositive(q.Get(paramRate)),
		Buffer:     parseNonNegative(q.Get(paramBuffer)),
		DraftToken: DraftFromFragment(u.EscapedFragment()),
	}
	return l, nil
}

// DraftFromFragment extracts the draft token from a raw URL fragment.
func DraftFromFragment(fragment string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	for _, part := range strings.Split(fragment, "&") {
		if !strings.HasPrefix(part, draftKey) {
			continue
		}
		v := strings.TrimPrefix(part, draftKey)
		// PathUnescape leaves '+' alone, which older standard-base64
		// tokens rely on.
		if unescaped, err := url.PathUnescape(v); err == nil {
			return unescaped
		}
		return v
	}
	return ""
}

// Build writes view, rate and buffer into base's query and replaces the
// fragment with the draft token, or clears it when token is empty. Other
// query parameters on base are kept.
func Build(base string, view domain.Role, pricing domain.PricingConfig, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	q := u.Query()
	q.Set(paramView, string(view))
	q.Set(paramRate, formatNumber(pricing.Rate))
	q.Set(paramBuffer, formatNumber(pricing.BufferPercent))
	u.RawQuery = q.Encode()
	u.Fragment = ""
	u.RawFragment = ""
	if token != "" {
		u.Fragment = draftKey + token
	}
	return u.String(), nil
}

func parsePositive(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !(f > 0) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseNonNegative(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f < 0 {
		f = 0
	}
	return &f
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
