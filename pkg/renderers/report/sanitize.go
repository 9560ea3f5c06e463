package report

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	bannerPolicyOnce sync.Once
	bannerPolicy     *bluemonday.Policy
)

// SanitizeBanner strips scripts, event handlers and unsafe URLs from
// operator-supplied banner markup.
func SanitizeBanner(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(bannerSanitizer().Sanitize(trimmed))
}

func bannerSanitizer() *bluemonday.Policy {
	bannerPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		bannerPolicy = policy
	})
	return bannerPolicy
}
