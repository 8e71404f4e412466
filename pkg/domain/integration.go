package domain

// IntegrationKey is a key third parties use to call a chatbot, with quotas.
type IntegrationKey struct {
	IntegrationKey  string `json:"integrationKey"`
	TotalAPIQuota   int    `json:"totalApiQuota"`
	APIQuotaLeft    int    `json:"apiQuotaLeft"`
	TotalTokenQuota int    `json:"totalTokenQuota"`
	TokenQuotaLeft  int    `json:"tokenQuotaLeft"`
}

// UsageReport is per-chatbot traffic through integration keys.
type UsageReport struct {
	ChatbotID  string `json:"chatbotId"`
	Hits       int    `json:"hits"`
	TokenUsed  int    `json:"tokenUsed"`
	LastUsedAt string `json:"lastUsedAt"`
}

// QuotaHealth buckets remaining quota for display.
type QuotaHealth string

const (
	QuotaOK       QuotaHealth = "ok"
	QuotaLow      QuotaHealth = "low"
	QuotaCritical QuotaHealth = "critical"
)

// Quota classifies left out of total: more than half left is ok, more
// than a fifth is low, anything else (or no quota at all) is critical.
func Quota(left, total int) QuotaHealth {
	if total <= 0 {
		return QuotaCritical
	}
	pct := float64(left) / float64(total) * 100
	switch {
	case pct > 50:
		return QuotaOK
	case pct > 20:
		return QuotaLow
	default:
		return QuotaCritical
	}
}
