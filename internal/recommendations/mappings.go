package recommendations

// GapCategoryRule matches a tool category label against gap descriptions: the
// rule fires when the tool's category contains Category and a gap mentions one
// of Keywords.
type GapCategoryRule struct {
	Category string
	Keywords []string
}

// RedundancyRule marks tool categories made redundant by a technology already
// present in the stack. Rules are evaluated in order; the first hit wins.
type RedundancyRule struct {
	Tech       string
	Categories []string
}

// Tables bundles the immutable lookup data the scoring engine consults. Built
// once at startup and passed in by reference; never mutated.
type Tables struct {
	IndustryTags          map[string][]string
	GapCategories         []GapCategoryRule
	ProjectTypeCategories map[string][]string
	Redundancy            []RedundancyRule
}

// DefaultTables returns the standard rule set.
func DefaultTables() Tables {
	return Tables{
		IndustryTags: map[string][]string{
			"fintech":    {"payments", "fintech", "billing", "subscriptions", "banking", "crypto"},
			"ecommerce":  {"ecommerce", "payments", "shipping", "inventory", "checkout", "cart"},
			"healthcare": {"healthcare", "hipaa", "compliance", "medical", "patient"},
			"devtools":   {"devtools", "ci-cd", "testing", "deployment", "developer", "api"},
			"saas":       {"saas", "subscriptions", "billing", "auth", "analytics"},
			"ai-ml":      {"ai", "ml", "machine-learning", "llm", "data", "gpu"},
			"media":      {"media", "video", "streaming", "cdn", "images"},
			"education":  {"education", "lms", "learning", "students"},
		},
		GapCategories: []GapCategoryRule{
			{Category: "monitoring", Keywords: []string{"monitoring", "observability", "logging", "metrics", "apm"}},
			{Category: "auth", Keywords: []string{"auth", "authentication", "identity", "sso", "security"}},
			{Category: "database", Keywords: []string{"database", "db", "storage", "data", "postgres", "mysql"}},
			{Category: "payments", Keywords: []string{"payment", "billing", "subscription", "fintech"}},
			{Category: "infrastructure", Keywords: []string{"infrastructure", "deployment", "hosting", "cloud", "ci-cd"}},
			{Category: "devops", Keywords: []string{"devops", "ci", "cd", "pipeline", "release"}},
			{Category: "analytics", Keywords: []string{"analytics", "tracking", "metrics", "data"}},
			{Category: "search", Keywords: []string{"search", "indexing", "discovery"}},
			{Category: "communications", Keywords: []string{"sms", "email", "notifications", "messaging", "voice"}},
			{Category: "security", Keywords: []string{"security", "vulnerability", "compliance", "encryption"}},
		},
		ProjectTypeCategories: map[string][]string{
			"api":           {"api", "auth", "monitoring", "database", "security"},
			"web_app":       {"frontend", "analytics", "auth", "monitoring", "cdn"},
			"mobile":        {"mobile", "notifications", "analytics", "auth"},
			"cli":           {"devtools", "ci-cd", "distribution"},
			"library":       {"devtools", "ci-cd", "testing", "documentation"},
			"data_pipeline": {"data", "database", "etl", "monitoring", "analytics"},
			"ml_model":      {"ml", "data", "gpu", "monitoring", "serving"},
		},
		Redundancy: []RedundancyRule{
			{Tech: "stripe", Categories: []string{"payments", "billing"}},
			{Tech: "braintree", Categories: []string{"payments"}},
			{Tech: "paypal", Categories: []string{"payments"}},
			{Tech: "auth0", Categories: []string{"auth", "identity"}},
			{Tech: "clerk", Categories: []string{"auth", "identity"}},
			{Tech: "okta", Categories: []string{"auth", "identity", "sso"}},
			{Tech: "datadog", Categories: []string{"monitoring", "observability", "apm"}},
			{Tech: "new relic", Categories: []string{"monitoring", "observability"}},
			{Tech: "sentry", Categories: []string{"monitoring", "error tracking"}},
			{Tech: "github actions", Categories: []string{"ci", "ci-cd", "devops"}},
			{Tech: "circleci", Categories: []string{"ci", "ci-cd"}},
			{Tech: "jenkins", Categories: []string{"ci", "ci-cd"}},
			{Tech: "postgresql", Categories: []string{"database"}},
			{Tech: "postgres", Categories: []string{"database"}},
			{Tech: "mysql", Categories: []string{"database"}},
			{Tech: "mongodb", Categories: []string{"database"}},
			{Tech: "redis", Categories: []string{"cache", "caching"}},
			{Tech: "segment", Categories: []string{"analytics"}},
			{Tech: "mixpanel", Categories: []string{"analytics"}},
			{Tech: "amplitude", Categories: []string{"analytics"}},
			{Tech: "algolia", Categories: []string{"search"}},
			{Tech: "elasticsearch", Categories: []string{"search"}},
			{Tech: "twilio", Categories: []string{"communications", "sms", "voice"}},
			{Tech: "sendgrid", Categories: []string{"email", "communications"}},
		},
	}
}
