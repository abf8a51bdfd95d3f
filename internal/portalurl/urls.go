package portalurl

import "os"

// Defaults used when the matching environment variable is unset
const (
	DefaultBaseURL      = "http://localhost:8080"
	DefaultDemoContext  = "/group/portal-demos"
	DefaultIssueContext = "/web/portal-issues"
)

// Environment variables that override the defaults
const (
	EnvBaseURL      = "INTEGRATION_URL"
	EnvDemoContext  = "INTEGRATION_DEMO_CONTEXT"
	EnvIssueContext = "INTEGRATION_ISSUE_CONTEXT"
)

func envOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// BaseURL returns the portal base URL
func BaseURL() string {
	return envOrDefault(EnvBaseURL, DefaultBaseURL)
}

// DemoContext returns the path of a demo portlet page
func DemoContext(page string) string {
	return envOrDefault(EnvDemoContext, DefaultDemoContext) + "/" + page
}

// DemoPageURL returns the absolute URL of a demo portlet page
func DemoPageURL(page string) string {
	return BaseURL() + DemoContext(page)
}

// IssueContext returns the path of an issue reproduction page
func IssueContext(page string) string {
	return envOrDefault(EnvIssueContext, DefaultIssueContext) + "/" + page
}

// IssuePageURL returns the absolute URL of an issue reproduction page
func IssuePageURL(page string) string {
	return BaseURL() + IssueContext(page)
}
