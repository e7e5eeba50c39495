// Package fetch - platform.go recognizes common applicant tracking
// systems so description extraction can use selectors that fit them.
package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies a known applicant tracking system.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS
	PlatformWorkday Platform = "workday"
	// PlatformGeneric is any unrecognized site
	PlatformGeneric Platform = "generic"
)

var platformHosts = []struct {
	platform Platform
	hosts    []string
}{
	{PlatformGreenhouse, []string{"greenhouse.io"}},
	{PlatformLever, []string{"lever.co"}},
	{PlatformWorkday, []string{"workday.com", "myworkdayjobs.com"}},
}

// DetectPlatform identifies the tracking system serving a posting URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformGeneric
	}

	host := strings.ToLower(parsed.Host)
	for _, entry := range platformHosts {
		for _, h := range entry.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return entry.platform
			}
		}
	}

	return PlatformGeneric
}

// PlatformDescriptionSelectors returns description content selectors for
// a known platform, falling back to the generic set.
func PlatformDescriptionSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			"#content",
			".job-post-container",
		}
	case PlatformLever:
		return []string{
			".posting-description",
			".posting-page",
			".section-wrapper.page-full-width",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".gwt-HTML",
			".job-description",
		}
	default:
		return DescriptionSelectors()
	}
}

// PlatformNoiseSelectors returns selectors for application forms and
// legal boilerplate that should never end up in a description.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		".voluntary-disclosure",
		".eeo-statement",
		".self-identification",
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common,
			".application--wrapper",
			".voluntary-self-id",
			".post-apply",
		)
	case PlatformLever:
		return append(common,
			".apply-section",
			".posting-apply",
		)
	case PlatformWorkday:
		return append(common,
			"[data-automation-id='applyButton']",
			".application-section",
		)
	default:
		return common
	}
}
