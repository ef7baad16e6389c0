// internal/render/render.go
package render

import (
	"net/url"
	"strconv"
	"strings"
)

// Vars holds the personalization values available to a template.
type Vars struct {
	CustomerName string
	CompanyName  string
	ReviewURL    string
	Rating       int // zero means "not set"
}

// Render substitutes placeholders in user-authored template text. Both
// the {{snake_case}} form and the legacy [Capitalized] form are
// supported. Missing values become empty strings; rendering never fails,
// a template typo must not break a send.
func Render(template string, vars Vars) string {
	rating := ""
	if vars.Rating > 0 {
		rating = strconv.Itoa(vars.Rating)
	}

	pairs := []struct{ token, value string }{
		{"{{customer_name}}", vars.CustomerName},
		{"{{company_name}}", vars.CompanyName},
		{"{{review_url}}", vars.ReviewURL},
		{"{{rating}}", rating},
		{"[Name]", vars.CustomerName},
		{"[Company]", vars.CompanyName},
		{"[ReviewUrl]", vars.ReviewURL},
		{"[Rating]", rating},
	}

	out := template
	for _, p := range pairs {
		out = strings.ReplaceAll(out, p.token, p.value)
	}
	return out
}

// TrackableURL appends the customer identifier as a cid query parameter
// to the business's review link, for click-through attribution.
func TrackableURL(base, customerID string) string {
	u, err := url.Parse(base)
	if err != nil {
		// user-authored value; fall back to naive appending
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		return base + sep + "cid=" + url.QueryEscape(customerID)
	}
	q := u.Query()
	q.Set("cid", customerID)
	u.RawQuery = q.Encode()
	return u.String()
}
