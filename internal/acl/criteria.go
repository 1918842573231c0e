package acl

import (
	"sort"
	"strings"
)

// Criteria selects which users' permissions are proposed for deletion.
// An empty Criteria selects every user.
type Criteria struct {
	emails  map[string]struct{}
	domains map[string]struct{}
}

// NewCriteria builds Criteria from target emails and domains. Values are
// trimmed and blanks dropped; matching is exact.
func NewCriteria(emails, domains []string) Criteria {
	return Criteria{
		emails:  toSet(emails),
		domains: toSet(domains),
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// Empty reports whether no targets are configured
func (c Criteria) Empty() bool {
	return len(c.emails) == 0 && len(c.domains) == 0
}

// Matches reports whether a permission for email in domain is selected
func (c Criteria) Matches(email, domain string) bool {
	if c.Empty() {
		return true
	}
	if _, ok := c.emails[email]; ok {
		return true
	}
	_, ok := c.domains[domain]
	return ok
}

// Emails returns the target emails, sorted
func (c Criteria) Emails() []string {
	return sortedKeys(c.emails)
}

// Domains returns the target domains, sorted
func (c Criteria) Domains() []string {
	return sortedKeys(c.domains)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
