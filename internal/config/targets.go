package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Targets is the content of a targets file:
//
//	emails:
//	  - user1@example.com
//	domains:
//	  - partner.example.org
type Targets struct {
	Emails  []string `yaml:"emails"`
	Domains []string `yaml:"domains"`
}

// LoadTargets reads a YAML targets file. Entries are trimmed and blanks dropped.
func LoadTargets(path string) (*Targets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file %s: %w", path, err)
	}

	var t Targets
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse targets file %s: %w", path, err)
	}
	t.Emails = clean(t.Emails)
	t.Domains = clean(t.Domains)
	return &t, nil
}

// Merge returns the union of the receiver and the given emails and domains,
// keeping first-seen order
func (t *Targets) Merge(emails, domains []string) *Targets {
	merged := &Targets{}
	if t != nil {
		merged.Emails = append(merged.Emails, t.Emails...)
		merged.Domains = append(merged.Domains, t.Domains...)
	}
	merged.Emails = dedupe(append(merged.Emails, clean(emails)...))
	merged.Domains = dedupe(append(merged.Domains, clean(domains)...))
	return merged
}

func clean(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
