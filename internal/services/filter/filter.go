// Package filter screens candidate competitor lists before they are
// tracked, dropping internal brands, subsidiaries, and product rows.
package filter

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Candidate is one competitor row as returned by an external company API.
type Candidate struct {
	Name      string
	Domain    string
	Country   string
	Employees int
}

// RootDomain extracts the registrable domain (eTLD+1), so
// azure.microsoft.com and microsoft.com compare equal. Falls back to the
// last two labels when the public suffix list cannot resolve the host.
func RootDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if registrable, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return registrable
	}
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return host
}

// Competitors removes candidates that are really the base company in
// disguise: same registrable root, subdomains, names or domains containing
// the base name, and rows that look like products rather than companies
// (no employees and no country).
func Competitors(baseName, baseDomain string, candidates []Candidate) []Candidate {
	baseName = strings.ToLower(strings.TrimSpace(baseName))
	baseDomain = strings.ToLower(strings.TrimSpace(baseDomain))
	baseRoot := RootDomain(baseDomain)

	kept := []Candidate{}
	for _, cand := range candidates {
		name := strings.ToLower(strings.TrimSpace(cand.Name))
		dom := strings.ToLower(strings.TrimSpace(cand.Domain))
		if dom == "" {
			continue
		}
		if root := RootDomain(dom); root != "" && baseRoot != "" && root == baseRoot {
			continue
		}
		if baseDomain != "" && strings.HasSuffix(dom, "."+baseDomain) {
			continue
		}
		if baseName != "" && strings.Contains(name, baseName) {
			continue
		}
		if baseName != "" && strings.Contains(dom, baseName) {
			continue
		}
		if cand.Employees == 0 && cand.Country == "" {
			continue
		}
		kept = append(kept, cand)
	}
	return kept
}
