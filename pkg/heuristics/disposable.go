package heuristics

import "strings"

// builtinDisposableDomains are throwaway inbox providers seen in spam leads.
var builtinDisposableDomains = []string{
	"10minutemail.com",
	"dispostable.com",
	"fakeinbox.com",
	"getnada.com",
	"guerrillamail.com",
	"maildrop.cc",
	"mailinator.com",
	"sharklasers.com",
	"temp-mail.org",
	"tempmail.com",
	"throwaway.email",
	"trashmail.com",
	"yopmail.com",
}

// BuiltinDisposableDomains returns a copy of the built-in list.
func BuiltinDisposableDomains() []string {
	return append([]string(nil), builtinDisposableDomains...)
}

func newDomainSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(builtinDisposableDomains)+len(extra))
	for _, d := range builtinDisposableDomains {
		set[d] = struct{}{}
	}
	for _, d := range extra {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set[d] = struct{}{}
		}
	}
	return set
}

// IsDisposable reports whether the email's domain is a known disposable
// provider. Only exact domain matches count.
func (c *Classifier) IsDisposable(email string) bool {
	domain := EmailDomain(email)
	if domain == "" {
		return false
	}
	_, ok := c.disposable[domain]
	return ok
}
