package platform

import (
	"iter"
	"regexp"
	"strings"
)

// Registry holds the compiled signatures in evaluation order. It is read-only
// after construction and safe for concurrent use.
type Registry struct {
	signatures []Signature
	byName     map[string]int
}

func newRegistry(sigs []Signature) *Registry {
	r := &Registry{signatures: sigs, byName: make(map[string]int, len(sigs))}
	for i, s := range sigs {
		r.byName[s.Name] = i
	}
	return r
}

// Names returns platform names in evaluation order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.signatures))
	for i, s := range r.signatures {
		out[i] = s.Name
	}
	return out
}

// Signature returns the compiled signature for a platform.
func (r *Registry) Signature(name string) (Signature, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Signature{}, false
	}
	return r.signatures[i], true
}

// Detect returns the first platform whose sender or subject patterns match.
// ok is false when no platform matches; callers must treat that as an email
// they cannot process.
func (r *Registry) Detect(fromEmail, subject string) (name string, ok bool) {
	for i := range r.signatures {
		if r.signatures[i].matches(fromEmail, subject) {
			return r.signatures[i].Name, true
		}
	}
	return "", false
}

// Extract applies the platform's field patterns to subject + "\n" + body.
// Fields without a match stay nil; an unknown platform yields empty details.
func (r *Registry) Extract(platform, subject, body string) JobDetails {
	var d JobDetails
	sig, ok := r.Signature(platform)
	if !ok {
		return d
	}
	text := subject + "\n" + body
	for _, f := range Fields {
		d.set(f, first(captures(sig.Fields[f], text)))
	}
	return d
}

// captures yields the trimmed first capture group of each pattern that
// produces a non-empty one, in pattern order. Patterns after the consumer
// stops are never evaluated.
func captures(patterns []*regexp.Regexp, text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, re := range patterns {
			m := re.FindStringSubmatch(text)
			if len(m) < 2 {
				continue
			}
			v := strings.TrimSpace(m[1])
			if v == "" {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

func first(seq iter.Seq[string]) *string {
	for v := range seq {
		return &v
	}
	return nil
}
