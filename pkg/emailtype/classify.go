// Package emailtype tags an email with its purpose in the application process.
//
// Classify is for arbitrary inbox mail and falls back to Other.
// ClassifyPlatformEmail is for mail already attributed to a job platform and
// falls back to ApplicationConfirmation.
package emailtype

import (
	"regexp"
	"strings"
)

// Type is the purpose of an email.
type Type string

const (
	InterviewInvitation     Type = "interview_invitation"
	Offer                   Type = "offer"
	Rejection               Type = "rejection"
	Confirmation            Type = "confirmation"
	StatusUpdate            Type = "status_update"
	RecruiterOutreach       Type = "recruiter_outreach"
	FollowUp                Type = "follow_up"
	Other                   Type = "other"
	ApplicationConfirmation Type = "application_confirmation"
)

var (
	reInterview = regexp.MustCompile(`\binterview|phone screen|schedule (?:a|your) (?:call|chat|time)|availability for a (?:call|chat)`)
	reOfferWord = regexp.MustCompile(`\boffer\b`)
	reCongrats  = regexp.MustCompile(`congratulat|pleased to (?:offer|extend)|excited to (?:offer|extend)|happy to (?:offer|extend)|delighted to`)
	reRejection = regexp.MustCompile(`unfortunately|not (?:be )?moving forward|other candidates|regret to inform|decided to (?:pursue|proceed with|move forward with) other|no longer (?:under consideration|being considered)|position has been filled`)
	reOutreach  = regexp.MustCompile(`came across your (?:profile|resume)|i(?:'m| am) a recruiter|reaching out (?:about|regarding|to you)|would you be (?:interested|open) in`)
	reFollowUp  = regexp.MustCompile(`following up|follow[- ]up|checking in`)
	reReceipt   = regexp.MustCompile(`application (?:was |has been )?(?:received|submitted|sent)|thank you for (?:applying|your application)|we (?:have )?received your application|your application was sent`)
	reStatus    = regexp.MustCompile(`\bupdate\b|\bstatus\b|application (?:was )?viewed`)
)

type rule struct {
	match func(text string) bool
	typ   Type
}

func pattern(re *regexp.Regexp, t Type) rule {
	return rule{match: re.MatchString, typ: t}
}

var offerRule = rule{
	match: func(text string) bool { return reOfferWord.MatchString(text) && reCongrats.MatchString(text) },
	typ:   Offer,
}

var generalRules = []rule{
	pattern(reInterview, InterviewInvitation),
	offerRule,
	pattern(reRejection, Rejection),
	pattern(reOutreach, RecruiterOutreach),
	pattern(reFollowUp, FollowUp),
	pattern(reReceipt, Confirmation),
	pattern(reStatus, StatusUpdate),
}

var platformRules = []rule{
	pattern(reInterview, InterviewInvitation),
	offerRule,
	pattern(reRejection, Rejection),
	pattern(reReceipt, ApplicationConfirmation),
	pattern(reStatus, StatusUpdate),
}

// Classify tags an arbitrary inbox email. Unmatched mail is Other.
func Classify(subject, body string) Type {
	return evaluate(generalRules, subject, body, Other)
}

// ClassifyPlatformEmail tags an email already attributed to a job platform.
// Unmatched mail is ApplicationConfirmation.
func ClassifyPlatformEmail(subject, body string) Type {
	return evaluate(platformRules, subject, body, ApplicationConfirmation)
}

func evaluate(rules []rule, subject, body string, fallback Type) Type {
	text := strings.ToLower(subject + " " + body)
	for _, r := range rules {
		if r.match(text) {
			return r.typ
		}
	}
	return fallback
}

// Valid reports whether t is a known type.
func Valid(t Type) bool {
	switch t {
	case InterviewInvitation, Offer, Rejection, Confirmation, StatusUpdate,
		RecruiterOutreach, FollowUp, Other, ApplicationConfirmation:
		return true
	}
	return false
}
