package notification

import "aide-sociale/internal/domain"

// ResolveChannels returns a private copy of requested with the recipient's
// opt-outs applied. Only email and SMS are preference-gated.
func ResolveChannels(requested domain.Channels, prefs domain.NotificationPrefs) domain.Channels {
	resolved := requested.Clone()
	if prefs.EmailDisabled() {
		resolved.Email.Enabled = false
	}
	if prefs.SMSDisabled() {
		resolved.SMS.Enabled = false
	}
	return resolved
}
