package channel

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/pkg/errors"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/pkg/i18n"
)

//go:embed templates/notification.html
var templateFS embed.FS

var emailTemplate = template.Must(template.ParseFS(templateFS, "templates/notification.html"))

var categoryColors = map[domain.NotificationCategory]string{
	domain.CategoryInfo:    "#2563eb",
	domain.CategorySuccess: "#10b981",
	domain.CategoryWarning: "#f59e0b",
	domain.CategoryError:   "#ef4444",
	domain.CategoryUrgent:  "#b91c1c",
}

var rtlLanguages = map[string]bool{"ar": true}

type emailLabels struct {
	Greeting          string
	ViewDetails       string
	ActionRequired    string
	UrgentPrefix      string
	Footer            string
	ManagePreferences string
}

type emailData struct {
	Language       string
	Direction      string
	Title          string
	Name           string
	Paragraphs     []string
	ActionURL      string
	PreferencesURL string
	Color          string
	Urgent         bool
	Labels         emailLabels
}

// EmailContent is a rendered email ready for a transport.
type EmailContent struct {
	Subject string
	HTML    string
	Text    string
}

// EmailRenderer builds the localized HTML layout shared by every email transport.
type EmailRenderer struct {
	BaseURL         string
	DefaultLanguage string
}

func (r EmailRenderer) language(to domain.Contact, msg Message) string {
	for _, lang := range []string{msg.Language, to.Language} {
		if lang != "" && i18n.Has(lang) {
			return lang
		}
	}
	return r.DefaultLanguage
}

func (r EmailRenderer) Render(to domain.Contact, msg Message) (EmailContent, error) {
	lang := r.language(to, msg)
	labels := emailLabels{
		Greeting:          i18n.Translate(lang, "GREETING"),
		ViewDetails:       i18n.Translate(lang, "VIEW_DETAILS"),
		ActionRequired:    i18n.Translate(lang, "ACTION_REQUIRED"),
		UrgentPrefix:      i18n.Translate(lang, "URGENT_PREFIX"),
		Footer:            i18n.Translate(lang, "FOOTER"),
		ManagePreferences: i18n.Translate(lang, "MANAGE_PREFERENCES"),
	}

	paragraphs := splitParagraphs(msg.Body)
	if msg.ActionRequired {
		paragraphs = append(paragraphs, labels.ActionRequired)
	}

	color, ok := categoryColors[msg.Category]
	if !ok {
		color = categoryColors[domain.CategoryInfo]
	}

	data := emailData{
		Language:   lang,
		Direction:  "ltr",
		Title:      msg.Title,
		Name:       to.FullName,
		Paragraphs: paragraphs,
		ActionURL:  msg.ActionURL,
		Color:      color,
		Urgent:     msg.Urgent,
		Labels:     labels,
	}
	if rtlLanguages[lang] {
		data.Direction = "rtl"
	}
	if r.BaseURL != "" {
		data.PreferencesURL = strings.TrimRight(r.BaseURL, "/") + "/profile/notifications"
	}

	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, data); err != nil {
		return EmailContent{}, errors.Wrap(err, "render email template")
	}

	subject := msg.Title
	if msg.Urgent {
		subject = labels.UrgentPrefix + " " + subject
	}

	text := msg.Body
	if msg.ActionURL != "" {
		text += "\n\n" + labels.ViewDetails + ": " + msg.ActionURL
	}

	return EmailContent{Subject: subject, HTML: body.String(), Text: text}, nil
}

func splitParagraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
