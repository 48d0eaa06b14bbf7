package mail

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// autoReplySummaryRunes bounds the quoted message in the auto-reply.
const autoReplySummaryRunes = 200

// Contact is the submitted form content.
type Contact struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Owner identifies the portfolio owner who receives notifications.
type Owner struct {
	Name  string
	Email string
}

var strip = bluemonday.StrictPolicy()

// clean drops any markup a visitor typed into the form. The sanitizer
// entity-encodes its output; templates escape again, so decode here.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strip.Sanitize(s)))
}

func lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

var notificationHTML = template.Must(template.New("notification").Funcs(template.FuncMap{"lines": lines}).Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">New Contact Form Submission</h2>
  <div style="background: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #334155;">Contact Details</h3>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
  </div>
  <div style="background: #ffffff; padding: 20px; border-left: 4px solid #2563eb; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #334155;">Message</h3>
    <p style="line-height: 1.6; color: #475569;">{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
  </div>
  <p style="font-size: 14px; color: #64748b;">This email was sent from your portfolio contact form.</p>
</div>`))

var autoReplyHTML = template.Must(template.New("autoreply").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563eb;">Thank You for Your Message!</h2>
  <p>Hi {{.Name}},</p>
  <p>Thank you for reaching out through my portfolio. I've received your message about "{{.Subject}}" and will get back to you as soon as possible.</p>
  <p>I typically respond within 24-48 hours.{{if .OwnerEmail}} If your inquiry is urgent, please reach out directly at {{.OwnerEmail}}.{{end}}</p>
  <div style="background: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #334155;">Your Message Summary</h3>
    <p><strong>Subject:</strong> {{.Subject}}</p>
    <p><strong>Message:</strong> {{.Summary}}</p>
  </div>
  <p>Best regards,<br>{{.OwnerName}}</p>
  <p style="font-size: 14px; color: #64748b;">This is an automated response. Please do not reply to this email.</p>
</div>`))

// ContactNotification renders the email sent to the owner for a new message.
func ContactNotification(from string, owner Owner, c Contact) (Message, error) {
	if owner.Email == "" {
		return Message{}, fmt.Errorf("owner email is not configured")
	}
	data := Contact{
		Name:    clean(c.Name),
		Email:   clean(c.Email),
		Subject: clean(c.Subject),
		Message: clean(c.Message),
	}

	var body bytes.Buffer
	if err := notificationHTML.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render notification: %w", err)
	}

	text := fmt.Sprintf("New Contact Form Submission\n\nName: %s\nEmail: %s\nSubject: %s\n\nMessage:\n%s\n",
		data.Name, data.Email, data.Subject, data.Message)

	return Message{
		From:    fmt.Sprintf("%q <%s>", "Portfolio Contact", from),
		To:      []string{owner.Email},
		ReplyTo: c.Email,
		Subject: "Portfolio Contact: " + data.Subject,
		HTML:    body.String(),
		Text:    text,
	}, nil
}

// AutoReply renders the acknowledgement sent back to the visitor.
func AutoReply(from string, owner Owner, c Contact) (Message, error) {
	data := struct {
		Name, Subject, Summary, OwnerName, OwnerEmail string
	}{
		Name:       clean(c.Name),
		Subject:    clean(c.Subject),
		Summary:    truncate(clean(c.Message), autoReplySummaryRunes),
		OwnerName:  owner.Name,
		OwnerEmail: owner.Email,
	}

	var body bytes.Buffer
	if err := autoReplyHTML.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render auto reply: %w", err)
	}

	return Message{
		From:    fmt.Sprintf("%q <%s>", owner.Name, from),
		To:      []string{c.Email},
		Subject: fmt.Sprintf("Thank you for contacting me, %s!", data.Name),
		HTML:    body.String(),
	}, nil
}
