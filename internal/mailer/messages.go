package mailer

import (
	"fmt"

	"github.com/smallcapsignal/signal-backend/internal/config"
)

// WelcomeMessage builds the one-time welcome email sent to a newly
// subscribed address.
func WelcomeMessage(site config.SiteConfig, email string) Message {
	subject := fmt.Sprintf("Welcome to %s – Your Edge in the Market Starts Now", site.Name)
	body := fmt.Sprintf(`Dear %s,

Welcome to %s — and thank you for joining a growing community of investors who don't just follow the market… they stay ahead of it.

How to stay ahead:

Email notifications – delivered straight to your inbox, the moment new signals go live.

RSS feed – ideal for real-time updates in your preferred news aggregator: %s/rss

To set up or customize your alerts, just reply to this email letting us know what works best for you.

Here's to smart trades and strong returns,
The %s Team
%s`, email, site.Name, site.BaseURL, site.Name, site.BaseURL)

	return Message{To: email, Subject: subject, Body: body}
}

// ContactMessage builds the relay email for a contact-form submission,
// addressed to the operator inbox.
func ContactMessage(recipient, siteName, name, fromEmail, text string) Message {
	subject := fmt.Sprintf("%s Contact: %s", siteName, name)
	body := fmt.Sprintf(`New Contact Form Submission:

Name: %s
Email: %s

Message:
%s
`, name, fromEmail, text)

	return Message{To: recipient, Subject: subject, Body: body}
}
