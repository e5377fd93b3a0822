package email

import (
	"fmt"
	"net/url"
)

// InviteMail is the rendered content of an accountant invitation. The link
// carries the raw token; the OTP travels in the same message but must be
// typed by hand, so a forwarded link alone is not enough to accept.
type InviteMail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// RenderInvite builds the invitation mail for a company. acceptBaseURL is the
// public URL of the accept page, e.g. "https://app.zzpboek.nl/boekhouder".
func RenderInvite(to, companyName, acceptBaseURL, token, otp string) InviteMail {
	link := fmt.Sprintf("%s?token=%s", acceptBaseURL, url.QueryEscape(token))

	text := fmt.Sprintf(
		"Je bent uitgenodigd als boekhouder voor %s.\n\n"+
			"Open de onderstaande link en voer de verificatiecode in:\n\n"+
			"%s\n\nVerificatiecode: %s\n\n"+
			"De code is 10 minuten geldig, de uitnodiging 7 dagen.\n",
		companyName, link, otp)

	html := fmt.Sprintf(
		`<p>Je bent uitgenodigd als boekhouder voor <strong>%s</strong>.</p>`+
			`<p><a href="%s">Accepteer de uitnodiging</a> en voer de verificatiecode in.</p>`+
			`<p>Verificatiecode: <strong>%s</strong></p>`+
			`<p>De code is 10 minuten geldig, de uitnodiging 7 dagen.</p>`,
		companyName, link, otp)

	return InviteMail{
		To:      to,
		Subject: fmt.Sprintf("Uitnodiging boekhouder voor %s", companyName),
		HTML:    html,
		Text:    text,
	}
}
