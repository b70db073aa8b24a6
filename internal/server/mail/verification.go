package mail

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"
)

const VerificationSubject = "Verify your email"

var verificationTemplate = template.Must(template.New("verify").Parse(`<p>Hi {{.Email}},</p>
<p>Please confirm your email address to finish setting up your ContactKeeper account.</p>
<p><a target="_blank" href="{{.Link}}">Click to verify email</a></p>
<p>If you did not create an account, you can ignore this email.</p>
`))

// VerificationLink is the public URL that confirms token.
func VerificationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/api/auth/verify/" + url.PathEscape(token)
}

// VerificationEmail renders the message asking to to confirm its address.
func VerificationEmail(baseURL, to, token string) (Message, error) {
	var b bytes.Buffer
	err := verificationTemplate.Execute(&b, struct {
		Email string
		Link  string
	}{Email: to, Link: VerificationLink(baseURL, token)})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: VerificationSubject, HTML: b.String()}, nil
}
