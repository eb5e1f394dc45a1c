package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

// Subjects of the two transactional emails the service sends
const (
	SubjectEmailVerification = "Confirm your registration"
	SubjectPasswordReset     = "Password reset"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<html>
<body>
  <p>Welcome! Confirm your email address to activate your account.</p>
  <p><a href="{{.Link}}">Activate account</a></p>
  <p>If you did not register, ignore this message.</p>
</body>
</html>`))

var passwordResetTmpl = template.Must(template.New("reset").Parse(`<html>
<body>
  <p>We received a request to reset your password.</p>
  <p><a href="{{.Link}}">Choose a new password</a></p>
  <p>If you did not ask for this, ignore this message and your password stays unchanged.</p>
</body>
</html>`))

// VerificationEmail renders the account activation email body
func VerificationEmail(link string) (string, error) {
	return render(verificationTmpl, link)
}

// PasswordResetEmail renders the password reset email body
func PasswordResetEmail(link string) (string, error) {
	return render(passwordResetTmpl, link)
}

func render(tmpl *template.Template, link string) (string, error) {
	var b strings.Builder
	err := tmpl.Execute(&b, struct{ Link string }{Link: link})
	if err != nil {
		return "", fmt.Errorf("error while rendering email template. Err: %w", err)
	}
	return b.String(), nil
}
