package email

import (
	"html/template"
	"strings"
)

// Шаблоны писем хранятся в коде - их два, внешняя директория не нужна.

const verificationTemplate = `
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>Welcome to SMA Daily Assist</h2>
  <p>Please confirm your email address to activate your account:</p>
  <p><a href="{{.Link}}" style="display:inline-block;padding:12px 24px;background:#4f46e5;color:#fff;border-radius:8px;text-decoration:none;">Verify Email</a></p>
  <p style="font-size:12px;color:#888;">If you did not create an account, you can ignore this message.</p>
</body>
</html>`

const urgentAlertTemplate = `
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2 style="color:#dc2626;">Urgent request</h2>
  <p><strong>{{.PatientName}}</strong> tapped <strong>"{{.ButtonLabel}}"</strong> and needs your help now.</p>
  <p>Open your dashboard to respond.</p>
</body>
</html>`

var (
	verificationTpl = template.Must(template.New("verification").Parse(verificationTemplate))
	urgentAlertTpl  = template.Must(template.New("urgent_alert").Parse(urgentAlertTemplate))
)

func renderVerificationEmail(link string) (string, error) {
	var buf strings.Builder
	err := verificationTpl.Execute(&buf, map[string]string{"Link": link})
	return buf.String(), err
}

func renderUrgentAlertEmail(patientName, buttonLabel string) (string, error) {
	var buf strings.Builder
	err := urgentAlertTpl.Execute(&buf, map[string]string{
		"PatientName": patientName,
		"ButtonLabel": buttonLabel,
	})
	return buf.String(), err
}
