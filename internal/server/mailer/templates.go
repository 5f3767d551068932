package mailer

import (
	"bytes"
	"html/template"
)

// Lead is the inquiry data rendered into lead emails.
type Lead struct {
	FirstName string
	LastName  string
	Email     string
	Company   string
	Phone     string
}

var (
	verificationTmpl = template.Must(template.New("verify").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2>Welcome to JanusIPM!</h2>
<p>Hi {{.Name}},</p>
<p>Thank you for signing up. Please verify your email address by clicking the button below:</p>
<p><a href="{{.Link}}" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Verify Email Address</a></p>
<p>Or copy and paste this link in your browser:</p>
<p style="word-break: break-all;">{{.Link}}</p>
<p>This link will expire in 7 days.</p>
<p>If you didn't create an account, you can safely ignore this email.</p>
</div>`))

	resetTmpl = template.Must(template.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2>Reset Your Password</h2>
<p>We received a request to reset your password. If you didn't make this request, you can safely ignore this email.</p>
<p><a href="{{.Link}}" style="background-color: #1a56db; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Reset Password</a></p>
<p>Or copy and paste this link into your browser:</p>
<p style="word-break: break-all;">{{.Link}}</p>
<p>This link will expire in 24 hours.</p>
<p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply to this email.</p>
</div>`))

	leadWelcomeTmpl = template.Must(template.New("lead").Parse(`<p>Hi {{.Name}},</p>
<p>Thank you for your interest in BrandVigilante. Our team will reach out to you soon to discuss your needs.</p>
<p>Best regards,<br/>BrandVigilante Team</p>`))

	leadAdminTmpl = template.Must(template.New("lead-admin").Parse(`<p>{{if .Existing}}An existing user has submitted a lead inquiry:{{else}}A new lead has signed up:{{end}}</p>
<ul>
<li>Name: {{.Lead.FirstName}} {{.Lead.LastName}}</li>
<li>Email: {{.Lead.Email}}</li>
<li>Company: {{.Lead.Company}}</li>
<li>Phone: {{if .Lead.Phone}}{{.Lead.Phone}}{{else}}N/A{{end}}</li>
</ul>`))
)

func render(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func VerificationEmail(to, firstName, link string) (Message, error) {
	html, err := render(verificationTmpl, map[string]string{"Name": firstName, "Link": link})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Verify your JanusIPM email address", HTML: html}, nil
}

func PasswordResetEmail(to, link string) (Message, error) {
	html, err := render(resetTmpl, map[string]string{"Link": link})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Reset your JanusIPM password", HTML: html}, nil
}

func LeadWelcomeEmail(to, firstName string) (Message, error) {
	html, err := render(leadWelcomeTmpl, map[string]string{"Name": firstName})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Thank you for your interest in BrandVigilante", HTML: html}, nil
}

// LeadAdminNotification tells the admin about an inquiry. existing is true
// when the email already belongs to an account.
func LeadAdminNotification(to string, lead Lead, existing bool) (Message, error) {
	html, err := render(leadAdminTmpl, struct {
		Lead     Lead
		Existing bool
	}{lead, existing})
	if err != nil {
		return Message{}, err
	}
	subject := "New Lead Inquiry"
	if existing {
		subject = "New Lead Inquiry from Existing User"
	}
	return Message{To: to, Subject: subject, HTML: html}, nil
}
