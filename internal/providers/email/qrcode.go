package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrMissingField = errors.New("missing_field")
	ErrInvalidEmail = errors.New("invalid_email")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// QRCodeRequest asks for a check-in QR code to be mailed to a guest.
type QRCodeRequest struct {
	Code  string `json:"code"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (r *QRCodeRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	if r.Code == "" || r.Email == "" || r.Name == "" {
		return ErrMissingField
	}
	if !emailPattern.MatchString(r.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// QRCodeURL renders the guest code through a public QR image service.
func QRCodeURL(code string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=" + url.QueryEscape(code)
}

var qrTemplate = template.Must(template.New("qrcode").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; text-align: center;">
	<h2>Olá, {{.Name}}!</h2>
	<p>Apresente este QR Code na entrada da festa para fazer seu check-in.</p>
	<img src="{{.QRURL}}" alt="QR Code" width="200" height="200" />
	<p>Seu código: <strong>{{.Code}}</strong></p>
	<p>Com carinho,<br/>{{.CoupleName}}</p>
</body>
</html>`))

// Mailer sends guest-facing mail for one event.
type Mailer struct {
	provider   Provider
	coupleName string
}

func NewMailer(provider Provider, coupleName string) *Mailer {
	return &Mailer{provider: provider, coupleName: coupleName}
}

// SendQRCode mails the guest their check-in QR code and returns a message
// id for the caller to log.
func (m *Mailer) SendQRCode(ctx context.Context, req QRCodeRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	var body bytes.Buffer
	err := qrTemplate.Execute(&body, map[string]string{
		"Name":       req.Name,
		"Code":       req.Code,
		"QRURL":      QRCodeURL(req.Code),
		"CoupleName": m.coupleName,
	})
	if err != nil {
		return "", err
	}

	subject := fmt.Sprintf("Seu QR Code de check-in - %s", m.coupleName)
	if err := m.provider.Send(ctx, []string{req.Email}, subject, body.String()); err != nil {
		return "", err
	}
	return uuid.NewString(), nil
}
