package sender

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"github.com/makpal80/avtoray/config"

	gopkgmail "gopkg.in/gomail.v2"
)

type EmailNotification struct {
	To       string
	Subject  string
	Template string         // имя шаблона без расширения, например "order_created"
	Data     map[string]any // данные для шаблона
}

type EmailSender struct {
	cfg  *config.Notifier
	send func(m *gopkgmail.Message) error
}

func NewEmailSender(cfg *config.Notifier) *EmailSender {
	s := &EmailSender{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

func (s *EmailSender) SendEmail(n EmailNotification) error {
	m, err := s.Build(n)
	if err != nil {
		return err
	}
	return s.send(m)
}

// Build renders both template flavours into a multipart message.
func (s *EmailSender) Build(n EmailNotification) (*gopkgmail.Message, error) {
	htmlBody, err := s.renderHTML(n.Template, n.Data)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	plainBody, err := s.renderPlain(n.Template, n.Data)
	if err != nil {
		return nil, fmt.Errorf("render plain: %w", err)
	}

	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.cfg.SMTPFrom)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if strings.Contains(htmlBody, "cid:logo") {
		iconPath := filepath.Join(s.cfg.TMPLDir, "icon.png")
		if _, errStat := os.Stat(iconPath); errStat == nil {
			m.Embed(iconPath, gopkgmail.SetHeader(map[string][]string{"Content-ID": {"<logo>"}}))
		}
	}
	return m, nil
}

func (s *EmailSender) dialAndSend(m *gopkgmail.Message) error {
	d := gopkgmail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPassword)
	d.SSL = s.cfg.SMTPPort == 465
	return d.DialAndSend(m)
}

func (s *EmailSender) renderHTML(name string, data map[string]any) (string, error) {
	content, err := os.ReadFile(filepath.Join(s.cfg.TMPLDir, name+".html"))
	if err != nil {
		return "", err
	}
	tmpl, err := htmltemplate.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *EmailSender) renderPlain(name string, data map[string]any) (string, error) {
	content, err := os.ReadFile(filepath.Join(s.cfg.TMPLDir, name+".txt"))
	if err != nil {
		return "", err
	}
	tmpl, err := texttemplate.New(name).Parse(string(content))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
