package email

import (
	"bytes"
	"errors"
	"net/smtp"
	"strings"
)

// smtpSender exists so tests can intercept the outbound message
type smtpSender func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

var defaultSender smtpSender = smtp.SendMail

// Client sends transactional email over SMTP
type Client struct {
	auth   smtp.Auth
	from   string
	sender string
	host   string
}

// NewClient returns a new email client
// host must be in host:port form
func NewClient(from, sender, username, password, host string) (*Client, error) {
	hostname, _, found := strings.Cut(host, ":")
	if !found {
		return nil, errors.New("host must have a port")
	}

	return &Client{
		auth:   smtp.PlainAuth("", username, password, hostname),
		from:   from,
		sender: sender,
		host:   host,
	}, nil
}

// SendSimple sends a text/html email to a single recipient
func (c *Client) SendSimple(to, subject, msg string) error {
	return c.Send([]string{to}, nil, nil, subject, msg)
}

// Send sends a text/html email
// Bcc recipients receive the message but are not named in the headers
func (c *Client) Send(to, cc, bcc []string, subject, msg string) error {
	recipients := make([]string, 0, len(to)+len(cc)+len(bcc))
	recipients = append(recipients, to...)
	recipients = append(recipients, cc...)
	recipients = append(recipients, bcc...)

	var buf bytes.Buffer
	writeHeader(&buf, "To", strings.Join(to, ","))
	writeHeader(&buf, "Cc", strings.Join(cc, ","))
	writeHeader(&buf, "From", c.from)
	writeHeader(&buf, "Subject", subject)
	buf.WriteString("Content-Type: text/html\n\n")
	buf.WriteString(msg)

	return defaultSender(c.host, c.auth, c.sender, recipients, buf.Bytes())
}

func writeHeader(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}

	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\n")
}
