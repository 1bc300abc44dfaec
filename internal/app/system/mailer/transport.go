// internal/app/system/mailer/transport.go
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// service describes a named mail provider's authenticated submission endpoint.
type service struct {
	Host string
	Port int
}

// services maps provider names to their SMTP submission endpoints.
var services = map[string]service{
	"gmail":   {Host: "smtp.gmail.com", Port: 587},
	"outlook": {Host: "smtp.office365.com", Port: 587},
	"yahoo":   {Host: "smtp.mail.yahoo.com", Port: 587},
}

// Config holds the values needed to build a Transport.
type Config struct {
	Service  string // provider name, e.g. "gmail"
	Host     string // overrides the service host when set
	Port     int    // overrides the service port when > 0
	Account  string // SMTP username
	Password string // SMTP password or app password
	From     string // sender address; defaults to Account
	FromName string
}

// Email is one outgoing message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

var (
	errUnknownService = errors.New("mailer: unknown service and no host configured")
	errNoRecipient    = errors.New("mailer: no recipient")
)

// Transport sends mail through one provider. It is immutable after
// NewTransport returns and is safe for concurrent use.
type Transport struct {
	host     string
	port     int
	from     string
	fromName string
	send     func(m ...*gomail.Message) error
	log      *zap.Logger
}

// NewTransport builds a Transport from cfg. No connection is opened here;
// the SMTP session is dialed on each Send. Credentials are not checked, so a
// bad account or password shows up as an authentication error from Send.
func NewTransport(cfg Config, logger *zap.Logger) (*Transport, error) {
	host, port := cfg.Host, cfg.Port
	if svc, ok := services[strings.ToLower(strings.TrimSpace(cfg.Service))]; ok {
		if host == "" {
			host = svc.Host
		}
		if port <= 0 {
			port = svc.Port
		}
	}
	if host == "" {
		return nil, fmt.Errorf("%w: %q", errUnknownService, cfg.Service)
	}
	if port <= 0 {
		return nil, fmt.Errorf("mailer: invalid port %d", port)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Account
	}

	d := gomail.NewDialer(host, port, cfg.Account, cfg.Password)

	return &Transport{
		host:     host,
		port:     port,
		from:     from,
		fromName: cfg.FromName,
		send:     d.DialAndSend,
		log:      logger,
	}, nil
}

// Addr returns host:port of the submission endpoint.
func (t *Transport) Addr() string {
	return fmt.Sprintf("%s:%d", t.host, t.port)
}

// From returns the sender address.
func (t *Transport) From() string { return t.from }

// Send dials the provider, authenticates and submits e.
func (t *Transport) Send(ctx context.Context, e Email) error {
	if strings.TrimSpace(e.To) == "" {
		return errNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := t.send(t.message(e)); err != nil {
		t.log.Warn("mail send failed",
			zap.String("addr", t.Addr()),
			zap.String("to", e.To),
			zap.Error(err))
		return fmt.Errorf("mailer: send to %s: %w", e.To, err)
	}

	t.log.Info("mail sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}

func (t *Transport) message(e Email) *gomail.Message {
	m := gomail.NewMessage()
	if t.fromName != "" {
		m.SetAddressHeader("From", t.from, t.fromName)
	} else {
		m.SetHeader("From", t.from)
	}
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", e.Subject)

	switch {
	case e.TextBody != "" && e.HTMLBody != "":
		m.SetBody("text/plain", e.TextBody)
		m.AddAlternative("text/html", e.HTMLBody)
	case e.HTMLBody != "":
		m.SetBody("text/html", e.HTMLBody)
	default:
		m.SetBody("text/plain", e.TextBody)
	}
	return m
}
