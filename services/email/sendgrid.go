package emailsvc

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/protimer/core"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
	sendgridTimeout  = 10 * time.Second
)

// linkTemplates carry one-time links that click tracking would rewrite.
var linkTemplates = map[string]bool{
	"password_reset": true,
}

type sendgridService struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
	category   string
	client     *rest.Client
	logger     core.Logger
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config, logger core.Logger) core.EmailService {
	return newSendgridService(conf, logger, sendgridHost, &http.Client{Timeout: sendgridTimeout})
}

func newSendgridService(conf *core.Config, logger core.Logger, host string, httpClient *http.Client) *sendgridService {
	from := conf.DefaultFromEmail
	if from.Name == "" {
		from.Name = conf.AppName
	}
	return &sendgridService{
		key:        conf.SendgridApiKey,
		host:       host,
		from:       sgmail.NewEmail(from.Name, from.Address),
		subjPrefix: "[" + conf.AppName + "] ",
		category:   strings.ToLower(conf.AppName),
		client:     &rest.Client{HTTPClient: httpClient},
		logger:     logger,
	}
}

func (svc *sendgridService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := msg.Render(); err != nil {
				svc.logger.Error(fmt.Sprintf("rendering email %q: %v", msg.TemplateName, err), err)
				return
			}
			if !msg.HasRecipients() || !(msg.HasContent() || msg.HasAttachments()) {
				return
			}
			if err := svc.send(*msg); err != nil {
				svc.logger.Error(fmt.Sprintf("sending email %q: %v", msg.TemplateName, err), err)
			}
		}()
	}
}

func (svc *sendgridService) prepare(msg core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgEmail(to))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(sgEmail(cc))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(sgEmail(bcc))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)

	m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	for _, at := range msg.Attachments {
		m.AddAttachment(&sgmail.Attachment{
			Content:     at.Content.String(),
			Type:        at.ContentType,
			Filename:    at.Filename,
			Disposition: "attachment",
		})
	}

	m.AddCategories(svc.category)
	if msg.TemplateName != "" {
		m.AddCategories(msg.TemplateName)
	}
	if linkTemplates[msg.TemplateName] {
		clicks := sgmail.NewClickTrackingSetting().SetEnable(false).SetEnableText(false)
		m.SetTrackingSettings(sgmail.NewTrackingSettings().SetClickTracking(clicks))
	}
	return m
}

func sgEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}

func (svc *sendgridService) send(msg core.EmailMessage) error {
	req := sendgrid.GetRequest(svc.key, sendgridEndpoint, svc.host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(svc.prepare(msg))

	res, err := svc.client.Send(req)
	if err != nil {
		return errors.Wrap(err, "calling sendgrid")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
