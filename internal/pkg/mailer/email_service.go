package mailer

import (
	"fmt"
	"html"

	"morning-pulse-be/internal/entity"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendOpinionSubmitted(toEmail string, opinion *entity.Opinion) error
	SendOpinionDecision(opinion *entity.Opinion) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	reviewURL   string
}

func NewEmailService(host string, port int, username, password, senderName, clientURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		reviewURL:   clientURL + "/editor/opinions",
	}
}

func (s *emailService) newMessage(toEmail, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

// SendOpinionSubmitted tells the editorial inbox a guest piece is waiting for review.
func (s *emailService) SendOpinionSubmitted(toEmail string, opinion *entity.Opinion) error {
	if toEmail == "" {
		return fmt.Errorf("mailer: no editor inbox configured")
	}

	body := fmt.Sprintf(`
		<div style="font-family: Georgia, serif; padding: 20px; color: #222;">
			<h2>New opinion submitted</h2>
			<p><strong>%s</strong></p>
			<p><em>%s</em></p>
			<p>By %s, %s (%s)</p>
			<p><a href="%s">Open the review queue</a></p>
		</div>
	`,
		html.EscapeString(opinion.Headline),
		html.EscapeString(opinion.SubHeadline),
		html.EscapeString(opinion.AuthorName),
		html.EscapeString(opinion.AuthorTitle),
		html.EscapeString(opinion.Category),
		s.reviewURL,
	)

	m := s.newMessage(toEmail, "Opinion awaiting review: "+opinion.Headline, body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mailer: send submission notice: %w", err)
	}
	return nil
}

// SendOpinionDecision lets the author know whether the piece was published.
func (s *emailService) SendOpinionDecision(opinion *entity.Opinion) error {
	if opinion.AuthorEmail == "" {
		return nil
	}

	var subject, verdict string
	switch opinion.Status {
	case entity.OpinionStatusPublished:
		subject = "Your opinion piece is live"
		verdict = "<p>Your piece has been published on Morning Pulse.</p>"
	case entity.OpinionStatusRejected:
		subject = "About your opinion submission"
		verdict = "<p>Our editors decided not to publish your piece this time.</p>"
		if opinion.RejectionReason != "" {
			verdict += "<p>Reason: " + html.EscapeString(opinion.RejectionReason) + "</p>"
		}
	default:
		return nil
	}

	body := fmt.Sprintf(`
		<div style="font-family: Georgia, serif; padding: 20px; color: #222;">
			<h2>%s</h2>
			%s
		</div>
	`, html.EscapeString(opinion.Headline), verdict)

	if err := s.dialer.DialAndSend(s.newMessage(opinion.AuthorEmail, subject, body)); err != nil {
		return fmt.Errorf("mailer: send decision: %w", err)
	}
	return nil
}
