package lifecycle

import (
	"context"

	"carematch_server/internal/infrastructure/mailer"
)

// MailNotifier 通过邮件通知请求发布者
type MailNotifier struct {
	mailer mailer.Mailer
}

func NewMailNotifier(m mailer.Mailer) *MailNotifier {
	return &MailNotifier{mailer: m}
}

func (n *MailNotifier) NotifyOwnerOfClaim(ctx context.Context, ownerEmail string, interest mailer.VolunteerInterest) error {
	return n.mailer.SendVolunteerInterest(ctx, ownerEmail, interest)
}
