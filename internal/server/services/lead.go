package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/logging"
	"github.com/janusipm/brandvigilante/internal/server/mailer"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

// MsgLeadThanks is shown after a lead is recorded.
const MsgLeadThanks = "Thank you for your inquiry! We will be in touch soon."

// LeadResult is the answer to a lead submission. ExistingUser is set when
// the email already had an account.
type LeadResult struct {
	Message      string `json:"message"`
	ExistingUser bool   `json:"existingUser,omitempty"`
}

// LeadService records marketing inquiries as password-less lead accounts.
type LeadService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mailer.Mailer
	adminEmail  string
	log         logging.Logger
}

// NewLeadService wires the service. Notifications go to adminEmail.
func NewLeadService(db *sql.DB, m repomanager.RepositoryManager, mail mailer.Mailer, adminEmail string, log logging.Logger) *LeadService {
	if log == nil {
		log = logging.Nop{}
	}
	return &LeadService{db: db, repomanager: m, mailer: mail, adminEmail: adminEmail, log: log}
}

// Submit notifies the admin about the inquiry. A new address also becomes a
// lead user and receives a welcome email. Mail failures are logged only.
func (s *LeadService) Submit(ctx context.Context, in *validation.LeadInput) (*LeadResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	lead := mailer.Lead{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Company: in.Company, Phone: in.Phone}

	repo := s.repomanager.Users(s.db)
	_, err := repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		s.notifyAdmin(ctx, lead, true)
		return &LeadResult{Message: MsgLeadThanks, ExistingUser: true}, nil
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	phone := in.Phone
	u, err := repo.Create(ctx, &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     &phone,
		Role:      models.RoleLead,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating lead: %w", err)
	}
	s.log.Info(ctx, "lead created", "user_id", u.ID)

	if msg, err := mailer.LeadWelcomeEmail(in.Email, in.FirstName); err == nil {
		s.send(ctx, msg)
	}
	s.notifyAdmin(ctx, lead, false)
	return &LeadResult{Message: MsgLeadThanks}, nil
}

func (s *LeadService) notifyAdmin(ctx context.Context, lead mailer.Lead, existing bool) {
	if s.adminEmail == "" {
		s.log.Warn(ctx, "no admin email configured; lead notification skipped")
		return
	}
	msg, err := mailer.LeadAdminNotification(s.adminEmail, lead, existing)
	if err != nil {
		s.log.Error(ctx, "lead notification render failed", "error", err)
		return
	}
	s.send(ctx, msg)
}

func (s *LeadService) send(ctx context.Context, msg mailer.Message) {
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error(ctx, "lead email failed", "error", err, "subject", msg.Subject)
	}
}
