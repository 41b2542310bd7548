package emergency

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
	"github.com/rentadriver/ride-booking-system/pkg/metrics"
	"github.com/rentadriver/ride-booking-system/pkg/trm"
)

// HistoryLimit caps how many past alerts the history endpoint returns.
const HistoryLimit = 10

var phoneRX = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

type EmergencyService struct {
	contacts ContactRepo
	alerts   AlertRepo
	pub      Publisher
	trm      trm.TxManager
	l        logger.Logger
}

func NewEmergencyService(contacts ContactRepo, alerts AlertRepo, pub Publisher, trm trm.TxManager, l logger.Logger) *EmergencyService {
	return &EmergencyService{
		contacts: contacts,
		alerts:   alerts,
		pub:      pub,
		trm:      trm,
		l:        l,
	}
}

// SetContact saves the user's emergency phone number, replacing any
// previous one. A user has at most one contact.
func (s *EmergencyService) SetContact(ctx context.Context, user *models.User, phoneNumber string) (*models.EmergencyContact, error) {
	ctx = wrap.WithAction(ctx, "set_emergency_contact")

	phoneNumber = strings.TrimSpace(phoneNumber)
	if !phoneRX.MatchString(phoneNumber) {
		return nil, wrap.Error(ctx, types.NewError(types.KindValidation, "phone number must be 7 to 15 digits"))
	}

	contact := &models.EmergencyContact{
		UserID:      user.ID,
		PhoneNumber: phoneNumber,
	}
	if err := s.contacts.Upsert(ctx, contact); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not save emergency contact: %w", err))
	}

	s.l.Info(ctx, "emergency contact saved")
	return contact, nil
}

// GetContact returns the user's emergency contact.
func (s *EmergencyService) GetContact(ctx context.Context, user *models.User) (*models.EmergencyContact, error) {
	ctx = wrap.WithAction(ctx, "get_emergency_contact")

	contact, err := s.contacts.Get(ctx, user.ID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return contact, nil
}

// DeleteContact removes the user's emergency contact.
func (s *EmergencyService) DeleteContact(ctx context.Context, user *models.User) error {
	ctx = wrap.WithAction(ctx, "delete_emergency_contact")

	if err := s.contacts.Delete(ctx, user.ID); err != nil {
		return wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "emergency contact deleted")
	return nil
}

// Trigger records an alert against the user's registered contact and hands
// it to the delivery channel. Without a contact the trigger fails; nothing
// is recorded.
func (s *EmergencyService) Trigger(ctx context.Context, user *models.User) (*models.EmergencyAlert, error) {
	ctx = wrap.WithAction(ctx, "trigger_emergency_alert")

	var alert *models.EmergencyAlert

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		contact, err := s.contacts.Get(ctx, user.ID)
		if err != nil {
			return wrap.Error(ctx, err)
		}

		alert = &models.EmergencyAlert{
			UserID:      user.ID,
			PhoneNumber: contact.PhoneNumber,
			Status:      types.AlertSent,
		}
		if err := s.alerts.Create(ctx, alert); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not record alert: %w", err))
		}
		return nil
	})
	if err != nil {
		metrics.EmergencyAlertsTotal.WithLabelValues("rejected").Inc()
		return nil, wrap.Error(ctx, err)
	}

	metrics.EmergencyAlertsTotal.WithLabelValues(string(types.AlertSent)).Inc()

	if s.pub != nil {
		msg := models.AlertTriggeredMessage{
			AlertID:     alert.ID,
			UserID:      alert.UserID,
			PhoneNumber: alert.PhoneNumber,
			Status:      alert.Status,
			TriggeredAt: alert.TriggeredAt,
			Location:    user.LastLocation,
		}
		if err := s.pub.PublishAlertTriggered(ctx, msg); err != nil {
			s.l.Warn(ctx, "could not publish emergency alert", "error", err)
		}
	}

	s.l.Info(ctx, "emergency alert triggered")
	return alert, nil
}

// History returns the user's most recent alerts, newest first.
func (s *EmergencyService) History(ctx context.Context, user *models.User) ([]models.EmergencyAlert, error) {
	ctx = wrap.WithAction(ctx, "emergency_alert_history")

	alerts, err := s.alerts.ListRecent(ctx, user.ID, HistoryLimit)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return alerts, nil
}
