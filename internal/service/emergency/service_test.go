package emergency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type nopTxManager struct{}

func (nopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeContacts struct {
	contacts map[uuid.UUID]*models.EmergencyContact
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{contacts: make(map[uuid.UUID]*models.EmergencyContact)}
}

func (f *fakeContacts) Upsert(ctx context.Context, contact *models.EmergencyContact) error {
	cp := *contact
	f.contacts[contact.UserID] = &cp
	return nil
}

func (f *fakeContacts) Get(ctx context.Context, userID uuid.UUID) (*models.EmergencyContact, error) {
	c, ok := f.contacts[userID]
	if !ok {
		return nil, types.ErrContactNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContacts) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, ok := f.contacts[userID]; !ok {
		return types.ErrContactNotFound
	}
	delete(f.contacts, userID)
	return nil
}

type fakeAlerts struct {
	alerts []models.EmergencyAlert
}

func (f *fakeAlerts) Create(ctx context.Context, alert *models.EmergencyAlert) error {
	id, err := uuid.New()
	if err != nil {
		return err
	}
	alert.ID = id
	alert.TriggeredAt = time.Now()
	f.alerts = append(f.alerts, *alert)
	return nil
}

func (f *fakeAlerts) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.EmergencyAlert, error) {
	var out []models.EmergencyAlert
	for i := len(f.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		if f.alerts[i].UserID == userID {
			out = append(out, f.alerts[i])
		}
	}
	return out, nil
}

type captureAlertPublisher struct {
	messages []models.AlertTriggeredMessage
}

func (c *captureAlertPublisher) PublishAlertTriggered(ctx context.Context, msg models.AlertTriggeredMessage) error {
	c.messages = append(c.messages, msg)
	return nil
}

func testUser(t *testing.T) *models.User {
	t.Helper()
	id, err := uuid.New()
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}
	return &models.User{ID: id, Role: types.CustomerRole.String()}
}

func newTestService(contacts *fakeContacts, alerts *fakeAlerts, pub Publisher) *EmergencyService {
	l := logger.InitLogger("emergency-test", logger.LevelError)
	return NewEmergencyService(contacts, alerts, pub, nopTxManager{}, l)
}

func TestSetContact_ValidatesPhone(t *testing.T) {
	svc := newTestService(newFakeContacts(), &fakeAlerts{}, nil)
	user := testUser(t)

	for _, phone := range []string{"", "abc", "123", "+123456789012345678"} {
		if _, err := svc.SetContact(context.Background(), user, phone); err == nil {
			t.Fatalf("phone %q must be rejected", phone)
		} else if types.KindOf(err) != types.KindValidation {
			t.Fatalf("phone %q: expected validation error, got %v", phone, err)
		}
	}
}

func TestSetContact_ReplacesPrevious(t *testing.T) {
	contacts := newFakeContacts()
	svc := newTestService(contacts, &fakeAlerts{}, nil)
	user := testUser(t)

	if _, err := svc.SetContact(context.Background(), user, "+77001112233"); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if _, err := svc.SetContact(context.Background(), user, " 87001112233 "); err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, err := svc.GetContact(context.Background(), user)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PhoneNumber != "87001112233" {
		t.Fatalf("contact must hold the trimmed latest number, got %q", got.PhoneNumber)
	}
}

func TestDeleteContact(t *testing.T) {
	contacts := newFakeContacts()
	svc := newTestService(contacts, &fakeAlerts{}, nil)
	user := testUser(t)

	if err := svc.DeleteContact(context.Background(), user); !errors.Is(err, types.ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}

	if _, err := svc.SetContact(context.Background(), user, "+77001112233"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := svc.DeleteContact(context.Background(), user); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetContact(context.Background(), user); !errors.Is(err, types.ErrContactNotFound) {
		t.Fatalf("contact must be gone, got %v", err)
	}
}

func TestTrigger_RequiresContact(t *testing.T) {
	alerts := &fakeAlerts{}
	svc := newTestService(newFakeContacts(), alerts, nil)
	user := testUser(t)

	if _, err := svc.Trigger(context.Background(), user); !errors.Is(err, types.ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
	if len(alerts.alerts) != 0 {
		t.Fatal("no alert may be recorded without a contact")
	}
}

func TestTrigger_RecordsAndPublishes(t *testing.T) {
	contacts := newFakeContacts()
	alerts := &fakeAlerts{}
	pub := &captureAlertPublisher{}
	svc := newTestService(contacts, alerts, pub)

	user := testUser(t)
	user.LastLocation = &models.Coordinates{Latitude: 51.16, Longitude: 71.47}

	if _, err := svc.SetContact(context.Background(), user, "+77001112233"); err != nil {
		t.Fatalf("set contact: %v", err)
	}

	alert, err := svc.Trigger(context.Background(), user)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if alert.Status != types.AlertSent {
		t.Fatalf("alert must be SENT, got %s", alert.Status)
	}
	if alert.PhoneNumber != "+77001112233" {
		t.Fatalf("alert must snapshot the contact number, got %q", alert.PhoneNumber)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("expected one published message, got %d", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.AlertID != alert.ID || msg.Location == nil || msg.Location.Latitude != 51.16 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestHistory_NewestFirstCapped(t *testing.T) {
	contacts := newFakeContacts()
	alerts := &fakeAlerts{}
	svc := newTestService(contacts, alerts, nil)
	user := testUser(t)

	if _, err := svc.SetContact(context.Background(), user, "+77001112233"); err != nil {
		t.Fatalf("set contact: %v", err)
	}
	for i := 0; i < HistoryLimit+3; i++ {
		if _, err := svc.Trigger(context.Background(), user); err != nil {
			t.Fatalf("trigger %d: %v", i, err)
		}
	}

	got, err := svc.History(context.Background(), user)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(got) != HistoryLimit {
		t.Fatalf("history must be capped at %d, got %d", HistoryLimit, len(got))
	}
	if got[0].ID != alerts.alerts[len(alerts.alerts)-1].ID {
		t.Fatal("history must be newest first")
	}
}
