package ride

import (
	"context"
	"errors"
	"testing"

	"github.com/rentadriver/ride-booking-system/internal/domain/models"
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	"github.com/rentadriver/ride-booking-system/pkg/uuid"
)

type nopTxManager struct{}

func (nopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRideRepo struct {
	rides map[uuid.UUID]*models.RideRequest
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{rides: make(map[uuid.UUID]*models.RideRequest)}
}

func (f *fakeRideRepo) Create(ctx context.Context, ride *models.RideRequest) error {
	id, err := uuid.New()
	if err != nil {
		return err
	}
	ride.ID = id
	cp := *ride
	f.rides[id] = &cp
	return nil
}

func (f *fakeRideRepo) Get(ctx context.Context, rideID uuid.UUID) (*models.RideRequest, error) {
	r, ok := f.rides[rideID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRideRepo) UpdateLocations(ctx context.Context, rideID uuid.UUID, pickup, dropoff string, pickupLoc *models.Coordinates) error {
	r, ok := f.rides[rideID]
	if !ok {
		return types.ErrRideNotFound
	}
	r.Pickup, r.Dropoff, r.PickupLocation = pickup, dropoff, pickupLoc
	return nil
}

func (f *fakeRideRepo) SetStatus(ctx context.Context, rideID uuid.UUID, status types.RideStatus) error {
	r, ok := f.rides[rideID]
	if !ok {
		return types.ErrRideNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeRideRepo) AcceptPending(ctx context.Context, rideID uuid.UUID) (bool, error) {
	r, ok := f.rides[rideID]
	if !ok {
		return false, nil
	}
	if r.Status != types.RidePending {
		return false, nil
	}
	r.Status = types.RideAccepted
	return true, nil
}

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*models.Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	id, err := uuid.New()
	if err != nil {
		return err
	}
	booking.ID = id
	cp := *booking
	f.bookings[id] = &cp
	return nil
}

func (f *fakeBookingRepo) GetByRide(ctx context.Context, rideID uuid.UUID) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.RideRequestID == rideID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, types.ErrBookingNotFound
}

func (f *fakeBookingRepo) SetStatus(ctx context.Context, bookingID uuid.UUID, status types.BookingStatus) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return types.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

type fakeGeocoder struct {
	lat, lon float64
	err      error
	calls    int
}

func (f *fakeGeocoder) GetLocation(ctx context.Context, address string) (float64, float64, error) {
	f.calls++
	return f.lat, f.lon, f.err
}

type capturePublisher struct {
	messages []models.BookingStatusMessage
}

func (c *capturePublisher) PublishBookingStatus(ctx context.Context, msg models.BookingStatusMessage) error {
	c.messages = append(c.messages, msg)
	return nil
}

func testUser(t *testing.T, role types.UserRole) *models.User {
	t.Helper()
	id, err := uuid.New()
	if err != nil {
		t.Fatalf("failed to create uuid: %v", err)
	}
	return &models.User{ID: id, Email: "u@example.com", Role: role.String()}
}

func newTestService(rides *fakeRideRepo, bookings *fakeBookingRepo, geo Geocoder, pub Publisher) *RideService {
	l := logger.InitLogger("ride-test", logger.LevelError)
	return NewRideService(rides, bookings, geo, pub, nopTxManager{}, l)
}

func TestCreate_CustomerOnly(t *testing.T) {
	svc := newTestService(newFakeRideRepo(), newFakeBookingRepo(), nil, nil)

	driver := testUser(t, types.DriverRole)
	_, err := svc.Create(context.Background(), driver, "a", "b", nil)
	if !errors.Is(err, types.ErrCustomerRoleOnly) {
		t.Fatalf("expected ErrCustomerRoleOnly, got %v", err)
	}
}

func TestCreate_EmptyLocations(t *testing.T) {
	svc := newTestService(newFakeRideRepo(), newFakeBookingRepo(), nil, nil)
	customer := testUser(t, types.CustomerRole)

	for _, tc := range [][2]string{{"", "b"}, {"a", ""}, {"   ", "b"}} {
		if _, err := svc.Create(context.Background(), customer, tc[0], tc[1], nil); !errors.Is(err, types.ErrEmptyRideLocation) {
			t.Fatalf("pickup=%q dropoff=%q: expected ErrEmptyRideLocation, got %v", tc[0], tc[1], err)
		}
	}
}

func TestCreate_GeocodesPickup(t *testing.T) {
	geo := &fakeGeocoder{lat: 51.16, lon: 71.47}
	svc := newTestService(newFakeRideRepo(), newFakeBookingRepo(), geo, nil)
	customer := testUser(t, types.CustomerRole)

	ride, err := svc.Create(context.Background(), customer, "airport", "old town", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geo.calls != 1 {
		t.Fatalf("expected one geocoder call, got %d", geo.calls)
	}
	if ride.PickupLocation == nil || ride.PickupLocation.Latitude != 51.16 {
		t.Fatalf("pickup location not filled from geocoder: %+v", ride.PickupLocation)
	}
	if ride.Status != types.RidePending {
		t.Fatalf("new ride must be PENDING, got %s", ride.Status)
	}
}

func TestCreate_GeocoderFailureIsNotFatal(t *testing.T) {
	geo := &fakeGeocoder{err: errors.New("nominatim down")}
	svc := newTestService(newFakeRideRepo(), newFakeBookingRepo(), geo, nil)
	customer := testUser(t, types.CustomerRole)

	ride, err := svc.Create(context.Background(), customer, "airport", "old town", nil)
	if err != nil {
		t.Fatalf("geocoding failure must not fail creation: %v", err)
	}
	if ride.PickupLocation != nil {
		t.Fatal("pickup location must stay nil when geocoding fails")
	}
}

func TestCreate_ClientCoordinatesSkipGeocoder(t *testing.T) {
	geo := &fakeGeocoder{lat: 1, lon: 1}
	svc := newTestService(newFakeRideRepo(), newFakeBookingRepo(), geo, nil)
	customer := testUser(t, types.CustomerRole)

	loc := &models.Coordinates{Latitude: 43.23, Longitude: 76.88}
	ride, err := svc.Create(context.Background(), customer, "airport", "old town", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geo.calls != 0 {
		t.Fatal("geocoder must not be called when coordinates are supplied")
	}
	if ride.PickupLocation != loc {
		t.Fatal("client coordinates must be kept as-is")
	}
}

func TestAccept_CreatesBookingAndPublishes(t *testing.T) {
	rides := newFakeRideRepo()
	bookings := newFakeBookingRepo()
	pub := &capturePublisher{}
	svc := newTestService(rides, bookings, nil, pub)

	customer := testUser(t, types.CustomerRole)
	driver := testUser(t, types.DriverRole)

	ride, err := svc.Create(context.Background(), customer, "a", "b", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	booking, err := svc.Accept(context.Background(), ride.ID, driver)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if booking.Status != types.BookingOngoing {
		t.Fatalf("new booking must be ONGOING, got %s", booking.Status)
	}
	if booking.DriverID != driver.ID {
		t.Fatal("booking must be assigned to the accepting driver")
	}

	stored, err := rides.Get(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if stored.Status != types.RideAccepted {
		t.Fatalf("ride must be ACCEPTED, got %s", stored.Status)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.BookingID != booking.ID || msg.CustomerID != customer.ID || msg.Status != types.BookingOngoing {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestAccept_DriverOnly(t *testing.T) {
	svc := newTestService(newFakeRideRepo(), newFakeBookingRepo(), nil, nil)
	customer := testUser(t, types.CustomerRole)

	ride, err := svc.Create(context.Background(), customer, "a", "b", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Accept(context.Background(), ride.ID, customer); !errors.Is(err, types.ErrDriverRoleOnly) {
		t.Fatalf("expected ErrDriverRoleOnly, got %v", err)
	}
}

func TestAccept_SecondDriverLoses(t *testing.T) {
	rides := newFakeRideRepo()
	svc := newTestService(rides, newFakeBookingRepo(), nil, nil)

	customer := testUser(t, types.CustomerRole)
	first := testUser(t, types.DriverRole)
	second := testUser(t, types.DriverRole)

	ride, err := svc.Create(context.Background(), customer, "a", "b", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Accept(context.Background(), ride.ID, first); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := svc.Accept(context.Background(), ride.ID, second); !errors.Is(err, types.ErrRideAlreadyTaken) {
		t.Fatalf("expected ErrRideAlreadyTaken, got %v", err)
	}
}

func TestAccept_CancelledRide(t *testing.T) {
	rides := newFakeRideRepo()
	svc := newTestService(rides, newFakeBookingRepo(), nil, nil)

	customer := testUser(t, types.CustomerRole)
	driver := testUser(t, types.DriverRole)

	ride, err := svc.Create(context.Background(), customer, "a", "b", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), ride.ID, customer); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.Accept(context.Background(), ride.ID, driver); !errors.Is(err, types.ErrRideNotPending) {
		t.Fatalf("expected ErrRideNotPending, got %v", err)
	}
}

func TestEdit_OwnerAndPendingOnly(t *testing.T) {
	rides := newFakeRideRepo()
	bookings := newFakeBookingRepo()
	svc := newTestService(rides, bookings, nil, nil)

	customer := testUser(t, types.CustomerRole)
	stranger := testUser(t, types.CustomerRole)
	driver := testUser(t, types.DriverRole)

	ride, err := svc.Create(context.Background(), customer, "a", "b", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Edit(context.Background(), ride.ID, stranger, "x", "y", nil); !errors.Is(err, types.ErrNotRideOwner) {
		t.Fatalf("expected ErrNotRideOwner, got %v", err)
	}

	if _, err := svc.Accept(context.Background(), ride.ID, driver); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Edit(context.Background(), ride.ID, customer, "x", "y", nil); !errors.Is(err, types.ErrRideNotPending) {
		t.Fatalf("expected ErrRideNotPending, got %v", err)
	}
}

func TestEdit_RegecodesChangedPickup(t *testing.T) {
	geo := &fakeGeocoder{err: errors.New("offline")}
	rides := newFakeRideRepo()
	svc := newTestService(rides, newFakeBookingRepo(), geo, nil)
	customer := testUser(t, types.CustomerRole)

	ride, err := svc.Create(context.Background(), customer, "a", "b", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	geo.err = nil
	geo.lat, geo.lon = 10, 20

	updated, err := svc.Edit(context.Background(), ride.ID, customer, "new pickup", "b", nil)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.Pickup != "new pickup" {
		t.Fatalf("pickup not updated: %q", updated.Pickup)
	}
	if updated.PickupLocation == nil || updated.PickupLocation.Latitude != 10 {
		t.Fatalf("changed pickup must be re-geocoded: %+v", updated.PickupLocation)
	}
}

func TestCancel_ByOwnerCancelsBookingToo(t *testing.T) {
	rides := newFakeRideRepo()
	bookings := newFakeBookingRepo()
	pub := &capturePublisher{}
	svc := newTestService(rides, bookings, nil, pub)

	customer := testUser(t, types.CustomerRole)
	driver := testUser(t, types.DriverRole)

	ride, err := svc.Create(context.Background(), customer, "a", "b", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Accept(context.Background(), ride.ID, driver); err != nil {
		t.Fatalf("accept: %v", err)
	}

	result, err := svc.Cancel(context.Background(), ride.ID, customer)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if result.AlreadyFinalized {
		t.Fatal("first cancel must not report already finalized")
	}

	stored, _ := rides.Get(context.Background(), ride.ID)
	if stored.Status != types.RideCancelled {
		t.Fatalf("ride must be CANCELLED, got %s", stored.Status)
	}
	booking, err := bookings.GetByRide(context.Background(), ride.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if booking.Status != types.BookingCancelled {
		t.Fatalf("booking must be CANCELLED, got %s", booking.Status)
	}

	// accept + cancel
	if len(pub.messages) != 2 {
		t.Fatalf("expected 2 published messages, got %d", len(pub.messages))
	}
	if pub.messages[1].Status != types.BookingCancelled {
		t.Fatalf("last message must carry CANCELLED, got %s", pub.messages[1].Status)
	}
}

func TestCancel_ByAssignedDriver(t *testing.T) {
	rides := newFakeRideRepo()
	bookings := newFakeBookingRepo()
	svc := newTestService(rides, bookings, nil, nil)

	customer := testUser(t, types.CustomerRole)
	driver := testUser(t, types.DriverRole)

	ride, err := svc.Create(context.Background(), customer, "a", "b", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Accept(context.Background(), ride.ID, driver); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), ride.ID, driver); err != nil {
		t.Fatalf("assigned driver must be allowed to cancel: %v", err)
	}
}

func TestCancel_StrangerForbidden(t *testing.T) {
	rides := newFakeRideRepo()
	svc := newTestService(rides, newFakeBookingRepo(), nil, nil)

	customer := testUser(t, types.CustomerRole)
	stranger := testUser(t, types.DriverRole)

	ride, err := svc.Create(context.Background(), customer, "a", "b", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), ride.ID, stranger); !errors.Is(err, types.ErrNotCancelParty) {
		t.Fatalf("expected ErrNotCancelParty, got %v", err)
	}
}

func TestCancel_Idempotent(t *testing.T) {
	rides := newFakeRideRepo()
	svc := newTestService(rides, newFakeBookingRepo(), nil, nil)
	customer := testUser(t, types.CustomerRole)

	ride, err := svc.Create(context.Background(), customer, "a", "b", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.Cancel(context.Background(), ride.ID, customer)
	if err != nil || first.AlreadyFinalized {
		t.Fatalf("first cancel: result=%+v err=%v", first, err)
	}

	second, err := svc.Cancel(context.Background(), ride.ID, customer)
	if err != nil {
		t.Fatalf("second cancel must not error: %v", err)
	}
	if !second.AlreadyFinalized {
		t.Fatal("second cancel must report already finalized")
	}
}

func TestCancel_UnknownRide(t *testing.T) {
	svc := newTestService(newFakeRideRepo(), newFakeBookingRepo(), nil, nil)
	customer := testUser(t, types.CustomerRole)

	id, err := uuid.New()
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), id, customer); !errors.Is(err, types.ErrRideNotFound) {
		t.Fatalf("expected ErrRideNotFound, got %v", err)
	}
}
