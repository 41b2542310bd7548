package review

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

type fakeReviews struct {
	reviews map[uuid.UUID]*models.DriverReview
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: make(map[uuid.UUID]*models.DriverReview)}
}

func (f *fakeReviews) Create(ctx context.Context, review *models.DriverReview) error {
	id, err := uuid.New()
	if err != nil {
		return err
	}
	review.ID = id
	cp := *review
	f.reviews[id] = &cp
	return nil
}

func (f *fakeReviews) Get(ctx context.Context, reviewID uuid.UUID) (*models.DriverReview, error) {
	r, ok := f.reviews[reviewID]
	if !ok {
		return nil, types.ErrReviewNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviews) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*models.DriverReview, error) {
	for _, r := range f.reviews {
		if r.BookingID == bookingID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, types.ErrReviewNotFound
}

func (f *fakeReviews) Delete(ctx context.Context, reviewID uuid.UUID) error {
	if _, ok := f.reviews[reviewID]; !ok {
		return types.ErrReviewNotFound
	}
	delete(f.reviews, reviewID)
	return nil
}

func (f *fakeReviews) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]models.DriverReview, error) {
	var out []models.DriverReview
	for _, r := range f.reviews {
		if r.DriverID == driverID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeBookings struct {
	bookings map[uuid.UUID]*models.Booking
}

func (f *fakeBookings) Get(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, types.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

type fakeRides struct {
	rides map[uuid.UUID]*models.RideRequest
}

func (f *fakeRides) Get(ctx context.Context, rideID uuid.UUID) (*models.RideRequest, error) {
	r, ok := f.rides[rideID]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	cp := *r
	return &cp, nil
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.New()
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}
	return id
}

type fixture struct {
	svc      *ReviewService
	reviews  *fakeReviews
	customer *models.User
	driver   *models.User
	booking  *models.Booking
}

func setup(t *testing.T, status types.BookingStatus) *fixture {
	t.Helper()

	customer := &models.User{ID: mustUUID(t), Role: types.CustomerRole.String()}
	driver := &models.User{ID: mustUUID(t), Role: types.DriverRole.String()}

	ride := &models.RideRequest{ID: mustUUID(t), CustomerID: customer.ID, Status: types.RideCompleted}
	booking := &models.Booking{
		ID:            mustUUID(t),
		RideRequestID: ride.ID,
		DriverID:      driver.ID,
		Status:        status,
	}

	reviews := newFakeReviews()
	bookings := &fakeBookings{bookings: map[uuid.UUID]*models.Booking{booking.ID: booking}}
	rides := &fakeRides{rides: map[uuid.UUID]*models.RideRequest{ride.ID: ride}}

	l := logger.InitLogger("review-test", logger.LevelError)
	svc := NewReviewService(reviews, bookings, rides, nopTxManager{}, l)

	return &fixture{svc: svc, reviews: reviews, customer: customer, driver: driver, booking: booking}
}

func TestSubmit_HappyPath(t *testing.T) {
	f := setup(t, types.BookingCompleted)

	review, err := f.svc.Submit(context.Background(), f.booking.ID, f.customer, 5, "  great driver  ", "img-1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if review.Rating != 5 {
		t.Fatalf("rating: got %d", review.Rating)
	}
	if review.Feedback != "great driver" {
		t.Fatalf("feedback must be trimmed, got %q", review.Feedback)
	}
	if review.DriverID != f.driver.ID || review.CustomerID != f.customer.ID {
		t.Fatal("review must link driver and customer")
	}
}

func TestSubmit_RatingRange(t *testing.T) {
	f := setup(t, types.BookingCompleted)

	for _, rating := range []int{0, -1, 6, 100} {
		if _, err := f.svc.Submit(context.Background(), f.booking.ID, f.customer, rating, "", ""); !errors.Is(err, types.ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestSubmit_OwnerOnly(t *testing.T) {
	f := setup(t, types.BookingCompleted)

	stranger := &models.User{ID: mustUUID(t), Role: types.CustomerRole.String()}
	if _, err := f.svc.Submit(context.Background(), f.booking.ID, stranger, 4, "", ""); !errors.Is(err, types.ErrNotRideOwner) {
		t.Fatalf("expected ErrNotRideOwner, got %v", err)
	}
}

func TestSubmit_BookingNotCompleted(t *testing.T) {
	for _, status := range []types.BookingStatus{types.BookingOngoing, types.BookingCancelled} {
		f := setup(t, status)
		if _, err := f.svc.Submit(context.Background(), f.booking.ID, f.customer, 4, "", ""); !errors.Is(err, types.ErrBookingNotDone) {
			t.Fatalf("status %s: expected ErrBookingNotDone, got %v", status, err)
		}
	}
}

func TestSubmit_OncePerBooking(t *testing.T) {
	f := setup(t, types.BookingCompleted)

	if _, err := f.svc.Submit(context.Background(), f.booking.ID, f.customer, 4, "", ""); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := f.svc.Submit(context.Background(), f.booking.ID, f.customer, 2, "", ""); !errors.Is(err, types.ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}
}

func TestDelete_AuthorOnly(t *testing.T) {
	f := setup(t, types.BookingCompleted)

	review, err := f.svc.Submit(context.Background(), f.booking.ID, f.customer, 3, "ok", "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := f.svc.Delete(context.Background(), review.ID, f.driver); !errors.Is(err, types.ErrNotReviewAuthor) {
		t.Fatalf("expected ErrNotReviewAuthor, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), review.ID, f.customer); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if err := f.svc.Delete(context.Background(), review.ID, f.customer); !errors.Is(err, types.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound after delete, got %v", err)
	}
}

func TestListForDriver(t *testing.T) {
	f := setup(t, types.BookingCompleted)

	if _, err := f.svc.Submit(context.Background(), f.booking.ID, f.customer, 4, "", ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, err := f.svc.ListForDriver(context.Background(), f.driver.ID)
	if err != nil || len(got) != 1 {
		t.Fatalf("list: %v (%d)", err, len(got))
	}
	none, err := f.svc.ListForDriver(context.Background(), f.customer.ID)
	if err != nil || len(none) != 0 {
		t.Fatalf("list for non-driver: %v (%d)", err, len(none))
	}
}
