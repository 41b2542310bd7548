package driver

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

type fakeProfiles struct {
	profiles map[uuid.UUID]*models.DriverProfile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[uuid.UUID]*models.DriverProfile)}
}

func (f *fakeProfiles) Get(ctx context.Context, userID uuid.UUID) (*models.DriverProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, types.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Upsert(ctx context.Context, profile *models.DriverProfile) error {
	cp := *profile
	f.profiles[profile.UserID] = &cp
	return nil
}

func (f *fakeProfiles) UpdateLocation(ctx context.Context, userID uuid.UUID, loc *models.Coordinates) error {
	p, ok := f.profiles[userID]
	if !ok {
		return types.ErrProfileNotFound
	}
	p.Location = loc
	return nil
}

func (f *fakeProfiles) ClearPicture(ctx context.Context, userID uuid.UUID) error {
	p, ok := f.profiles[userID]
	if !ok {
		return types.ErrProfileNotFound
	}
	p.PictureRef = ""
	return nil
}

type fakeUsers struct {
	locations map[uuid.UUID]*models.Coordinates
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{locations: make(map[uuid.UUID]*models.Coordinates)}
}

func (f *fakeUsers) UpdateLastLocation(ctx context.Context, userID uuid.UUID, loc *models.Coordinates) error {
	f.locations[userID] = loc
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

func testUser(t *testing.T, role types.UserRole) *models.User {
	t.Helper()
	id, err := uuid.New()
	if err != nil {
		t.Fatalf("uuid: %v", err)
	}
	return &models.User{ID: id, Role: role.String()}
}

func str(s string) *string { return &s }

func newTestService(profiles *fakeProfiles, users *fakeUsers, geo Geocoder) *DriverService {
	l := logger.InitLogger("driver-test", logger.LevelError)
	return NewDriverService(profiles, users, geo, nopTxManager{}, l)
}

func TestGetProfile_LazyCreate(t *testing.T) {
	profiles := newFakeProfiles()
	svc := newTestService(profiles, newFakeUsers(), nil)
	driver := testUser(t, types.DriverRole)

	profile, err := svc.GetProfile(context.Background(), driver)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if profile.UserID != driver.ID {
		t.Fatal("profile must belong to the caller")
	}
	if _, ok := profiles.profiles[driver.ID]; !ok {
		t.Fatal("first access must persist an empty profile")
	}
}

func TestGetProfile_DriversOnly(t *testing.T) {
	svc := newTestService(newFakeProfiles(), newFakeUsers(), nil)
	customer := testUser(t, types.CustomerRole)

	if _, err := svc.GetProfile(context.Background(), customer); !errors.Is(err, types.ErrDriverRoleOnly) {
		t.Fatalf("expected ErrDriverRoleOnly, got %v", err)
	}
}

func TestSaveProfile_PartialUpdate(t *testing.T) {
	profiles := newFakeProfiles()
	svc := newTestService(profiles, newFakeUsers(), nil)
	driver := testUser(t, types.DriverRole)

	if _, err := svc.SaveProfile(context.Background(), driver, ProfileUpdate{
		FullName:      str("  Aibek Karimov "),
		LicenseNumber: str("KZ-123"),
	}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	updated, err := svc.SaveProfile(context.Background(), driver, ProfileUpdate{
		VehicleDetails: str("Toyota Camry, white"),
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if updated.FullName != "Aibek Karimov" {
		t.Fatalf("untouched fields must survive, got %q", updated.FullName)
	}
	if updated.LicenseNumber != "KZ-123" || updated.VehicleDetails != "Toyota Camry, white" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
}

func TestSaveProfile_GeocodesChangedAddress(t *testing.T) {
	geo := &fakeGeocoder{lat: 51.1, lon: 71.4}
	svc := newTestService(newFakeProfiles(), newFakeUsers(), geo)
	driver := testUser(t, types.DriverRole)

	profile, err := svc.SaveProfile(context.Background(), driver, ProfileUpdate{
		Address: str("12 Turan Ave, Astana"),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if geo.calls != 1 {
		t.Fatalf("expected one geocoder call, got %d", geo.calls)
	}
	if profile.Location == nil || profile.Location.Latitude != 51.1 {
		t.Fatalf("location not geocoded: %+v", profile.Location)
	}

	// Same address again: no re-geocode.
	if _, err := svc.SaveProfile(context.Background(), driver, ProfileUpdate{
		Address: str("12 Turan Ave, Astana"),
	}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	if geo.calls != 1 {
		t.Fatalf("unchanged address must not be re-geocoded, calls=%d", geo.calls)
	}
}

func TestSaveProfile_ExplicitLocationWins(t *testing.T) {
	geo := &fakeGeocoder{lat: 1, lon: 1}
	svc := newTestService(newFakeProfiles(), newFakeUsers(), geo)
	driver := testUser(t, types.DriverRole)

	loc := &models.Coordinates{Latitude: 43.2, Longitude: 76.9}
	profile, err := svc.SaveProfile(context.Background(), driver, ProfileUpdate{
		Address:  str("somewhere"),
		Location: loc,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if geo.calls != 0 {
		t.Fatal("geocoder must not run when the client sent coordinates")
	}
	if profile.Location == nil || profile.Location.Latitude != 43.2 {
		t.Fatalf("explicit location must win: %+v", profile.Location)
	}
}

func TestDeletePicture(t *testing.T) {
	profiles := newFakeProfiles()
	svc := newTestService(profiles, newFakeUsers(), nil)
	driver := testUser(t, types.DriverRole)

	if _, err := svc.SaveProfile(context.Background(), driver, ProfileUpdate{PictureRef: str("img-42")}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.DeletePicture(context.Background(), driver); err != nil {
		t.Fatalf("delete picture: %v", err)
	}
	if profiles.profiles[driver.ID].PictureRef != "" {
		t.Fatal("picture reference must be cleared")
	}
}

func TestUpdateLocation_Validation(t *testing.T) {
	svc := newTestService(newFakeProfiles(), newFakeUsers(), nil)
	customer := testUser(t, types.CustomerRole)

	if err := svc.UpdateLocation(context.Background(), customer, nil); !errors.Is(err, types.ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}

	bad := []models.Coordinates{
		{Latitude: 91, Longitude: 0},
		{Latitude: -91, Longitude: 0},
		{Latitude: 0, Longitude: 181},
		{Latitude: 0, Longitude: -181},
	}
	for _, loc := range bad {
		lc := loc
		if err := svc.UpdateLocation(context.Background(), customer, &lc); types.KindOf(err) != types.KindValidation {
			t.Fatalf("coords %+v: expected validation error, got %v", loc, err)
		}
	}
}

func TestUpdateLocation_CustomerUpdatesAccountOnly(t *testing.T) {
	profiles := newFakeProfiles()
	users := newFakeUsers()
	svc := newTestService(profiles, users, nil)
	customer := testUser(t, types.CustomerRole)

	loc := &models.Coordinates{Latitude: 51.1, Longitude: 71.4}
	if err := svc.UpdateLocation(context.Background(), customer, loc); err != nil {
		t.Fatalf("update: %v", err)
	}
	if users.locations[customer.ID] != loc {
		t.Fatal("account location must be stored")
	}
	if len(profiles.profiles) != 0 {
		t.Fatal("customers must not get driver profiles")
	}
}

func TestUpdateLocation_DriverUpdatesProfileToo(t *testing.T) {
	profiles := newFakeProfiles()
	users := newFakeUsers()
	svc := newTestService(profiles, users, nil)
	driver := testUser(t, types.DriverRole)

	// No profile yet: profile update is skipped, account still stored.
	loc := &models.Coordinates{Latitude: 51.1, Longitude: 71.4}
	if err := svc.UpdateLocation(context.Background(), driver, loc); err != nil {
		t.Fatalf("update without profile: %v", err)
	}
	if users.locations[driver.ID] != loc {
		t.Fatal("account location must be stored even without a profile")
	}

	if _, err := svc.GetProfile(context.Background(), driver); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	loc2 := &models.Coordinates{Latitude: 43.2, Longitude: 76.9}
	if err := svc.UpdateLocation(context.Background(), driver, loc2); err != nil {
		t.Fatalf("update with profile: %v", err)
	}
	if got := profiles.profiles[driver.ID].Location; got == nil || got.Latitude != 43.2 {
		t.Fatalf("profile position must follow the account: %+v", got)
	}
}
