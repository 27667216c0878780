package rest_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/internal/infrastructure/auth"
	"parceltrack-service/internal/interface/rest"
	"parceltrack-service/internal/usecase"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/metrics"
)

var restMetrics = metrics.NewMetrics("parceltrack_rest_test")

// fakeVerifier resolves tokens from a fixed map; anything else fails
// verification.
type fakeVerifier struct {
	tokens map[string]auth.Identity
}

func (v *fakeVerifier) Verify(_ context.Context, token string) (auth.Identity, error) {
	if id, ok := v.tokens[token]; ok {
		return id, nil
	}
	return auth.Identity{}, apperr.New(apperr.Forbidden, "forbidden access")
}

type stubGateway struct {
	secret string
	err    error
}

func (g *stubGateway) CreateIntent(_ context.Context, _ int64) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.secret, nil
}

// testBackend is the whole service over in-memory state.
type testBackend struct {
	parcels  map[string]entity.Parcel
	riders   map[string]entity.Rider
	users    map[string]entity.User
	payments []entity.Payment
	events   []entity.TrackingEvent
	nextID   int

	gateway *stubGateway
	handler http.Handler
}

func (b *testBackend) id() string {
	b.nextID++
	return fmt.Sprintf("id-%d", b.nextID)
}

type backendParcels struct{ b *testBackend }

func (r backendParcels) Insert(_ context.Context, p *entity.Parcel) (string, error) {
	if p.ID == "" {
		p.ID = r.b.id()
	}
	r.b.parcels[p.ID] = *p
	return p.ID, nil
}

func (r backendParcels) FindByID(_ context.Context, id string) (*entity.Parcel, error) {
	p, ok := r.b.parcels[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "parcel not found")
	}
	return &p, nil
}

func (r backendParcels) Find(_ context.Context, filter repository.ParcelFilter) ([]entity.Parcel, error) {
	var out []entity.Parcel
	for _, p := range r.b.parcels {
		if filter.CreatedBy != "" && p.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.PaymentStatus != "" && p.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.DeliveryStatus != "" && p.DeliveryStatus != filter.DeliveryStatus {
			continue
		}
		if filter.AssignedRiderEmail != "" && p.AssignedRiderEmail != filter.AssignedRiderEmail {
			continue
		}
		if len(filter.DeliveryStatusIn) > 0 {
			matched := false
			for _, s := range filter.DeliveryStatusIn {
				if p.DeliveryStatus == s {
					matched = true
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (r backendParcels) Delete(_ context.Context, id string) error {
	if _, ok := r.b.parcels[id]; !ok {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	delete(r.b.parcels, id)
	return nil
}

func (r backendParcels) SetAssignment(_ context.Context, id, riderID, riderName, riderEmail string) error {
	p, ok := r.b.parcels[id]
	if !ok {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	p.DeliveryStatus = entity.DeliveryStatusRiderAssigned
	p.AssignedRiderID = riderID
	p.AssignedRiderName = riderName
	p.AssignedRiderEmail = riderEmail
	r.b.parcels[id] = p
	return nil
}

func (r backendParcels) SetDeliveryStatus(_ context.Context, id, status string, pickedAt, deliveredAt *time.Time) error {
	p, ok := r.b.parcels[id]
	if !ok {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	p.DeliveryStatus = status
	if pickedAt != nil {
		p.PickedAt = pickedAt
	}
	if deliveredAt != nil {
		p.DeliveredAt = deliveredAt
	}
	r.b.parcels[id] = p
	return nil
}

func (r backendParcels) SetCashedOut(_ context.Context, id string, at time.Time) error {
	p, ok := r.b.parcels[id]
	if !ok {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	p.CashoutStatus = entity.CashoutStatusCashedOut
	p.CashedOutAt = &at
	r.b.parcels[id] = p
	return nil
}

func (r backendParcels) SetPaid(_ context.Context, id string) error {
	p, ok := r.b.parcels[id]
	if !ok {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	p.PaymentStatus = entity.PaymentStatusPaid
	r.b.parcels[id] = p
	return nil
}

func (r backendParcels) CountByDeliveryStatus(_ context.Context) ([]entity.StatusCount, error) {
	byStatus := map[string]int64{}
	for _, p := range r.b.parcels {
		byStatus[p.DeliveryStatus]++
	}
	var counts []entity.StatusCount
	for status, count := range byStatus {
		counts = append(counts, entity.StatusCount{Status: status, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Status < counts[j].Status })
	return counts, nil
}

type backendRiders struct{ b *testBackend }

func (r backendRiders) Insert(_ context.Context, rider *entity.Rider) (string, error) {
	if rider.ID == "" {
		rider.ID = r.b.id()
	}
	if rider.Status == "" {
		rider.Status = entity.RiderStatusPending
	}
	r.b.riders[rider.ID] = *rider
	return rider.ID, nil
}

func (r backendRiders) FindByID(_ context.Context, id string) (*entity.Rider, error) {
	rider, ok := r.b.riders[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "rider not found")
	}
	return &rider, nil
}

func (r backendRiders) FindByStatus(_ context.Context, status string) ([]entity.Rider, error) {
	var out []entity.Rider
	for _, rider := range r.b.riders {
		if rider.Status == status {
			out = append(out, rider)
		}
	}
	return out, nil
}

func (r backendRiders) FindAvailableByDistrict(_ context.Context, district string) ([]entity.Rider, error) {
	var out []entity.Rider
	for _, rider := range r.b.riders {
		if rider.Status != entity.RiderStatusApproved || rider.WorkStatus == entity.WorkStatusInDelivery {
			continue
		}
		if district != "" && rider.District != district {
			continue
		}
		out = append(out, rider)
	}
	return out, nil
}

func (r backendRiders) SetStatus(_ context.Context, id, status string) error {
	rider, ok := r.b.riders[id]
	if !ok {
		return apperr.New(apperr.NotFound, "rider not found")
	}
	rider.Status = status
	r.b.riders[id] = rider
	return nil
}

func (r backendRiders) SetWorkStatus(_ context.Context, id, workStatus string) error {
	rider, ok := r.b.riders[id]
	if !ok {
		return apperr.New(apperr.NotFound, "rider not found")
	}
	rider.WorkStatus = workStatus
	r.b.riders[id] = rider
	return nil
}

type backendUsers struct{ b *testBackend }

func (r backendUsers) Insert(_ context.Context, user *entity.User) (string, error) {
	if user.ID == "" {
		user.ID = r.b.id()
	}
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	r.b.users[user.Email] = *user
	return user.ID, nil
}

func (r backendUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	user, ok := r.b.users[email]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return &user, nil
}

func (r backendUsers) SearchByEmail(_ context.Context, fragment string) ([]entity.User, error) {
	var out []entity.User
	for _, user := range r.b.users {
		if strings.Contains(user.Email, fragment) {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r backendUsers) TouchLastLogIn(_ context.Context, email string, at time.Time) error {
	user, ok := r.b.users[email]
	if !ok {
		return nil
	}
	user.LastLogIn = at
	r.b.users[email] = user
	return nil
}

func (r backendUsers) SetRoleByID(_ context.Context, id, role string) error {
	for email, user := range r.b.users {
		if user.ID == id {
			user.Role = role
			r.b.users[email] = user
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "user not found")
}

func (r backendUsers) SetRoleByEmail(_ context.Context, email, role string) error {
	user, ok := r.b.users[email]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	user.Role = role
	r.b.users[email] = user
	return nil
}

type backendPayments struct{ b *testBackend }

func (r backendPayments) Insert(_ context.Context, payment *entity.Payment) (string, error) {
	if payment.ID == "" {
		payment.ID = r.b.id()
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}
	r.b.payments = append(r.b.payments, *payment)
	return payment.ID, nil
}

func (r backendPayments) FindByEmail(_ context.Context, email string) ([]entity.Payment, error) {
	var out []entity.Payment
	for _, p := range r.b.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

type backendTrackings struct{ b *testBackend }

func (r backendTrackings) Append(_ context.Context, event *entity.TrackingEvent) (string, error) {
	if event.ID == "" {
		event.ID = r.b.id()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	r.b.events = append(r.b.events, *event)
	return event.ID, nil
}

func (r backendTrackings) FindByTrackingID(_ context.Context, trackingID string) ([]entity.TrackingEvent, error) {
	var out []entity.TrackingEvent
	for _, e := range r.b.events {
		if e.TrackingID == trackingID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type passTx struct{}

func (passTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newRequest(t *testing.T, method, path, token, body string) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// newTestBackend wires the real router, handlers and usecases over
// in-memory fakes. Tokens: "user-token", "admin-token", "rider-token".
func newTestBackend() *testBackend {
	b := &testBackend{
		parcels: map[string]entity.Parcel{},
		riders:  map[string]entity.Rider{},
		users:   map[string]entity.User{},
		gateway: &stubGateway{secret: "cs_test_secret"},
	}

	b.users["user@x.com"] = entity.User{ID: b.id(), Email: "user@x.com", Role: entity.RoleUser}
	b.users["admin@x.com"] = entity.User{ID: b.id(), Email: "admin@x.com", Role: entity.RoleAdmin}
	b.users["rider@x.com"] = entity.User{ID: b.id(), Email: "rider@x.com", Role: entity.RoleRider}

	verifier := &fakeVerifier{tokens: map[string]auth.Identity{
		"user-token":  {UID: "u1", Email: "user@x.com"},
		"admin-token": {UID: "u2", Email: "admin@x.com"},
		"rider-token": {UID: "u3", Email: "rider@x.com"},
	}}

	log := logger.NewNop()
	parcels := backendParcels{b}
	riders := backendRiders{b}
	users := backendUsers{b}
	payments := backendPayments{b}
	trackings := backendTrackings{b}

	lifecycle := usecase.NewDeliveryLifecycle(parcels, riders, users, trackings, passTx{}, log)
	recorder := usecase.NewPaymentRecorder(parcels, payments, b.gateway, passTx{}, restMetrics, log)
	trackingLog := usecase.NewTrackingLog(trackings, log)

	guard := rest.NewGuard(verifier, users, log)
	b.handler = rest.NewRouter(rest.Handlers{
		Users:     rest.NewUserHandler(users, log),
		Parcels:   rest.NewParcelHandler(parcels, lifecycle, restMetrics, log),
		Payments:  rest.NewPaymentHandler(recorder, log),
		Riders:    rest.NewRiderHandler(riders, parcels, lifecycle, log),
		Trackings: rest.NewTrackingHandler(trackingLog, log),
	}, guard, restMetrics)

	return b
}
