package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
)

// memStore is the in-memory stand-in for the document store shared by
// the fake repositories.
type memStore struct {
	parcels  map[string]entity.Parcel
	riders   map[string]entity.Rider
	users    map[string]entity.User // keyed by email
	payments []entity.Payment
	events   []entity.TrackingEvent
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{
		parcels: map[string]entity.Parcel{},
		riders:  map[string]entity.Rider{},
		users:   map[string]entity.User{},
	}
}

func (s *memStore) id() string {
	s.nextID++
	return fmt.Sprintf("id-%d", s.nextID)
}

func (s *memStore) snapshot() memStore {
	copied := memStore{
		parcels:  make(map[string]entity.Parcel, len(s.parcels)),
		riders:   make(map[string]entity.Rider, len(s.riders)),
		users:    make(map[string]entity.User, len(s.users)),
		payments: append([]entity.Payment(nil), s.payments...),
		events:   append([]entity.TrackingEvent(nil), s.events...),
		nextID:   s.nextID,
	}
	for k, v := range s.parcels {
		copied.parcels[k] = v
	}
	for k, v := range s.riders {
		copied.riders[k] = v
	}
	for k, v := range s.users {
		copied.users[k] = v
	}
	return copied
}

func (s *memStore) restore(from memStore) {
	*s = from
}

// fakeTx snapshots the store before fn and restores it when fn fails,
// mirroring the all-or-nothing contract of the real runner.
type fakeTx struct {
	store *memStore
}

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	before := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(before)
		return err
	}
	return nil
}

type fakeParcelRepo struct {
	store *memStore

	failSetAssignment     error
	failSetDeliveryStatus error
	failSetPaid           error
}

func (r *fakeParcelRepo) Insert(_ context.Context, parcel *entity.Parcel) (string, error) {
	if parcel.ID == "" {
		parcel.ID = r.store.id()
	}
	r.store.parcels[parcel.ID] = *parcel
	return parcel.ID, nil
}

func (r *fakeParcelRepo) FindByID(_ context.Context, id string) (*entity.Parcel, error) {
	parcel, ok := r.store.parcels[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "parcel not found")
	}
	return &parcel, nil
}

func (r *fakeParcelRepo) Find(_ context.Context, filter repository.ParcelFilter) ([]entity.Parcel, error) {
	var out []entity.Parcel
	for _, p := range r.store.parcels {
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

func (r *fakeParcelRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.parcels[id]; !ok {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	delete(r.store.parcels, id)
	return nil
}

func (r *fakeParcelRepo) SetAssignment(_ context.Context, id, riderID, riderName, riderEmail string) error {
	if r.failSetAssignment != nil {
		return r.failSetAssignment
	}
	parcel, ok := r.store.parcels[id]
	if !ok {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	parcel.DeliveryStatus = entity.DeliveryStatusRiderAssigned
	parcel.AssignedRiderID = riderID
	parcel.AssignedRiderName = riderName
	parcel.AssignedRiderEmail = riderEmail
	r.store.parcels[id] = parcel
	return nil
}

func (r *fakeParcelRepo) SetDeliveryStatus(_ context.Context, id, status string, pickedAt, deliveredAt *time.Time) error {
	if r.failSetDeliveryStatus != nil {
		return r.failSetDeliveryStatus
	}
	parcel, ok := r.store.parcels[id]
	if !ok {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	parcel.DeliveryStatus = status
	if pickedAt != nil {
		parcel.PickedAt = pickedAt
	}
	if deliveredAt != nil {
		parcel.DeliveredAt = deliveredAt
	}
	r.store.parcels[id] = parcel
	return nil
}

func (r *fakeParcelRepo) SetCashedOut(_ context.Context, id string, at time.Time) error {
	parcel, ok := r.store.parcels[id]
	if !ok {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	parcel.CashoutStatus = entity.CashoutStatusCashedOut
	parcel.CashedOutAt = &at
	r.store.parcels[id] = parcel
	return nil
}

func (r *fakeParcelRepo) SetPaid(_ context.Context, id string) error {
	if r.failSetPaid != nil {
		return r.failSetPaid
	}
	parcel, ok := r.store.parcels[id]
	if !ok {
		return apperr.New(apperr.NotFound, "parcel not found")
	}
	parcel.PaymentStatus = entity.PaymentStatusPaid
	r.store.parcels[id] = parcel
	return nil
}

func (r *fakeParcelRepo) CountByDeliveryStatus(_ context.Context) ([]entity.StatusCount, error) {
	byStatus := map[string]int64{}
	for _, p := range r.store.parcels {
		byStatus[p.DeliveryStatus]++
	}
	var counts []entity.StatusCount
	for status, count := range byStatus {
		counts = append(counts, entity.StatusCount{Status: status, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Status < counts[j].Status })
	return counts, nil
}

type fakeRiderRepo struct {
	store *memStore

	failSetWorkStatus error
	failSetStatus     error
}

func (r *fakeRiderRepo) Insert(_ context.Context, rider *entity.Rider) (string, error) {
	if rider.ID == "" {
		rider.ID = r.store.id()
	}
	if rider.Status == "" {
		rider.Status = entity.RiderStatusPending
	}
	r.store.riders[rider.ID] = *rider
	return rider.ID, nil
}

func (r *fakeRiderRepo) FindByID(_ context.Context, id string) (*entity.Rider, error) {
	rider, ok := r.store.riders[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "rider not found")
	}
	return &rider, nil
}

func (r *fakeRiderRepo) FindByStatus(_ context.Context, status string) ([]entity.Rider, error) {
	var out []entity.Rider
	for _, rider := range r.store.riders {
		if rider.Status == status {
			out = append(out, rider)
		}
	}
	return out, nil
}

func (r *fakeRiderRepo) FindAvailableByDistrict(_ context.Context, district string) ([]entity.Rider, error) {
	var out []entity.Rider
	for _, rider := range r.store.riders {
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

func (r *fakeRiderRepo) SetStatus(_ context.Context, id, status string) error {
	if r.failSetStatus != nil {
		return r.failSetStatus
	}
	rider, ok := r.store.riders[id]
	if !ok {
		return apperr.New(apperr.NotFound, "rider not found")
	}
	rider.Status = status
	r.store.riders[id] = rider
	return nil
}

func (r *fakeRiderRepo) SetWorkStatus(_ context.Context, id, workStatus string) error {
	if r.failSetWorkStatus != nil {
		return r.failSetWorkStatus
	}
	rider, ok := r.store.riders[id]
	if !ok {
		return apperr.New(apperr.NotFound, "rider not found")
	}
	rider.WorkStatus = workStatus
	r.store.riders[id] = rider
	return nil
}

type fakeUserRepo struct {
	store *memStore

	failSetRole error
}

func (r *fakeUserRepo) Insert(_ context.Context, user *entity.User) (string, error) {
	if user.ID == "" {
		user.ID = r.store.id()
	}
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	r.store.users[user.Email] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	user, ok := r.store.users[email]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return &user, nil
}

func (r *fakeUserRepo) SearchByEmail(_ context.Context, fragment string) ([]entity.User, error) {
	var out []entity.User
	for _, user := range r.store.users {
		if strings.Contains(user.Email, fragment) {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) TouchLastLogIn(_ context.Context, email string, at time.Time) error {
	user, ok := r.store.users[email]
	if !ok {
		return nil
	}
	user.LastLogIn = at
	r.store.users[email] = user
	return nil
}

func (r *fakeUserRepo) SetRoleByID(_ context.Context, id, role string) error {
	for email, user := range r.store.users {
		if user.ID == id {
			user.Role = role
			r.store.users[email] = user
			return nil
		}
	}
	return apperr.New(apperr.NotFound, "user not found")
}

func (r *fakeUserRepo) SetRoleByEmail(_ context.Context, email, role string) error {
	if r.failSetRole != nil {
		return r.failSetRole
	}
	user, ok := r.store.users[email]
	if !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	user.Role = role
	r.store.users[email] = user
	return nil
}

type fakePaymentRepo struct {
	store *memStore

	failInsert error
}

func (r *fakePaymentRepo) Insert(_ context.Context, payment *entity.Payment) (string, error) {
	if r.failInsert != nil {
		return "", r.failInsert
	}
	if payment.ID == "" {
		payment.ID = r.store.id()
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}
	r.store.payments = append(r.store.payments, *payment)
	return payment.ID, nil
}

func (r *fakePaymentRepo) FindByEmail(_ context.Context, email string) ([]entity.Payment, error) {
	var out []entity.Payment
	for _, p := range r.store.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

type fakeTrackingRepo struct {
	store *memStore

	failAppend error
}

func (r *fakeTrackingRepo) Append(_ context.Context, event *entity.TrackingEvent) (string, error) {
	if r.failAppend != nil {
		return "", r.failAppend
	}
	if event.ID == "" {
		event.ID = r.store.id()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	r.store.events = append(r.store.events, *event)
	return event.ID, nil
}

func (r *fakeTrackingRepo) FindByTrackingID(_ context.Context, trackingID string) ([]entity.TrackingEvent, error) {
	var out []entity.TrackingEvent
	for _, e := range r.store.events {
		if e.TrackingID == trackingID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type fakeGateway struct {
	secret string
	err    error
	gotAmt int64
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64) (string, error) {
	g.gotAmt = amount
	if g.err != nil {
		return "", g.err
	}
	return g.secret, nil
}
