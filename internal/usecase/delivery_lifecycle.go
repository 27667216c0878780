package usecase

import (
	"context"
	"time"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/utils"
)

// DeliveryLifecycle owns every transition of a parcel's delivery status
// and the correlated rider work status. The paired writes (parcel +
// rider, rider + user) run inside one store transaction so a crash or a
// failed second write never leaves the two documents disagreeing.
type DeliveryLifecycle struct {
	parcelRepo   repository.ParcelRepository
	riderRepo    repository.RiderRepository
	userRepo     repository.UserRepository
	trackingRepo repository.TrackingRepository
	tx           repository.TxRunner
	logger       logger.Logger
}

// NewDeliveryLifecycle creates the lifecycle manager
func NewDeliveryLifecycle(
	parcelRepo repository.ParcelRepository,
	riderRepo repository.RiderRepository,
	userRepo repository.UserRepository,
	trackingRepo repository.TrackingRepository,
	tx repository.TxRunner,
	logger logger.Logger,
) *DeliveryLifecycle {
	return &DeliveryLifecycle{
		parcelRepo:   parcelRepo,
		riderRepo:    riderRepo,
		userRepo:     userRepo,
		trackingRepo: trackingRepo,
		tx:           tx,
		logger:       logger,
	}
}

// AssignRider moves a pending parcel to rider_assigned and marks the
// rider busy. Rider identity from the request is trusted only as far as
// display fields; the rider document is the source of truth for email.
func (d *DeliveryLifecycle) AssignRider(ctx context.Context, parcelID, riderID, riderName, riderEmail string) error {
	parcel, err := d.parcelRepo.FindByID(ctx, parcelID)
	if err != nil {
		return err
	}
	if !entity.CanTransition(parcel.DeliveryStatus, entity.DeliveryStatusRiderAssigned) {
		return apperr.Newf(apperr.Conflict, "parcel in status %q cannot be assigned", parcel.DeliveryStatus)
	}

	rider, err := d.riderRepo.FindByID(ctx, riderID)
	if err != nil {
		return err
	}
	if rider.Status != entity.RiderStatusApproved {
		return apperr.New(apperr.Conflict, "rider is not approved")
	}
	if rider.WorkStatus == entity.WorkStatusInDelivery {
		return apperr.New(apperr.Conflict, "rider is already in a delivery")
	}

	if riderName == "" {
		riderName = rider.Name
	}
	if riderEmail == "" {
		riderEmail = rider.Email
	}

	err = d.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := d.parcelRepo.SetAssignment(ctx, parcelID, riderID, riderName, riderEmail); err != nil {
			return err
		}
		return d.riderRepo.SetWorkStatus(ctx, riderID, entity.WorkStatusInDelivery)
	})
	if err != nil {
		return err
	}

	d.logger.Info("Rider assigned to parcel", "parcel_id", parcelID, "rider_id", riderID)
	d.mirrorTracking(ctx, parcel.TrackingID, entity.DeliveryStatusRiderAssigned, riderName)
	return nil
}

// UpdateStatus advances a parcel's delivery status. Illegal transitions
// are rejected before anything is written. Picked and delivered stamps
// ride along with their statuses, and a completed delivery frees the
// assigned rider in the same transaction.
func (d *DeliveryLifecycle) UpdateStatus(ctx context.Context, parcelID, status string) error {
	if !entity.IsDeliveryStatus(status) {
		return apperr.Newf(apperr.BadRequest, "unknown delivery status %q", status)
	}

	parcel, err := d.parcelRepo.FindByID(ctx, parcelID)
	if err != nil {
		return err
	}
	if !entity.CanTransition(parcel.DeliveryStatus, status) {
		return apperr.Newf(apperr.Conflict, "illegal transition %q -> %q", parcel.DeliveryStatus, status)
	}

	now := time.Now()
	var pickedAt, deliveredAt *time.Time
	switch status {
	case entity.DeliveryStatusInTransit:
		pickedAt = &now
	case entity.DeliveryStatusDelivered:
		deliveredAt = &now
	}

	err = d.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := d.parcelRepo.SetDeliveryStatus(ctx, parcelID, status, pickedAt, deliveredAt); err != nil {
			return err
		}
		if entity.DeliveryCompleted(status) && parcel.AssignedRiderID != "" {
			return d.riderRepo.SetWorkStatus(ctx, parcel.AssignedRiderID, entity.WorkStatusAvailable)
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.logger.Info("Parcel status updated", "parcel_id", parcelID, "status", status)
	d.mirrorTracking(ctx, parcel.TrackingID, status, parcel.AssignedRiderName)
	return nil
}

// Cashout marks a completed parcel's proceeds as paid out. Only a
// delivered parcel can be cashed out, and only once.
func (d *DeliveryLifecycle) Cashout(ctx context.Context, parcelID string) error {
	parcel, err := d.parcelRepo.FindByID(ctx, parcelID)
	if err != nil {
		return err
	}
	if !entity.DeliveryCompleted(parcel.DeliveryStatus) {
		return apperr.New(apperr.Conflict, "parcel is not delivered yet")
	}
	if parcel.CashoutStatus == entity.CashoutStatusCashedOut {
		return apperr.New(apperr.Conflict, "parcel is already cashed out")
	}

	if err := d.parcelRepo.SetCashedOut(ctx, parcelID, time.Now()); err != nil {
		return err
	}

	d.logger.Info("Parcel cashed out", "parcel_id", parcelID)
	return nil
}

// ApproveOrReject writes a rider's application status. Approval also
// promotes the matching user to the rider role; both writes commit
// together or not at all. Rejection never touches the users collection.
func (d *DeliveryLifecycle) ApproveOrReject(ctx context.Context, riderID, status, email string) error {
	if status != entity.RiderStatusApproved && status != entity.RiderStatusRejected {
		return apperr.Newf(apperr.BadRequest, "unknown rider status %q", status)
	}

	rider, err := d.riderRepo.FindByID(ctx, riderID)
	if err != nil {
		return err
	}
	if email == "" {
		email = rider.Email
	}

	if status == entity.RiderStatusRejected {
		return d.riderRepo.SetStatus(ctx, riderID, status)
	}

	err = d.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := d.riderRepo.SetStatus(ctx, riderID, status); err != nil {
			return err
		}
		return d.userRepo.SetRoleByEmail(ctx, email, entity.RoleRider)
	})
	if err != nil {
		return err
	}

	d.logger.Info("Rider approved", "rider_id", riderID, "email", email)
	return nil
}

// mirrorTracking appends a lifecycle change to the tracking log. The log
// is advisory history; an append failure is logged and swallowed so it
// never rolls back a committed status change.
func (d *DeliveryLifecycle) mirrorTracking(ctx context.Context, trackingID, status, riderName string) {
	if trackingID == "" {
		return
	}
	event := &entity.TrackingEvent{
		TrackingID: trackingID,
		Status:     status,
		Message:    utils.TrackingMessage(status, riderName),
	}
	if _, err := d.trackingRepo.Append(ctx, event); err != nil {
		d.logger.Warn("Failed to mirror tracking event", "tracking_id", trackingID, "error", err)
	}
}
