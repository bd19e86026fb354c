package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateIfNoOverlap runs the conflict check and the insert inside a single
// Mongo transaction so two concurrent confirmations for the same slot cannot
// both pass the check and both insert.
func (r *MongoBookingRepo) CreateIfNoOverlap(ctx context.Context, booking *models.Booking) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	txnFn := func(sc mongo.SessionContext) error {
		// Half-open interval overlap: existing.start < candidate.end AND
		// existing.end > candidate.start. Touching boundaries do not conflict.
		filter := bson.M{
			"tenant_id": booking.TenantID,
			"staff_id":  booking.StaffID,
			"date":      booking.Date,
			"status":    activeStatusFilter(),
			"start":     bson.M{"$lt": booking.End},
			"end":       bson.M{"$gt": booking.Start},
		}

		count, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("overlap query failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}

		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}

// IsTransientError reports whether the transaction failed in a way worth
// retrying (write conflict between concurrent transactions).
func IsTransientError(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError")
	}
	return false
}
