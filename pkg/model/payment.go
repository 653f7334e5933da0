package model

import "time"

const (
	PaymentUnpaid    = "UNPAID"
	PaymentPaid      = "PAID"
	PaymentFailed    = "FAILED"
	PaymentCancelled = "CANCELLED"
)

// Payment is created once per booking inside the booking transaction.
// Amount is the price snapshot taken at booking time and never recomputed.
type Payment struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Booking       string    `json:"booking" bson:"booking" validate:"required,mongodb"`
	TransactionID string    `json:"transactionId" bson:"transactionId" validate:"required"`
	Amount        float64   `json:"amount" bson:"amount" validate:"required,gt=0"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=UNPAID PAID FAILED CANCELLED"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt" validate:"omitempty"`
}
