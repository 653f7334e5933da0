package model

import "time"

const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingFailed    = "FAILED"
	BookingCancelled = "CANCELLED"
)

// Booking references user, tour and payment by id. The payment reference is
// set exactly once, in the same transaction that created the payment.
type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	User       string    `json:"user" bson:"user" validate:"required,mongodb"`
	Tour       string    `json:"tour" bson:"tour" validate:"required,mongodb"`
	GuestCount int       `json:"guestCount" bson:"guestCount" validate:"required,min=1"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=PENDING CONFIRMED FAILED CANCELLED"`
	Payment    string    `json:"payment,omitempty" bson:"payment,omitempty" validate:"omitempty,mongodb"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt" validate:"omitempty"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED FAILED CANCELLED"`
}

// BookingDetail is the three-way populated read model: the booking with its
// user contact fields, tour pricing fields and payment record expanded.
type BookingDetail struct {
	ID         string      `json:"id" bson:"_id"`
	User       UserContact `json:"user" bson:"user"`
	Tour       TourSummary `json:"tour" bson:"tour"`
	GuestCount int         `json:"guestCount" bson:"guestCount"`
	Status     string      `json:"status" bson:"status"`
	Payment    *Payment    `json:"payment,omitempty" bson:"payment,omitempty"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt"`
}

type UserContact struct {
	ID      string `json:"id,omitempty" bson:"_id,omitempty"`
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
}

type TourSummary struct {
	ID       string  `json:"id,omitempty" bson:"_id,omitempty"`
	Title    string  `json:"title" bson:"title"`
	CostFrom float64 `json:"costFrom" bson:"costFrom"`
}
