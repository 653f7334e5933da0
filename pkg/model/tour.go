package model

import "time"

type Tour struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string    `json:"title" bson:"title" validate:"required,min=3,max=150"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=150"`
	CostFrom    float64   `json:"costFrom" bson:"costFrom" validate:"required,gt=0"`
	StartDate   time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	MaxGuest    int       `json:"maxGuest,omitempty" bson:"maxGuest,omitempty" validate:"omitempty,min=1"`
	TourType    string    `json:"tourType,omitempty" bson:"tourType,omitempty" validate:"omitempty,mongodb"`
	Division    string    `json:"division,omitempty" bson:"division,omitempty" validate:"omitempty,mongodb"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" validate:"omitempty"`
}

type TourUpdate struct {
	Title       string     `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location    string     `json:"location,omitempty" validate:"omitempty,max=150"`
	CostFrom    *float64   `json:"costFrom,omitempty" validate:"omitempty,gt=0"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	MaxGuest    *int       `json:"maxGuest,omitempty" validate:"omitempty,min=1"`
	TourType    string     `json:"tourType,omitempty" validate:"omitempty,mongodb"`
	Division    string     `json:"division,omitempty" validate:"omitempty,mongodb"`
}

type TourType struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" validate:"omitempty"`
}
