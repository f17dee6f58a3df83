package models

import "time"

// Provider is a bookable service provider.
type Provider struct {
	ID                 string            `bson:"id" json:"id"`
	Name               string            `bson:"name" json:"name"`
	Speciality         string            `bson:"speciality" json:"speciality"`
	Bio                string            `bson:"bio,omitempty" json:"bio,omitempty"`
	HourlyPrice        float64           `bson:"hourlyPrice" json:"hourlyPrice"`
	Address            string            `bson:"address" json:"address"`
	City               string            `bson:"city" json:"city"`
	WeeklyAvailability []DayAvailability `bson:"weeklyAvailability" json:"weeklyAvailability"`
	UnavailableDates   []string          `bson:"unavailableDates" json:"unavailableDates"`
	ScheduleVersion    int64             `bson:"scheduleVersion" json:"-"`
	CreatedAt          time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// ProviderInput carries the editable profile fields of a provider.
type ProviderInput struct {
	Name        string  `json:"name" binding:"required"`
	Speciality  string  `json:"speciality" binding:"required"`
	Bio         string  `json:"bio"`
	HourlyPrice float64 `json:"hourlyPrice" binding:"required,gt=0"`
	Address     string  `json:"address" binding:"required"`
	City        string  `json:"city" binding:"required"`
}
