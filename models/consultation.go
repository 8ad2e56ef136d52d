package models

// ConsultationType is a catalog entry describing a bookable service. The
// catalog is owned by the clinic back office; the booking engine only reads
// duration and the active flag.
type ConsultationType struct {
	ID              string `bson:"id" json:"id"`
	Name            string `bson:"name" json:"name"`
	DurationMinutes int    `bson:"durationMinutes" json:"durationMinutes"`
	PriceCents      int64  `bson:"priceCents" json:"priceCents"`
	Active          bool   `bson:"active" json:"active"`
}
