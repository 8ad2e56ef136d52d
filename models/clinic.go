package models

// Clinic record shapes consumed by booking validation and reminder rendering.
// They are maintained by the surrounding CRUD product; this service treats
// them as opaque display/contact data, never as an identity authority.

// Professional is a clinic member who publishes availability.
type Professional struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	Specialty string `bson:"specialty,omitempty" json:"specialty,omitempty"`
}

// Tutor is a pet owner and the client-side recipient of reminders.
type Tutor struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Pet belongs to a tutor.
type Pet struct {
	ID      string `bson:"id" json:"id"`
	TutorID string `bson:"tutorId" json:"tutorId"`
	Name    string `bson:"name" json:"name"`
	Species string `bson:"species,omitempty" json:"species,omitempty"`
	Breed   string `bson:"breed,omitempty" json:"breed,omitempty"`
}
