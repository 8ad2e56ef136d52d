// File: database/repository/records/interface.go
package recordsRepo

import (
	"context"
	"errors"

	"patitas/database"
	"patitas/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrRecordNotFound is returned when a clinic record lookup matches nothing.
var ErrRecordNotFound = errors.New("clinic record not found")

// RecordsRepository reads professional, pet and tutor records owned by the
// surrounding CRUD product. This service never writes them.
type RecordsRepository interface {
	GetProfessional(ctx context.Context, id string) (*models.Professional, error)
	GetPet(ctx context.Context, id string) (*models.Pet, error)
	GetTutor(ctx context.Context, id string) (*models.Tutor, error)
	FindTutorByEmail(ctx context.Context, email string) (*models.Tutor, error)
}

type mongoRecordsRepo struct {
	professionals *mongo.Collection
	pets          *mongo.Collection
	tutors        *mongo.Collection
}

// NewMongoRecordsRepo constructs a new MongoDB RecordsRepository.
func NewMongoRecordsRepo() RecordsRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoRecordsRepo{
		professionals: db.Collection("professionals"),
		pets:          db.Collection("pets"),
		tutors:        db.Collection("tutors"),
	}
}
