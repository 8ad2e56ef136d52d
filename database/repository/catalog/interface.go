// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"
	"errors"

	"patitas/database"
	"patitas/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrConsultationTypeNotFound is returned when a catalog lookup matches nothing.
var ErrConsultationTypeNotFound = errors.New("consultation type not found")

// CatalogRepository reads the consultation-type catalog maintained by the
// clinic back office.
type CatalogRepository interface {
	GetByID(ctx context.Context, id string) (*models.ConsultationType, error)
	ListActive(ctx context.Context) ([]models.ConsultationType, error)
}

type mongoCatalogRepo struct {
	coll *mongo.Collection
}

// NewMongoCatalogRepo constructs a new MongoDB CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoCatalogRepo{
		coll: db.Collection("consultation_types"),
	}
}
