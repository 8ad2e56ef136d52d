// File: database/repository/catalog/catalog_mongo.go
package catalogRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"patitas/models"
)

func (r *mongoCatalogRepo) GetByID(ctx context.Context, id string) (*models.ConsultationType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ct models.ConsultationType
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&ct)
	if err == mongo.ErrNoDocuments {
		return nil, ErrConsultationTypeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ct, nil
}

func (r *mongoCatalogRepo) ListActive(ctx context.Context) ([]models.ConsultationType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"active": true}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var types []models.ConsultationType
	if err := cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}
