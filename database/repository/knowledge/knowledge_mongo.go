// File: database/repository/knowledge/knowledge_mongo.go
package knowledgeRepo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"frontdesk/database"
	"frontdesk/models"
)

type mongoKnowledgeRepo struct {
	services *mongo.Collection
	faqs     *mongo.Collection
}

// NewMongoKnowledgeRepo returns a KnowledgeRepository backed by the
// services and faqs collections.
func NewMongoKnowledgeRepo() KnowledgeRepository {
	db := database.DB()
	repo := &mongoKnowledgeRepo{
		services: db.Collection("services"),
		faqs:     db.Collection("faqs"),
	}
	repo.ensureIndexes()
	return repo
}

func (r *mongoKnowledgeRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	r.services.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: unique,
	})
	r.faqs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "question", Value: 1}},
		Options: unique,
	})
}

// containsPattern builds a case-insensitive substring regex for q.
func containsPattern(q string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
}

func (r *mongoKnowledgeRepo) Search(ctx context.Context, query string, limit int) ([]models.KnowledgeHit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pattern := containsPattern(query)
	findOpts := options.Find().SetLimit(int64(limit))

	var hits []models.KnowledgeHit

	svcFilter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"description": pattern},
	}}
	cursor, err := r.services.Find(ctx, svcFilter, findOpts)
	if err != nil {
		return nil, err
	}
	var services []models.ServiceRecord
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	for _, s := range services {
		hits = append(hits, models.KnowledgeHit{
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
		})
	}

	faqFilter := bson.M{"$or": bson.A{
		bson.M{"question": pattern},
		bson.M{"answer": pattern},
	}}
	cursor, err = r.faqs.Find(ctx, faqFilter, findOpts)
	if err != nil {
		return nil, err
	}
	var faqs []models.FaqRecord
	if err := cursor.All(ctx, &faqs); err != nil {
		return nil, err
	}
	for _, f := range faqs {
		hits = append(hits, models.KnowledgeHit{
			Name:        f.Question,
			Description: f.Answer,
		})
	}

	return hits, nil
}

func (r *mongoKnowledgeRepo) UpsertService(ctx context.Context, rec models.ServiceRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rec.UpdatedAt = time.Now().UTC()
	filter := bson.M{"name": rec.Name}
	update := bson.M{"$set": rec}
	_, err := r.services.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoKnowledgeRepo) UpsertFAQ(ctx context.Context, rec models.FaqRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rec.UpdatedAt = time.Now().UTC()
	filter := bson.M{"question": rec.Question}
	update := bson.M{"$set": rec}
	_, err := r.faqs.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoKnowledgeRepo) ListServices(ctx context.Context) ([]models.ServiceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.services.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var services []models.ServiceRecord
	if err := cursor.All(ctx, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *mongoKnowledgeRepo) ListFAQs(ctx context.Context) ([]models.FaqRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.faqs.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "question", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var faqs []models.FaqRecord
	if err := cursor.All(ctx, &faqs); err != nil {
		return nil, err
	}
	return faqs, nil
}
