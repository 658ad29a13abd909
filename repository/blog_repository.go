package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/faras-store/backend/models"
)

var ErrPostNotFound = errors.New("blog post not found")

// BlogRepository defines the interface for blog data access.
type BlogRepository interface {
	FindPublished(ctx context.Context, category string) ([]models.BlogPost, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	IncrementViews(ctx context.Context, id string) error
	Create(ctx context.Context, post *models.BlogPost) error
	Update(ctx context.Context, id string, updates bson.M) (*models.BlogPost, error)
	Delete(ctx context.Context, id string) error
}

type MongoBlogRepository struct {
	collection *mongo.Collection
}

func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blog_posts")}
}

func (r *MongoBlogRepository) FindPublished(ctx context.Context, category string) ([]models.BlogPost, error) {
	query := bson.M{"published": true}
	if category != "" {
		query["category"] = category
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.BlogPost{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoBlogRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.collection.FindOne(ctx, bson.M{"slug": slug, "published": true}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *MongoBlogRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (r *MongoBlogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *MongoBlogRepository) Update(ctx context.Context, id string, updates bson.M) (*models.BlogPost, error) {
	updates["updated_at"] = time.Now().UTC()

	var updated models.BlogPost
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoBlogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
