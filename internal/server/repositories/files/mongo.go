package files

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the MongoDB collection holding file nodes.
const CollectionName = "files"

// MongoRepository implements Repository over the "files" collection.
// Listing uses natural order, which is insertion order for this collection.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the index used by List.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "parentId", Value: 1}},
	})
	return err
}

func (r *MongoRepository) Create(ctx context.Context, node *models.FileNode) (*models.FileNode, error) {
	doc := *node
	doc.ID = common.NewID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	node.ID = doc.ID
	return node, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.FileNode, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *MongoRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.FileNode, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: userID}})
}

func (r *MongoRepository) List(ctx context.Context, userID, parentID string, skip, limit int) ([]*models.FileNode, error) {
	filter := bson.D{{Key: "userId", Value: userID}, {Key: "parentId", Value: parentID}}
	opts := options.Find().
		SetSort(bson.D{{Key: "$natural", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	result := make([]*models.FileNode, 0, limit)
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("mongo decode error: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) SetPublic(ctx context.Context, id, userID string, value bool) (*models.FileNode, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: userID}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "isPublic", Value: value}}}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, filter)
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("mongo error: %w", err)
	}
	return n, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D) (*models.FileNode, error) {
	node := &models.FileNode{}
	if err := r.coll.FindOne(ctx, filter).Decode(node); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return node, nil
}
