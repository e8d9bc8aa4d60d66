package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Tomlord1122/todo-list/internal/domain"
)

type todoDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d todoDocument) toDomain() domain.Todo {
	return domain.Todo{
		ID:        d.ID.Hex(),
		Text:      d.Text,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// mongoTodoRepository implements TodoRepository on a MongoDB collection.
type mongoTodoRepository struct {
	coll *mongo.Collection
}

// NewMongoTodoRepository creates a todo repository backed by coll.
func NewMongoTodoRepository(coll *mongo.Collection) TodoRepository {
	return &mongoTodoRepository{coll: coll}
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// BSON dates carry millisecond precision.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *mongoTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	now := mongoNow()
	doc := todoDocument{
		Text:      todo.Text,
		Completed: todo.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("mongo returned a non-ObjectID _id")
	}
	doc.ID = oid
	*todo = doc.toDomain()
	return nil
}

func (r *mongoTodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc todoDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	todo := doc.toDomain()
	return &todo, nil
}

// GetAll sorts on _id, whose leading bytes are the creation time.
func (r *mongoTodoRepository) GetAll(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error) {
	query := bson.M{}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}
	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []todoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	todos := make([]domain.Todo, 0, len(docs))
	for _, doc := range docs {
		todos = append(todos, doc.toDomain())
	}
	return todos, nil
}

// Update sets only the patched keys and reads back the result in the same
// round trip.
func (r *mongoTodoRepository) Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": mongoNow()}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}

	var doc todoDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	todo := doc.toDomain()
	return &todo, nil
}

func (r *mongoTodoRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
