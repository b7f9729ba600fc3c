// Package mongo implements the Task Store on a MongoDB collection whose
// documents keep the field names of the original mongoose schema.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/adanyl0v/tasktrackr/internal/models"
	"github.com/adanyl0v/tasktrackr/internal/storage"
)

const CollectionName = "tasks"

const (
	codeNamespaceExists    = 48
	codeDocumentValidation = 121
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type taskDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Title     string             `bson:"title"`
	Completed bool               `bson:"completed"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *taskDocument) toModel() *models.Task {
	return &models.Task{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Title:     d.Title,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials MongoDB, pings the primary and prepares the collection.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, storage.NewStoreError("connect to mongo", err)
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, storage.NewStoreError("ping mongo", err)
	}

	db := client.Database(cfg.Database)
	err = Migrate(ctx, db)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Store{
		client: client,
		coll:   db.Collection(CollectionName),
	}, nil
}

// NewWithCollection wraps an existing collection. Close leaves the
// collection's client connected.
func NewWithCollection(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// Migrate creates the tasks collection with a schema validator and the
// userId index. An existing collection keeps its options.
func Migrate(ctx context.Context, db *mongo.Database) error {
	validator := bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "userId", "completed", "createdAt", "updatedAt"},
			"properties": bson.M{
				"title":     bson.M{"bsonType": "string", "minLength": 1},
				"userId":    bson.M{"bsonType": "string", "minLength": 1},
				"completed": bson.M{"bsonType": "bool"},
				"createdAt": bson.M{"bsonType": "date"},
				"updatedAt": bson.M{"bsonType": "date"},
			},
		},
	}

	err := db.CreateCollection(ctx, CollectionName, options.CreateCollection().SetValidator(validator))
	if err != nil && !hasErrorCode(err, codeNamespaceExists) {
		return storage.NewStoreError("create tasks collection", err)
	}

	_, err = db.Collection(CollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_1"),
	})
	if err != nil {
		return storage.NewStoreError("create userId index", err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, title, userID string) (*models.Task, error) {
	err := storage.ValidateNewTask(title, userID)
	if err != nil {
		return nil, err
	}

	// BSON dates carry millisecond precision.
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := taskDocument{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, classifyError("insert task", err)
	}
	return doc.toModel(), nil
}

func (s *Store) FindAllByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	cursor, err := s.coll.Find(ctx, bson.D{{Key: "userId", Value: userID}})
	if err != nil {
		return nil, classifyError("find tasks by user id", err)
	}

	var docs []taskDocument
	err = cursor.All(ctx, &docs)
	if err != nil {
		return nil, classifyError("decode tasks", err)
	}

	tasks := make([]*models.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, docs[i].toModel())
	}
	return tasks, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrTaskNotFound
	}

	var doc taskDocument
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		return nil, classifyError("find task by id", err)
	}
	return doc.toModel(), nil
}

func (s *Store) FlipCompleted(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrTaskNotFound
	}

	// A pipeline update negates the stored value server-side, so two
	// concurrent toggles can't both read the same state.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "completed", Value: bson.D{{Key: "$not", Value: bson.A{"$completed"}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc taskDocument
	err = s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		return nil, classifyError("flip task completed", err)
	}
	return doc.toModel(), nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrTaskNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return classifyError("delete task", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	err := s.coll.Database().Client().Ping(ctx, readpref.Primary())
	if err != nil {
		return storage.NewStoreError("ping mongo", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func classifyError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrTaskNotFound
	}
	if hasErrorCode(err, codeDocumentValidation) {
		return storage.NewValidationError("", "task failed schema validation")
	}
	return storage.NewStoreError(op, err)
}

func hasErrorCode(err error, code int) bool {
	var serverErr mongo.ServerError
	return errors.As(err, &serverErr) && serverErr.HasErrorCode(code)
}
