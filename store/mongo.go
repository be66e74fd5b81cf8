package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HarshitSharma-h8/messmate/models"
)

// NewMongoStore wires the per-entity stores over a Mongo database.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Messes: &mongoMessStore{col: db.Collection("messes")},
		Users:  &mongoUserStore{col: db.Collection("users")},
		Events: &mongoEventStore{col: db.Collection("events")},
		Tokens: &mongoTokenStore{col: db.Collection("tokens")},
	}
}

// EnsureIndexes creates the uniqueness indexes the invariants rely on.
// The (user_id, event_id) index on tokens is what enforces one token per
// user per event even under concurrent issuance.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	if _, err := db.Collection("messes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}

	if _, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "register_number", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return err
	}

	if _, err := db.Collection("tokens").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "event_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	return nil
}

func mapMongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

// ---- messes ----

type mongoMessStore struct {
	col *mongo.Collection
}

func (s *mongoMessStore) Create(ctx context.Context, m *models.Mess) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, m)
	return mapMongoErr(err)
}

func (s *mongoMessStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Mess, error) {
	var m models.Mess
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &m, nil
}

func (s *mongoMessStore) FindByName(ctx context.Context, name string) (*models.Mess, error) {
	var m models.Mess
	err := s.col.FindOne(ctx, bson.M{"name": name}).Decode(&m)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &m, nil
}

// ---- users ----

type mongoUserStore struct {
	col *mongo.Collection
}

func (s *mongoUserStore) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, u)
	return mapMongoErr(err)
}

func (s *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *mongoUserStore) FindByEmailOrRegister(ctx context.Context, email, registerNumber string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"register_number": registerNumber},
	}})
}

func (s *mongoUserStore) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return s.findOne(ctx, bson.M{
		"reset_token_hash":   tokenHash,
		"reset_token_expiry": bson.M{"$gt": now},
	})
}

func (s *mongoUserStore) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mapMongoErr(err)
	}
	return &u, nil
}

// ---- events ----

type mongoEventStore struct {
	col *mongo.Collection
}

func (s *mongoEventStore) Create(ctx context.Context, e *models.Event) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, e)
	return mapMongoErr(err)
}

func (s *mongoEventStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	return s.findOne(ctx, bson.M{"_id": id}, nil)
}

func (s *mongoEventStore) FindActiveByMess(ctx context.Context, messID primitive.ObjectID) (*models.Event, error) {
	return s.findOne(ctx, bson.M{"mess_id": messID, "status": models.EventActive}, nil)
}

func (s *mongoEventStore) FindLatestEndedByMess(ctx context.Context, messID primitive.ObjectID) (*models.Event, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "end_time", Value: -1}})
	return s.findOne(ctx, bson.M{"mess_id": messID, "status": models.EventEnded}, opts)
}

func (s *mongoEventStore) End(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.EventActive},
		bson.M{"$set": bson.M{"status": models.EventEnded, "updated_at": time.Now().UTC()}},
	)
	return mapMongoErr(err)
}

func (s *mongoEventStore) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.Event, error) {
	var e models.Event
	var err error
	if opts != nil {
		err = s.col.FindOne(ctx, filter, opts).Decode(&e)
	} else {
		err = s.col.FindOne(ctx, filter).Decode(&e)
	}
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &e, nil
}

// ---- tokens ----

type mongoTokenStore struct {
	col *mongo.Collection
}

func (s *mongoTokenStore) Create(ctx context.Context, t *models.Token) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, t)
	return mapMongoErr(err)
}

func (s *mongoTokenStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Token, error) {
	var t models.Token
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, mapMongoErr(err)
	}
	return &t, nil
}

func (s *mongoTokenStore) FindByUserAndEvent(ctx context.Context, userID, eventID primitive.ObjectID) (*models.Token, error) {
	var t models.Token
	err := s.col.FindOne(ctx, bson.M{"user_id": userID, "event_id": eventID}).Decode(&t)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &t, nil
}

func (s *mongoTokenStore) MarkUsed(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.TokenUnused},
		bson.M{"$set": bson.M{"status": models.TokenUsed, "updated_at": at}},
	)
	if err != nil {
		return false, mapMongoErr(err)
	}
	return res.ModifiedCount == 1, nil
}

func (s *mongoTokenStore) ExpireUnused(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	res, err := s.col.UpdateMany(ctx,
		bson.M{"event_id": eventID, "status": models.TokenUnused},
		bson.M{"$set": bson.M{"status": models.TokenExpired, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, mapMongoErr(err)
	}
	return res.ModifiedCount, nil
}

func (s *mongoTokenStore) CountByStatus(ctx context.Context, eventID primitive.ObjectID, status string) (int64, error) {
	filter := bson.M{"event_id": eventID}
	if status != "" {
		filter["status"] = status
	}
	n, err := s.col.CountDocuments(ctx, filter)
	return n, mapMongoErr(err)
}

func (s *mongoTokenStore) FindUsedByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Token, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"event_id": eventID, "status": models.TokenUsed}, opts)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	defer cursor.Close(ctx)

	tokens := []models.Token{}
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, mapMongoErr(err)
	}
	return tokens, nil
}
