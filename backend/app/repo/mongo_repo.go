package repo

import (
	"context"
	"errors"

	"taskmanager/backend/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepository struct{ coll *mongo.Collection }

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection("users")}
}

func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.coll.InsertOne(ctx, u)
	return translateMongo(err)
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translateMongo(err)
	}
	return &u, nil
}

func (r *MongoUserRepository) Taken(ctx context.Context, username, email, excludeID string) (bool, error) {
	var or bson.A
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return false, nil
	}
	filter := bson.M{"$or": or}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *MongoUserRepository) ExistsByRole(ctx context.Context, role string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"role": role}, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *MongoUserRepository) List(ctx context.Context, limit int) ([]models.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) Update(ctx context.Context, id string, fields Fields) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return translateMongo(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

type MongoTaskRepository struct{ coll *mongo.Collection }

func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{coll: db.Collection("tasks")}
}

func (r *MongoTaskRepository) Create(ctx context.Context, t *models.Task) error {
	_, err := r.coll.InsertOne(ctx, t)
	return translateMongo(err)
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		return nil, translateMongo(err)
	}
	return &t, nil
}

func assigneeFilter(assignedTo string) bson.M {
	if assignedTo == "" {
		return bson.M{}
	}
	return bson.M{"assigned_to": assignedTo}
}

func (r *MongoTaskRepository) List(ctx context.Context, assignedTo string, limit int) ([]models.Task, error) {
	cur, err := r.coll.Find(ctx, assigneeFilter(assignedTo), options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, id string, fields Fields) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return translateMongo(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) CountByStatus(ctx context.Context, assignedTo string) (models.StatusCounts, error) {
	var counts models.StatusCounts
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: assigneeFilter(assignedTo)}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return counts, err
	}
	var rows []struct {
		Status string `bson:"_id"`
		N      int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return counts, err
	}
	for _, row := range rows {
		tally(&counts, row.Status, row.N)
	}
	return counts, nil
}

// NewMongoStore builds a Store over a Mongo database and makes sure the
// id and uniqueness indexes exist.
func NewMongoStore(ctx context.Context, client *mongo.Client, database string) (*Store, error) {
	db := client.Database(database)
	unique := options.Index().SetUnique(true)
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}); err != nil {
		return nil, err
	}
	if _, err := db.Collection("tasks").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
	}); err != nil {
		return nil, err
	}
	return &Store{
		Users: NewMongoUserRepository(db),
		Tasks: NewMongoTaskRepository(db),
		ping:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close: func() error { return client.Disconnect(context.Background()) },
	}, nil
}

func translateMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
