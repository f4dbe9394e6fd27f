package repository

import (
	"buzz/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepo interface {
	Create(ctx context.Context, user *model.UserInDB) error
	GetByID(ctx context.Context, id string) (*model.UserInDB, error)
	GetByEmail(ctx context.Context, email string) (*model.UserInDB, error)
	// GetByIDs returns the users found for the given ids, keyed by id.
	// Missing ids are simply absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]*model.User, error)
	Update(ctx context.Context, id string, fields bson.M) (*model.UserInDB, error)
}

type userRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{collection: db.Collection("users")}
}

func (r *userRepo) Create(ctx context.Context, user *model.UserInDB) error {
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.UserInDB, error) {
	var user model.UserInDB
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.UserInDB, error) {
	var user model.UserInDB
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make(map[string]*model.User, len(ids))
	for cursor.Next(ctx) {
		var user model.UserInDB
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		u := user.User
		users[u.ID] = &u
	}
	return users, cursor.Err()
}

func (r *userRepo) Update(ctx context.Context, id string, fields bson.M) (*model.UserInDB, error) {
	var user model.UserInDB
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
