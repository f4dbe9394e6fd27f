package repository

import (
	"buzz/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameRepo is the read contract over the game catalog. Upsert exists for
// the seeder only.
type GameRepo interface {
	List(ctx context.Context, category string) ([]model.Game, error)
	GetBySlug(ctx context.Context, slug string) (*model.Game, error)
	Categories(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, game *model.Game) error
}

type gameRepo struct {
	collection *mongo.Collection
}

func NewGameRepo(db *mongo.Database) GameRepo {
	return &gameRepo{collection: db.Collection("games")}
}

func (r *gameRepo) List(ctx context.Context, category string) ([]model.Game, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var games []model.Game
	if err := cursor.All(ctx, &games); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *gameRepo) GetBySlug(ctx context.Context, slug string) (*model.Game, error) {
	var game model.Game
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&game)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &game, nil
}

func (r *gameRepo) Categories(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (r *gameRepo) Upsert(ctx context.Context, game *model.Game) error {
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"slug": game.Slug},
		game,
		options.Replace().SetUpsert(true),
	)
	return err
}
