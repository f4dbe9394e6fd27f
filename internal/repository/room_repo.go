package repository

import (
	"buzz/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoomRepo is the persistence contract of the room core. Every mutation is
// a single targeted update; callers re-read afterwards to observe the
// effective result instead of assuming their write won.
type RoomRepo interface {
	Insert(ctx context.Context, room *model.Room) error
	GetByCode(ctx context.Context, code string) (*model.Room, error)
	CodeExists(ctx context.Context, code string) (bool, error)

	// PushPlayer appends a player only if the room is in the lobby, has
	// free capacity and does not already contain the user. Returns the
	// modified count so the caller can re-read and classify a miss.
	PushPlayer(ctx context.Context, code string, player model.Player) (int64, error)
	PullPlayer(ctx context.Context, code, userID string) (int64, error)
	SetPlayerState(ctx context.Context, code, userID string, state model.ReadyState) (int64, error)
	SetHost(ctx context.Context, code, userID string) error

	// BeginGame transitions lobby -> in_game and writes the game state in
	// one conditional update. A zero modified count means the room was not
	// in the lobby, which is how a double-start loses cleanly.
	BeginGame(ctx context.Context, code string, state *model.GameState) (int64, error)
	ResetGame(ctx context.Context, code string) error

	AppendChat(ctx context.Context, code string, msg model.ChatMessage) error
	Delete(ctx context.Context, code string) error
}

type roomRepo struct {
	collection *mongo.Collection
}

func NewRoomRepo(db *mongo.Database) RoomRepo {
	return &roomRepo{collection: db.Collection("rooms")}
}

func (r *roomRepo) Insert(ctx context.Context, room *model.Room) error {
	res, err := r.collection.InsertOne(ctx, room)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		room.ID = id
	}
	return nil
}

func (r *roomRepo) GetByCode(ctx context.Context, code string) (*model.Room, error) {
	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"code": code})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *roomRepo) PushPlayer(ctx context.Context, code string, player model.Player) (int64, error) {
	filter := bson.M{
		"code":            code,
		"room_state":      model.RoomLobby,
		"players.user_id": bson.M{"$ne": player.UserID},
		"$expr":           bson.M{"$lt": bson.A{bson.M{"$size": "$players"}, "$num_players"}},
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"players": player}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *roomRepo) PullPlayer(ctx context.Context, code, userID string) (int64, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$pull": bson.M{"players": bson.M{"user_id": userID}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *roomRepo) SetPlayerState(ctx context.Context, code, userID string, state model.ReadyState) (int64, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code, "players.user_id": userID},
		bson.M{"$set": bson.M{"players.$.state": state}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *roomRepo) SetHost(ctx context.Context, code, userID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"host": userID}},
	)
	return err
}

func (r *roomRepo) BeginGame(ctx context.Context, code string, state *model.GameState) (int64, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code, "room_state": model.RoomLobby},
		bson.M{"$set": bson.M{
			"room_state": model.RoomInGame,
			"game_state": state,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *roomRepo) ResetGame(ctx context.Context, code string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{
			"$set": bson.M{
				"room_state":        model.RoomLobby,
				"players.$[].state": model.PlayerNotReady,
				"can_start":         false,
			},
			"$unset": bson.M{"game_state": ""},
		},
	)
	return err
}

func (r *roomRepo) AppendChat(ctx context.Context, code string, msg model.ChatMessage) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$push": bson.M{"chat_history": msg}},
	)
	return err
}

func (r *roomRepo) Delete(ctx context.Context, code string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"code": code})
	return err
}
