package model

// Game is a catalog entry describing one playable game type. Locations is
// only populated for spyfall and maps location name to its image URL.
type Game struct {
	Slug            string            `json:"slug" bson:"slug"`
	Name            string            `json:"name" bson:"name"`
	Description     string            `json:"description" bson:"description"`
	Category        string            `json:"category" bson:"category"`
	MinPlayers      int               `json:"min_players" bson:"min_players"`
	MaxPlayers      int               `json:"max_players" bson:"max_players"`
	DurationMinutes int               `json:"duration_minutes" bson:"duration_minutes"`
	ThumbnailURL    string            `json:"thumbnail_url" bson:"thumbnail_url"`
	ImageURL        string            `json:"image_url" bson:"image_url"`
	Locations       map[string]string `json:"locations,omitempty" bson:"locations,omitempty"`
}
