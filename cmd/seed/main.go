package main

import (
	"buzz/internal/model"
	"buzz/internal/repository"
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds the game catalog. Safe to re-run; entries are upserted by slug.
func main() {
	_ = godotenv.Load()

	mongoURI := getEnv("MONGODB_URL", "mongodb://localhost:27017")
	mongoDB := getEnv("MONGODB_DB", "buzzdb")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	games := repository.NewGameRepo(client.Database(mongoDB))

	catalog := []model.Game{
		{
			Slug:            "mafia",
			Name:            "Mafia",
			Description:     "A social deduction game where innocent civilians try to identify the mafia among them while the mafia tries to remain hidden.",
			Category:        "social-deduction",
			MinPlayers:      4,
			MaxPlayers:      12,
			DurationMinutes: 30,
			ThumbnailURL:    "/static/images/games/mafia-thumbnail.webp",
			ImageURL:        "/static/images/games/mafia.webp",
		},
		{
			Slug:            "spyfall",
			Name:            "Spyfall",
			Description:     "Players try to discover who the spy is while the spy tries to figure out the location without revealing their identity.",
			Category:        "social-deduction",
			MinPlayers:      4,
			MaxPlayers:      8,
			DurationMinutes: 10,
			ThumbnailURL:    "/static/images/games/spyfall-thumbnail.webp",
			ImageURL:        "/static/images/games/spyfall.webp",
			Locations:       spyfallLocations,
		},
	}

	for i := range catalog {
		if err := games.Upsert(ctx, &catalog[i]); err != nil {
			log.Fatalf("Failed to seed game %s: %v", catalog[i].Slug, err)
		}
		log.Printf("Seeded game %s", catalog[i].Slug)
	}
}

var spyfallLocations = map[string]string{
	"Airplane":      "/static/images/spyfall_locations/airplane.webp",
	"Bank":          "/static/images/spyfall_locations/bank.webp",
	"Beach":         "/static/images/spyfall_locations/beach.webp",
	"Casino":        "/static/images/spyfall_locations/casino.webp",
	"Circus":        "/static/images/spyfall_locations/circus.webp",
	"Hospital":      "/static/images/spyfall_locations/hospital.webp",
	"Hotel":         "/static/images/spyfall_locations/hotel.webp",
	"Movie Studio":  "/static/images/spyfall_locations/movie_studio.webp",
	"Pirate Ship":   "/static/images/spyfall_locations/pirate_ship.webp",
	"Polar Station": "/static/images/spyfall_locations/polar_station.webp",
	"Restaurant":    "/static/images/spyfall_locations/restaurant.webp",
	"School":        "/static/images/spyfall_locations/school.webp",
	"Space Station": "/static/images/spyfall_locations/space_station.webp",
	"Submarine":     "/static/images/spyfall_locations/submarine.webp",
	"Supermarket":   "/static/images/spyfall_locations/supermarket.webp",
	"Train Station": "/static/images/spyfall_locations/train_station.webp",
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
