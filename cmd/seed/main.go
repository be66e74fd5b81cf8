// Command seed inserts the default messes so a fresh deployment has
// something to register against. Running it twice is harmless.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/HarshitSharma-h8/messmate/config"
	"github.com/HarshitSharma-h8/messmate/models"
	"github.com/HarshitSharma-h8/messmate/store"
)

var defaultMesses = []models.Mess{
	{Name: "North Mess", Type: models.MessTypeVeg, IsActive: true},
	{Name: "South Mess", Type: models.MessTypeNonVeg, IsActive: true},
	{Name: "Special Mess", Type: models.MessTypeSpecial, IsActive: true},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := config.ConnectDB(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer client.Disconnect(ctx)

	if err := store.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("index bootstrap failed", zap.Error(err))
	}

	st := store.NewMongoStore(db)
	for _, mess := range defaultMesses {
		mess := mess
		mess.CreatedAt = time.Now().UTC()
		err := st.Messes.Create(ctx, &mess)
		switch {
		case errors.Is(err, store.ErrDuplicate):
			logger.Info("mess exists, skipping", zap.String("name", mess.Name))
		case err != nil:
			logger.Fatal("seed failed", zap.String("name", mess.Name), zap.Error(err))
		default:
			logger.Info("mess created", zap.String("name", mess.Name), zap.String("id", mess.ID.Hex()))
		}
	}
}
