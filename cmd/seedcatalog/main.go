// cmd/seedcatalog/main.go: creates or refreshes the demo users and the
// Electronics → Laptops category with its RAM and Storage fields.
// Usage: go run ./cmd/seedcatalog
package main

import (
	"context"
	"os"
	"time"

	"buyonline/internal/config"
	"buyonline/internal/infra"
	"buyonline/internal/model"
	"buyonline/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var demoUsers = []model.User{
	{Email: "admin@buyonline.local", FirstName: "Ada", LastName: "Admin", Role: model.RoleAdmin},
	{Email: "seller@buyonline.local", FirstName: "Sam", LastName: "Seller", Role: model.RoleSeller},
	{Email: "customer@buyonline.local", FirstName: "Casey", LastName: "Customer", Role: model.RoleCustomer},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	for i := range demoUsers {
		u := demoUsers[i]
		if err := users.Upsert(ctx, &u); err != nil {
			log.Fatal().Err(err).Str("email", u.Email).Msg("upsert user")
		}
		log.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("user ready")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		root, err := ensureCategory(tx, "Electronics", nil)
		if err != nil {
			return err
		}
		leaf, err := ensureCategory(tx, "Laptops", &root.ID)
		if err != nil {
			return err
		}
		for _, name := range []string{"RAM", "Storage"} {
			f := model.CategoryMetadataField{Name: name, CategoryID: leaf.ID}
			if err := tx.Where("name = ? AND category_id = ?", name, leaf.ID).FirstOrCreate(&f).Error; err != nil {
				return err
			}
		}
		log.Info().Str("root", root.ID.String()).Str("leaf", leaf.ID.String()).Msg("categories ready")
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed categories")
	}
}

func ensureCategory(tx *gorm.DB, name string, parent *uuid.UUID) (*model.Category, error) {
	c := model.Category{Name: name, ParentID: parent}
	q := tx.Where("name = ?", name)
	if parent == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parent)
	}
	if err := q.FirstOrCreate(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
