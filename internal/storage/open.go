package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_reviews/internal/domain"
	"hotel_reviews/internal/shared"
	"hotel_reviews/internal/storage/memory"
	mongorepo "hotel_reviews/internal/storage/mongo"
	mysqlrepo "hotel_reviews/internal/storage/mysql"
)

// Open connects the backend selected by cfg.StoreBackend and prepares its
// schema or indexes.
func Open(ctx context.Context, cfg shared.Config) (domain.Store, error) {
	switch cfg.StoreBackend {
	case shared.BackendMongo:
		repo, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = repo.Close(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.MongoDatabase).Msg("mongo connection ok")
		return repo, nil

	case shared.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db.Ping: %w", err)
		}
		repo := mysqlrepo.New(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("mysql connection ok")
		return repo, nil

	case shared.BackendMemory:
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
