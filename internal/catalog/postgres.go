package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wanderdeck/engine/internal/game/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalog_entries (
	kind     TEXT    NOT NULL,
	id       TEXT    NOT NULL,
	position INTEGER NOT NULL,
	count    INTEGER NOT NULL DEFAULT 1,
	body     JSONB   NOT NULL,
	PRIMARY KEY (kind, id)
)`

// Row kinds stored in catalog_entries.
const (
	kindClass     = "class"
	kindWeather   = "weather"
	kindTreasure  = "treasure"
	kindEncounter = "encounter"
)

// catalogRow is one stored entry. Body is the entry's JSON encoding.
type catalogRow struct {
	Kind     string
	ID       string
	Position int
	Count    int
	Body     json.RawMessage
}

// PostgresStore keeps a catalog in PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects to databaseURL and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// EnsureSchema creates the catalog table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure catalog schema: %w", err)
	}
	return nil
}

// Load reads and validates the stored catalog.
func (s *PostgresStore) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.pool.Query(ctx, `SELECT kind, id, position, count, body FROM catalog_entries ORDER BY kind, position`)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[catalogRow])
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}

	c, err := decodeRows(records)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("loaded catalog from database",
		zap.Int("classes", len(c.Classes)),
		zap.Int("weather", len(c.Weather)),
		zap.Int("treasure", len(c.Treasure)),
		zap.Int("encounters", len(c.Encounters)),
	)
	return c, nil
}

// Save replaces the stored catalog with c in a single transaction.
func (s *PostgresStore) Save(ctx context.Context, c *Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	records, err := encodeRows(c)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM catalog_entries`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`INSERT INTO catalog_entries (kind, id, position, count, body) VALUES ($1, $2, $3, $4, $5)`,
			r.Kind, r.ID, r.Position, r.Count, r.Body)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert catalog entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}

	s.logger.Info("saved catalog to database", zap.Int("entries", len(records)))
	return nil
}

func encodeRows(c *Catalog) ([]catalogRow, error) {
	records := make([]catalogRow, 0, len(c.Classes)+len(c.Weather)+len(c.Treasure)+len(c.Encounters))
	add := func(kind, id string, position, count int, v any) error {
		body, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", kind, id, err)
		}
		records = append(records, catalogRow{Kind: kind, ID: id, Position: position, Count: count, Body: body})
		return nil
	}

	for i, def := range c.Classes {
		if err := add(kindClass, string(def.ID), i, 1, def); err != nil {
			return nil, err
		}
	}
	for i, w := range c.Weather {
		if err := add(kindWeather, string(w.ID), i, 1, w); err != nil {
			return nil, err
		}
	}
	for i, t := range c.Treasure {
		if err := add(kindTreasure, t.ID, i, 1, t); err != nil {
			return nil, err
		}
	}
	for i, e := range c.Encounters {
		if err := add(kindEncounter, e.Card.ID, i, e.Count, e.Card); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// decodeRows rebuilds a catalog from rows sorted by kind and position.
func decodeRows(records []catalogRow) (*Catalog, error) {
	c := &Catalog{}
	for _, r := range records {
		var err error
		switch r.Kind {
		case kindClass:
			var def ClassDefinition
			if err = json.Unmarshal(r.Body, &def); err == nil {
				c.Classes = append(c.Classes, def)
			}
		case kindWeather:
			var w model.WeatherCard
			if err = json.Unmarshal(r.Body, &w); err == nil {
				c.Weather = append(c.Weather, &w)
			}
		case kindTreasure:
			var t model.TreasureCard
			if err = json.Unmarshal(r.Body, &t); err == nil {
				c.Treasure = append(c.Treasure, &t)
			}
		case kindEncounter:
			var e model.EncounterCard
			if err = json.Unmarshal(r.Body, &e); err == nil {
				c.Encounters = append(c.Encounters, EncounterEntry{Card: e, Count: r.Count})
			}
		default:
			return nil, fmt.Errorf("%w: unknown entry kind %q", ErrInvalidCatalog, r.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", r.Kind, r.ID, err)
		}
	}
	return c, nil
}
