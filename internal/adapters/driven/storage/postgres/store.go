package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a Postgres document store with pgvector chunk embeddings.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres, enables the vector extension and migrates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is empty", domain.ErrInvalidConfiguration)
	}

	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// NewStore wraps an existing gorm connection without migrating.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enabling pgvector: %w", err)
	}
	return db.AutoMigrate(&documentModel{}, &chunkModel{})
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateDocument inserts a new document row.
func (s *Store) CreateDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrPersistence)
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	m := toDocumentModel(doc)
	if err := s.db.WithContext(ctx).Omit("Chunks").Create(&m).Error; err != nil {
		return fmt.Errorf("%w: inserting document %s: %w", domain.ErrPersistence, doc.ID, err)
	}
	return nil
}

// InsertChunks stores every chunk in one transaction.
func (s *Store) InsertChunks(ctx context.Context, chunks []domain.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		meta := make(map[string]datatypes.JSONMap)
		rows := make([]chunkModel, 0, len(chunks))
		now := time.Now().UTC()

		for _, c := range chunks {
			m, ok := meta[c.DocumentID]
			if !ok {
				var doc documentModel
				if err := tx.Omit("Content").First(&doc, "id = ?", c.DocumentID).Error; err != nil {
					return fmt.Errorf("loading document %s: %w", c.DocumentID, err)
				}
				m = chunkMetadata(&doc)
				meta[c.DocumentID] = m
			}
			if c.ID == "" {
				c.ID = uuid.New().String()
			}
			if c.CreatedAt.IsZero() {
				c.CreatedAt = now
			}
			rows = append(rows, toChunkModel(c, m))
		}

		return tx.CreateInBatches(&rows, 200).Error
	})
	if err != nil {
		return 0, fmt.Errorf("%w: inserting chunks: %w", domain.ErrPersistence, err)
	}
	return len(chunks), nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var m documentModel
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	doc := m.toDomain()
	return &doc, nil
}

// GetChunks retrieves a document's chunks ordered by position.
func (s *Store) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	var rows []chunkModel
	if err := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("getting chunks: %w", err)
	}

	chunks := make([]domain.Chunk, len(rows))
	for i, r := range rows {
		chunks[i] = r.toDomain()
	}
	return chunks, nil
}

// CountChunks returns how many chunks a document has.
func (s *Store) CountChunks(ctx context.Context, documentID string) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).
		Model(&chunkModel{}).
		Where("document_id = ?", documentID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return int(n), nil
}

// ListDocuments returns documents newest first, without their content.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var rows []documentModel
	if err := s.db.WithContext(ctx).
		Omit("Content").
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	docs := make([]domain.Document, len(rows))
	for i, r := range rows {
		docs[i] = r.toDomain()
	}
	return docs, nil
}

// DeleteDocument removes a document; chunks cascade.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&chunkModel{}).Error; err != nil {
			return fmt.Errorf("deleting chunks: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&documentModel{}).Error; err != nil {
			return fmt.Errorf("deleting document: %w", err)
		}
		return nil
	})
}
