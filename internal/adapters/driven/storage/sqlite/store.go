// Package sqlite implements the analysis store over a single SQLite
// database. Embeddings live in the chunks table as little-endian float32
// blobs; similarity ranking happens in process over SQL-filtered candidates.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/brightline-labs/campaigniq/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/brightline-labs/campaigniq/internal/core/domain"
	"github.com/brightline-labs/campaigniq/internal/core/ports/driven"
)

var _ driven.AnalysisStore = (*Store)(nil)

// Store is the SQLite-backed analysis store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store under dataDir. If dataDir is empty,
// defaults to ~/.campaigniq/data/campaigns.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".campaigniq", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "campaigns.db")

	// WAL mode for better concurrency under the worker pool.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveDocumentAnalysis persists the document, its analysis and its chunks in
// a single transaction. The document row merges on id; prior analysis and
// chunk rows are superseded by delete-then-insert; the campaign row is
// refreshed last. Any failure rolls the whole write back and surfaces as
// domain.ErrPersistenceFailure, making the call safe to retry.
func (s *Store) SaveDocumentAnalysis(ctx context.Context, doc *domain.CampaignDocument, record *domain.AnalysisRecord, chunks []domain.TextChunk) error {
	if doc == nil || record == nil {
		return fmt.Errorf("%w: document and record are required", domain.ErrInvalidInput)
	}
	if record.DocumentID != doc.ID {
		return fmt.Errorf("%w: record document id %q does not match document %q", domain.ErrInvalidInput, record.DocumentID, doc.ID)
	}

	featuresJSON, err := json.Marshal(record.Features.Flags)
	if err != nil {
		return fmt.Errorf("marshalling features: %w", err)
	}
	outcomesJSON, err := json.Marshal(record.Outcomes.Flags)
	if err != nil {
		return fmt.Errorf("marshalling outcomes: %w", err)
	}
	compositionJSON, err := json.Marshal(record.Composition)
	if err != nil {
		return fmt.Errorf("marshalling composition: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrPersistenceFailure, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, filename, mime_type, size, created_at, modified_at, path, campaign_name, client_name, file_kind, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			mime_type = excluded.mime_type,
			size = excluded.size,
			created_at = excluded.created_at,
			modified_at = excluded.modified_at,
			path = excluded.path,
			campaign_name = excluded.campaign_name,
			client_name = excluded.client_name,
			file_kind = excluded.file_kind,
			processed_at = excluded.processed_at
	`, doc.ID, doc.Filename, doc.MIMEType, doc.Size, doc.CreatedAt, doc.ModifiedAt,
		doc.Path, doc.CampaignName, doc.ClientName, string(doc.FileKind), doc.ProcessedAt)
	if err != nil {
		return fmt.Errorf("%w: upserting document: %w", domain.ErrPersistenceFailure, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM analysis WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("%w: superseding analysis: %w", domain.ErrPersistenceFailure, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis (document_id, features_version, features, outcomes, composition, confidence, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, record.Features.Version, string(featuresJSON), string(outcomesJSON),
		string(compositionJSON), record.Confidence, record.AnalyzedAt)
	if err != nil {
		return fmt.Errorf("%w: inserting analysis: %w", domain.ErrPersistenceFailure, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("%w: superseding chunks: %w", domain.ErrPersistenceFailure, err)
	}
	for _, chunk := range chunks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO chunks (id, document_id, content, chunk_index, embedding, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, chunk.ID, chunk.DocumentID, chunk.Content, chunk.Index,
			float32SliceToBytes(chunk.Embedding), chunk.CreatedAt)
		if err != nil {
			return fmt.Errorf("%w: inserting chunk %d: %w", domain.ErrPersistenceFailure, chunk.Index, err)
		}
	}

	comp := record.Composition
	_, err = tx.ExecContext(ctx, `
		INSERT INTO campaigns (campaign_name, client_name, video_count, image_count, presentation_count, document_count, other_count, total_files, video_heavy, image_rich, strategic_campaign, comprehensive_execution, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(campaign_name, client_name) DO UPDATE SET
			video_count = excluded.video_count,
			image_count = excluded.image_count,
			presentation_count = excluded.presentation_count,
			document_count = excluded.document_count,
			other_count = excluded.other_count,
			total_files = excluded.total_files,
			video_heavy = excluded.video_heavy,
			image_rich = excluded.image_rich,
			strategic_campaign = excluded.strategic_campaign,
			comprehensive_execution = excluded.comprehensive_execution,
			updated_at = excluded.updated_at
	`, doc.CampaignName, doc.ClientName, comp.VideoCount, comp.ImageCount,
		comp.PresentationCount, comp.DocumentCount, comp.OtherCount, comp.TotalFiles,
		boolToInt(comp.VideoHeavy), boolToInt(comp.ImageRich),
		boolToInt(comp.StrategicCampaign), boolToInt(comp.ComprehensiveExecution),
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: upserting campaign: %w", domain.ErrPersistenceFailure, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", domain.ErrPersistenceFailure, err)
	}
	return nil
}

// FindSimilarChunks ranks stored chunks by cosine similarity to the query
// vector. Candidates are narrowed by SQL equality filters first; ranking
// happens in process. Ties break on most recent chunk creation.
func (s *Store) FindSimilarChunks(ctx context.Context, query []float32, filters domain.InsightFilters, limit int) ([]domain.RetrievedSource, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}

	sqlQuery := `
		SELECT c.id, c.document_id, c.content, c.chunk_index, c.embedding, c.created_at,
			d.filename, d.mime_type, d.size, d.created_at, d.modified_at, d.path,
			d.campaign_name, d.client_name, d.file_kind, d.processed_at
		FROM chunks c
		JOIN documents d ON d.id = c.document_id
	`
	where, args := filterClauses(filters, "d")
	if len(where) > 0 {
		sqlQuery += " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var candidates []domain.RetrievedSource
	for rows.Next() {
		var (
			src       domain.RetrievedSource
			embedding []byte
			fileKind  string
		)
		err := rows.Scan(
			&src.Chunk.ID, &src.Chunk.DocumentID, &src.Chunk.Content, &src.Chunk.Index, &embedding, &src.Chunk.CreatedAt,
			&src.Document.Filename, &src.Document.MIMEType, &src.Document.Size,
			&src.Document.CreatedAt, &src.Document.ModifiedAt, &src.Document.Path,
			&src.Document.CampaignName, &src.Document.ClientName, &fileKind, &src.Document.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		src.Document.ID = src.Chunk.DocumentID
		src.Document.FileKind = domain.FileKind(fileKind)
		src.Chunk.Embedding = bytesToFloat32Slice(embedding)
		src.Similarity = cosineSimilarity(query, src.Chunk.Embedding)
		candidates = append(candidates, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].Chunk.CreatedAt.After(candidates[j].Chunk.CreatedAt)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// ListAnalyses returns analysis records for matching documents, most recent
// first.
func (s *Store) ListAnalyses(ctx context.Context, filters domain.InsightFilters) ([]domain.AnalysisRecord, error) {
	sqlQuery := `
		SELECT a.document_id, a.features_version, a.features, a.outcomes, a.composition, a.confidence, a.analyzed_at
		FROM analysis a
		JOIN documents d ON d.id = a.document_id
	`
	where, args := filterClauses(filters, "d")
	if len(where) > 0 {
		sqlQuery += " WHERE " + strings.Join(where, " AND ")
	}
	sqlQuery += " ORDER BY a.analyzed_at DESC"

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var records []domain.AnalysisRecord
	for rows.Next() {
		var (
			record                                      domain.AnalysisRecord
			featuresJSON, outcomesJSON, compositionJSON string
		)
		err := rows.Scan(&record.DocumentID, &record.Features.Version, &featuresJSON,
			&outcomesJSON, &compositionJSON, &record.Confidence, &record.AnalyzedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		if err := json.Unmarshal([]byte(featuresJSON), &record.Features.Flags); err != nil {
			return nil, fmt.Errorf("unmarshalling features: %w", err)
		}
		if err := json.Unmarshal([]byte(outcomesJSON), &record.Outcomes.Flags); err != nil {
			return nil, fmt.Errorf("unmarshalling outcomes: %w", err)
		}
		if err := json.Unmarshal([]byte(compositionJSON), &record.Composition); err != nil {
			return nil, fmt.Errorf("unmarshalling composition: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}
	return records, nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.CampaignDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, mime_type, size, created_at, modified_at, path, campaign_name, client_name, file_kind, processed_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns documents for a campaign, all when campaignName is
// empty, ordered by path.
func (s *Store) ListDocuments(ctx context.Context, campaignName string) ([]domain.CampaignDocument, error) {
	sqlQuery := `
		SELECT id, filename, mime_type, size, created_at, modified_at, path, campaign_name, client_name, file_kind, processed_at
		FROM documents
	`
	var args []any
	if campaignName != "" {
		sqlQuery += " WHERE campaign_name = ?"
		args = append(args, campaignName)
	}
	sqlQuery += " ORDER BY path"

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.CampaignDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document; analysis and chunk rows cascade via
// foreign keys.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: deleting document: %w", domain.ErrPersistenceFailure, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.CampaignDocument, error) {
	var (
		doc      domain.CampaignDocument
		fileKind string
	)
	err := row.Scan(&doc.ID, &doc.Filename, &doc.MIMEType, &doc.Size,
		&doc.CreatedAt, &doc.ModifiedAt, &doc.Path,
		&doc.CampaignName, &doc.ClientName, &fileKind, &doc.ProcessedAt)
	if err != nil {
		return nil, err
	}
	doc.FileKind = domain.FileKind(fileKind)
	return &doc, nil
}

// filterClauses builds WHERE clauses for the equality filters against the
// aliased documents table.
func filterClauses(filters domain.InsightFilters, alias string) ([]string, []any) {
	var (
		where []string
		args  []any
	)
	if filters.CampaignName != "" {
		where = append(where, alias+".campaign_name = ?")
		args = append(args, filters.CampaignName)
	}
	if filters.ClientName != "" {
		where = append(where, alias+".client_name = ?")
		args = append(args, filters.ClientName)
	}
	return where, args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// float32SliceToBytes serialises a vector as little-endian float32 bytes.
func float32SliceToBytes(floats []float32) []byte {
	bytes := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(bytes[i*4:], math.Float32bits(f))
	}
	return bytes
}

// bytesToFloat32Slice deserialises little-endian float32 bytes.
func bytesToFloat32Slice(bytes []byte) []float32 {
	floats := make([]float32, len(bytes)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(bytes[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
