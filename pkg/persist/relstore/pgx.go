// Package relstore implements pkg/persist.Store over PostgreSQL via pgx,
// normalizing a report's entities, rules, and relations into relational
// tables rather than storing one opaque blob per project.
package relstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/domainlens/domainlens/pkg/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS domainlens_entities (
	project_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	file       TEXT NOT NULL,
	state_fields JSONB NOT NULL,
	PRIMARY KEY (project_id, name)
);
CREATE TABLE IF NOT EXISTS domainlens_relations (
	project_id TEXT NOT NULL,
	type       TEXT NOT NULL,
	from_id    TEXT NOT NULL,
	to_id      TEXT NOT NULL,
	PRIMARY KEY (project_id, type, from_id, to_id)
);
CREATE TABLE IF NOT EXISTS domainlens_rules (
	project_id TEXT NOT NULL,
	id         TEXT NOT NULL,
	type       TEXT NOT NULL,
	entity     TEXT,
	file_path  TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (project_id, id)
);
CREATE TABLE IF NOT EXISTS domainlens_violations (
	project_id TEXT NOT NULL,
	id         TEXT NOT NULL,
	type       TEXT NOT NULL,
	message    TEXT NOT NULL,
	PRIMARY KEY (project_id, id)
);
`

// Store is a pkg/persist.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and ensures the report schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }

// Save replaces every row belonging to projectID with the contents of
// report, inside one transaction.
func (s *Store) Save(ctx context.Context, projectID string, report model.TechnicalReport) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"domainlens_entities", "domainlens_relations", "domainlens_rules", "domainlens_violations"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE project_id = $1", table), projectID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, e := range report.Entities {
		fields, err := json.Marshal(e.StateFields)
		if err != nil {
			return fmt.Errorf("encoding state fields for %s: %w", e.Name, err)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO domainlens_entities (project_id, name, file, state_fields) VALUES ($1, $2, $3, $4)",
			projectID, e.Name, e.File, fields); err != nil {
			return fmt.Errorf("inserting entity %s: %w", e.Name, err)
		}
	}

	for _, r := range report.Relations {
		if _, err := tx.Exec(ctx,
			"INSERT INTO domainlens_relations (project_id, type, from_id, to_id) VALUES ($1, $2, $3, $4)",
			projectID, string(r.Type), r.From, r.To); err != nil {
			return fmt.Errorf("inserting relation %s->%s: %w", r.From, r.To, err)
		}
	}

	for _, rule := range report.Rules {
		if _, err := tx.Exec(ctx,
			"INSERT INTO domainlens_rules (project_id, id, type, entity, file_path, confidence) VALUES ($1, $2, $3, $4, $5, $6)",
			projectID, rule.ID, string(rule.Type), nullableString(rule.Entity), rule.FilePath, rule.Confidence); err != nil {
			return fmt.Errorf("inserting rule %s: %w", rule.ID, err)
		}
	}

	for _, v := range report.ArchitecturalViolations {
		if _, err := tx.Exec(ctx,
			"INSERT INTO domainlens_violations (project_id, id, type, message) VALUES ($1, $2, $3, $4)",
			projectID, v.ID, string(v.Type), v.Message); err != nil {
			return fmt.Errorf("inserting violation %s: %w", v.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// Load rebuilds a TechnicalReport from the relational tables. Impact is
// never persisted — it is a derived, query-time-only artifact, so a loaded
// report always has a nil Impact field.
func (s *Store) Load(ctx context.Context, projectID string) (model.TechnicalReport, error) {
	var report model.TechnicalReport

	entityRows, err := s.pool.Query(ctx, "SELECT name, file, state_fields FROM domainlens_entities WHERE project_id = $1 ORDER BY name", projectID)
	if err != nil {
		return report, fmt.Errorf("loading entities: %w", err)
	}
	defer entityRows.Close()
	for entityRows.Next() {
		var e model.DomainEntity
		var fields []byte
		if err := entityRows.Scan(&e.Name, &e.File, &fields); err != nil {
			return report, fmt.Errorf("scanning entity: %w", err)
		}
		if err := json.Unmarshal(fields, &e.StateFields); err != nil {
			return report, fmt.Errorf("decoding state fields for %s: %w", e.Name, err)
		}
		report.Entities = append(report.Entities, e)
	}

	relationRows, err := s.pool.Query(ctx, "SELECT type, from_id, to_id FROM domainlens_relations WHERE project_id = $1 ORDER BY from_id, to_id", projectID)
	if err != nil {
		return report, fmt.Errorf("loading relations: %w", err)
	}
	defer relationRows.Close()
	for relationRows.Next() {
		var r model.DomainRelation
		var relType string
		if err := relationRows.Scan(&relType, &r.From, &r.To); err != nil {
			return report, fmt.Errorf("scanning relation: %w", err)
		}
		r.Type = model.RelationType(relType)
		report.Relations = append(report.Relations, r)
	}

	ruleRows, err := s.pool.Query(ctx, "SELECT id, type, entity, file_path, confidence FROM domainlens_rules WHERE project_id = $1 ORDER BY id", projectID)
	if err != nil {
		return report, fmt.Errorf("loading rules: %w", err)
	}
	defer ruleRows.Close()
	for ruleRows.Next() {
		var rule model.BusinessRule
		var ruleType string
		var entity *string
		if err := ruleRows.Scan(&rule.ID, &ruleType, &entity, &rule.FilePath, &rule.Confidence); err != nil {
			return report, fmt.Errorf("scanning rule: %w", err)
		}
		rule.Type = model.RuleType(ruleType)
		if entity != nil {
			rule.Entity = *entity
		}
		report.Rules = append(report.Rules, rule)
	}

	violationRows, err := s.pool.Query(ctx, "SELECT id, type, message FROM domainlens_violations WHERE project_id = $1 ORDER BY id", projectID)
	if err != nil {
		return report, fmt.Errorf("loading violations: %w", err)
	}
	defer violationRows.Close()
	for violationRows.Next() {
		var v model.ArchitecturalViolation
		var violationType string
		if err := violationRows.Scan(&v.ID, &violationType, &v.Message); err != nil {
			return report, fmt.Errorf("scanning violation: %w", err)
		}
		v.Type = model.ViolationType(violationType)
		report.ArchitecturalViolations = append(report.ArchitecturalViolations, v)
	}

	if len(report.Entities) == 0 && len(report.Rules) == 0 {
		return report, fmt.Errorf("no report found for project %q: %w", projectID, pgx.ErrNoRows)
	}
	return report, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
