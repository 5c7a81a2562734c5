// Package graphstore implements pkg/persist.Store over Neo4j, persisting
// the relation graph as labeled nodes and edges rather than rows or a blob.
package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/domainlens/domainlens/pkg/model"
)

// Store is a pkg/persist.Store backed by a Neo4j driver.
type Store struct {
	driver neo4j.DriverWithContext
}

// Open connects to uri and verifies connectivity.
func Open(ctx context.Context, uri, username, password string) (*Store, error) {
	var auth neo4j.AuthToken
	if username != "" {
		auth = neo4j.BasicAuth(username, password, "")
	} else {
		auth = neo4j.NoAuth()
	}

	driver, err := neo4j.NewDriverWithContext(uri, auth)
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}
	return &Store{driver: driver}, nil
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error { return s.driver.Close(ctx) }

// Save replaces every Entity/Rule node and CALLS/DEPENDS_ON/MODIFIES/USES
// edge belonging to projectID.
func (s *Store) Save(ctx context.Context, projectID string, report model.TechnicalReport) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, "MATCH (n {projectId: $projectId}) DETACH DELETE n", map[string]any{"projectId": projectID}); err != nil {
			return nil, err
		}

		for _, e := range report.Entities {
			if _, err := tx.Run(ctx,
				"CREATE (:Entity {projectId: $projectId, name: $name, file: $file, stateFields: $stateFields})",
				map[string]any{"projectId": projectID, "name": e.Name, "file": e.File, "stateFields": e.StateFields},
			); err != nil {
				return nil, fmt.Errorf("creating entity node %s: %w", e.Name, err)
			}
		}

		for _, r := range report.Rules {
			if _, err := tx.Run(ctx,
				"CREATE (:Rule {projectId: $projectId, id: $id, type: $type, entity: $entity, confidence: $confidence})",
				map[string]any{"projectId": projectID, "id": r.ID, "type": string(r.Type), "entity": r.Entity, "confidence": r.Confidence},
			); err != nil {
				return nil, fmt.Errorf("creating rule node %s: %w", r.ID, err)
			}
		}

		for _, rel := range report.Relations {
			query := fmt.Sprintf(
				"MATCH (a {projectId: $projectId}), (b {projectId: $projectId}) "+
					"WHERE (a.name = $from OR a.id = $from) AND (b.name = $to OR b.id = $to) "+
					"MERGE (a)-[:%s]->(b)", sanitizeRelationLabel(rel.Type))
			if _, err := tx.Run(ctx, query, map[string]any{"projectId": projectID, "from": rel.From, "to": rel.To}); err != nil {
				return nil, fmt.Errorf("creating relation edge %s->%s: %w", rel.From, rel.To, err)
			}
		}

		return nil, nil
	})
	return err
}

// Load is unsupported: the graph store is a query-oriented visualization
// sink, not a round-trip report source. Callers that need to rehydrate a
// full TechnicalReport should use pkg/persist/kv or pkg/persist/relstore.
func (s *Store) Load(ctx context.Context, projectID string) (model.TechnicalReport, error) {
	return model.TechnicalReport{}, fmt.Errorf("graphstore: Load is not supported, use kv or relstore")
}

// sanitizeRelationLabel maps a RelationType to a safe Cypher relationship
// label. RelationType is a closed set, so this is exhaustive.
func sanitizeRelationLabel(t model.RelationType) string {
	switch t {
	case model.RelCalls, model.RelDependsOn, model.RelModifies, model.RelUses:
		return string(t)
	default:
		return "RELATED_TO"
	}
}
