package lots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"seedtrace-backend/internal/domain"
	"seedtrace-backend/internal/pkg/apperrors"
	"seedtrace-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

const genealogyCachePrefix = "genealogy:"

// Genealogy is the full ancestor chain and descendant subtree of a lot.
// Ancestors are ordered nearest to farthest; descendants are flattened in a
// deterministic order (children sorted by lot ID at every level).
type Genealogy struct {
	Current     domain.SeedLot   `json:"current"`
	Ancestors   []domain.SeedLot `json:"ancestors"`
	Descendants []domain.SeedLot `json:"descendants"`
}

// GetGenealogy computes the genealogy report for a lot. Results are cached
// in Redis when a client is configured; lot writes clear the cache, and the
// TTL bounds staleness from quantity changes made elsewhere (distributions,
// harvests).
func (s *Service) GetGenealogy(ctx context.Context, lotID string) (*Genealogy, error) {
	if cached := s.genealogyFromCache(ctx, lotID); cached != nil {
		return cached, nil
	}

	var current domain.SeedLot
	if err := s.DB.WithContext(ctx).Preload("Variety").Where("id = ?", lotID).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("lot", lotID)
		}
		return nil, err
	}

	ancestors, err := s.collectAncestors(ctx, &current)
	if err != nil {
		return nil, err
	}
	visited := map[string]bool{current.ID: true}
	descendants, err := s.collectDescendants(ctx, current.ID, visited)
	if err != nil {
		return nil, err
	}

	g := &Genealogy{Current: current, Ancestors: ancestors, Descendants: descendants}
	s.genealogyToCache(ctx, lotID, g)
	return g, nil
}

// collectAncestors walks parent references nearest-first until the root.
// The walk is bounded by the visited set and the number of generation
// levels; a repeat or an over-long chain means corrupted parent pointers.
func (s *Service) collectAncestors(ctx context.Context, start *domain.SeedLot) ([]domain.SeedLot, error) {
	ancestors := []domain.SeedLot{}
	visited := map[string]bool{start.ID: true}
	parentID := start.ParentLotID

	for parentID != nil {
		if visited[*parentID] {
			return nil, apperrors.Integrity(fmt.Sprintf("cycle detected in lot ancestry at %s", *parentID), *parentID)
		}
		if len(ancestors) >= constants.MaxGenealogyDepth {
			return nil, apperrors.Integrity(fmt.Sprintf("ancestor chain of lot %s exceeds %d generations", start.ID, constants.MaxGenealogyDepth), start.ID)
		}

		var parent domain.SeedLot
		if err := s.DB.WithContext(ctx).Preload("Variety").Where("id = ?", *parentID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Integrity(fmt.Sprintf("lot references missing parent %s", *parentID), *parentID)
			}
			return nil, err
		}
		visited[parent.ID] = true
		ancestors = append(ancestors, parent)
		parentID = parent.ParentLotID
	}
	return ancestors, nil
}

// collectDescendants recursively gathers all children, depth-first, children
// of each lot ordered by ID so the flattened report is reproducible.
func (s *Service) collectDescendants(ctx context.Context, lotID string, visited map[string]bool) ([]domain.SeedLot, error) {
	var children []domain.SeedLot
	if err := s.DB.WithContext(ctx).Preload("Variety").
		Where("parent_lot_id = ?", lotID).Order("id ASC").Find(&children).Error; err != nil {
		return nil, err
	}

	descendants := []domain.SeedLot{}
	for _, child := range children {
		if visited[child.ID] {
			return nil, apperrors.Integrity(fmt.Sprintf("cycle detected in lot descendants at %s", child.ID), child.ID)
		}
		visited[child.ID] = true
		descendants = append(descendants, child)

		sub, err := s.collectDescendants(ctx, child.ID, visited)
		if err != nil {
			return nil, err
		}
		descendants = append(descendants, sub...)
	}
	return descendants, nil
}

func (s *Service) genealogyFromCache(ctx context.Context, lotID string) *Genealogy {
	if s.Rdb == nil || s.CacheTTL <= 0 {
		return nil
	}
	b, err := s.Rdb.Get(ctx, genealogyCachePrefix+lotID).Bytes()
	if err != nil {
		return nil
	}
	var g Genealogy
	if err := json.Unmarshal(b, &g); err != nil {
		return nil
	}
	return &g
}

func (s *Service) genealogyToCache(ctx context.Context, lotID string, g *Genealogy) {
	if s.Rdb == nil || s.CacheTTL <= 0 {
		return
	}
	b, err := json.Marshal(g)
	if err != nil {
		return
	}
	_ = s.Rdb.Set(ctx, genealogyCachePrefix+lotID, b, s.CacheTTL).Err()
}

// invalidateGenealogyCache drops every cached report. A new child changes
// the descendant trees of all its ancestors, so per-key invalidation would
// have to walk the chain anyway; clearing the keyspace is simpler and safe.
func (s *Service) invalidateGenealogyCache(ctx context.Context) {
	if s.Rdb == nil {
		return
	}
	keys, err := s.Rdb.Keys(ctx, genealogyCachePrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	_ = s.Rdb.Del(ctx, keys...).Err()
}
