package inventory

import (
	"context"
	"fmt"

	"github.com/and161185/assetdesk/internal/model"
)

// FetchTechAssets replaces the asset cache with the list matching the current filters.
func (s *Store) FetchTechAssets(ctx context.Context) error {
	f := s.Snapshot().AssetFilters
	return fetch(ctx, s, "fetch_tech_assets",
		func(ctx context.Context) ([]model.TechAsset, error) { return s.api.ListTechAssets(ctx, f) },
		func(st *Snapshot, v []model.TechAsset) { st.TechAssets = v })
}

func (s *Store) CreateTechAsset(ctx context.Context, in model.TechAssetCreate) (model.TechAsset, error) {
	return mutate(ctx, s,
		outcome{op: "create_tech_asset", okTitle: "Asset created", failTitle: "Could not create asset"},
		func(ctx context.Context) (model.TechAsset, error) { return s.api.CreateTechAsset(ctx, in) },
		func(st *Snapshot, v model.TechAsset) { st.TechAssets = appendCopy(st.TechAssets, v) },
		func(v model.TechAsset) string { return fmt.Sprintf("Asset %q was created.", v.Name) })
}

func (s *Store) UpdateTechAsset(ctx context.Context, id int64, in model.TechAssetUpdate) (model.TechAsset, error) {
	return mutate(ctx, s,
		outcome{op: "update_tech_asset", okTitle: "Asset updated", failTitle: "Could not update asset"},
		func(ctx context.Context) (model.TechAsset, error) { return s.api.UpdateTechAsset(ctx, id, in) },
		func(st *Snapshot, v model.TechAsset) { st.TechAssets = replaceByID(st.TechAssets, id, v, assetID) },
		func(v model.TechAsset) string { return fmt.Sprintf("Asset %q was updated.", v.Name) })
}

func (s *Store) UpdateAssetStatus(ctx context.Context, id int64, status model.AssetStatus) (model.TechAsset, error) {
	return mutate(ctx, s,
		outcome{op: "update_asset_status", okTitle: "Asset status updated", failTitle: "Could not update asset status"},
		func(ctx context.Context) (model.TechAsset, error) { return s.api.UpdateAssetStatus(ctx, id, status) },
		func(st *Snapshot, v model.TechAsset) { st.TechAssets = replaceByID(st.TechAssets, id, v, assetID) },
		func(v model.TechAsset) string { return fmt.Sprintf("Asset %q is now %s.", v.Name, v.Status) })
}

func (s *Store) DeleteTechAsset(ctx context.Context, id int64) error {
	_, err := mutate(ctx, s,
		outcome{op: "delete_tech_asset", okTitle: "Asset deleted", failTitle: "Could not delete asset"},
		func(ctx context.Context) (struct{}, error) { return struct{}{}, s.api.DeleteTechAsset(ctx, id) },
		func(st *Snapshot, _ struct{}) { st.TechAssets = removeByID(st.TechAssets, id, assetID) },
		fixed[struct{}]("The asset was deleted."))
	return err
}

// SetAssetFilters replaces the asset filters. It does not fetch.
func (s *Store) SetAssetFilters(f model.AssetFilters) {
	s.update(func(st *Snapshot) { st.AssetFilters = f })
}

// ClearAssetFilters resets the asset filters. It does not fetch.
func (s *Store) ClearAssetFilters() {
	s.update(func(st *Snapshot) { st.AssetFilters = model.AssetFilters{} })
}
