package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
)

func matchAsset(a model.TechAsset, f model.AssetFilters) bool {
	if q := strings.TrimSpace(f.Search); q != "" {
		hit := false
		for _, field := range []string{a.Name, a.Brand, a.Model, a.SerialNumber, deref(a.AssetTag)} {
			if containsFold(field, q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	switch {
	case f.Category != "" && a.Category != f.Category:
		return false
	case f.Status != "" && a.Status != f.Status:
		return false
	case f.Brand != "" && !strings.EqualFold(a.Brand, f.Brand):
		return false
	case f.Location != "" && !containsFold(deref(a.Location), f.Location):
		return false
	case f.Department != "" && !containsFold(deref(a.Department), f.Department):
		return false
	}
	return true
}

func (s *InventoryServiceImpl) ListAssets(ctx context.Context, f model.AssetFilters) ([]model.TechAsset, error) {
	all, err := s.assets.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.TechAsset, 0, len(all))
	for _, a := range all {
		if matchAsset(a, f) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *InventoryServiceImpl) GetAsset(ctx context.Context, id int64) (model.TechAsset, error) {
	a, err := s.assets.GetAsset(ctx, id)
	if err != nil {
		return model.TechAsset{}, notFound("tech asset", id)
	}
	return *a, nil
}

// CreateAsset validates and stores a new asset (status defaults to available).
func (s *InventoryServiceImpl) CreateAsset(ctx context.Context, in model.TechAssetCreate) (model.TechAsset, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.SerialNumber) == "" {
		return model.TechAsset{}, fmt.Errorf("%w: name and serial_number are required", errs.ErrInvalidInput)
	}
	if !in.Category.Valid() {
		return model.TechAsset{}, fmt.Errorf("%w: unknown category %q", errs.ErrInvalidInput, in.Category)
	}
	status := in.Status
	if status == "" {
		status = model.AssetAvailable
	}
	if !status.Valid() {
		return model.TechAsset{}, fmt.Errorf("%w: unknown status %q", errs.ErrInvalidInput, status)
	}
	if err := optionalDate("purchase_date", in.PurchaseDate); err != nil {
		return model.TechAsset{}, err
	}
	if err := optionalDate("warranty_expiry", in.WarrantyExpiry); err != nil {
		return model.TechAsset{}, err
	}

	a := &model.TechAsset{
		Name:             in.Name,
		Description:      in.Description,
		Brand:            in.Brand,
		Model:            in.Model,
		SerialNumber:     in.SerialNumber,
		AssetTag:         in.AssetTag,
		Category:         in.Category,
		Status:           status,
		PurchasePrice:    in.PurchasePrice,
		PurchaseDate:     in.PurchaseDate,
		PurchaseOrder:    in.PurchaseOrder,
		Supplier:         in.Supplier,
		WarrantyExpiry:   in.WarrantyExpiry,
		WarrantyProvider: in.WarrantyProvider,
		Location:         in.Location,
		Department:       in.Department,
		Specifications:   in.Specifications,
		Notes:            in.Notes,
		CreatedAt:        timestamp(s.now()),
	}
	if err := s.assets.CreateAsset(ctx, a); err != nil {
		return model.TechAsset{}, err
	}
	return *a, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setPtrIf[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// UpdateAsset applies the non-nil fields of in.
func (s *InventoryServiceImpl) UpdateAsset(ctx context.Context, id int64, in model.TechAssetUpdate) (model.TechAsset, error) {
	if in.Category != nil && !in.Category.Valid() {
		return model.TechAsset{}, fmt.Errorf("%w: unknown category %q", errs.ErrInvalidInput, *in.Category)
	}
	if in.Status != nil && !in.Status.Valid() {
		return model.TechAsset{}, fmt.Errorf("%w: unknown status %q", errs.ErrInvalidInput, *in.Status)
	}
	if err := optionalDate("purchase_date", in.PurchaseDate); err != nil {
		return model.TechAsset{}, err
	}
	if err := optionalDate("warranty_expiry", in.WarrantyExpiry); err != nil {
		return model.TechAsset{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.assets.GetAsset(ctx, id)
	if err != nil {
		return model.TechAsset{}, notFound("tech asset", id)
	}
	setIf(&a.Name, in.Name)
	setIf(&a.Brand, in.Brand)
	setIf(&a.Model, in.Model)
	setIf(&a.SerialNumber, in.SerialNumber)
	setIf(&a.Category, in.Category)
	setIf(&a.Status, in.Status)
	setPtrIf(&a.Description, in.Description)
	setPtrIf(&a.AssetTag, in.AssetTag)
	setPtrIf(&a.PurchasePrice, in.PurchasePrice)
	setPtrIf(&a.PurchaseDate, in.PurchaseDate)
	setPtrIf(&a.PurchaseOrder, in.PurchaseOrder)
	setPtrIf(&a.Supplier, in.Supplier)
	setPtrIf(&a.WarrantyExpiry, in.WarrantyExpiry)
	setPtrIf(&a.WarrantyProvider, in.WarrantyProvider)
	setPtrIf(&a.Location, in.Location)
	setPtrIf(&a.Department, in.Department)
	setPtrIf(&a.Specifications, in.Specifications)
	setPtrIf(&a.Notes, in.Notes)
	a.UpdatedAt = ptr(timestamp(s.now()))

	if err := s.assets.UpdateAsset(ctx, a); err != nil {
		return model.TechAsset{}, err
	}
	return *a, nil
}

func (s *InventoryServiceImpl) UpdateAssetStatus(ctx context.Context, id int64, status model.AssetStatus) (model.TechAsset, error) {
	if !status.Valid() {
		return model.TechAsset{}, fmt.Errorf("%w: unknown status %q", errs.ErrInvalidInput, status)
	}
	return s.UpdateAsset(ctx, id, model.TechAssetUpdate{Status: &status})
}

// DeleteAsset removes an asset that is not currently assigned.
func (s *InventoryServiceImpl) DeleteAsset(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.assets.GetAsset(ctx, id); err != nil {
		return notFound("tech asset", id)
	}
	active, err := s.activeAssignment(ctx, id)
	if err != nil {
		return err
	}
	if active != nil {
		return fmt.Errorf("%w: asset has an active assignment", errs.ErrConflict)
	}
	return s.assets.DeleteAsset(ctx, id)
}

func (s *InventoryServiceImpl) WarrantyExpiring(ctx context.Context, daysAhead int) (model.WarrantyExpiring, error) {
	if daysAhead <= 0 {
		daysAhead = 30
	}
	all, err := s.assets.ListAssets(ctx)
	if err != nil {
		return model.WarrantyExpiring{}, err
	}
	now := s.now()
	limit := now.AddDate(0, 0, daysAhead)
	out := model.WarrantyExpiring{DaysAhead: daysAhead, Assets: []model.TechAsset{}}
	for _, a := range all {
		if a.WarrantyExpiry == nil {
			continue
		}
		exp, ok := parseDate(*a.WarrantyExpiry)
		if !ok || exp.Before(now.Truncate(24*time.Hour)) || exp.After(limit) {
			continue
		}
		out.Assets = append(out.Assets, a)
	}
	out.Count = len(out.Assets)
	return out, nil
}

// GenerateAssetTag proposes the next free tag for category, e.g. LAP-2024-0003.
func (s *InventoryServiceImpl) GenerateAssetTag(ctx context.Context, req model.AssetTagRequest) (model.AssetTag, error) {
	if !req.Category.Valid() {
		return model.AssetTag{}, fmt.Errorf("%w: unknown category %q", errs.ErrInvalidInput, req.Category)
	}
	all, err := s.assets.ListAssets(ctx)
	if err != nil {
		return model.AssetTag{}, err
	}
	code := strings.ToUpper(strings.ReplaceAll(string(req.Category), "_", ""))
	if len(code) > 3 {
		code = code[:3]
	}
	prefix := fmt.Sprintf("%s-%d-", code, s.now().Year())
	used := make(map[string]bool)
	for _, a := range all {
		used[deref(a.AssetTag)] = true
	}
	n := 1
	for used[fmt.Sprintf("%s%04d", prefix, n)] {
		n++
	}
	return model.AssetTag{AssetTag: fmt.Sprintf("%s%04d", prefix, n), Category: string(req.Category), Location: req.Location}, nil
}

func (s *InventoryServiceImpl) AssetStatistics(ctx context.Context) (model.AssetStatistics, error) {
	all, err := s.assets.ListAssets(ctx)
	if err != nil {
		return model.AssetStatistics{}, err
	}
	st := model.AssetStatistics{
		TotalAssets:          len(all),
		StatusDistribution:   map[string]int{},
		CategoryDistribution: map[string]int{},
	}
	for _, a := range all {
		st.StatusDistribution[string(a.Status)]++
		st.CategoryDistribution[string(a.Category)]++
		if a.PurchasePrice != nil {
			st.TotalInventoryValue += *a.PurchasePrice
		}
		if a.WarrantyExpiry != nil {
			st.AssetsWithWarranty++
		}
	}
	return st, nil
}
