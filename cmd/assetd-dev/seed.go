package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
	"github.com/and161185/assetdesk/internal/service"
)

// seedAdmin creates the admin account unless the email is already taken.
func seedAdmin(ctx context.Context, auth service.AuthService, email, password string) error {
	name := "Administrator"
	_, err := auth.Register(ctx, model.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: &name,
		Roles:    []string{"admin"},
	})
	if errors.Is(err, errs.ErrAlreadyExists) {
		return nil
	}
	return err
}

type demoUser struct {
	email, name string
	roles       []string
}

var demoUsers = []demoUser{
	{"manager@example.com", "Marta Gómez", []string{"manager"}},
	{"inventory@example.com", "Iván Ruiz", []string{"inventory_manager"}},
	{"tech@example.com", "Tomás Pérez", []string{"technician"}},
	{"user@example.com", "Lucía Díaz", []string{"user"}},
}

// demoPassword is shared by every demo account.
const demoPassword = "demo1234"

// seedDemo fills an empty store with a small but realistic inventory.
func seedDemo(ctx context.Context, auth service.AuthService, inv service.InventoryService) error {
	ids := map[string]int64{}
	for _, du := range demoUsers {
		name := du.name
		u, err := auth.Register(ctx, model.RegisterRequest{Email: du.email, Password: demoPassword, FullName: &name, Roles: du.roles})
		if err != nil {
			return fmt.Errorf("register %s: %w", du.email, err)
		}
		ids[du.email] = u.ID
	}

	loc := "Oficina central"
	assets := []model.TechAssetCreate{
		{Name: "Portátil desarrollo", Brand: "Lenovo", Model: "ThinkPad T14", SerialNumber: "LNV-T14-0001", Category: model.CategoryLaptop, Location: &loc},
		{Name: "Monitor 27", Brand: "Dell", Model: "P2723D", SerialNumber: "DEL-P27-0001", Category: model.CategoryMonitor, Location: &loc},
		{Name: "Impresora planta 1", Brand: "HP", Model: "LaserJet M404", SerialNumber: "HP-M404-0001", Category: model.CategoryPrinter, Location: &loc},
	}
	created := make([]model.TechAsset, 0, len(assets))
	for _, in := range assets {
		tag, err := inv.GenerateAssetTag(ctx, model.AssetTagRequest{Category: in.Category, Location: in.Location})
		if err != nil {
			return err
		}
		in.AssetTag = &tag.AssetTag
		a, err := inv.CreateAsset(ctx, in)
		if err != nil {
			return fmt.Errorf("create asset %s: %w", in.SerialNumber, err)
		}
		created = append(created, a)
	}

	manager := ids["manager@example.com"]
	if _, err := inv.CreateAssignment(ctx, manager, model.AssetAssignmentCreate{
		TechAssetID:      created[0].ID,
		AssignedToUserID: ids["user@example.com"],
	}); err != nil {
		return fmt.Errorf("assign: %w", err)
	}

	tech := ids["tech@example.com"]
	if _, err := inv.CreateMaintenance(ctx, manager, model.AssetMaintenanceCreate{
		TechAssetID:          created[2].ID,
		MaintenanceType:      model.MaintenanceRepair,
		Title:                "Atasco de papel",
		Description:          "La bandeja 2 atasca cada pocas hojas",
		Priority:             model.PriorityHigh,
		ScheduledDate:        time.Now().Add(48 * time.Hour).UTC().Format("2006-01-02T15:04:05"),
		AssignedTechnicianID: &tech,
	}); err != nil {
		return fmt.Errorf("maintenance: %w", err)
	}
	_, err := inv.SchedulePreventive(ctx, manager, created[1].ID, 180)
	return err
}
