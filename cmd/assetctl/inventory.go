package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer, got %q", errs.ErrInvalidInput, s)
	}
	return id, nil
}

// optional returns nil for an empty flag value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// idCmd builds a subcommand taking one numeric argument, guarded by page.
func (c *cli) idCmd(use, short, page string, run func(cmd *cobra.Command, id int64) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.require(page); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := run(cmd, id)
			if err != nil {
				return err
			}
			if out != nil {
				printJSON(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
}

// listCmd builds a guarded subcommand without arguments.
func (c *cli) listCmd(use, short, page string, run func(cmd *cobra.Command) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.require(page); err != nil {
				return err
			}
			out, err := run(cmd)
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

const (
	assetsPage      = "/inventory/tech-assets"
	assignmentsPage = "/inventory/assignments"
	myAssetsPage    = "/inventory/my-assets"
	maintenancePage = "/inventory/maintenance"
	dashboardPage   = "/inventory/dashboard"
)

func (c *cli) assetsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "assets", Short: "Tech assets"}

	var f model.AssetFilters
	var category, status string
	list := c.listCmd("list", "List tech assets", assetsPage, func(cmd *cobra.Command) (any, error) {
		f.Category, f.Status = model.AssetCategory(category), model.AssetStatus(status)
		inv := c.app.Inventory
		inv.SetAssetFilters(f)
		if err := inv.FetchTechAssets(cmd.Context()); err != nil {
			return nil, err
		}
		return inv.Snapshot().TechAssets, nil
	})
	list.Flags().StringVar(&f.Search, "search", "", "free-text search")
	list.Flags().StringVar(&category, "category", "", "category")
	list.Flags().StringVar(&status, "status", "", "status")
	list.Flags().StringVar(&f.Brand, "brand", "", "brand")
	list.Flags().StringVar(&f.Location, "location", "", "location")
	list.Flags().StringVar(&f.Department, "department", "", "department")

	get := c.idCmd("get <id>", "Show one asset", assetsPage, func(cmd *cobra.Command, id int64) (any, error) {
		return c.app.API.GetTechAsset(cmd.Context(), id)
	})

	var in model.TechAssetCreate
	var createCategory, location, department string
	var price float64
	create := c.listCmd("create", "Register a tech asset", assetsPage, func(cmd *cobra.Command) (any, error) {
		in.Category = model.AssetCategory(createCategory)
		in.Location, in.Department = optional(location), optional(department)
		if cmd.Flags().Changed("price") {
			in.PurchasePrice = &price
		}
		return c.app.Inventory.CreateTechAsset(cmd.Context(), in)
	})
	create.Flags().StringVar(&in.Name, "name", "", "name")
	create.Flags().StringVar(&in.Brand, "brand", "", "brand")
	create.Flags().StringVar(&in.Model, "model", "", "model")
	create.Flags().StringVar(&in.SerialNumber, "serial", "", "serial number")
	create.Flags().StringVar(&createCategory, "category", string(model.CategoryOther), "category")
	create.Flags().StringVar(&location, "location", "", "location")
	create.Flags().StringVar(&department, "department", "", "department")
	create.Flags().Float64Var(&price, "price", 0, "purchase price")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("serial")

	setStatus := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change an asset status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.require(assetsPage); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.app.Inventory.UpdateAssetStatus(cmd.Context(), id, model.AssetStatus(args[1]))
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), a)
			return nil
		},
	}

	del := c.idCmd("delete <id>", "Delete an asset", assetsPage, func(cmd *cobra.Command, id int64) (any, error) {
		return nil, c.app.Inventory.DeleteTechAsset(cmd.Context(), id)
	})

	categories := c.listCmd("categories", "List asset categories", assetsPage, func(cmd *cobra.Command) (any, error) {
		return c.app.API.AssetCategories(cmd.Context())
	})

	var tagReq model.AssetTagRequest
	var tagCategory, tagLocation string
	tag := c.listCmd("tag", "Generate the next asset tag", assetsPage, func(cmd *cobra.Command) (any, error) {
		tagReq.Category, tagReq.Location = model.AssetCategory(tagCategory), optional(tagLocation)
		return c.app.API.GenerateAssetTag(cmd.Context(), tagReq)
	})
	tag.Flags().StringVar(&tagCategory, "category", "", "category")
	tag.Flags().StringVar(&tagLocation, "location", "", "location")
	_ = tag.MarkFlagRequired("category")

	var days int
	warranty := c.listCmd("warranty", "Assets whose warranty expires soon", assetsPage, func(cmd *cobra.Command) (any, error) {
		return c.app.API.WarrantyExpiring(cmd.Context(), days)
	})
	warranty.Flags().IntVar(&days, "days", 30, "days ahead")

	stats := c.listCmd("stats", "Inventory statistics", assetsPage, func(cmd *cobra.Command) (any, error) {
		if err := c.app.Inventory.FetchStatistics(cmd.Context()); err != nil {
			return nil, err
		}
		return c.app.Inventory.Snapshot().Statistics, nil
	})

	cmd.AddCommand(list, get, create, setStatus, del, categories, tag, warranty, stats)
	return cmd
}

func (c *cli) assignmentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "assignments", Short: "Asset assignments"}

	var f model.AssignmentFilters
	var status string
	var activeOnly bool
	list := c.listCmd("list", "List assignments", assignmentsPage, func(cmd *cobra.Command) (any, error) {
		f.Status = model.AssignmentStatus(status)
		if cmd.Flags().Changed("active") {
			f.ActiveOnly = &activeOnly
		}
		inv := c.app.Inventory
		inv.SetAssignmentFilters(f)
		if err := inv.FetchAssignments(cmd.Context()); err != nil {
			return nil, err
		}
		return inv.Snapshot().Assignments, nil
	})
	list.Flags().StringVar(&status, "status", "", "status")
	list.Flags().Int64Var(&f.UserID, "user", 0, "assigned user id")
	list.Flags().Int64Var(&f.AssetID, "asset", 0, "asset id")
	list.Flags().BoolVar(&activeOnly, "active", false, "only active assignments")

	mine := c.listCmd("mine", "Assets assigned to me", myAssetsPage, func(cmd *cobra.Command) (any, error) {
		if err := c.app.Inventory.FetchMyAssignments(cmd.Context()); err != nil {
			return nil, err
		}
		return c.app.Inventory.Snapshot().MyAssignments, nil
	})

	var in model.AssetAssignmentCreate
	var reason, expected, notes string
	create := c.listCmd("create", "Assign an asset to a user", assignmentsPage, func(cmd *cobra.Command) (any, error) {
		in.AssignmentReason, in.ExpectedReturnDate, in.AssignmentNotes = optional(reason), optional(expected), optional(notes)
		return c.app.Inventory.CreateAssignment(cmd.Context(), in)
	})
	create.Flags().Int64Var(&in.TechAssetID, "asset", 0, "asset id")
	create.Flags().Int64Var(&in.AssignedToUserID, "user", 0, "user id")
	create.Flags().StringVar(&reason, "reason", "", "assignment reason")
	create.Flags().StringVar(&expected, "expected-return", "", "expected return date (YYYY-MM-DD)")
	create.Flags().StringVar(&notes, "notes", "", "notes")
	_ = create.MarkFlagRequired("asset")
	_ = create.MarkFlagRequired("user")

	var condition, returnNotes string
	ret := c.idCmd("return <id>", "Return an assigned asset", assignmentsPage, func(cmd *cobra.Command, id int64) (any, error) {
		return c.app.Inventory.ReturnAsset(cmd.Context(), id, model.ReturnAssetRequest{
			ConditionAtReturn: optional(condition),
			ReturnNotes:       optional(returnNotes),
		})
	})
	ret.Flags().StringVar(&condition, "condition", "", "condition at return")
	ret.Flags().StringVar(&returnNotes, "notes", "", "return notes")

	var to int64
	var transferNotes string
	transfer := c.idCmd("transfer <id>", "Move an assignment to another user", assignmentsPage, func(cmd *cobra.Command, id int64) (any, error) {
		return c.app.Inventory.TransferAsset(cmd.Context(), id, to, transferNotes)
	})
	transfer.Flags().Int64Var(&to, "to", 0, "new user id")
	transfer.Flags().StringVar(&transferNotes, "notes", "", "transfer notes")
	_ = transfer.MarkFlagRequired("to")

	del := c.idCmd("delete <id>", "Delete an assignment", assignmentsPage, func(cmd *cobra.Command, id int64) (any, error) {
		return nil, c.app.Inventory.DeleteAssignment(cmd.Context(), id)
	})

	history := c.idCmd("history <asset-id>", "Assignment history of an asset", assignmentsPage, func(cmd *cobra.Command, id int64) (any, error) {
		return c.app.API.AssetAssignmentHistory(cmd.Context(), id)
	})

	cmd.AddCommand(list, mine, create, ret, transfer, del, history)
	return cmd
}

func (c *cli) maintenanceCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "maintenance", Short: "Maintenance jobs"}

	var f model.MaintenanceFilters
	var status, mtype, priority string
	list := c.listCmd("list", "List maintenance jobs", maintenancePage, func(cmd *cobra.Command) (any, error) {
		f.Status, f.MaintenanceType, f.Priority = model.MaintenanceStatus(status), model.MaintenanceType(mtype), model.MaintenancePriority(priority)
		inv := c.app.Inventory
		inv.SetMaintenanceFilters(f)
		if err := inv.FetchMaintenances(cmd.Context()); err != nil {
			return nil, err
		}
		return inv.Snapshot().Maintenances, nil
	})
	list.Flags().StringVar(&status, "status", "", "status")
	list.Flags().StringVar(&mtype, "type", "", "maintenance type")
	list.Flags().StringVar(&priority, "priority", "", "priority")
	list.Flags().Int64Var(&f.AssetID, "asset", 0, "asset id")
	list.Flags().Int64Var(&f.TechnicianID, "technician", 0, "technician id")
	list.Flags().StringVar(&f.DateFrom, "from", "", "scheduled from (YYYY-MM-DD)")
	list.Flags().StringVar(&f.DateTo, "to", "", "scheduled to (YYYY-MM-DD)")

	mine := c.listCmd("mine", "Jobs assigned to me", maintenancePage, func(cmd *cobra.Command) (any, error) {
		return c.app.API.MyAssignedMaintenances(cmd.Context())
	})

	var in model.AssetMaintenanceCreate
	var createType, createPriority string
	var tech int64
	create := c.listCmd("create", "Schedule a maintenance job", maintenancePage, func(cmd *cobra.Command) (any, error) {
		in.MaintenanceType, in.Priority = model.MaintenanceType(createType), model.MaintenancePriority(createPriority)
		if tech > 0 {
			in.AssignedTechnicianID = &tech
		}
		return c.app.Inventory.CreateMaintenance(cmd.Context(), in)
	})
	create.Flags().Int64Var(&in.TechAssetID, "asset", 0, "asset id")
	create.Flags().StringVar(&createType, "type", string(model.MaintenanceCorrective), "maintenance type")
	create.Flags().StringVar(&in.Title, "title", "", "title")
	create.Flags().StringVar(&in.Description, "description", "", "description")
	create.Flags().StringVar(&in.ScheduledDate, "scheduled", "", "scheduled date (ISO)")
	create.Flags().StringVar(&createPriority, "priority", "", "priority")
	create.Flags().Int64Var(&tech, "technician", 0, "technician id")
	for _, name := range []string{"asset", "title", "scheduled"} {
		_ = create.MarkFlagRequired(name)
	}

	var startNotes string
	start := c.idCmd("start <id>", "Start a scheduled job", maintenancePage, func(cmd *cobra.Command, id int64) (any, error) {
		return c.app.Inventory.StartMaintenance(cmd.Context(), id, startNotes)
	})
	start.Flags().StringVar(&startNotes, "notes", "", "notes")

	var done model.CompleteMaintenanceRequest
	var procedures, parts string
	var labor, partsCost float64
	complete := c.idCmd("complete <id>", "Complete a job in progress", maintenancePage, func(cmd *cobra.Command, id int64) (any, error) {
		done.ProceduresPerformed, done.PartsReplaced = optional(procedures), optional(parts)
		if cmd.Flags().Changed("labor-cost") {
			done.LaborCost = &labor
		}
		if cmd.Flags().Changed("parts-cost") {
			done.PartsCost = &partsCost
		}
		return c.app.Inventory.CompleteMaintenance(cmd.Context(), id, done)
	})
	complete.Flags().StringVar(&procedures, "procedures", "", "procedures performed")
	complete.Flags().StringVar(&parts, "parts", "", "parts replaced")
	complete.Flags().Float64Var(&labor, "labor-cost", 0, "labor cost")
	complete.Flags().Float64Var(&partsCost, "parts-cost", 0, "parts cost")

	var reason string
	cancel := c.idCmd("cancel <id>", "Cancel a pending job", maintenancePage, func(cmd *cobra.Command, id int64) (any, error) {
		return c.app.Inventory.CancelMaintenance(cmd.Context(), id, reason)
	})
	cancel.Flags().StringVar(&reason, "reason", "", "cancellation reason")

	del := c.idCmd("delete <id>", "Delete a job", maintenancePage, func(cmd *cobra.Command, id int64) (any, error) {
		return nil, c.app.Inventory.DeleteMaintenance(cmd.Context(), id)
	})

	var days int
	upcoming := c.listCmd("upcoming", "Jobs scheduled soon", maintenancePage, func(cmd *cobra.Command) (any, error) {
		return c.app.API.UpcomingMaintenances(cmd.Context(), days)
	})
	upcoming.Flags().IntVar(&days, "days", 7, "days ahead")

	overdue := c.listCmd("overdue", "Scheduled jobs past their date", maintenancePage, func(cmd *cobra.Command) (any, error) {
		return c.app.API.OverdueMaintenances(cmd.Context())
	})

	var interval int
	schedule := c.idCmd("schedule <asset-id>", "Schedule the next preventive job", maintenancePage, func(cmd *cobra.Command, id int64) (any, error) {
		return c.app.API.SchedulePreventiveMaintenance(cmd.Context(), id, interval)
	})
	schedule.Flags().IntVar(&interval, "interval", 90, "days between preventive jobs")

	cmd.AddCommand(list, mine, create, start, complete, cancel, del, upcoming, overdue, schedule)
	return cmd
}

func (c *cli) inventoryDashboardCmd() *cobra.Command {
	return c.listCmd("inventory", "Inventory dashboard metrics", dashboardPage, func(cmd *cobra.Command) (any, error) {
		if err := c.app.Inventory.FetchDashboardMetrics(cmd.Context()); err != nil {
			return nil, err
		}
		return c.app.Inventory.Snapshot().DashboardMetrics, nil
	})
}
