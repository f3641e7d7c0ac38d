package config

import "github.com/and161185/assetdesk/internal/model"

var (
	managers        = []string{"admin", "manager"}
	admins          = []string{"admin"}
	inventoryStaff  = []string{"admin", "manager", "inventory_manager"}
	inventoryViewer = []string{"admin", "manager", "inventory_manager", "user"}
	maintenanceTeam = []string{"admin", "manager", "inventory_manager", "technician"}
)

// DefaultMenu is the navigation tree of the console.
func DefaultMenu() []model.MenuItem {
	return []model.MenuItem{
		{Title: "Inicio", Path: "/"},
		{Title: "Dashboards", Path: "/dashboards", RequiredRoles: managers},
		{Title: "Inventario", Children: []model.MenuItem{
			{Title: "Dashboard", Path: "/inventory/dashboard", RequiredRoles: inventoryViewer},
			{Title: "Activos", Path: "/inventory/tech-assets", RequiredRoles: inventoryStaff},
			{Title: "Asignaciones", Path: "/inventory/assignments", RequiredRoles: inventoryStaff},
			{Title: "Mantenimiento", Path: "/inventory/maintenance", RequiredRoles: maintenanceTeam},
			{Title: "Mis activos", Path: "/inventory/my-assets"},
		}},
		{Title: "Teams", RequiredRoles: managers, Children: []model.MenuItem{
			{Title: "Desarrollo", Path: "/teams/desarrollo"},
			{Title: "Recursos Humanos", Path: "/teams/RRHH"},
			{Title: "Comercio Exterior", Path: "/teams/comex"},
			{Title: "Ventas", Path: "/teams/ventas"},
		}},
		{Title: "Acerca de", Path: "/about"},
		{Title: "Administración", RequiredRoles: admins, Children: []model.MenuItem{
			{Title: "Registrar Usuario", Path: "/admin/register-user", RequiredRoles: admins},
			{Title: "Listar Usuarios", Path: "/admin/users", RequiredRoles: admins},
		}},
	}
}

// DefaultDashboards lists the embedded analytics dashboards.
func DefaultDashboards() []model.DashboardConfig {
	return []model.DashboardConfig{
		{
			ID:            "sales-overview",
			Title:         "Resumen de Ventas",
			Description:   "Visión general de las ventas mensuales y tendencias",
			URL:           "http://localhost:8050/tablero_ventas",
			Size:          "large",
			RequiredRoles: []string{"admin", "manager", "user"},
		},
	}
}

// DefaultRoutes is the guarded route table matching DefaultMenu.
func DefaultRoutes() []model.Route {
	return []model.Route{
		{Path: "/login", Title: "Login", Public: true},
		{Path: "/unauthorized", Title: "Unauthorized", Public: true},
		{Path: "/", Title: "Inicio"},
		{Path: "/dashboards", Title: "Dashboards", RequiredRoles: managers},
		{Path: "/dashboards/{dashboardID}", Title: "Dashboard", RequiredRoles: managers},
		{Path: "/inventory/dashboard", Title: "Inventario", RequiredRoles: inventoryViewer},
		{Path: "/inventory/tech-assets", Title: "Activos", RequiredRoles: inventoryStaff},
		{Path: "/inventory/assignments", Title: "Asignaciones", RequiredRoles: inventoryStaff},
		{Path: "/inventory/maintenance", Title: "Mantenimiento", RequiredRoles: maintenanceTeam},
		{Path: "/inventory/my-assets", Title: "Mis activos"},
		{Path: "/teams/{team}", Title: "Teams", RequiredRoles: managers},
		{Path: "/about", Title: "Acerca de"},
		{Path: "/admin/register-user", Title: "Registrar Usuario", RequiredRoles: admins},
		{Path: "/admin/users", Title: "Listar Usuarios", RequiredRoles: admins},
	}
}
