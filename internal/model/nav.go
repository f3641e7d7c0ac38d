package model

import "time"

// MenuItem is one node of the navigation tree. A nil RequiredRoles means unrestricted.
type MenuItem struct {
	Title         string     `json:"title" yaml:"title"`
	Path          string     `json:"path,omitempty" yaml:"path,omitempty"`
	Children      []MenuItem `json:"children,omitempty" yaml:"children,omitempty"`
	RequiredRoles []string   `json:"required_roles,omitempty" yaml:"required_roles,omitempty"`
}

// DashboardConfig describes an embedded analytics dashboard.
type DashboardConfig struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	URL           string   `json:"url" yaml:"url"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Size          string   `json:"size,omitempty" yaml:"size,omitempty"`
	RequiredRoles []string `json:"required_roles,omitempty" yaml:"required_roles,omitempty"`
}

// Route declares how a navigable path is guarded.
// Public routes skip every check; otherwise authentication is required and,
// when RequiredRoles is non-empty, at least one of them.
type Route struct {
	Path          string   `json:"path" yaml:"path"`
	Title         string   `json:"title,omitempty" yaml:"title,omitempty"`
	Public        bool     `json:"public,omitempty" yaml:"public,omitempty"`
	RequiredRoles []string `json:"required_roles,omitempty" yaml:"required_roles,omitempty"`
}

// NotificationKind classifies a Notification.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyWarning NotificationKind = "warning"
	NotifyInfo    NotificationKind = "info"
)

// Notification is a transient user-facing message.
// Duration 0 means "use the queue default"; a negative Duration never expires.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Duration  time.Duration    `json:"duration"`
	CreatedAt time.Time        `json:"created_at"`
}
