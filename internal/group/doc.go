// Package group stores user-defined device groups and projects them onto
// the live home snapshot.
//
// Groups are persisted in SQLite (device_groups and device_group_members)
// and cached in memory by the Registry. Member lists are ordered and may
// contain IDs of services that have since disappeared from the home; such
// IDs are kept in storage and silently skipped by Project.
package group
