// Package models holds the mapped types of the access management catalog.
// Run `dbdef generate --dir models` after changing a marked struct.
package models

import (
	"time"

	"github.com/google/uuid"
)

// +dbdef
type Provider struct {
	Id   uuid.UUID
	Name string
	Code string
}

// +dbdef
type EntityType struct {
	Id         uuid.UUID
	Name       string
	ProviderId uuid.UUID
}

type Address struct {
	Street     string
	PostalCode string
	City       string
}

// +dbdef
type Entity struct {
	Id      uuid.UUID
	Name    string
	RefId   *string
	TypeId  uuid.UUID
	Address Address
	Created time.Time
}

// +dbdef
type Area struct {
	Id          uuid.UUID
	Name        string
	Description string
}

// +dbdef
type Package struct {
	Id          uuid.UUID
	Name        string
	Description string
	AreaId      uuid.UUID
	IsDelegable bool
}

// Role is translated and audited.
//
// +dbdef
type Role struct {
	Id          uuid.UUID
	Name        string
	Code        string
	Description string
	ProviderId  uuid.UUID
}

// +dbdef
type Assignment struct {
	Id      uuid.UUID
	FromId  uuid.UUID
	ToId    uuid.UUID
	RoleId  uuid.UUID
	Created time.Time
}

// AssignmentPackage links assignments and packages.
//
// +dbdef
type AssignmentPackage struct {
	Id           uuid.UUID
	AssignmentId uuid.UUID
	PackageId    uuid.UUID
}

// AssignmentSummary is a view over assignments.
//
// +dbdef
type AssignmentSummary struct {
	Id       uuid.UUID
	RoleCode string
	FromName string
	ToName   string
}

// +dbdef
type AreaPackageCount struct {
	AreaId   uuid.UUID
	Packages int64
}

// +dbdef
type ExtEntityType struct {
	EntityType
	Provider *Provider
}

// +dbdef
type ExtEntity struct {
	Entity
	Type *EntityType
}

// +dbdef
type ExtArea struct {
	Area
	Packages []Package
}

// +dbdef
type ExtPackage struct {
	Package
	Area *Area
}

// +dbdef
type ExtRole struct {
	Role
	Provider *Provider
}

// +dbdef
type ExtAssignment struct {
	Assignment
	From *Entity
	To   *Entity
	Role *Role
}

// +dbdef
type ExtAssignmentPackage struct {
	AssignmentPackage
	Assignment *Assignment
	Package    *Package
}
