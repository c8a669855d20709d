package models

// Role defines the user role
type Role string

const (
	RoleStudent Role = "student"
	RoleCreator Role = "creator"
)

// Privacy controls whether a circle appears in the public directory
type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyPrivate Privacy = "private"
)

// ResourceType is the kind of learning material a resource points at
type ResourceType string

const (
	ResourceTypePDF   ResourceType = "pdf"
	ResourceTypeLink  ResourceType = "link"
	ResourceTypeVideo ResourceType = "video"
)
