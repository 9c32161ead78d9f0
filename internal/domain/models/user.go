package models

import "regexp"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Role enumerates the account types that can sign in.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleWarehouse Role = "ALMACEN"
	RoleMobile    Role = "MOBILE"
)

// UnitKind distinguishes the two accounts attached to one ambulance.
type UnitKind string

const (
	UnitCrew   UnitKind = "CREW"
	UnitDriver UnitKind = "DRIVER"
)

// User is an account seeded at startup. Mobile accounts carry the unit they belong to.
type User struct {
	ID           string   `bson:"_id" json:"id"`
	Username     string   `bson:"username" json:"username"`
	PasswordHash string   `bson:"password_hash" json:"-"`
	Role         Role     `bson:"role" json:"role"`
	Kind         UnitKind `bson:"kind,omitempty" json:"kind,omitempty"`
	UnitNumber   int      `bson:"unit_number,omitempty" json:"unitNumber,omitempty"`
	DisplayName  string   `bson:"display_name" json:"displayName"`

	// CredentialVersion increases on every password change; older sessions stop validating.
	CredentialVersion int `bson:"credential_version" json:"-"`
}

// IsMobile reports whether the account records checklists for a unit.
func (u User) IsMobile() bool { return u.Role == RoleMobile }

// IsDriver reports whether the account is the driver side of a unit.
func (u User) IsDriver() bool { return u.Role == RoleMobile && u.Kind == UnitDriver }

// FolderName is the archive folder derived from the display name.
func FolderName(displayName string) string {
	return whitespaceRun.ReplaceAllString(displayName, "_")
}
