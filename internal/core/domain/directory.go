package domain

import "encoding/json"

// ObjectKind identifies the namespace a directory object lives in.
type ObjectKind string

const (
	// ObjectUser is a directory user.
	ObjectUser ObjectKind = "user"
	// ObjectGroup is a directory group.
	ObjectGroup ObjectKind = "group"
)

// IdentifierKind is the classification of a caller-supplied identifier.
// It decides which resolution strategy is used and is never persisted.
type IdentifierKind string

const (
	// IdentifierCanonicalID is the directory's immutable object ID.
	IdentifierCanonicalID IdentifierKind = "canonical_id"
	// IdentifierEmailOrPrincipalName is a mail address or user principal name.
	IdentifierEmailOrPrincipalName IdentifierKind = "email_or_principal_name"
	// IdentifierDisplayName is a free-text display name.
	IdentifierDisplayName IdentifierKind = "display_name"
)

// DirectoryObject is either a UserRecord or a GroupRecord.
// The interface is sealed; consumers switch on the concrete type.
type DirectoryObject interface {
	// ObjectID returns the canonical object ID.
	ObjectID() string
	// Kind returns the variant's namespace.
	Kind() ObjectKind

	isDirectoryObject()
}

// UserRecord is a directory user.
type UserRecord struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail,omitempty"`
	UserPrincipalName string `json:"userPrincipalName,omitempty"`
	JobTitle          string `json:"jobTitle,omitempty"`
	Department        string `json:"department,omitempty"`
	OfficeLocation    string `json:"officeLocation,omitempty"`
}

// ObjectID returns the user's object ID.
func (u UserRecord) ObjectID() string { return u.ID }

// Kind returns ObjectUser.
func (u UserRecord) Kind() ObjectKind { return ObjectUser }

func (UserRecord) isDirectoryObject() {}

// MarshalJSON encodes the record with a "type" discriminator.
func (u UserRecord) MarshalJSON() ([]byte, error) {
	type plain UserRecord
	return json.Marshal(struct {
		Type ObjectKind `json:"type"`
		plain
	}{Type: ObjectUser, plain: plain(u)})
}

// GroupRecord is a directory group.
type GroupRecord struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description,omitempty"`
	Mail        string   `json:"mail,omitempty"`
	GroupTypes  []string `json:"groupTypes,omitempty"`
}

// ObjectID returns the group's object ID.
func (g GroupRecord) ObjectID() string { return g.ID }

// Kind returns ObjectGroup.
func (g GroupRecord) Kind() ObjectKind { return ObjectGroup }

func (GroupRecord) isDirectoryObject() {}

// MarshalJSON encodes the record with a "type" discriminator.
func (g GroupRecord) MarshalJSON() ([]byte, error) {
	type plain GroupRecord
	return json.Marshal(struct {
		Type ObjectKind `json:"type"`
		plain
	}{Type: ObjectGroup, plain: plain(g)})
}

// DisplayNameOf returns the display name of either variant.
func DisplayNameOf(obj DirectoryObject) string {
	switch o := obj.(type) {
	case UserRecord:
		return o.DisplayName
	case GroupRecord:
		return o.DisplayName
	default:
		return ""
	}
}
