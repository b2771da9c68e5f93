// Package models defines the catalog record variants and the metadata the
// generic store, index, service and handler layers need to work over them.
package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Audit is stamped by the record store on every write and is opaque to the
// synchronization service.
type Audit struct {
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitzero"`
	LastModifiedBy string    `json:"last_modified_by,omitempty"`
	LastModifiedAt time.Time `json:"last_modified_at,omitzero"`
}

// Base carries the surrogate id and audit metadata shared by every variant.
// ID is nil until the record has been written to the store once.
type Base struct {
	ID *int64 `json:"id,omitempty"`
	Audit
}

func (b *Base) GetID() (int64, bool) {
	if b.ID == nil {
		return 0, false
	}
	return *b.ID, true
}

func (b *Base) SetID(id int64) {
	b.ID = &id
}

func (b *Base) AuditInfo() *Audit {
	return &b.Audit
}

// Entity is implemented by every record variant.
type Entity interface {
	GetID() (int64, bool)
	SetID(id int64)
	AuditInfo() *Audit
	// Fields exposes the descriptive columns in a stable order.
	Fields() []Field
	Normalize()
	Validate() error
}

// Field names one descriptive column of a record. Ref points into the record:
// *string for required text, **string for optional text, **int64 for an
// optional reference to another record.
type Field struct {
	Name string
	Ref  any
}

// Value returns the field as a driver argument (nil for an unset optional).
func (f Field) Value() any {
	switch v := f.Ref.(type) {
	case *string:
		return *v
	case **string:
		if *v == nil {
			return nil
		}
		return **v
	case **int64:
		if *v == nil {
			return nil
		}
		return **v
	}
	return nil
}

// Text returns the field as indexable text ("" for an unset optional).
func (f Field) Text() string {
	switch v := f.Value().(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// Meta is the non-generic part of a variant's description.
type Meta struct {
	// Name is the singular kind used in notifications and repair entries.
	Name string
	// Plural is the route segment under /api.
	Plural string
	// Table is the relational table and the search index table.
	Table string
}

// Kind binds a variant type to its metadata and constructor.
type Kind[E Entity] struct {
	Meta
	New func() E
}

// Columns returns the descriptive column names of the variant.
func (k Kind[E]) Columns() []string {
	fields := k.New().Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	return cols
}

// Sortable reports whether field may appear in a sort parameter.
func (k Kind[E]) Sortable(field string) bool {
	switch field {
	case "id", "created_at", "last_modified_at":
		return true
	}
	for _, c := range k.Columns() {
		if c == field {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of e. The memory adapters hand out clones so
// callers never share state with what is stored.
func (k Kind[E]) Clone(e E) E {
	out := k.New()
	b, err := json.Marshal(e)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(b, out)
	return out
}
