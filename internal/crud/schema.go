package crud

import (
	"fmt"

	"gorm.io/gorm/clause"
)

// Schema is the explicit field registry of one entity. Filters and eager
// loads are resolved against it instead of by reflection.
type Schema struct {
	Table     string
	IDColumn  string
	Fields    map[string]string // api name -> column
	Relations map[string]*Relation
}

// Relation describes a one-hop relationship from an owner schema.
type Relation struct {
	// Association is the struct field name used for eager loading.
	Association string
	Target      *Schema
	// ForeignKey is the column on Target referencing the owner's id.
	ForeignKey string
	// Many marks has-many relations, which can multiply joined rows.
	Many bool
}

func (s *Schema) idColumn() clause.Column {
	id := s.IDColumn
	if id == "" {
		id = "id"
	}
	return clause.Column{Table: s.Table, Name: id}
}

func (s *Schema) column(field string) (clause.Column, bool) {
	name, ok := s.Fields[field]
	if !ok {
		return clause.Column{}, false
	}
	return clause.Column{Table: s.Table, Name: name}, true
}

func (s *Schema) relation(name string) (*Relation, bool) {
	rel, ok := s.Relations[name]
	return rel, ok && rel != nil && rel.Target != nil
}

// joinSQL renders the inner join from owner to the relation target.
func (r *Relation) joinSQL(owner *Schema) string {
	id := owner.idColumn()
	return fmt.Sprintf("JOIN %s ON %s.%s = %s.%s",
		r.Target.Table, r.Target.Table, r.ForeignKey, id.Table, id.Name)
}
