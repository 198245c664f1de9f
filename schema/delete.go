package schema

import (
	"github.com/graphql-go/graphql"

	"gymgraph/db"
)

// Purchases are deliberately absent: they are the audit trail and cannot
// be deleted through the API.
var schemaObjectEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "SchemaObject",
	Values: graphql.EnumValueConfigMap{
		"Gym":      &graphql.EnumValueConfig{Value: db.Gyms},
		"Customer": &graphql.EnumValueConfig{Value: db.Customers},
		"Training": &graphql.EnumValueConfig{Value: db.Trainings},
	},
})

func (s *Schema) deleteField() *graphql.Field {
	result := graphql.NewObject(graphql.ObjectConfig{
		Name: "Delete",
		Fields: graphql.Fields{
			"ok": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return sourceDoc(p)["ok"], nil
				},
			},
		},
	})

	return &graphql.Field{
		Type: result,
		Args: graphql.FieldConfigArgument{
			"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"object": &graphql.ArgumentConfig{Type: graphql.NewNonNull(schemaObjectEnum)},
		},
		Resolve: s.deleteObject,
	}
}

// deleteObject removes a single record. No cascade: references held by
// other records keep dangling, and deleting an unknown id still reports
// ok. There is no soft delete.
func (s *Schema) deleteObject(p graphql.ResolveParams) (any, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}

	var table *db.Table
	switch p.Args["object"].(string) {
	case db.Gyms:
		table = s.gyms
	case db.Customers:
		table = s.customers
	case db.Trainings:
		table = s.trainings
	}
	if err := table.Remove(id); err != nil {
		return nil, err
	}
	return db.Document{"ok": true}, nil
}
