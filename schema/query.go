package schema

import (
	"github.com/graphql-go/graphql"

	"gymgraph/db"
)

func (s *Schema) queryRoot() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"gym": &graphql.Field{
				Type: s.gymType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.pointLookup(s.gyms),
			},
			"training": &graphql.Field{
				Type: s.trainingType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.pointLookup(s.trainings),
			},
			"customer": &graphql.Field{
				Type: s.customerType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.pointLookup(s.customers),
			},
			"allTrainings": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(s.trainingType)),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return s.trainings.All(), nil
				},
			},
			"allGyms": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(s.gymType)),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return s.gyms.All(), nil
				},
			},
			"purchases": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(s.purchaseType)),
				Args: graphql.FieldConfigArgument{
					"customerID": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					customerID, err := parseID(p.Args["customerID"])
					if err != nil {
						return nil, err
					}
					return s.purchases.Search(func(doc db.Document) bool {
						return docInt(doc, "customer") == customerID
					}), nil
				},
			},
		},
	})
}

// pointLookup builds a by-id resolver. Unknown ids are not errors, the
// field just comes back null.
func (s *Schema) pointLookup(table *db.Table) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		id, err := parseID(p.Args["id"])
		if err != nil {
			return nil, err
		}
		return orNil(table.Get(id)), nil
	}
}
