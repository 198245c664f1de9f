package schema

import (
	"github.com/graphql-go/graphql"

	"gymgraph/db"
)

func (s *Schema) newCustomerType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.ID),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return docInt(sourceDoc(p), "id"), nil
					},
				},
				"name": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return sourceDoc(p)["name"], nil
					},
				},
				"email": &graphql.Field{
					Type: graphql.NewNonNull(s.emailScalar),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return sourceDoc(p)["email"], nil
					},
				},
				// Purchased trainings, in purchase order, duplicates
				// included. Deleted trainings resolve to null entries.
				"register": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(s.trainingType)),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return deref(s.trainings, docIDs(sourceDoc(p), "register")), nil
					},
				},
			}
		}),
	})
}

func (s *Schema) customerMutations() graphql.Fields {
	return graphql.Fields{
		"CreateCustomer": &graphql.Field{
			Type: s.customerType,
			Args: graphql.FieldConfigArgument{
				"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(s.emailScalar)},
				"register": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.ID), DefaultValue: []any{}},
			},
			Resolve: s.createCustomer,
		},
		"UpdateCustomer": &graphql.Field{
			Type: s.customerType,
			Args: graphql.FieldConfigArgument{
				"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"name":     &graphql.ArgumentConfig{Type: graphql.String},
				"email":    &graphql.ArgumentConfig{Type: s.emailScalar},
				"register": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.ID)},
			},
			Resolve: s.updateCustomer,
		},
	}
}

func (s *Schema) createCustomer(p graphql.ResolveParams) (any, error) {
	email, err := s.email.Validate(p.Args["email"].(string))
	if err != nil {
		return nil, err
	}
	register, err := parseIDList(p.Args["register"])
	if err != nil {
		return nil, err
	}

	customer := db.Document{
		"name":     p.Args["name"],
		"email":    email,
		"register": register,
	}
	id, err := s.customers.Insert(customer)
	if err != nil {
		return nil, err
	}
	if s.cfg.QueryOnMutation {
		return s.customers.Get(id), nil
	}
	customer["id"] = id
	return customer, nil
}

func (s *Schema) updateCustomer(p graphql.ResolveParams) (any, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}

	fields := db.Document{}
	if name, ok := p.Args["name"]; ok {
		fields["name"] = name
	}
	if email, ok := p.Args["email"]; ok {
		validated, err := s.email.Validate(email.(string))
		if err != nil {
			return nil, err
		}
		fields["email"] = validated
	}
	if register, ok := p.Args["register"]; ok {
		ids, err := parseIDList(register)
		if err != nil {
			return nil, err
		}
		fields["register"] = ids
	}

	if err := s.customers.Update(id, fields); err != nil {
		return nil, err
	}
	return orNil(s.customers.Get(id)), nil
}
