package schema

import (
	"github.com/graphql-go/graphql"

	"gymgraph/db"
)

func (s *Schema) newGymType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Gym",
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
				"adminName": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return sourceDoc(p)["admin_name"], nil
					},
				},
				"adminPhone": &graphql.Field{
					Type: graphql.NewNonNull(s.phoneScalar),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return sourceDoc(p)["admin_phone"], nil
					},
				},
				"freeSlots": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Int),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return docInt(sourceDoc(p), "free_slots"), nil
					},
				},
				// Derived: deleted trainings resolve to null entries.
				"trainings": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(s.trainingType)),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return deref(s.trainings, docIDs(sourceDoc(p), "trainings")), nil
					},
				},
			}
		}),
	})
}

func (s *Schema) gymMutations() graphql.Fields {
	return graphql.Fields{
		"CreateGym": &graphql.Field{
			Type: s.gymType,
			Args: graphql.FieldConfigArgument{
				"name":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"adminName":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"adminPhone": &graphql.ArgumentConfig{Type: graphql.NewNonNull(s.phoneScalar)},
				"trainings":  &graphql.ArgumentConfig{Type: graphql.NewList(graphql.ID), DefaultValue: []any{}},
				"freeSlots":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
			},
			Resolve: s.createGym,
		},
		"UpdateGym": &graphql.Field{
			Type: s.gymType,
			Args: graphql.FieldConfigArgument{
				"id":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"name":       &graphql.ArgumentConfig{Type: graphql.String},
				"adminName":  &graphql.ArgumentConfig{Type: graphql.String},
				"adminPhone": &graphql.ArgumentConfig{Type: s.phoneScalar},
				"trainings":  &graphql.ArgumentConfig{Type: graphql.NewList(graphql.ID)},
				"freeSlots":  &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: s.updateGym,
		},
	}
}

func (s *Schema) createGym(p graphql.ResolveParams) (any, error) {
	adminPhone, err := s.phone.Validate(p.Args["adminPhone"].(string))
	if err != nil {
		return nil, err
	}
	trainingIDs, err := parseIDList(p.Args["trainings"])
	if err != nil {
		return nil, err
	}

	gym := db.Document{
		"name":        p.Args["name"],
		"admin_name":  p.Args["adminName"],
		"admin_phone": adminPhone,
		"trainings":   trainingIDs,
		"free_slots":  p.Args["freeSlots"],
	}
	id, err := s.gyms.Insert(gym)
	if err != nil {
		return nil, err
	}
	if s.cfg.QueryOnMutation {
		return orNil(s.gyms.Get(id)), nil
	}
	gym["id"] = id
	return gym, nil
}

func (s *Schema) updateGym(p graphql.ResolveParams) (any, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}

	fields := db.Document{}
	if name, ok := p.Args["name"]; ok {
		fields["name"] = name
	}
	if adminName, ok := p.Args["adminName"]; ok {
		fields["admin_name"] = adminName
	}
	if adminPhone, ok := p.Args["adminPhone"]; ok {
		validated, err := s.phone.Validate(adminPhone.(string))
		if err != nil {
			return nil, err
		}
		fields["admin_phone"] = validated
	}
	if trainings, ok := p.Args["trainings"]; ok {
		trainingIDs, err := parseIDList(trainings)
		if err != nil {
			return nil, err
		}
		fields["trainings"] = trainingIDs
	}
	if freeSlots, ok := p.Args["freeSlots"]; ok {
		fields["free_slots"] = freeSlots
	}

	if err := s.gyms.Update(id, fields); err != nil {
		return nil, err
	}
	return orNil(s.gyms.Get(id)), nil
}
