package schema

import (
	"github.com/graphql-go/graphql"

	"gymgraph/db"
)

// Training kinds, stored in the db as the short strings.
const (
	TrainingIndividual  = "i"
	TrainingGroup       = "g"
	TrainingWithTrainer = "t"
)

var trainingTypeEnum = graphql.NewEnum(graphql.EnumConfig{
	Name:        "TrainingType",
	Description: "Stored in DB as strings",
	Values: graphql.EnumValueConfigMap{
		"INDIVIDUAL":   &graphql.EnumValueConfig{Value: TrainingIndividual},
		"GROUP":        &graphql.EnumValueConfig{Value: TrainingGroup},
		"WITH_TRAINER": &graphql.EnumValueConfig{Value: TrainingWithTrainer},
	},
})

func (s *Schema) newTrainingType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Training",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.ID),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return docInt(sourceDoc(p), "id"), nil
					},
				},
				"type": &graphql.Field{
					Type: graphql.NewNonNull(trainingTypeEnum),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return sourceDoc(p)["type"], nil
					},
				},
				"price": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Float),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return docFloat(sourceDoc(p), "price"), nil
					},
				},
				// Derived: null when the owning gym was deleted.
				"gym": &graphql.Field{
					Type: s.gymType,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return orNil(s.gyms.Get(docInt(sourceDoc(p), "gym"))), nil
					},
				},
			}
		}),
	})
}

func (s *Schema) trainingMutations() graphql.Fields {
	return graphql.Fields{
		"CreateTraining": &graphql.Field{
			Type: s.trainingType,
			Args: graphql.FieldConfigArgument{
				"type":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(trainingTypeEnum)},
				"price": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				"gym":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: s.createTraining,
		},
		"UpdateTraining": &graphql.Field{
			Type: s.trainingType,
			Args: graphql.FieldConfigArgument{
				"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				"type":  &graphql.ArgumentConfig{Type: trainingTypeEnum},
				"price": &graphql.ArgumentConfig{Type: graphql.Float},
				"gym":   &graphql.ArgumentConfig{Type: graphql.ID},
			},
			Resolve: s.updateTraining,
		},
	}
}

func (s *Schema) createTraining(p graphql.ResolveParams) (any, error) {
	gymID, err := parseID(p.Args["gym"])
	if err != nil {
		return nil, err
	}

	// No existence check on the gym id: a bad reference dangles, it is
	// not rejected.
	training := db.Document{
		"type":  p.Args["type"],
		"price": p.Args["price"],
		"gym":   gymID,
	}
	id, err := s.trainings.Insert(training)
	if err != nil {
		return nil, err
	}
	if s.cfg.QueryOnMutation {
		return s.trainings.Get(id), nil
	}
	training["id"] = id
	return training, nil
}

func (s *Schema) updateTraining(p graphql.ResolveParams) (any, error) {
	id, err := parseID(p.Args["id"])
	if err != nil {
		return nil, err
	}

	fields := db.Document{}
	if kind, ok := p.Args["type"]; ok {
		fields["type"] = kind
	}
	if price, ok := p.Args["price"]; ok {
		fields["price"] = price
	}
	if gym, ok := p.Args["gym"]; ok {
		gymID, err := parseID(gym)
		if err != nil {
			return nil, err
		}
		fields["gym"] = gymID
	}

	if err := s.trainings.Update(id, fields); err != nil {
		return nil, err
	}
	return orNil(s.trainings.Get(id)), nil
}
