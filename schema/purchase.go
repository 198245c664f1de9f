package schema

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"

	"gymgraph/db"
)

// Share of the training price credited to the platform on purchase.
const incomeShare = 0.8

func (s *Schema) newPurchaseType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Purchase",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.ID),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return docInt(sourceDoc(p), "id"), nil
					},
				},
				"training": &graphql.Field{
					Type: s.trainingType,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return orNil(s.trainings.Get(docInt(sourceDoc(p), "training"))), nil
					},
				},
				"customer": &graphql.Field{
					Type: s.customerType,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return orNil(s.customers.Get(docInt(sourceDoc(p), "customer"))), nil
					},
				},
				// Not stored: always the training's current price, so it
				// tracks later price changes. Null once the training is
				// gone.
				"price": &graphql.Field{
					Type: graphql.Float,
					Resolve: func(p graphql.ResolveParams) (any, error) {
						training := s.trainings.Get(docInt(sourceDoc(p), "training"))
						if training == nil {
							return nil, nil
						}
						return docFloat(training, "price"), nil
					},
				},
				// Fixed at purchase time, never recomputed.
				"income": &graphql.Field{
					Type: graphql.NewNonNull(graphql.Float),
					Resolve: func(p graphql.ResolveParams) (any, error) {
						return docFloat(sourceDoc(p), "income"), nil
					},
				},
			}
		}),
	})
}

func (s *Schema) makePurchaseField() *graphql.Field {
	result := graphql.NewObject(graphql.ObjectConfig{
		Name: "MakePurchase",
		Fields: graphql.Fields{
			"training": &graphql.Field{
				Type: s.trainingType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return sourceDoc(p)["training"], nil
				},
			},
			"customer": &graphql.Field{
				Type: s.customerType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return sourceDoc(p)["customer"], nil
				},
			},
			"purchase": &graphql.Field{
				Type: s.purchaseType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return sourceDoc(p)["purchase"], nil
				},
			},
		},
	})

	return &graphql.Field{
		Type: result,
		Args: graphql.FieldConfigArgument{
			"customerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			"trainingId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
		Resolve: s.makePurchase,
	}
}

// makePurchase is the one multi-step write in the system. The id checks
// run before any write; the writes themselves are independent, there is
// no cross-document transaction or rollback.
func (s *Schema) makePurchase(p graphql.ResolveParams) (any, error) {
	customerID, err := parseID(p.Args["customerId"])
	if err != nil {
		return nil, err
	}
	trainingID, err := parseID(p.Args["trainingId"])
	if err != nil {
		return nil, err
	}

	training := s.trainings.Get(trainingID)
	if training == nil {
		return nil, fmt.Errorf("training %d not found", trainingID)
	}
	if s.customers.Get(customerID) == nil {
		return nil, fmt.Errorf("customer %d not found", customerID)
	}

	gymID := docInt(training, "gym")
	if !s.cfg.AllowOverbooking {
		gym := s.gyms.Get(gymID)
		if gym != nil && docInt(gym, "free_slots") <= 0 {
			return nil, errors.New("No free slots!")
		}
	}
	if err := s.gyms.Increment(gymID, "free_slots", -1); err != nil {
		return nil, err
	}

	purchase := db.Document{
		"training": trainingID,
		"customer": customerID,
		"income":   docFloat(training, "price") * incomeShare,
	}
	purchaseID, err := s.purchases.Insert(purchase)
	if err != nil {
		return nil, err
	}

	if err := s.customers.Append(customerID, "register", trainingID); err != nil {
		return nil, err
	}

	return db.Document{
		"training": orNil(s.trainings.Get(trainingID)),
		"customer": orNil(s.customers.Get(customerID)),
		"purchase": orNil(s.purchases.Get(purchaseID)),
	}, nil
}
