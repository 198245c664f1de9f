package schema

import (
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"gymgraph/config"
	"gymgraph/db"
	"gymgraph/scalars"
)

// Schema wires the GraphQL type system to the document store. All
// resolvers close over the table handles, so one Schema instance serves
// every request.
type Schema struct {
	cfg config.App

	gyms      *db.Table
	trainings *db.Table
	customers *db.Table
	purchases *db.Table

	email *scalars.Validator
	phone *scalars.Validator

	emailScalar *graphql.Scalar
	phoneScalar *graphql.Scalar

	gymType      *graphql.Object
	trainingType *graphql.Object
	customerType *graphql.Object
	purchaseType *graphql.Object

	root graphql.Schema
}

func New(store *db.Store, cfg config.App) (*Schema, error) {
	email, err := scalars.NewValidator("email", cfg.EmailRegex, cfg.ValidateEmail)
	if err != nil {
		return nil, err
	}
	phone, err := scalars.NewValidator("phone number", cfg.PhoneRegex, cfg.ValidatePhone)
	if err != nil {
		return nil, err
	}

	s := &Schema{
		cfg:       cfg,
		gyms:      store.Table(db.Gyms),
		trainings: store.Table(db.Trainings),
		customers: store.Table(db.Customers),
		purchases: store.Table(db.Purchases),
		email:     email,
		phone:     phone,
	}

	s.emailScalar = passthroughScalar("Email", "Email address, validated against the configured pattern on input.")
	s.phoneScalar = passthroughScalar("Phone", "Phone number, validated against the configured pattern on input.")

	s.buildTypes()

	s.root, err = graphql.NewSchema(graphql.SchemaConfig{
		Query:    s.queryRoot(),
		Mutation: s.mutationRoot(),
	})
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return s, nil
}

// Root returns the compiled schema for the HTTP handler.
func (s *Schema) Root() graphql.Schema {
	return s.root
}

func (s *Schema) buildTypes() {
	s.gymType = s.newGymType()
	s.trainingType = s.newTrainingType()
	s.customerType = s.newCustomerType()
	s.purchaseType = s.newPurchaseType()
}

func (s *Schema) mutationRoot() *graphql.Object {
	fields := graphql.Fields{}
	for name, field := range s.gymMutations() {
		fields[name] = field
	}
	for name, field := range s.trainingMutations() {
		fields[name] = field
	}
	for name, field := range s.customerMutations() {
		fields[name] = field
	}
	fields["MakePurchase"] = s.makePurchaseField()
	fields["Delete"] = s.deleteField()

	return graphql.NewObject(graphql.ObjectConfig{
		Name:   "Mutation",
		Fields: fields,
	})
}

// passthroughScalar builds a scalar that carries strings unchanged.
// Format validation happens in the mutation resolvers, where the error
// message can name the field kind.
func passthroughScalar(name, description string) *graphql.Scalar {
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:        name,
		Description: description,
		Serialize: func(value any) any {
			return value
		},
		ParseValue: func(value any) any {
			return value
		},
		ParseLiteral: func(valueAST ast.Value) any {
			if sv, ok := valueAST.(*ast.StringValue); ok {
				return sv.Value
			}
			return nil
		},
	})
}

// parseID converts a GraphQL ID argument to a store doc id.
func parseID(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("bad id %q", v)
		}
		return id, nil
	}
	return 0, fmt.Errorf("bad id %v", value)
}

// parseIDList converts a [ID] argument to store doc ids.
func parseIDList(value any) ([]any, error) {
	raw, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("bad id list %v", value)
	}
	out := make([]any, len(raw))
	for i, item := range raw {
		id, err := parseID(item)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// docInt reads a numeric field off a stored document. Values come back
// from the JSON file as float64.
func docInt(doc db.Document, field string) int {
	switch v := doc[field].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		id, _ := strconv.Atoi(v)
		return id
	}
	return 0
}

func docFloat(doc db.Document, field string) float64 {
	switch v := doc[field].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// docIDs reads a list-of-ids field off a stored document.
func docIDs(doc db.Document, field string) []int {
	raw, _ := doc[field].([]any)
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case int:
			out = append(out, v)
		case float64:
			out = append(out, int(v))
		case string:
			if id, err := strconv.Atoi(v); err == nil {
				out = append(out, id)
			}
		}
	}
	return out
}

// deref maps stored ids to records, keeping nulls for dangling
// references rather than dropping them.
func deref(t *db.Table, ids []int) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		if doc := t.Get(id); doc != nil {
			out[i] = doc
		}
	}
	return out
}

// orNil unwraps a possibly-nil Document so that an absent record becomes
// a GraphQL null instead of an interface wrapping a nil map.
func orNil(doc db.Document) any {
	if doc == nil {
		return nil
	}
	return doc
}

func sourceDoc(p graphql.ResolveParams) db.Document {
	doc, _ := p.Source.(db.Document)
	return doc
}
