package schema

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"

	"gymgraph/config"
	"gymgraph/db"
)

func testConfig() config.App {
	return config.App{
		ValidateEmail:    true,
		EmailRegex:       `^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`,
		ValidatePhone:    true,
		PhoneRegex:       `^[+]?[(]?[0-9]{3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}$`,
		AllowOverbooking: true,
	}
}

func newTestSchema(t *testing.T, cfg config.App) *Schema {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s, err := New(store, cfg)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return s
}

// exec runs an operation that must succeed and returns its data.
func exec(t *testing.T, s *Schema, query string) map[string]any {
	t.Helper()
	res := graphql.Do(graphql.Params{Schema: s.Root(), RequestString: query})
	if len(res.Errors) > 0 {
		t.Fatalf("unexpected errors for %s: %v", query, res.Errors)
	}
	return res.Data.(map[string]any)
}

// execErr runs an operation that must fail and returns the first message.
func execErr(t *testing.T, s *Schema, query string) string {
	t.Helper()
	res := graphql.Do(graphql.Params{Schema: s.Root(), RequestString: query})
	if len(res.Errors) == 0 {
		t.Fatalf("expected errors for %s, got data %v", query, res.Data)
	}
	return res.Errors[0].Message
}

// field walks nested result maps.
func field(t *testing.T, data map[string]any, path ...string) any {
	t.Helper()
	cur := any(data)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			t.Fatalf("no map at %q in %v", key, data)
		}
		cur = m[key]
	}
	return cur
}

// seedPurchaseFixture creates one gym (10 free slots), one training on it
// (price 100) and one customer, returning their ids.
func seedPurchaseFixture(t *testing.T, s *Schema) (gymID, trainingID, customerID any) {
	t.Helper()
	data := exec(t, s, `mutation {
		CreateGym(name: "Iron Temple", adminName: "Max", adminPhone: "1234567890", freeSlots: 10) { id }
	}`)
	gymID = field(t, data, "CreateGym", "id")

	data = exec(t, s, fmt.Sprintf(`mutation {
		CreateTraining(type: GROUP, price: 100.0, gym: %s) { id }
	}`, gymID))
	trainingID = field(t, data, "CreateTraining", "id")

	data = exec(t, s, `mutation {
		CreateCustomer(name: "Ann", email: "ann@example.com") { id }
	}`)
	customerID = field(t, data, "CreateCustomer", "id")
	return
}

func TestCreateGymRoundTrip(t *testing.T) {
	s := newTestSchema(t, testConfig())

	data := exec(t, s, `mutation {
		CreateGym(name: "Iron Temple", adminName: "Max", adminPhone: "+123 456 7890", freeSlots: 12) {
			id name adminName adminPhone freeSlots trainings { id }
		}
	}`)
	created := field(t, data, "CreateGym").(map[string]any)
	if created["name"] != "Iron Temple" || created["adminName"] != "Max" {
		t.Errorf("created = %v", created)
	}
	if created["freeSlots"] != 12 {
		t.Errorf("freeSlots = %v", created["freeSlots"])
	}

	data = exec(t, s, fmt.Sprintf(`{
		gym(id: %s) { id name adminName adminPhone freeSlots }
	}`, created["id"]))
	got := field(t, data, "gym").(map[string]any)
	if got["name"] != "Iron Temple" || got["adminPhone"] != "+123 456 7890" || got["freeSlots"] != 12 {
		t.Errorf("round trip = %v", got)
	}
	if got["id"] != created["id"] {
		t.Errorf("id = %v, want %v", got["id"], created["id"])
	}
}

func TestCreateGymInvalidPhoneWritesNothing(t *testing.T) {
	s := newTestSchema(t, testConfig())

	msg := execErr(t, s, `mutation {
		CreateGym(name: "x", adminName: "y", adminPhone: "not-a-phone", freeSlots: 1) { id }
	}`)
	if !strings.Contains(msg, "Invalid phone number!") {
		t.Errorf("message = %q", msg)
	}

	data := exec(t, s, `{ allGyms { id } }`)
	if gyms := field(t, data, "allGyms").([]any); len(gyms) != 0 {
		t.Errorf("gym written despite validation failure: %v", gyms)
	}
}

func TestUpdateCustomerPartialMerge(t *testing.T) {
	s := newTestSchema(t, testConfig())

	data := exec(t, s, `mutation {
		CreateCustomer(name: "Ann", email: "ann@example.com") { id }
	}`)
	id := field(t, data, "CreateCustomer", "id")

	data = exec(t, s, fmt.Sprintf(`mutation {
		UpdateCustomer(id: %s, name: "Anna") { name email register { id } }
	}`, id))
	got := field(t, data, "UpdateCustomer").(map[string]any)
	if got["name"] != "Anna" {
		t.Errorf("name = %v", got["name"])
	}
	if got["email"] != "ann@example.com" {
		t.Errorf("email changed on partial update: %v", got["email"])
	}
	if register := got["register"].([]any); len(register) != 0 {
		t.Errorf("register changed on partial update: %v", register)
	}
}

func TestUpdateMissingGymReturnsNull(t *testing.T) {
	s := newTestSchema(t, testConfig())

	data := exec(t, s, `mutation { UpdateGym(id: 99, name: "ghost") { id } }`)
	if got := field(t, data, "UpdateGym"); got != nil {
		t.Errorf("got %v, want null", got)
	}
}

func TestMakePurchase(t *testing.T) {
	s := newTestSchema(t, testConfig())
	gymID, trainingID, customerID := seedPurchaseFixture(t, s)

	data := exec(t, s, fmt.Sprintf(`mutation {
		MakePurchase(customerId: %s, trainingId: %s) {
			purchase { income price }
			customer { register { id } }
			training { id }
		}
	}`, customerID, trainingID))

	if income := field(t, data, "MakePurchase", "purchase", "income"); income != 80.0 {
		t.Errorf("income = %v, want 80", income)
	}
	if price := field(t, data, "MakePurchase", "purchase", "price"); price != 100.0 {
		t.Errorf("price = %v, want 100", price)
	}

	register := field(t, data, "MakePurchase", "customer", "register").([]any)
	if len(register) != 1 || register[0].(map[string]any)["id"] != trainingID {
		t.Errorf("register = %v, want [%v]", register, trainingID)
	}

	data = exec(t, s, fmt.Sprintf(`{ gym(id: %s) { freeSlots } }`, gymID))
	if slots := field(t, data, "gym", "freeSlots"); slots != 9 {
		t.Errorf("freeSlots = %v, want 9", slots)
	}

	// a second purchase of the same training is allowed and appends again
	exec(t, s, fmt.Sprintf(`mutation {
		MakePurchase(customerId: %s, trainingId: %s) { purchase { id } }
	}`, customerID, trainingID))

	data = exec(t, s, fmt.Sprintf(`{ customer(id: %s) { register { id } } }`, customerID))
	register = field(t, data, "customer", "register").([]any)
	if len(register) != 2 {
		t.Fatalf("register = %v, want two entries", register)
	}
	if register[0].(map[string]any)["id"] != trainingID || register[1].(map[string]any)["id"] != trainingID {
		t.Errorf("register = %v, want duplicate %v", register, trainingID)
	}

	data = exec(t, s, fmt.Sprintf(`{ gym(id: %s) { freeSlots } }`, gymID))
	if slots := field(t, data, "gym", "freeSlots"); slots != 8 {
		t.Errorf("freeSlots = %v, want 8", slots)
	}
}

func TestPurchasePriceTracksTrainingIncomeDoesNot(t *testing.T) {
	s := newTestSchema(t, testConfig())
	_, trainingID, customerID := seedPurchaseFixture(t, s)

	exec(t, s, fmt.Sprintf(`mutation {
		MakePurchase(customerId: %s, trainingId: %s) { purchase { id } }
	}`, customerID, trainingID))

	exec(t, s, fmt.Sprintf(`mutation {
		UpdateTraining(id: %s, price: 150.0) { id }
	}`, trainingID))

	data := exec(t, s, fmt.Sprintf(`{
		purchases(customerID: %s) { price income }
	}`, customerID))
	purchases := field(t, data, "purchases").([]any)
	if len(purchases) != 1 {
		t.Fatalf("purchases = %v", purchases)
	}
	got := purchases[0].(map[string]any)
	if got["price"] != 150.0 {
		t.Errorf("price = %v, want the training's new price 150", got["price"])
	}
	if got["income"] != 80.0 {
		t.Errorf("income = %v, want the value fixed at purchase time 80", got["income"])
	}
}

func TestMakePurchaseUnknownTrainingFailsBeforeAnyWrite(t *testing.T) {
	s := newTestSchema(t, testConfig())
	_, _, customerID := seedPurchaseFixture(t, s)

	msg := execErr(t, s, fmt.Sprintf(`mutation {
		MakePurchase(customerId: %s, trainingId: 77) { purchase { id } }
	}`, customerID))
	if !strings.Contains(msg, "not found") {
		t.Errorf("message = %q", msg)
	}

	data := exec(t, s, fmt.Sprintf(`{ purchases(customerID: %s) { id } }`, customerID))
	if got := field(t, data, "purchases").([]any); len(got) != 0 {
		t.Errorf("purchase recorded for missing training: %v", got)
	}
	data = exec(t, s, fmt.Sprintf(`{ customer(id: %s) { register { id } } }`, customerID))
	if register := field(t, data, "customer", "register").([]any); len(register) != 0 {
		t.Errorf("register touched for missing training: %v", register)
	}
}

func TestOverbookingPolicy(t *testing.T) {
	t.Run("default allows negative free slots", func(t *testing.T) {
		s := newTestSchema(t, testConfig())
		gymID, trainingID, customerID := seedPurchaseFixture(t, s)
		exec(t, s, fmt.Sprintf(`mutation { UpdateGym(id: %s, freeSlots: 0) { id } }`, gymID))

		exec(t, s, fmt.Sprintf(`mutation {
			MakePurchase(customerId: %s, trainingId: %s) { purchase { id } }
		}`, customerID, trainingID))

		data := exec(t, s, fmt.Sprintf(`{ gym(id: %s) { freeSlots } }`, gymID))
		if slots := field(t, data, "gym", "freeSlots"); slots != -1 {
			t.Errorf("freeSlots = %v, want -1", slots)
		}
	})

	t.Run("disabled overbooking refuses at zero", func(t *testing.T) {
		cfg := testConfig()
		cfg.AllowOverbooking = false
		s := newTestSchema(t, cfg)
		gymID, trainingID, customerID := seedPurchaseFixture(t, s)
		exec(t, s, fmt.Sprintf(`mutation { UpdateGym(id: %s, freeSlots: 0) { id } }`, gymID))

		msg := execErr(t, s, fmt.Sprintf(`mutation {
			MakePurchase(customerId: %s, trainingId: %s) { purchase { id } }
		}`, customerID, trainingID))
		if msg != "No free slots!" {
			t.Errorf("message = %q", msg)
		}

		data := exec(t, s, fmt.Sprintf(`{ purchases(customerID: %s) { id } }`, customerID))
		if got := field(t, data, "purchases").([]any); len(got) != 0 {
			t.Errorf("purchase recorded despite refusal: %v", got)
		}
	})
}

func TestEmailValidationToggle(t *testing.T) {
	t.Run("enabled rejects", func(t *testing.T) {
		s := newTestSchema(t, testConfig())
		msg := execErr(t, s, `mutation {
			CreateCustomer(name: "x", email: "not-an-email") { id }
		}`)
		if !strings.Contains(msg, "Invalid email!") {
			t.Errorf("message = %q", msg)
		}
	})

	t.Run("disabled accepts unchanged", func(t *testing.T) {
		cfg := testConfig()
		cfg.ValidateEmail = false
		s := newTestSchema(t, cfg)
		data := exec(t, s, `mutation {
			CreateCustomer(name: "x", email: "not-an-email") { email }
		}`)
		if got := field(t, data, "CreateCustomer", "email"); got != "not-an-email" {
			t.Errorf("email = %v", got)
		}
	})
}

func TestDeleteUnknownIDStillReportsOK(t *testing.T) {
	s := newTestSchema(t, testConfig())
	seedPurchaseFixture(t, s)

	data := exec(t, s, `mutation { Delete(id: 404, object: Gym) { ok } }`)
	if ok := field(t, data, "Delete", "ok"); ok != true {
		t.Errorf("ok = %v", ok)
	}

	data = exec(t, s, `{ allGyms { id } allTrainings { id } }`)
	if gyms := field(t, data, "allGyms").([]any); len(gyms) != 1 {
		t.Errorf("allGyms = %v", gyms)
	}
	if trainings := field(t, data, "allTrainings").([]any); len(trainings) != 1 {
		t.Errorf("allTrainings = %v", trainings)
	}
}

func TestDeleteGymLeavesDanglingReference(t *testing.T) {
	s := newTestSchema(t, testConfig())
	gymID, trainingID, _ := seedPurchaseFixture(t, s)

	data := exec(t, s, fmt.Sprintf(`mutation { Delete(id: %s, object: Gym) { ok } }`, gymID))
	if ok := field(t, data, "Delete", "ok"); ok != true {
		t.Errorf("ok = %v", ok)
	}

	// no cascade: the training survives, its gym reference resolves null
	data = exec(t, s, fmt.Sprintf(`{ training(id: %s) { id gym { id } } }`, trainingID))
	got := field(t, data, "training").(map[string]any)
	if got["id"] != trainingID {
		t.Fatalf("training gone after gym delete: %v", got)
	}
	if got["gym"] != nil {
		t.Errorf("gym = %v, want null dangling reference", got["gym"])
	}
}

func TestAllGymsInsertionOrder(t *testing.T) {
	s := newTestSchema(t, testConfig())

	var ids []any
	for _, name := range []string{"first", "second", "third"} {
		data := exec(t, s, fmt.Sprintf(`mutation {
			CreateGym(name: %q, adminName: "a", adminPhone: "1234567890", freeSlots: 1) { id }
		}`, name))
		ids = append(ids, field(t, data, "CreateGym", "id"))
	}
	exec(t, s, fmt.Sprintf(`mutation { Delete(id: %s, object: Gym) { ok } }`, ids[1]))

	data := exec(t, s, `{ allGyms { id name } }`)
	gyms := field(t, data, "allGyms").([]any)
	if len(gyms) != 2 {
		t.Fatalf("allGyms = %v", gyms)
	}
	if gyms[0].(map[string]any)["name"] != "first" || gyms[1].(map[string]any)["name"] != "third" {
		t.Errorf("order = %v", gyms)
	}
}

func TestPurchasesFilteredByCustomer(t *testing.T) {
	s := newTestSchema(t, testConfig())
	_, trainingID, annID := seedPurchaseFixture(t, s)

	data := exec(t, s, `mutation {
		CreateCustomer(name: "Bob", email: "bob@example.com") { id }
	}`)
	bobID := field(t, data, "CreateCustomer", "id")

	exec(t, s, fmt.Sprintf(`mutation { MakePurchase(customerId: %s, trainingId: %s) { purchase { id } } }`, annID, trainingID))
	exec(t, s, fmt.Sprintf(`mutation { MakePurchase(customerId: %s, trainingId: %s) { purchase { id } } }`, bobID, trainingID))
	exec(t, s, fmt.Sprintf(`mutation { MakePurchase(customerId: %s, trainingId: %s) { purchase { id } } }`, annID, trainingID))

	data = exec(t, s, fmt.Sprintf(`{ purchases(customerID: %s) { customer { id } } }`, annID))
	purchases := field(t, data, "purchases").([]any)
	if len(purchases) != 2 {
		t.Fatalf("purchases = %v, want 2 for Ann", purchases)
	}
	for _, p := range purchases {
		if got := p.(map[string]any)["customer"].(map[string]any)["id"]; got != annID {
			t.Errorf("foreign purchase in result: customer %v", got)
		}
	}
}

func TestGymTrainingsDerivedList(t *testing.T) {
	s := newTestSchema(t, testConfig())
	gymID, trainingID, _ := seedPurchaseFixture(t, s)

	// the gym's denormalized list is caller-maintained
	exec(t, s, fmt.Sprintf(`mutation {
		UpdateGym(id: %s, trainings: [%s]) { id }
	}`, gymID, trainingID))

	data := exec(t, s, fmt.Sprintf(`{ gym(id: %s) { trainings { id price } } }`, gymID))
	trainings := field(t, data, "gym", "trainings").([]any)
	if len(trainings) != 1 || trainings[0].(map[string]any)["id"] != trainingID {
		t.Fatalf("trainings = %v", trainings)
	}

	// deleting the training leaves a null entry, not a shorter list
	exec(t, s, fmt.Sprintf(`mutation { Delete(id: %s, object: Training) { ok } }`, trainingID))
	data = exec(t, s, fmt.Sprintf(`{ gym(id: %s) { trainings { id } } }`, gymID))
	trainings = field(t, data, "gym", "trainings").([]any)
	if len(trainings) != 1 || trainings[0] != nil {
		t.Errorf("trainings = %v, want [null]", trainings)
	}
}

func TestQueryOnMutationRereadsStore(t *testing.T) {
	cfg := testConfig()
	cfg.QueryOnMutation = true
	s := newTestSchema(t, cfg)

	data := exec(t, s, `mutation {
		CreateGym(name: "Iron Temple", adminName: "Max", adminPhone: "1234567890", freeSlots: 3) {
			id name freeSlots
		}
	}`)
	created := field(t, data, "CreateGym").(map[string]any)
	if created["name"] != "Iron Temple" || created["freeSlots"] != 3 {
		t.Errorf("re-read create result = %v", created)
	}

	data = exec(t, s, fmt.Sprintf(`{ gym(id: %s) { name } }`, created["id"]))
	if got := field(t, data, "gym", "name"); got != "Iron Temple" {
		t.Errorf("stored name = %v", got)
	}
}

func TestTrainingTypeEnumStoredAsShortString(t *testing.T) {
	s := newTestSchema(t, testConfig())
	gymID, _, _ := seedPurchaseFixture(t, s)

	data := exec(t, s, fmt.Sprintf(`mutation {
		CreateTraining(type: WITH_TRAINER, price: 55.5, gym: %s) { id type price }
	}`, gymID))
	created := field(t, data, "CreateTraining").(map[string]any)
	if created["type"] != "WITH_TRAINER" {
		t.Errorf("type = %v", created["type"])
	}

	// the store holds the short form
	doc := s.trainings.Get(2)
	if doc["type"] != TrainingWithTrainer {
		t.Errorf("stored type = %v, want %q", doc["type"], TrainingWithTrainer)
	}
}
