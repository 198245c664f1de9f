package config

import (
	"github.com/kelseyhightower/envconfig"
)

// App holds every runtime setting. Values come from the environment
// (a .env file is loaded first when present, see main.go).
type App struct {
	// Network
	Host string `envconfig:"HOST" default:"127.0.0.1"`
	Port string `envconfig:"PORT" default:"8000"`

	// Storage
	DBPath string `envconfig:"DB_PATH" default:"./db.json"`

	// Validation
	ValidateEmail bool   `envconfig:"VALIDATE_EMAIL" default:"true"`
	EmailRegex    string `envconfig:"EMAIL_REGEX" default:"^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\\.[a-zA-Z0-9-.]+$"`
	ValidatePhone bool   `envconfig:"VALIDATE_PHONE" default:"true"`
	PhoneRegex    string `envconfig:"PHONE_REGEX" default:"^[+]?[(]?[0-9]{3}[)]?[-\\s.]?[0-9]{3}[-\\s.]?[0-9]{4,6}$"`

	// Mutation behavior
	QueryOnMutation bool `envconfig:"QUERY_ON_MUTATION" default:"false"`
	// When false, MakePurchase refuses once a gym has no free slots left.
	// The default keeps the permissive behavior: free_slots may go negative.
	AllowOverbooking bool `envconfig:"ALLOW_OVERBOOKING" default:"true"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
