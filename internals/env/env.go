package env

import (
	"log"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zenv"
)

// EnvStruct holds per-run overrides. Values set here win over the config file
// and are never persisted back to it.
type EnvStruct struct {
	HOME               string `zog:"HOME"`
	VIBEKANBAN_ENABLED bool   `zog:"SMITHERS_VIBEKANBAN_ENABLED"`
	VIBEKANBAN_PROJECT string `zog:"SMITHERS_VIBEKANBAN_PROJECT_ID"`
	VIBEKANBAN_PORT    int    `zog:"SMITHERS_VIBEKANBAN_PORT"`
}

var env *EnvStruct

var EnvSchema = z.Struct(z.Shape{
	"HOME":               z.String(),
	"VIBEKANBAN_ENABLED": z.Bool().Default(true),
	"VIBEKANBAN_PROJECT": z.String().Optional().Trim(),
	"VIBEKANBAN_PORT":    z.Int().Optional(),
})

func Get() *EnvStruct {
	if env == nil {
		env = &EnvStruct{}
		errs := EnvSchema.Parse(zenv.NewDataProvider(), env)
		if errs != nil {
			log.Fatal("[Smithers] Failed to parse environment variables", errs)
		}
	}
	return env
}

// Reset clears the cached environment. Tests use it together with t.Setenv.
func Reset() {
	env = nil
}
