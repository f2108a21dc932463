package providers

import (
	"fmt"
	"github.com/gookit/validate"
	"kickoff/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}
	if c.conf.Api.RetryWaitMax < c.conf.Api.RetryWaitMin {
		return fmt.Errorf("invalid config: api.retryWaitMax must be >= api.retryWaitMin")
	}
	return nil
}
