package storage

import (
	"context"
	"fmt"

	"github.com/gearpost/fitment/internal/model"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context is required")
	}
	return ctx.Err()
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

func validateMappingRule(rule *model.ModelMappingRule) error {
	if rule == nil {
		return fmt.Errorf("rule is required")
	}
	if rule.Pattern == "" {
		return fmt.Errorf("rule pattern is required")
	}
	if rule.Mapping.Make == "" || rule.Mapping.Model == "" {
		return fmt.Errorf("rule mapping requires make and model")
	}
	return nil
}
