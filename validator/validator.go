package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/Altinn/altinn-authorization-tmp-sub012/database"
	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/diff"
	"github.com/Altinn/altinn-authorization-tmp-sub012/introspect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// ValidationError represents a validation finding with details
type ValidationError struct {
	Type     string `json:"type"`
	Model    string `json:"model,omitempty"`
	Property string `json:"property,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error", "warning", "info"
}

func (e ValidationError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("%s: %s", e.Model, e.Message)
	}
	return fmt.Sprintf("%s.%s: %s", e.Model, e.Property, e.Message)
}

// ValidationResult contains all validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []ValidationError `json:"warnings"`
	Info     []ValidationError `json:"info"`
}

// Err combines the errors of the result, or returns nil.
func (r *ValidationResult) Err() error {
	var err error
	for _, e := range r.Errors {
		err = multierr.Append(err, e)
	}
	return err
}

func (r *ValidationResult) add(severity, typ, model, property, format string, args ...any) {
	e := ValidationError{
		Type:     typ,
		Model:    model,
		Property: property,
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
	}
	switch severity {
	case "error":
		r.Errors = append(r.Errors, e)
	case "warning":
		r.Warnings = append(r.Warnings, e)
	default:
		r.Info = append(r.Info, e)
	}
}

// maxIdentifier is the shortest identifier limit of the supported backends.
const maxIdentifier = 63

var reservedKeywords = []string{"user", "order", "group", "table", "index", "view", "schema", "key", "from", "to", "select"}

// SchemaValidator checks a registry against the rules of a dialect
type SchemaValidator struct {
	d dialect.Dialect
}

// NewSchemaValidator creates a new validator for d
func NewSchemaValidator(d dialect.Dialect) *SchemaValidator {
	return &SchemaValidator{d: d}
}

// Validate checks every definition without a database connection
func (v *SchemaValidator) Validate(reg *schema.Registry) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Info:     []ValidationError{},
	}

	for _, def := range reg.All() {
		v.validateDefinition(def, result)
	}

	if _, err := diff.Plan(reg, diff.PlanOptions{Schema: "dbo", TranslationSchema: "translation", HistorySchema: "history"}); err != nil {
		result.add("error", "plan", "", "", "%v", err)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// ValidateWithDB adds drift between the registry and the live schema as
// information; the engine resolves missing objects on the next migration.
func (v *SchemaValidator) ValidateWithDB(ctx context.Context, conn database.Conn, reg *schema.Registry, schemaName string) (*ValidationResult, error) {
	result := v.Validate(reg)
	drifts, err := introspect.Compare(ctx, conn, v.d, reg, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to compare with database: %w", err)
	}
	for _, d := range drifts {
		if d.MissingTable {
			result.add("info", "missing_table", d.Type, "", "table does not exist yet")
			continue
		}
		for _, c := range d.MissingColumns {
			result.add("info", "missing_column", d.Type, c, "column does not exist yet")
		}
		for _, c := range d.ExtraColumns {
			result.add("warning", "extra_column", d.Type, c, "column exists in the database but not in the definition")
		}
	}
	return result, nil
}

// validateDefinition validates a single definition
func (v *SchemaValidator) validateDefinition(def *schema.DbDefinition, result *ValidationResult) {
	if err := v.validateName(def.ModelType); err != nil {
		result.add(v.nameSeverity(err), "model_name", def.ModelType, "", "%v", err)
	}

	if len(def.Properties) == 0 {
		result.add("error", "no_properties", def.ModelType, "", "definition has no properties")
	}
	for _, p := range def.Properties {
		if err := v.validateName(p.Name); err != nil {
			result.add(v.nameSeverity(err), "property_name", def.ModelType, p.Name, "%v", err)
		}
	}

	for _, c := range def.Constraints {
		if len(c.Name) > maxIdentifier {
			result.add("error", "constraint_name", def.ModelType, "", "constraint name '%s' is too long (max %d characters)", c.Name, maxIdentifier)
		}
	}

	for _, w := range def.Warnings {
		result.add("warning", "extended_type", def.ModelType, "", "%s", w)
	}

	if def.EnableTranslation && len(def.StringProperties()) == 0 {
		result.add("warning", "translation", def.ModelType, "", "translation is enabled but there are no translatable properties")
	}
	if def.EnableAudit && !v.d.SupportsTemporal() {
		result.add("info", "audit", def.ModelType, "", "%s keeps no history; the table is created without versioning", v.d.Name())
	}

	seen := map[string]bool{}
	for _, rel := range def.Relations {
		if rel.IsList || seen[rel.BaseProperty] {
			continue
		}
		seen[rel.BaseProperty] = true
		if len(schema.ForeignKeyName(def.ModelType, rel.BaseProperty)) > maxIdentifier {
			result.add("error", "foreign_key", def.ModelType, rel.BaseProperty, "foreign key name is too long (max %d characters)", maxIdentifier)
		}
		if !v.d.SupportsForeignKeys() {
			result.add("info", "foreign_key", def.ModelType, rel.BaseProperty, "%s does not add foreign keys to existing tables", v.d.Name())
		}
	}
}

var errReserved = errors.New("reserved keyword")

// validateName validates identifier format
func (v *SchemaValidator) validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if len(name) > maxIdentifier {
		return fmt.Errorf("name '%s' is too long (max %d characters)", name, maxIdentifier)
	}

	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_') {
			return fmt.Errorf("name '%s' contains invalid character '%c'", name, char)
		}
	}

	for _, keyword := range reservedKeywords {
		if strings.EqualFold(name, keyword) {
			return fmt.Errorf("name '%s' is a %w", name, errReserved)
		}
	}

	return nil
}

// nameSeverity downgrades reserved words to warnings on backends that
// quote every identifier.
func (v *SchemaValidator) nameSeverity(err error) string {
	if errors.Is(err, errReserved) && v.d.Name() != dialect.Postgres {
		return "warning"
	}
	return "error"
}
