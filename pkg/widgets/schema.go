package widgets

import "github.com/getkin/kin-openapi/openapi3"

// Data schemas only pin JSON types. Presence, length and enum rules belong
// to the validators so their messages reach the user; null counts as
// absent.

func agentsSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty(FieldTitle, nullableString()).
		WithProperty(FieldAgentIDs, openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()).WithNullable()).
		WithProperty(FieldDisplayStyle, nullableString())
	schema.Title = string(TypeAgents)
	schema.Description = "Agents showcase block"
	return schema
}

func titleSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty(FieldText, nullableString()).
		WithProperty(FieldFontSize, nullableString()).
		WithProperty(FieldTextAlign, nullableString()).
		WithProperty(FieldFontWeight, nullableString())
	schema.Title = string(TypeTitle)
	schema.Description = "Heading block"
	return schema
}

func nullableString() *openapi3.Schema {
	return openapi3.NewStringSchema().WithNullable()
}
