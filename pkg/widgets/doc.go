// Package widgets describes the widget types a profile page can be composed
// of. Each type is a Config value carrying display metadata, a default data
// payload, an editing field list, a JSON schema of its data shape and a
// validator producing field-level messages. Configs are registered by type
// tag in a Registry so editors and renderers can look them up without
// knowing the concrete data types.
package widgets
