package query

import (
	"fmt"
	"strings"
)

// Condition is a WHERE clause fragment. SQL receives the 1-based index of
// the condition's first placeholder and returns the fragment together with
// its arguments, in placeholder order.
type Condition interface {
	SQL(argIndex int) (string, []interface{})
}

// Eq matches field = value.
func Eq(field string, value interface{}) Condition {
	return &eqCondition{field: field, value: value}
}

type eqCondition struct {
	field string
	value interface{}
}

func (c *eqCondition) SQL(argIndex int) (string, []interface{}) {
	return fmt.Sprintf("%s = $%d", c.field, argIndex), []interface{}{c.value}
}

// Gte matches field >= value.
func Gte(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: ">=", value: value}
}

// Lte matches field <= value.
func Lte(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: "<=", value: value}
}

type cmpCondition struct {
	field string
	op    string
	value interface{}
}

func (c *cmpCondition) SQL(argIndex int) (string, []interface{}) {
	return fmt.Sprintf("%s %s $%d", c.field, c.op, argIndex), []interface{}{c.value}
}

// In matches field IN (values...). An empty value list is a programming
// error; callers only build the condition for non-empty filters.
func In(field string, values []interface{}) Condition {
	return &inCondition{field: field, values: values}
}

// InStrings is a convenience wrapper for string membership filters.
func InStrings(field string, values []string) Condition {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return In(field, args)
}

// InInts is a convenience wrapper for integer membership filters.
func InInts(field string, values []int) Condition {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return In(field, args)
}

type inCondition struct {
	field  string
	values []interface{}
}

func (c *inCondition) SQL(argIndex int) (string, []interface{}) {
	placeholders := make([]string, len(c.values))
	for i := range c.values {
		placeholders[i] = fmt.Sprintf("$%d", argIndex+i)
	}
	return fmt.Sprintf("%s IN (%s)", c.field, strings.Join(placeholders, ", ")), c.values
}

// ILikeAny matches the needle case-insensitively against any of the fields.
// The same placeholder is reused for every field, so it contributes a
// single argument.
func ILikeAny(fields []string, needle string) Condition {
	return &iLikeAnyCondition{fields: fields, needle: needle}
}

type iLikeAnyCondition struct {
	fields []string
	needle string
}

func (c *iLikeAnyCondition) SQL(argIndex int) (string, []interface{}) {
	parts := make([]string, len(c.fields))
	for i, f := range c.fields {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", f, argIndex)
	}
	return "(" + strings.Join(parts, " OR ") + ")", []interface{}{"%" + c.needle + "%"}
}
