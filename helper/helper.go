package helper

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

func ToSliceOfAny[T any](s []T) []any {
	result := make([]any, len(s))
	for i, v := range s {
		result[i] = v
	}
	return result
}

func SanitizeLikeClause(s string) string {
	return strings.ReplaceAll(s, "%", "\\%")
}

func DescribeRows(rows pgx.Rows) (out string) {
	desc := rows.FieldDescriptions()
	values, _ := rows.Values()

	for i, v := range values {
		out += fmt.Sprintf("{\"%v\":\"%v\"}\n", desc[i].Name, v)
	}

	return
}
