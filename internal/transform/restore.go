package transform

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/vvka-141/docload/pkg/docload"
)

// CreatedLayout renders a restored created value: RFC 3339 in UTC with milliseconds.
const CreatedLayout = "2006-01-02T15:04:05.000Z07:00"

// Restore converts the integer created field of a stored body back to
// a CreatedLayout string. Bodies without a numeric created are returned unchanged.
func Restore(body []byte) ([]byte, error) {
	created := gjson.GetBytes(body, docload.CreatedField)
	if created.Type != gjson.Number {
		return body, nil
	}

	ts := time.Unix(created.Int(), 0).UTC().Format(CreatedLayout)
	out, err := sjson.SetBytes(body, docload.CreatedField, ts)
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", docload.CreatedField, err)
	}
	return out, nil
}
