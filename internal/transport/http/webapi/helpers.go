package webapi

import (
	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
)

// toJSON packs a string list into a JSON column value. Encoding a plain
// string slice cannot fail.
func toJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := sonic.Marshal(values)
	return datatypes.JSON(raw)
}
