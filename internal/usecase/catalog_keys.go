package usecase

import (
	"fmt"
	"strconv"
)

// キャッシュキー。無効化は prefix 単位。
const (
	typesPrefix   = "types:"
	brandsPrefix  = "brands:"
	devicesPrefix = "devices:"

	typesListKey  = typesPrefix + "list"
	brandsListKey = brandsPrefix + "list"
)

// devices:{typeId|all}:{brandId|all}:{page}:{limit}
func devicesListKey(typeID, brandID *int64, page, limit int) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", devicesPrefix, idOrAll(typeID), idOrAll(brandID), page, limit)
}

// devices:one:{id}
func deviceKey(id int64) string {
	return devicesPrefix + "one:" + strconv.FormatInt(id, 10)
}

func idOrAll(id *int64) string {
	if id == nil {
		return "all"
	}
	return strconv.FormatInt(*id, 10)
}
