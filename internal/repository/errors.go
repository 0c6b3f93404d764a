package repository

import "errors"

var (
	// 対象が存在しない
	ErrNotFound = errors.New("not found")

	// 一意制約違反
	ErrConflict = errors.New("conflict")

	// 数量が上限を超える
	ErrQuantityLimit = errors.New("quantity limit exceeded")
)
