package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// 数値でも数値文字列でも受ける整数
type flexInt struct {
	Value int64
	Set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = flexInt{}
		return nil
	}

	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}

	return f.parse(s)
}

// フォーム値（multipart）
func (f *flexInt) UnmarshalParam(param string) error {
	return f.parse(param)
}

func (f *flexInt) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*f = flexInt{}
		return nil
	}

	// 1.0 や "2.9" は切り捨て
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt{Value: i, Set: true}
		return nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %s", s)
	}
	*f = flexInt{Value: int64(fl), Set: true}
	return nil
}

func (f flexInt) Or(def int64) int64 {
	if !f.Set {
		return def
	}
	return f.Value
}

// パスやクエリのID
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
