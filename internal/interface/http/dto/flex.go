package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString JSON中接受字符串或数字，统一保存为原始文本
// 表单校验在领域层完成，这里不做类型转换
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*s = FlexString(n.String())
		return nil
	}
}

func (s FlexString) String() string {
	return string(s)
}

// FlexStrings 接受数组，元素为字符串或数字；单个值视为只有一个元素
type FlexStrings []string

func (s *FlexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] != '[' {
		var one FlexString
		if err := one.UnmarshalJSON(data); err != nil {
			return err
		}
		*s = FlexStrings{one.String()}
		return nil
	}

	var items []FlexString
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(FlexStrings, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	*s = out
	return nil
}
