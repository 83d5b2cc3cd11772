package helper

import "github.com/bytedance/sonic"

/* =======================================================
   OPTIONAL (PATCH tri-state)
   Absent → Present=false; null → Present=true with the zero Value
   ======================================================= */

type Optional[T any] struct {
	Present bool
	Value   T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Present = true
	var v T
	if err := sonic.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = v
	return nil
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}
