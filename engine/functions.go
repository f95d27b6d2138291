package engine

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/viant/vec/search"
	sqlite "modernc.org/sqlite"
)

var registerOnce sync.Once
var registerErr error

// RegisterVectorFunctions registers vec_l2, vec_cosine and vec_dim with the
// driver. Functions are visible only on connections opened after the first
// call, so call it before engine.Open. Repeated calls are no-ops.
func RegisterVectorFunctions() error {
	registerOnce.Do(func() {
		for name, fn := range map[string]func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error){
			"vec_l2":     vecL2Impl,
			"vec_cosine": vecCosineImpl,
		} {
			if err := sqlite.RegisterDeterministicScalarFunction(name, 2, fn); err != nil && !alreadyRegistered(err) {
				registerErr = fmt.Errorf("engine: register %s: %w", name, err)
				return
			}
		}
		if err := sqlite.RegisterDeterministicScalarFunction("vec_dim", 1, vecDimImpl); err != nil && !alreadyRegistered(err) {
			registerErr = fmt.Errorf("engine: register vec_dim: %w", err)
		}
	})
	return registerErr
}

func alreadyRegistered(err error) bool {
	return strings.Contains(err.Error(), "already registered")
}

func pair(name string, args []driver.Value) (search.Float32s, search.Float32s, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	a, err := asEmbedding(args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := asEmbedding(args[1])
	if err != nil {
		return nil, nil, err
	}
	if a != nil && b != nil && len(a) != len(b) {
		return nil, nil, fmt.Errorf("%s: dim mismatch %d vs %d", name, len(a), len(b))
	}
	return a, b, nil
}

func vecL2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := pair("vec_l2", args)
	if err != nil || a == nil || b == nil {
		return nil, err
	}
	return float64(a.EuclideanDistance(b)), nil
}

func vecCosineImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := pair("vec_cosine", args)
	if err != nil || a == nil || b == nil {
		return nil, err
	}
	if a.Magnitude() == 0 || b.Magnitude() == 0 {
		return nil, fmt.Errorf("vec_cosine: zero-magnitude vector")
	}
	return 1 - float64(a.CosineDistance(b)), nil
}

func vecDimImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	v, err := asEmbedding(args[0])
	if err != nil {
		return nil, err
	}
	return int64(len(v)), nil
}

func asEmbedding(arg driver.Value) (search.Float32s, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeEmbedding(v)
	default:
		return nil, fmt.Errorf("vec: unsupported argument type %T for embedding; want BLOB", arg)
	}
}

// decodeEmbedding mirrors vector.DecodeEmbedding; vector imports engine.
func decodeEmbedding(b []byte) (search.Float32s, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vec: invalid embedding blob length %d", len(b))
	}
	v := make(search.Float32s, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
