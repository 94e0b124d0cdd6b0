package tensor

import "fmt"

// DataType identifies the element type of a RawTensor buffer.
type DataType uint8

const (
	Float32 DataType = iota
	Int32
)

// Size returns the element size in bytes.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	default:
		panic(fmt.Sprintf("DataType.Size: unknown dtype %d", dt))
	}
}

func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	default:
		return fmt.Sprintf("DataType(%d)", dt)
	}
}

// DType is the constraint for supported tensor element types.
type DType interface {
	float32 | int32
}

// DataTypeOf maps a Go element type onto its DataType tag.
func DataTypeOf[T DType]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case int32:
		return Int32
	default:
		panic(fmt.Sprintf("DataTypeOf: unsupported type %T", zero))
	}
}
