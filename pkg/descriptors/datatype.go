package descriptors

import (
	"slices"
	"strings"
)

// DataType classifies a dataset field in a descriptor. The enum is the
// contract vocabulary; adapter-reported storage types map into it through
// DataTypeFor.
type DataType string

const (
	// DataTypeString is free or bounded text.
	DataTypeString DataType = "string"

	// DataTypeNumber is an arbitrary-precision numeric value.
	DataTypeNumber DataType = "number"

	// DataTypeInteger is a whole number.
	DataTypeInteger DataType = "integer"

	// DataTypeFloat is a floating point value.
	DataTypeFloat DataType = "float"

	// DataTypeBoolean is a true/false value.
	DataTypeBoolean DataType = "boolean"

	// DataTypeTimestamp is a point in time, with or without zone.
	DataTypeTimestamp DataType = "timestamp"

	// DataTypeDate is a calendar date.
	DataTypeDate DataType = "date"

	// DataTypeBinary is opaque bytes.
	DataTypeBinary DataType = "binary"

	// DataTypeJSON is embedded JSON content.
	DataTypeJSON DataType = "json"

	// DataTypeArray is an ordered collection.
	DataTypeArray DataType = "array"

	// DataTypeObject is a nested record.
	DataTypeObject DataType = "object"

	// DataTypeNull is a field observed only as null.
	DataTypeNull DataType = "null"
)

// DataTypes returns all field data types.
func DataTypes() []DataType {
	return []DataType{
		DataTypeString,
		DataTypeNumber,
		DataTypeInteger,
		DataTypeFloat,
		DataTypeBoolean,
		DataTypeTimestamp,
		DataTypeDate,
		DataTypeBinary,
		DataTypeJSON,
		DataTypeArray,
		DataTypeObject,
		DataTypeNull,
	}
}

// String returns the string representation of a data type.
func (t DataType) String() string {
	return string(t)
}

// IsValid returns true if the DataType is one of the defined constants.
func (t DataType) IsValid() bool {
	return slices.Contains(DataTypes(), t)
}

// dataTypeLookup maps normalized adapter type names to descriptor data
// types. It covers the SQL information_schema vocabulary and BSON type
// names; anything outside it is an unsupported type kind.
var dataTypeLookup = map[string]DataType{
	// text
	"string":            DataTypeString,
	"text":              DataTypeString,
	"varchar":           DataTypeString,
	"character varying": DataTypeString,
	"char":              DataTypeString,
	"bpchar":            DataTypeString,
	"character":         DataTypeString,
	"citext":            DataTypeString,
	"name":              DataTypeString,
	"uuid":              DataTypeString,
	"objectid":          DataTypeString,
	"inet":              DataTypeString,
	"cidr":              DataTypeString,
	"macaddr":           DataTypeString,

	// whole numbers
	"integer":     DataTypeInteger,
	"int":         DataTypeInteger,
	"int2":        DataTypeInteger,
	"int4":        DataTypeInteger,
	"int8":        DataTypeInteger,
	"smallint":    DataTypeInteger,
	"bigint":      DataTypeInteger,
	"serial":      DataTypeInteger,
	"smallserial": DataTypeInteger,
	"bigserial":   DataTypeInteger,
	"long":        DataTypeInteger,

	// exact and floating point
	"numeric":          DataTypeNumber,
	"decimal":          DataTypeNumber,
	"money":            DataTypeNumber,
	"real":             DataTypeFloat,
	"float":            DataTypeFloat,
	"float4":           DataTypeFloat,
	"float8":           DataTypeFloat,
	"double":           DataTypeFloat,
	"double precision": DataTypeFloat,

	// booleans
	"boolean": DataTypeBoolean,
	"bool":    DataTypeBoolean,

	// time
	"timestamp":                   DataTypeTimestamp,
	"timestamptz":                 DataTypeTimestamp,
	"timestamp without time zone": DataTypeTimestamp,
	"timestamp with time zone":    DataTypeTimestamp,
	"datetime":                    DataTypeTimestamp,
	"time":                        DataTypeTimestamp,
	"timetz":                      DataTypeTimestamp,
	"time without time zone":      DataTypeTimestamp,
	"time with time zone":         DataTypeTimestamp,
	"date":                        DataTypeDate,

	// bytes
	"bytea":     DataTypeBinary,
	"blob":      DataTypeBinary,
	"binary":    DataTypeBinary,
	"varbinary": DataTypeBinary,
	"bindata":   DataTypeBinary,

	// structured
	"json":   DataTypeJSON,
	"jsonb":  DataTypeJSON,
	"array":  DataTypeArray,
	"object": DataTypeObject,
	"record": DataTypeObject,
	"null":   DataTypeNull,
}

// DataTypeFor maps an adapter-reported storage type name to a descriptor
// data type. The lookup is fixed and total over the supported vocabulary;
// parameterized SQL types like "varchar(255)" match their base name. The
// second return is false for unsupported type kinds.
func DataTypeFor(typeName string) (DataType, bool) {
	name := strings.ToLower(strings.TrimSpace(typeName))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	// Postgres array types report as the element type prefixed with "_".
	if strings.HasPrefix(name, "_") || strings.HasSuffix(name, "[]") {
		return DataTypeArray, true
	}
	t, ok := dataTypeLookup[name]
	return t, ok
}
