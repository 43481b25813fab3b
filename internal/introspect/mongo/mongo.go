// Package mongo introspects MongoDB databases for autoupdate runs. Field
// shapes are inferred from a bounded sample of each collection.
package mongo

import (
	"context"
	"fmt"
	"sort"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/introspect"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// defaultSampleSize bounds how many documents per collection feed the
// field inference.
const defaultSampleSize = 50

// Adapter lists the collections of one MongoDB database.
type Adapter struct {
	uri      string
	database string
	sample   int64
	client   *mongo.Client
}

// Compile-time interface check
var _ introspect.Adapter = (*Adapter)(nil)

// New creates an adapter for a connection URI and database name.
func New(uri, database string) *Adapter {
	return &Adapter{uri: uri, database: database, sample: defaultSampleSize}
}

// ID identifies the adapter kind.
func (a *Adapter) ID() string {
	return "mongodb"
}

// Connect opens the client and verifies it. Tables connects lazily, so
// calling Connect first is optional.
func (a *Adapter) Connect(ctx context.Context) error {
	opts := options.Client().ApplyURI(a.uri)
	client, err := mongo.Connect(opts)
	if err != nil {
		return fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("pinging MongoDB: %w", err)
	}

	a.client = client
	return nil
}

// Close disconnects the client.
func (a *Adapter) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	err := a.client.Disconnect(ctx)
	a.client = nil
	return err
}

// Tables lists the database's collections with fields inferred from a
// sample of documents. Collections with no documents are skipped since
// they expose no shape to describe.
func (a *Adapter) Tables(ctx context.Context) ([]introspect.Table, error) {
	if a.client == nil {
		if err := a.Connect(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.IntrospectTimeout)
	defer cancel()

	db := a.client.Database(a.database)
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	sort.Strings(names)

	var tables []introspect.Table
	for _, name := range names {
		columns, err := a.inferColumns(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("sampling collection %s: %w", name, err)
		}
		if len(columns) == 0 {
			continue
		}
		tables = append(tables, introspect.Table{
			Identifier: name,
			Namespace:  a.database,
			Columns:    columns,
		})
	}
	return tables, nil
}

// inferColumns samples a collection and derives its columns.
func (a *Adapter) inferColumns(ctx context.Context, db *mongo.Database, collection string) ([]introspect.Column, error) {
	cur, err := db.Collection(collection).Find(ctx, bson.D{}, options.Find().SetLimit(a.sample))
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var sample []bson.D
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		sample = append(sample, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return columnsFromSample(sample), nil
}

// fieldStat accumulates what the sample shows for one field.
type fieldStat struct {
	typeName string
	count    int
	sawNull  bool
}

// columnsFromSample derives one column per observed field, in
// first-appearance order. A field missing from any sampled document, or
// ever observed as null, is nullable. The type is the first non-null type
// observed.
func columnsFromSample(sample []bson.D) []introspect.Column {
	var order []string
	stats := make(map[string]*fieldStat)

	for _, doc := range sample {
		for _, elem := range doc {
			stat, ok := stats[elem.Key]
			if !ok {
				stat = &fieldStat{}
				stats[elem.Key] = stat
				order = append(order, elem.Key)
			}
			stat.count++
			if elem.Value == nil {
				stat.sawNull = true
				continue
			}
			if stat.typeName == "" {
				stat.typeName = bsonTypeName(elem.Value)
			}
		}
	}

	columns := make([]introspect.Column, 0, len(order))
	for _, name := range order {
		stat := stats[name]
		typeName := stat.typeName
		if typeName == "" {
			typeName = "null"
		}
		columns = append(columns, introspect.Column{
			Name:       name,
			Type:       typeName,
			Nullable:   stat.sawNull || stat.count < len(sample),
			PrimaryKey: name == "_id",
		})
	}
	return columns
}

// bsonTypeName names the BSON type of a decoded value in the vocabulary
// the descriptor data type lookup understands.
func bsonTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case int32:
		return "int"
	case int64:
		return "long"
	case float64:
		return "double"
	case bson.Decimal128:
		return "decimal"
	case bson.DateTime:
		return "datetime"
	case bson.ObjectID:
		return "objectId"
	case bson.Binary:
		return "binData"
	case bson.Timestamp:
		return "timestamp"
	case bson.Regex:
		return "string"
	case bson.A:
		return "array"
	case bson.D, bson.M:
		return "object"
	default:
		return "object"
	}
}
