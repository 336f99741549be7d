package databind

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"blueprint/internal/domain"
)

// mongoProvider implements Provider for MongoDB.
type mongoProvider struct {
	client *mongo.Client
	dbName string
}

// mongoQuery is the JSON structure bindings use for MongoDB sources.
// Only read operations exist: find (default) and aggregate.
type mongoQuery struct {
	Collection string         `json:"collection"`
	Filter     map[string]any `json:"filter,omitempty"`
	Projection map[string]any `json:"projection,omitempty"`
	Sort       map[string]any `json:"sort,omitempty"`
	Pipeline   []any          `json:"pipeline,omitempty"` // aggregate when set
}

func openMongo(ds *domain.DataSource, password string) (*mongoProvider, error) {
	uri := mongoURI(ds, password)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	dbName := ds.Database
	if dbName == "" {
		dbName = "test"
	}
	return &mongoProvider{client: client, dbName: dbName}, nil
}

// mongoURI builds a connection URI. A Host that is already a full
// mongodb:// or mongodb+srv:// string (Atlas) is used as-is, with the
// <password> placeholder substituted.
func mongoURI(ds *domain.DataSource, password string) string {
	if strings.HasPrefix(ds.Host, "mongodb+srv://") || strings.HasPrefix(ds.Host, "mongodb://") {
		uri := ds.Host
		if password != "" {
			uri = strings.ReplaceAll(uri, "<password>", password)
		}
		return uri
	}

	port := ds.Port
	if port == 0 {
		port = 27017
	}
	var uri string
	if ds.Username != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", ds.Username, password, ds.Host, port)
	} else {
		uri = fmt.Sprintf("mongodb://%s:%d", ds.Host, port)
	}

	// OptionsJSON carries authSource, replicaSet, etc.
	if ds.OptionsJSON != "" && ds.OptionsJSON != "{}" {
		var extras map[string]string
		if json.Unmarshal([]byte(ds.OptionsJSON), &extras) == nil && len(extras) > 0 {
			params := make([]string, 0, len(extras))
			for k, v := range extras {
				params = append(params, k+"="+v)
			}
			sort.Strings(params)
			uri += "?" + strings.Join(params, "&")
		}
	}
	return uri
}

func (p *mongoProvider) Test(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return p.client.Ping(ctx, nil)
}

func (p *mongoProvider) Fetch(ctx context.Context, query string, limit int) (*RowSet, error) {
	var q mongoQuery
	if err := json.Unmarshal([]byte(query), &q); err != nil {
		return nil, fmt.Errorf("parse mongodb query: %w", err)
	}
	if q.Collection == "" {
		return nil, fmt.Errorf("mongodb query missing collection")
	}
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	coll := p.client.Database(p.dbName).Collection(q.Collection)

	var cursor *mongo.Cursor
	var err error
	if len(q.Pipeline) > 0 {
		pipeline := append([]any{}, q.Pipeline...)
		pipeline = append(pipeline, bson.M{"$limit": limit})
		cursor, err = coll.Aggregate(ctx, pipeline)
	} else {
		opts := options.Find().SetLimit(int64(limit))
		if len(q.Projection) > 0 {
			opts.SetProjection(toBSON(q.Projection))
		}
		if len(q.Sort) > 0 {
			opts.SetSort(toBSON(q.Sort))
		}
		filter := toBSON(q.Filter)
		if filter == nil {
			filter = bson.M{}
		}
		cursor, err = coll.Find(ctx, filter, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb query: %w", err)
	}
	defer cursor.Close(ctx)

	out := &RowSet{}
	seen := map[string]bool{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		row := make(map[string]any, len(doc))
		for k, v := range doc {
			row[k] = normalizeBSON(v)
			if !seen[k] {
				seen[k] = true
				out.Columns = append(out.Columns, k)
			}
		}
		out.Rows = append(out.Rows, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	sort.Strings(out.Columns)
	return out, nil
}

func toBSON(m map[string]any) bson.M {
	if m == nil {
		return nil
	}
	return bson.M(m)
}

// normalizeBSON converts driver-specific values into JSON-friendly ones.
func normalizeBSON(v any) any {
	switch val := v.(type) {
	case bson.ObjectID:
		return val.Hex()
	case bson.DateTime:
		return val.Time().Format(time.RFC3339)
	case bson.M:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = normalizeBSON(inner)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = normalizeBSON(inner)
		}
		return out
	default:
		return v
	}
}

func (p *mongoProvider) Close() error {
	return p.client.Disconnect(context.Background())
}
