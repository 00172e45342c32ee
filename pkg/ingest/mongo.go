package ingest

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/citylink/pkg/errors"
	"github.com/matzehuels/citylink/pkg/record"
)

// ReadMongo reads every document of db.coll. The _id field is dropped.
// Network errors and timeouts of the query are retried with backoff.
func ReadMongo(ctx context.Context, uri, db, coll string) ([]record.RawRow, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "connect mongodb")
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	var cur *mongo.Cursor
	err = retry(ctx, retryAttempts, retryDelay, mongoTransient, func() error {
		var err error
		cur, err = client.Database(db).Collection(coll).Find(ctx, bson.D{})
		return err
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "find %s.%s", db, coll)
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []record.RawRow
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, documentRow(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate cursor: %w", err)
	}
	return out, nil
}

func documentRow(doc bson.M) record.RawRow {
	row := make(record.RawRow, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		if d, ok := v.(primitive.Decimal128); ok {
			row[k] = d.String()
			continue
		}
		row[k] = stringify(v)
	}
	return row
}
