package feed

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFeed 从MongoDB集合读取最新读数，每个文档对应一个路口
type MongoFeed struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo 连接MongoDB并创建数据源
// 参数：ctx-上下文，uri-MongoDB URI，db-数据库名，col-集合名
func NewMongo(ctx context.Context, uri, db, col string) (*MongoFeed, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &MongoFeed{
		client: client,
		coll:   client.Database(db).Collection(col),
	}, nil
}

// Fetch 读取集合中的全部读数文档
// 说明：按_id升序读取，重复的路口ID以最后插入的文档为准
func (f *MongoFeed) Fetch(ctx context.Context) ([]Record, error) {
	cur, err := f.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find readings in %s: %w", f.coll.Name(), err)
	}
	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode readings in %s: %w", f.coll.Name(), err)
	}
	log.Debugf("fetched %d records from %s", len(records), f.coll.Name())
	return records, nil
}

func (f *MongoFeed) Close(ctx context.Context) error {
	return f.client.Disconnect(ctx)
}
