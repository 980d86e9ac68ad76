package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultCollection = "console_state"
	defaultNamespace  = "session"
)

// KVStore keeps all keys of one namespace as fields of a single document,
// so multi-key writes are a single atomic update.
type KVStore struct {
	coll      *mongo.Collection
	namespace string
}

type kvDocument struct {
	ID     string            `bson:"_id"`
	Values map[string]string `bson:"values"`
}

// NewKVStore returns a KVStore over the given collection. Empty names fall
// back to the defaults.
func NewKVStore(db *mongo.Database, collection, namespace string) *KVStore {
	if collection == "" {
		collection = defaultCollection
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &KVStore{coll: db.Collection(collection), namespace: namespace}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc kvDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.namespace}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("mongo get %s: %w", key, err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

func (s *KVStore) Set(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	for k, v := range entries {
		set["values."+k] = v
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": s.namespace},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo set: %w", err)
	}
	return nil
}

func (s *KVStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	unset := bson.M{}
	for _, k := range keys {
		unset["values."+k] = ""
	}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": s.namespace}, bson.M{"$unset": unset}); err != nil {
		return fmt.Errorf("mongo remove: %w", err)
	}
	return nil
}

func (s *KVStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
