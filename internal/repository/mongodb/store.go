// Package mongodb implements the repository.Store contract on MongoDB.
// Products embed their compositions; int64 identities come from a counters
// collection so the wire format keeps the numeric ids the dashboard expects.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/autoflex/inventory/internal/domain/models"
	"github.com/autoflex/inventory/internal/repository"
)

const (
	materialsColl = "materials"
	productsColl  = "products"
	reportsColl   = "production_reports"
	countersColl  = "counters"
)

// Store is the MongoDB-backed repository.
type Store struct {
	client *mongo.Client
	dbName string
}

// Verify interface compliance.
var _ repository.Store = (*Store)(nil)

// NewStore connects to MongoDB and verifies the connection with a ping.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, dbName: dbName}, nil
}

func (s *Store) coll(name string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(name)
}

// nextID increments and returns the named id sequence.
func (s *Store) nextID(ctx context.Context, sequence string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Value int64 `bson:"value"`
	}
	err := s.coll(countersColl).FindOneAndUpdate(ctx,
		bson.M{"_id": sequence},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("advance %s sequence: %w", sequence, err)
	}
	return counter.Value, nil
}

// ListMaterials returns all materials in insertion (id) order.
func (s *Store) ListMaterials(ctx context.Context) ([]models.RawMaterial, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := s.coll(materialsColl).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer cursor.Close(ctx)

	materials := []models.RawMaterial{}
	if err := cursor.All(ctx, &materials); err != nil {
		return nil, fmt.Errorf("decode materials: %w", err)
	}
	return materials, nil
}

// GetMaterial returns the material with the given id.
func (s *Store) GetMaterial(ctx context.Context, id int64) (*models.RawMaterial, error) {
	var m models.RawMaterial
	err := s.coll(materialsColl).FindOne(ctx, bson.M{"id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get material %d: %w", id, err)
	}
	return &m, nil
}

// InsertMaterial assigns a fresh id and stores the record.
func (s *Store) InsertMaterial(ctx context.Context, m models.RawMaterial) (*models.RawMaterial, error) {
	id, err := s.nextID(ctx, "materials")
	if err != nil {
		return nil, err
	}
	m.ID = id

	if _, err := s.coll(materialsColl).InsertOne(ctx, m); err != nil {
		return nil, fmt.Errorf("insert material: %w", err)
	}
	return &m, nil
}

// UpdateMaterial replaces the stored record with the same id.
func (s *Store) UpdateMaterial(ctx context.Context, m models.RawMaterial) (*models.RawMaterial, error) {
	res, err := s.coll(materialsColl).ReplaceOne(ctx, bson.M{"id": m.ID}, m)
	if err != nil {
		return nil, fmt.Errorf("update material %d: %w", m.ID, err)
	}
	if res.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

// DeleteMaterial removes the record with the given id.
func (s *Store) DeleteMaterial(ctx context.Context, id int64) error {
	res, err := s.coll(materialsColl).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete material %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListProducts returns all products in insertion (id) order.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := s.coll(productsColl).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// FindProductByName returns the oldest product with the given name.
func (s *Store) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: 1}})
	var p models.Product
	err := s.coll(productsColl).FindOne(ctx, bson.M{"name": name}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %q: %w", name, err)
	}
	return &p, nil
}

// InsertProduct assigns a fresh id and stores the record with its recipe.
func (s *Store) InsertProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	id, err := s.nextID(ctx, "products")
	if err != nil {
		return nil, err
	}
	p.ID = id

	if _, err := s.coll(productsColl).InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return &p, nil
}

// DeleteProduct removes the product document; embedded compositions go with it.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.coll(productsColl).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountCompositionsUsing reports how many products reference the material.
func (s *Store) CountCompositionsUsing(ctx context.Context, materialID int64) (int64, error) {
	n, err := s.coll(productsColl).CountDocuments(ctx,
		bson.M{"compositions.raw_material_id": materialID})
	if err != nil {
		return 0, fmt.Errorf("count compositions using material %d: %w", materialID, err)
	}
	return n, nil
}

// Snapshot reads materials then products. The inventory service serializes
// mutations around this call, so the two reads observe one logical point.
func (s *Store) Snapshot(ctx context.Context) ([]models.RawMaterial, []models.Product, error) {
	materials, err := s.ListMaterials(ctx)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, nil, err
	}
	return materials, products, nil
}

// SaveReport stores a production report.
func (s *Store) SaveReport(ctx context.Context, report models.ProductionReport) error {
	if _, err := s.coll(reportsColl).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("insert production report: %w", err)
	}
	return nil
}

// LatestReport returns the most recently created report.
func (s *Store) LatestReport(ctx context.Context) (*models.ProductionReport, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var r models.ProductionReport
	err := s.coll(reportsColl).FindOne(ctx, bson.M{}, opts).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load latest report: %w", err)
	}
	return &r, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
