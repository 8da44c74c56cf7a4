package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

type inventoryDoc struct {
	ID        string    `bson:"_id"`
	ProductID string    `bson:"product_id"`
	Quantity  int       `bson:"quantity"`
	Location  string    `bson:"location"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d inventoryDoc) toDomain() *domain.Inventory {
	return &domain.Inventory{
		ID:        d.ID,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		Location:  d.Location,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoInventoryRepository keeps inventory in a collection keyed by
// inventory id with a unique index on product_id.
type MongoInventoryRepository struct {
	coll *mongo.Collection
}

func NewMongoInventoryRepository(db *mongo.Database) *MongoInventoryRepository {
	return &MongoInventoryRepository{coll: db.Collection(inventoryCollection)}
}

var _ port.InventoryRepository = (*MongoInventoryRepository)(nil)

func (r *MongoInventoryRepository) Insert(ctx context.Context, inv domain.Inventory) error {
	_, err := r.coll.InsertOne(ctx, inventoryDoc{
		ID:        inv.ID,
		ProductID: inv.ProductID,
		Quantity:  inv.Quantity,
		Location:  inv.Location,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return domain.Unavailable("insert inventory", err)
	}
	return nil
}

func (r *MongoInventoryRepository) Get(ctx context.Context, inventoryID string) (*domain.Inventory, error) {
	return r.findOne(ctx, bson.M{"_id": inventoryID})
}

func (r *MongoInventoryRepository) GetByProduct(ctx context.Context, productID string) (*domain.Inventory, error) {
	return r.findOne(ctx, bson.M{"product_id": productID})
}

func (r *MongoInventoryRepository) List(ctx context.Context) ([]domain.Inventory, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, domain.Unavailable("list inventory", err)
	}
	defer cur.Close(ctx)

	var docs []inventoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Unavailable("list inventory", err)
	}

	out := make([]domain.Inventory, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toDomain())
	}
	return out, nil
}

func (r *MongoInventoryRepository) SetQuantity(ctx context.Context, inventoryID string, quantity int) (*domain.Inventory, error) {
	return r.findAndUpdate(ctx, bson.M{"_id": inventoryID}, bson.M{
		"$set": bson.M{"quantity": quantity, "updated_at": time.Now().UTC()},
	})
}

// Decrement matches only when quantity >= amount, so the check and the $inc
// are one server-side operation.
func (r *MongoInventoryRepository) Decrement(ctx context.Context, productID string, amount int) (*domain.Inventory, error) {
	inv, err := r.findAndUpdate(ctx,
		bson.M{"product_id": productID, "quantity": bson.M{"$gte": amount}},
		bson.M{
			"$inc": bson.M{"quantity": -amount},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return nil, err
	}
	if inv != nil {
		return inv, nil
	}

	// Nothing matched: tell a missing record from a short one.
	n, err := r.coll.CountDocuments(ctx, bson.M{"product_id": productID})
	if err != nil {
		return nil, domain.Unavailable("count inventory", err)
	}
	if n == 0 {
		return nil, domain.ErrInventoryNotFound
	}
	return nil, domain.ErrInsufficientQuantity
}

func (r *MongoInventoryRepository) Increment(ctx context.Context, productID string, amount int) (*domain.Inventory, error) {
	inv, err := r.findAndUpdate(ctx, bson.M{"product_id": productID}, bson.M{
		"$inc": bson.M{"quantity": amount},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInventoryNotFound
	}
	return inv, nil
}

func (r *MongoInventoryRepository) Delete(ctx context.Context, inventoryID string) (*domain.Inventory, error) {
	var doc inventoryDoc
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": inventoryID}).Decode(&doc)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Unavailable("delete inventory", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoInventoryRepository) findOne(ctx context.Context, filter bson.M) (*domain.Inventory, error) {
	var doc inventoryDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Unavailable("find inventory", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoInventoryRepository) findAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Inventory, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc inventoryDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Unavailable("update inventory", err)
	}
	return doc.toDomain(), nil
}
