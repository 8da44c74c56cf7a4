package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

type orderLineDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OrderID   string             `bson:"order_id"`
	ProductID string             `bson:"product_id"`
	Quantity  int                `bson:"quantity"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d orderLineDoc) toDomain() domain.OrderLine {
	return domain.OrderLine{
		OrderID:   d.OrderID,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type MongoOrderLineRepository struct {
	coll *mongo.Collection
}

func NewMongoOrderLineRepository(db *mongo.Database) *MongoOrderLineRepository {
	return &MongoOrderLineRepository{coll: db.Collection(orderLineCollection)}
}

var _ port.OrderLineRepository = (*MongoOrderLineRepository)(nil)

func lineFilter(orderID, productID string) bson.M {
	return bson.M{"order_id": orderID, "product_id": productID}
}

func (r *MongoOrderLineRepository) Insert(ctx context.Context, line domain.OrderLine) error {
	_, err := r.coll.InsertOne(ctx, orderLineDoc{
		OrderID:   line.OrderID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		CreatedAt: line.CreatedAt,
		UpdatedAt: line.UpdatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return domain.Unavailable("insert order line", err)
	}
	return nil
}

func (r *MongoOrderLineRepository) Get(ctx context.Context, orderID, productID string) (*domain.OrderLine, error) {
	var doc orderLineDoc
	err := r.coll.FindOne(ctx, lineFilter(orderID, productID)).Decode(&doc)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Unavailable("find order line", err)
	}
	line := doc.toDomain()
	return &line, nil
}

func (r *MongoOrderLineRepository) SetQuantity(ctx context.Context, orderID, productID string, expected, quantity int) (bool, error) {
	filter := lineFilter(orderID, productID)
	filter["quantity"] = expected
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"quantity": quantity, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, domain.Unavailable("update order line", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	return false, r.missOrChanged(ctx, orderID, productID)
}

func (r *MongoOrderLineRepository) Delete(ctx context.Context, orderID, productID string, expected int) (bool, error) {
	filter := lineFilter(orderID, productID)
	filter["quantity"] = expected
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return false, domain.Unavailable("delete order line", err)
	}
	if res.DeletedCount > 0 {
		return true, nil
	}
	return false, r.missOrChanged(ctx, orderID, productID)
}

// missOrChanged tells an absent line from one whose quantity moved.
func (r *MongoOrderLineRepository) missOrChanged(ctx context.Context, orderID, productID string) error {
	n, err := r.coll.CountDocuments(ctx, lineFilter(orderID, productID))
	if err != nil {
		return domain.Unavailable("count order lines", err)
	}
	if n == 0 {
		return nil
	}
	return domain.ErrLineChanged
}

func (r *MongoOrderLineRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	return r.find(ctx, bson.M{"order_id": orderID})
}

func (r *MongoOrderLineRepository) List(ctx context.Context) ([]domain.OrderLine, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoOrderLineRepository) find(ctx context.Context, filter bson.M) ([]domain.OrderLine, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_id", Value: 1}, {Key: "product_id", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, domain.Unavailable("list order lines", err)
	}
	defer cur.Close(ctx)

	var docs []orderLineDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.Unavailable("list order lines", err)
	}

	out := make([]domain.OrderLine, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
