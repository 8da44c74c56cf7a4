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

type retailerDoc struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name"`
	Location string `bson:"location"`
	Contact  string `bson:"contact_info"`
}

type orderDoc struct {
	ID         string    `bson:"_id"`
	RetailerID string    `bson:"retailer_id"`
	OrderDate  time.Time `bson:"order_date"`
}

type MongoOrderRepository struct {
	orders    *mongo.Collection
	retailers *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		orders:    db.Collection(orderCollection),
		retailers: db.Collection(retailerCollection),
	}
}

var _ port.OrderRepository = (*MongoOrderRepository)(nil)

func (r *MongoOrderRepository) InsertRetailer(ctx context.Context, retailer domain.Retailer) error {
	_, err := r.retailers.InsertOne(ctx, retailerDoc(retailer))
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return domain.Unavailable("insert retailer", err)
	}
	return nil
}

func (r *MongoOrderRepository) GetRetailer(ctx context.Context, retailerID string) (*domain.Retailer, error) {
	var doc retailerDoc
	err := r.retailers.FindOne(ctx, bson.M{"_id": retailerID}).Decode(&doc)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Unavailable("find retailer", err)
	}
	retailer := domain.Retailer(doc)
	return &retailer, nil
}

func (r *MongoOrderRepository) UpdateRetailer(ctx context.Context, retailerID string, u domain.RetailerUpdate) (bool, error) {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Contact != nil {
		set["contact_info"] = *u.Contact
	}
	if len(set) == 0 {
		return false, domain.ErrNoUpdates
	}

	res, err := r.retailers.UpdateOne(ctx, bson.M{"_id": retailerID}, bson.M{"$set": set})
	if err != nil {
		return false, domain.Unavailable("update retailer", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoOrderRepository) DeleteRetailer(ctx context.Context, retailerID string) (bool, error) {
	res, err := r.retailers.DeleteOne(ctx, bson.M{"_id": retailerID})
	if err != nil {
		return false, domain.Unavailable("delete retailer", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoOrderRepository) ListRetailers(ctx context.Context) ([]domain.Retailer, error) {
	var docs []retailerDoc
	if err := findAll(ctx, r.retailers, &docs); err != nil {
		return nil, domain.Unavailable("list retailers", err)
	}

	out := make([]domain.Retailer, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Retailer(d))
	}
	return out, nil
}

func (r *MongoOrderRepository) InsertOrder(ctx context.Context, order domain.Order) error {
	_, err := r.orders.InsertOne(ctx, orderDoc(order))
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return domain.Unavailable("insert order", err)
	}
	return nil
}

func (r *MongoOrderRepository) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var doc orderDoc
	err := r.orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&doc)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Unavailable("find order", err)
	}
	order := domain.Order(doc)
	return &order, nil
}

func (r *MongoOrderRepository) SetOrderRetailer(ctx context.Context, orderID, retailerID string) (bool, error) {
	res, err := r.orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": bson.M{"retailer_id": retailerID}})
	if err != nil {
		return false, domain.Unavailable("update order", err)
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoOrderRepository) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	res, err := r.orders.DeleteOne(ctx, bson.M{"_id": orderID})
	if err != nil {
		return false, domain.Unavailable("delete order", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoOrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var docs []orderDoc
	if err := findAll(ctx, r.orders, &docs); err != nil {
		return nil, domain.Unavailable("list orders", err)
	}

	out := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Order(d))
	}
	return out, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, out interface{}) error {
	cur, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}
