package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

const (
	productKeyPrefix  = "product:"
	supplierKeyPrefix = "supplier:"
	scanBatchSize     = 100
)

// Returns 1 when the supplier hash was written, 0 when the key already existed.
var createSupplierScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end

redis.call('HSET', KEYS[1], 'name', ARGV[1], 'location', ARGV[2], 'contact_info', ARGV[3])
return 1
`)

// Return codes line up with port.ProductCreateResult.
var createProductScript = redis.NewScript(`
local product = KEYS[1]
local supplier = KEYS[2]

if redis.call('EXISTS', supplier) == 0 then
	return 1
end
if redis.call('EXISTS', product) == 1 then
	return 2
end

redis.call('HSET', product, 'name', ARGV[1], 'description', ARGV[2], 'price', ARGV[3], 'supplier_id', ARGV[4])
return 0
`)

// Applies field/value pairs only to an existing hash, so an update never
// creates an entity.
var updateHashScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end

redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

// RedisAdapter keeps products and suppliers as hashes under product:<id>
// and supplier:<id>.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

var _ port.CatalogRepository = (*RedisAdapter)(nil)

func (r *RedisAdapter) CreateSupplier(ctx context.Context, s domain.Supplier) (bool, error) {
	result, err := createSupplierScript.Run(ctx, r.client,
		[]string{supplierKeyPrefix + s.ID}, s.Name, s.Location, s.Contact).Int()
	if err != nil {
		return false, domain.Unavailable("create supplier", err)
	}

	return result == 1, nil
}

func (r *RedisAdapter) GetSupplier(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	fields, err := r.client.HGetAll(ctx, supplierKeyPrefix+supplierID).Result()
	if err != nil {
		return nil, domain.Unavailable("get supplier", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	s := decodeSupplier(supplierID, fields)
	return &s, nil
}

func (r *RedisAdapter) UpdateSupplier(ctx context.Context, supplierID string, u domain.SupplierUpdate) (bool, error) {
	var args []interface{}
	if u.Name != nil {
		args = append(args, "name", *u.Name)
	}
	if u.Location != nil {
		args = append(args, "location", *u.Location)
	}
	if u.Contact != nil {
		args = append(args, "contact_info", *u.Contact)
	}
	return r.updateHash(ctx, supplierKeyPrefix+supplierID, args)
}

func (r *RedisAdapter) DeleteSupplier(ctx context.Context, supplierID string) (bool, error) {
	return r.del(ctx, supplierKeyPrefix+supplierID)
}

func (r *RedisAdapter) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	hashes, err := r.scanHashes(ctx, supplierKeyPrefix)
	if err != nil {
		return nil, domain.Unavailable("list suppliers", err)
	}

	out := make([]domain.Supplier, 0, len(hashes))
	for id, fields := range hashes {
		out = append(out, decodeSupplier(id, fields))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RedisAdapter) SupplierExists(ctx context.Context, supplierID string) (bool, error) {
	return r.exists(ctx, supplierKeyPrefix+supplierID)
}

func (r *RedisAdapter) CreateProduct(ctx context.Context, p domain.Product) (port.ProductCreateResult, error) {
	keys := []string{productKeyPrefix + p.ID, supplierKeyPrefix + p.SupplierID}

	result, err := createProductScript.Run(ctx, r.client, keys,
		p.Name, p.Description, formatPrice(p.Price), p.SupplierID).Int()
	if err != nil {
		return 0, domain.Unavailable("create product", err)
	}

	return port.ProductCreateResult(result), nil
}

func (r *RedisAdapter) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	fields, err := r.client.HGetAll(ctx, productKeyPrefix+productID).Result()
	if err != nil {
		return nil, domain.Unavailable("get product", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	p, err := decodeProduct(productID, fields)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisAdapter) UpdateProduct(ctx context.Context, productID string, u domain.ProductUpdate) (bool, error) {
	var args []interface{}
	if u.Name != nil {
		args = append(args, "name", *u.Name)
	}
	if u.Description != nil {
		args = append(args, "description", *u.Description)
	}
	if u.Price != nil {
		args = append(args, "price", formatPrice(*u.Price))
	}
	return r.updateHash(ctx, productKeyPrefix+productID, args)
}

func (r *RedisAdapter) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	return r.del(ctx, productKeyPrefix+productID)
}

// ListProducts skips hashes whose price does not parse; they cannot take
// part in price reports and are left for an operator to repair.
func (r *RedisAdapter) ListProducts(ctx context.Context) ([]domain.Product, error) {
	hashes, err := r.scanHashes(ctx, productKeyPrefix)
	if err != nil {
		return nil, domain.Unavailable("list products", err)
	}

	out := make([]domain.Product, 0, len(hashes))
	for id, fields := range hashes {
		p, err := decodeProduct(id, fields)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RedisAdapter) ProductExists(ctx context.Context, productID string) (bool, error) {
	return r.exists(ctx, productKeyPrefix+productID)
}

func (r *RedisAdapter) updateHash(ctx context.Context, key string, args []interface{}) (bool, error) {
	if len(args) == 0 {
		return false, domain.ErrNoUpdates
	}
	result, err := updateHashScript.Run(ctx, r.client, []string{key}, args...).Int()
	if err != nil {
		return false, domain.Unavailable("update "+key, err)
	}

	return result == 1, nil
}

func (r *RedisAdapter) exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, domain.Unavailable("exists "+key, err)
	}
	return n > 0, nil
}

func (r *RedisAdapter) del(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, domain.Unavailable("delete "+key, err)
	}
	return n > 0, nil
}

// scanHashes walks prefix* with SCAN and loads every hash in one pipeline.
// Keys that disappear between the scan and the read are dropped.
func (r *RedisAdapter) scanHashes(ctx context.Context, prefix string) (map[string]map[string]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return map[string]map[string]string{}, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(keys))
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = pipe.HGetAll(ctx, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]string, len(keys))
	for i, key := range keys {
		fields := cmds[i].Val()
		if len(fields) == 0 {
			continue
		}
		out[strings.TrimPrefix(key, prefix)] = fields
	}
	return out, nil
}

func decodeSupplier(id string, fields map[string]string) domain.Supplier {
	return domain.Supplier{
		ID:       id,
		Name:     fields["name"],
		Location: fields["location"],
		Contact:  fields["contact_info"],
	}
}

func decodeProduct(id string, fields map[string]string) (domain.Product, error) {
	p := domain.Product{
		ID:          id,
		Name:        fields["name"],
		Description: fields["description"],
		SupplierID:  fields["supplier_id"],
	}
	if raw := strings.TrimSpace(fields["price"]); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %s price %q: %w", id, raw, domain.ErrInvalidInput)
		}
		p.Price = price
	}
	return p, nil
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
