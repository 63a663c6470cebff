package invoiceinfra

import (
	"context"
	"regexp"
	"time"

	"github.com/Abraxas-365/craftable/errx"
	"github.com/Abraxas-365/facturamelo/invoice"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const invoicesCollection = "invoices"

type MongoInvoiceRepository struct {
	collection *mongo.Collection
}

var _ invoice.Repository = (*MongoInvoiceRepository)(nil)

func NewMongoInvoiceRepository(db *mongo.Database) *MongoInvoiceRepository {
	return &MongoInvoiceRepository{
		collection: db.Collection(invoicesCollection),
	}
}

// mongoInvoice documento de factura; _id es el número de factura, lo que hace
// al ReplaceOne con upsert un reemplazo por clave natural
type mongoInvoice struct {
	ID          string             `bson:"_id"`
	Date        primitive.DateTime `bson:"date"`
	VendorName  string             `bson:"vendor_name"`
	VendorTaxID string             `bson:"vendor_tax_id,omitempty"`
	TotalAmount float64            `bson:"total_amount"`
	TaxAmount   float64            `bson:"tax_amount"`
	Items       []mongoInvoiceItem `bson:"items"`
	Currency    string             `bson:"currency"`
	UpdatedAt   primitive.DateTime `bson:"updated_at"`
}

type mongoInvoiceItem struct {
	Description string  `bson:"description"`
	Quantity    float64 `bson:"quantity"`
	UnitPrice   float64 `bson:"unit_price"`
	Total       float64 `bson:"total"`
}

func toMongoInvoice(inv invoice.Invoice) mongoInvoice {
	items := make([]mongoInvoiceItem, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, mongoInvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	return mongoInvoice{
		ID:          inv.InvoiceNumber,
		Date:        primitive.NewDateTimeFromTime(inv.Date),
		VendorName:  inv.VendorName,
		VendorTaxID: inv.VendorTaxID,
		TotalAmount: inv.TotalAmount,
		TaxAmount:   inv.TaxAmount,
		Items:       items,
		Currency:    inv.Currency,
		UpdatedAt:   primitive.NewDateTimeFromTime(time.Now().UTC()),
	}
}

func toDomainFromMongo(doc mongoInvoice) *invoice.Invoice {
	items := make([]invoice.InvoiceItem, 0, len(doc.Items))
	for _, item := range doc.Items {
		items = append(items, invoice.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	return &invoice.Invoice{
		InvoiceNumber: doc.ID,
		Date:          doc.Date.Time().UTC(),
		VendorName:    doc.VendorName,
		VendorTaxID:   doc.VendorTaxID,
		TotalAmount:   doc.TotalAmount,
		TaxAmount:     doc.TaxAmount,
		Items:         items,
		Currency:      doc.Currency,
	}
}

// EnsureIndexes crea los índices de consulta; se llama una vez al arrancar
func (r *MongoInvoiceRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "vendor_name", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return errx.Wrap(err, "failed to create invoice indexes", errx.TypeInternal)
	}

	return nil
}

func (r *MongoInvoiceRepository) Save(ctx context.Context, inv invoice.Invoice) (string, error) {
	if !inv.IsValid() {
		return "", invoice.ErrInvalidInvoice().WithDetail("invoice_number", inv.InvoiceNumber)
	}

	doc := toMongoInvoice(inv)

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	if err != nil {
		return "", invoice.ErrStorageFailed().
			WithDetail("invoice_number", inv.InvoiceNumber).
			WithCause(err)
	}

	return inv.InvoiceNumber, nil
}

func (r *MongoInvoiceRepository) FindByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	var doc mongoInvoice
	err := r.collection.FindOne(ctx, bson.M{"_id": number}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, invoice.ErrInvoiceNotFound().WithDetail("invoice_number", number)
		}
		return nil, errx.Wrap(err, "failed to find invoice by number", errx.TypeInternal).
			WithDetail("invoice_number", number)
	}

	return toDomainFromMongo(doc), nil
}

func (r *MongoInvoiceRepository) List(ctx context.Context, filter invoice.ListFilter) ([]invoice.Invoice, error) {
	query := buildMongoFilter(filter)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list invoices", errx.TypeInternal)
	}
	defer cursor.Close(ctx)

	var docs []mongoInvoice
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errx.Wrap(err, "failed to decode invoices", errx.TypeInternal)
	}

	result := make([]invoice.Invoice, 0, len(docs))
	for _, doc := range docs {
		result = append(result, *toDomainFromMongo(doc))
	}

	return result, nil
}

func (r *MongoInvoiceRepository) Delete(ctx context.Context, number string) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": number})
	if err != nil {
		return false, errx.Wrap(err, "failed to delete invoice", errx.TypeInternal).
			WithDetail("invoice_number", number)
	}

	return result.DeletedCount > 0, nil
}

// buildMongoFilter traduce el ListFilter a un documento de consulta. El nombre
// del vendedor se ancla con regex case-insensitive para mantener la semántica
// de igualdad exacta.
func buildMongoFilter(filter invoice.ListFilter) bson.M {
	query := bson.M{}

	if filter.VendorName != "" {
		query["vendor_name"] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(filter.VendorName) + "$",
			Options: "i",
		}
	}

	dateRange := bson.M{}
	if filter.DateFrom != nil {
		dateRange["$gte"] = primitive.NewDateTimeFromTime(*filter.DateFrom)
	}
	if filter.DateTo != nil {
		dateRange["$lte"] = primitive.NewDateTimeFromTime(*filter.DateTo)
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}

	return query
}
