package invoiceinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/craftable/errx"
	"github.com/Abraxas-365/facturamelo/invoice"
	"github.com/jmoiron/sqlx"
)

type PostgresInvoiceRepository struct {
	db *sqlx.DB
}

var _ invoice.Repository = (*PostgresInvoiceRepository)(nil)

func NewPostgresInvoiceRepository(db *sqlx.DB) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{db: db}
}

// dbInvoice is an intermediate struct for database operations
type dbInvoice struct {
	InvoiceNumber string          `db:"invoice_number"`
	Date          string          `db:"date"`
	VendorName    string          `db:"vendor_name"`
	VendorTaxID   sql.NullString  `db:"vendor_tax_id"`
	TotalAmount   float64         `db:"total_amount"`
	TaxAmount     float64         `db:"tax_amount"`
	Items         json.RawMessage `db:"items"`
	Currency      string          `db:"currency"`
}

const dateLayout = "2006-01-02"

// parseDBDate acepta tanto el layout de DATE como timestamps completos
func parseDBDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

// toDBInvoice converts domain Invoice to dbInvoice
func toDBInvoice(inv invoice.Invoice) (*dbInvoice, error) {
	items := inv.Items
	if items == nil {
		items = []invoice.InvoiceItem{}
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal items: %w", err)
	}

	dbInv := &dbInvoice{
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.Date.Format(dateLayout),
		VendorName:    inv.VendorName,
		TotalAmount:   inv.TotalAmount,
		TaxAmount:     inv.TaxAmount,
		Items:         itemsJSON,
		Currency:      inv.Currency,
	}

	if inv.VendorTaxID != "" {
		dbInv.VendorTaxID = sql.NullString{String: inv.VendorTaxID, Valid: true}
	}

	return dbInv, nil
}

// toDomainInvoice converts dbInvoice to domain Invoice
func toDomainInvoice(dbInv *dbInvoice) (*invoice.Invoice, error) {
	var items []invoice.InvoiceItem
	if len(dbInv.Items) > 0 && string(dbInv.Items) != "null" {
		if err := json.Unmarshal(dbInv.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
	}

	date, err := parseDBDate(dbInv.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}

	inv := &invoice.Invoice{
		InvoiceNumber: dbInv.InvoiceNumber,
		Date:          date,
		VendorName:    dbInv.VendorName,
		TotalAmount:   dbInv.TotalAmount,
		TaxAmount:     dbInv.TaxAmount,
		Items:         items,
		Currency:      dbInv.Currency,
	}

	if dbInv.VendorTaxID.Valid {
		inv.VendorTaxID = dbInv.VendorTaxID.String
	}

	return inv, nil
}

// Save inserta o reemplaza la factura por número (upsert, last-write-wins)
func (r *PostgresInvoiceRepository) Save(ctx context.Context, inv invoice.Invoice) (string, error) {
	if !inv.IsValid() {
		return "", invoice.ErrInvalidInvoice().WithDetail("invoice_number", inv.InvoiceNumber)
	}

	dbInv, err := toDBInvoice(inv)
	if err != nil {
		return "", errx.Wrap(err, "failed to convert invoice", errx.TypeInternal).
			WithDetail("invoice_number", inv.InvoiceNumber)
	}

	query := `
		INSERT INTO invoices (
			invoice_number, date, vendor_name, vendor_tax_id,
			total_amount, tax_amount, items, currency
		) VALUES (
			:invoice_number, :date, :vendor_name, :vendor_tax_id,
			:total_amount, :tax_amount, :items, :currency
		)
		ON CONFLICT (invoice_number) DO UPDATE SET
			date = EXCLUDED.date,
			vendor_name = EXCLUDED.vendor_name,
			vendor_tax_id = EXCLUDED.vendor_tax_id,
			total_amount = EXCLUDED.total_amount,
			tax_amount = EXCLUDED.tax_amount,
			items = EXCLUDED.items,
			currency = EXCLUDED.currency,
			updated_at = NOW()`

	_, err = r.db.NamedExecContext(ctx, query, dbInv)
	if err != nil {
		return "", invoice.ErrStorageFailed().
			WithDetail("invoice_number", inv.InvoiceNumber).
			WithCause(err)
	}

	return inv.InvoiceNumber, nil
}

func (r *PostgresInvoiceRepository) FindByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	query := `
		SELECT
			invoice_number, date, vendor_name, vendor_tax_id,
			total_amount, tax_amount, items, currency
		FROM invoices
		WHERE invoice_number = $1`

	var dbInv dbInvoice
	err := r.db.GetContext(ctx, &dbInv, query, number)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invoice.ErrInvoiceNotFound().WithDetail("invoice_number", number)
		}
		return nil, errx.Wrap(err, "failed to find invoice by number", errx.TypeInternal).
			WithDetail("invoice_number", number)
	}

	return toDomainInvoice(&dbInv)
}

func (r *PostgresInvoiceRepository) List(ctx context.Context, filter invoice.ListFilter) ([]invoice.Invoice, error) {
	whereClause, args := buildListConditions(filter)

	query := `
		SELECT
			invoice_number, date, vendor_name, vendor_tax_id,
			total_amount, tax_amount, items, currency
		FROM invoices`
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY date DESC, invoice_number ASC"

	var dbInvoices []dbInvoice
	err := r.db.SelectContext(ctx, &dbInvoices, query, args...)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list invoices", errx.TypeInternal)
	}

	result := make([]invoice.Invoice, 0, len(dbInvoices))
	for i := range dbInvoices {
		inv, err := toDomainInvoice(&dbInvoices[i])
		if err != nil {
			return nil, errx.Wrap(err, "failed to convert invoice", errx.TypeInternal)
		}
		result = append(result, *inv)
	}

	return result, nil
}

func (r *PostgresInvoiceRepository) Delete(ctx context.Context, number string) (bool, error) {
	query := `DELETE FROM invoices WHERE invoice_number = $1`

	result, err := r.db.ExecContext(ctx, query, number)
	if err != nil {
		return false, errx.Wrap(err, "failed to delete invoice", errx.TypeInternal).
			WithDetail("invoice_number", number)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}

	return rowsAffected > 0, nil
}

// buildListConditions arma el WHERE a partir de los filtros activos. El nombre
// del vendedor se compara exacto sin distinguir mayúsculas; las fechas son
// inclusivas.
func buildListConditions(filter invoice.ListFilter) (string, []any) {
	var conditions []string
	var args []any
	argPos := 1

	if filter.VendorName != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(vendor_name) = LOWER($%d)", argPos))
		args = append(args, filter.VendorName)
		argPos++
	}

	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argPos))
		args = append(args, filter.DateFrom.Format(dateLayout))
		argPos++
	}

	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argPos))
		args = append(args, filter.DateTo.Format(dateLayout))
		argPos++
	}

	return strings.Join(conditions, " AND "), args
}
