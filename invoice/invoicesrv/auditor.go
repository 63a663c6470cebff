package invoicesrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/craftable/logx"
	"github.com/robfig/cron/v3"

	"github.com/Abraxas-365/facturamelo/invoice"
)

// DefaultAuditSchedule corre todas las noches a las 03:00
const DefaultAuditSchedule = "0 3 * * *"

// defaultAuditWindowDays ventana de facturas a auditar en cada corrida
const defaultAuditWindowDays = 30

// AmountAuditor recorre las facturas recientes y registra las que tienen
// montos inconsistentes. Usa la misma validación de montos del pipeline, de
// forma independiente sobre registros ya almacenados.
type AmountAuditor struct {
	repo       invoice.Repository
	cron       *cron.Cron
	schedule   string
	windowDays int
}

// NewAmountAuditor creates a new scheduled amount auditor
func NewAmountAuditor(repo invoice.Repository, schedule string) *AmountAuditor {
	if schedule == "" {
		schedule = DefaultAuditSchedule
	}

	return &AmountAuditor{
		repo:       repo,
		cron:       cron.New(),
		schedule:   schedule,
		windowDays: defaultAuditWindowDays,
	}
}

// Start registra el job y arranca el scheduler
func (a *AmountAuditor) Start() error {
	_, err := a.cron.AddFunc(a.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := a.RunOnce(ctx); err != nil {
			logx.Error("Error running invoice amount audit: %v", err)
		}
	})
	if err != nil {
		return err
	}

	a.cron.Start()
	logx.Info("Invoice amount auditor started with schedule %q", a.schedule)
	return nil
}

// Stop detiene el scheduler y espera los jobs en curso
func (a *AmountAuditor) Stop() {
	ctx := a.cron.Stop()
	<-ctx.Done()
}

// RunOnce audita las facturas dentro de la ventana y reporta inconsistencias.
// También se puede invocar de forma manual.
func (a *AmountAuditor) RunOnce(ctx context.Context) error {
	from := time.Now().UTC().AddDate(0, 0, -a.windowDays)

	invoices, err := a.repo.List(ctx, invoice.ListFilter{DateFrom: &from})
	if err != nil {
		return err
	}

	var inconsistent int
	for _, inv := range invoices {
		if inv.AmountsConsistent() {
			continue
		}

		inconsistent++
		logx.Warn("Audit: invoice %s (%s) amounts inconsistent: subtotal %.2f + tax %.2f != total %.2f",
			inv.InvoiceNumber, inv.VendorName, inv.Subtotal(), inv.TaxAmount, inv.TotalAmount)
	}

	logx.Info("Invoice amount audit completed: %d audited, %d inconsistent (window %d days)",
		len(invoices), inconsistent, a.windowDays)

	return nil
}
