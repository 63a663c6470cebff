package invoicesrv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/facturamelo/invoice"
)

type filterRecordingRepo struct {
	fakeRepo
	lastFilter invoice.ListFilter
}

func (r *filterRecordingRepo) List(ctx context.Context, filter invoice.ListFilter) ([]invoice.Invoice, error) {
	r.lastFilter = filter
	return r.fakeRepo.List(ctx, filter)
}

func TestAuditorRunOnce(t *testing.T) {
	repo := &filterRecordingRepo{}
	repo.saved = []invoice.Invoice{
		*extractedInvoice(), // montos consistentes
		{
			InvoiceNumber: "F001-00999",
			Date:          time.Now().UTC(),
			VendorName:    "Otro Vendedor",
			TotalAmount:   500.00, // no cuadra: sin items ni impuesto
			Currency:      "USD",
		},
	}

	auditor := NewAmountAuditor(repo, "")

	err := auditor.RunOnce(context.Background())
	require.NoError(t, err)

	// La corrida consulta solo la ventana reciente
	require.NotNil(t, repo.lastFilter.DateFrom)
	assert.True(t, repo.lastFilter.DateFrom.Before(time.Now()))
	assert.Nil(t, repo.lastFilter.DateTo)
	assert.Empty(t, repo.lastFilter.VendorName)
}

func TestAuditorDefaultSchedule(t *testing.T) {
	auditor := NewAmountAuditor(&fakeRepo{}, "")
	assert.Equal(t, DefaultAuditSchedule, auditor.schedule)

	custom := NewAmountAuditor(&fakeRepo{}, "30 2 * * *")
	assert.Equal(t, "30 2 * * *", custom.schedule)
}

func TestAuditorStartStop(t *testing.T) {
	auditor := NewAmountAuditor(&fakeRepo{}, DefaultAuditSchedule)

	require.NoError(t, auditor.Start())
	auditor.Stop()
}

func TestAuditorRejectsBadSchedule(t *testing.T) {
	auditor := NewAmountAuditor(&fakeRepo{}, "not a cron expr")
	assert.Error(t, auditor.Start())
}
